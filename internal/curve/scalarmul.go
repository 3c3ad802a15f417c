package curve

import "jq255.dev/jq255/internal/scalar254"

// buildWindow computes the affine points {1*P, 2*P, ..., 16*P} by repeated
// addition, for use with Lookup. P's scalar is not assumed secret here: the
// window entries themselves reveal nothing beyond P, and scalar-dependent
// selection happens later, in Lookup, at constant time.
func (p *Params) buildWindow(P *Point) [16]PointAffine {
	var win [16]PointAffine
	p.ToAffine(&win[0], P)
	acc := *P
	for i := 1; i < 16; i++ {
		p.Add(&acc, &acc, P)
		p.ToAffine(&win[i], &acc)
	}
	return win
}

// Mul computes r = s*P in constant time, using Booth recoding (5-bit signed
// digits) over a window built from P, the way the teacher's ecmult.go walks
// a signed-digit table computed from the input point rather than a
// precomputed generator table (that path is MulFixed, below).
func (p *Params) Mul(r *Point, s *scalar254.Elem, P *Point) {
	win := p.buildWindow(P)
	digits := scalar254.RecodeBooth(s)

	acc := p.Neutral()
	for i := len(digits) - 1; i >= 0; i-- {
		p.XDouble(&acc, &acc, 5)
		t := p.Lookup(win[:], digits[i])
		p.AddAffine(&acc, &acc, &t)
	}
	*r = acc
}

// FixedBaseTable holds four precomputed windows spaced 65 bits apart,
// {2^0*G..2^0*16G, 2^65*G..2^65*16G, 2^130*.., 2^195*..}, built once from a
// generator point by repeated doubling. This replaces the teacher's
// ecmult_gen.go, whose own comments mark its fixed-base path as an
// unoptimized placeholder (see DESIGN.md) — the four-window split follows
// spec.md 4.4 directly: 254 bits split into four 64-ish-bit slices processed
// in lockstep, one 5-bit Booth digit per slice per round.
type FixedBaseTable struct {
	windows [4][16]PointAffine
}

// NewFixedBaseTable builds the windows for generator G.
func (p *Params) NewFixedBaseTable(G *Point) *FixedBaseTable {
	var tbl FixedBaseTable
	base := *G
	for w := 0; w < 4; w++ {
		tbl.windows[w] = p.buildWindow(&base)
		if w < 3 {
			p.XDouble(&base, &base, 65)
		}
	}
	return &tbl
}

// MulFixed computes r = s*G in constant time using the precomputed table.
// Booth-recoded digits are grouped into four interleaved slices (one per
// window) and processed 5 bits at a time per slice, each slice contributing
// via its own window so no per-call doubling of the full accumulator by the
// window spacing is needed beyond the inner 5-bit steps.
func (p *Params) MulFixed(r *Point, s *scalar254.Elem, tbl *FixedBaseTable) {
	digits := scalar254.RecodeBooth(s)
	// digits[0..12] cover bits 0..64 (window 0), digits[13..25] cover bits
	// 65..129 (window 1), and so on; 13 Booth digits of 5 bits span 65 bits.
	const sliceLen = 13

	acc := p.Neutral()
	for round := sliceLen - 1; round >= 0; round-- {
		if round != sliceLen-1 {
			p.XDouble(&acc, &acc, 5)
		}
		for w := 0; w < 4; w++ {
			idx := w*sliceLen + round
			if idx >= len(digits) {
				continue
			}
			t := p.Lookup(tbl.windows[w][:], digits[idx])
			p.AddAffine(&acc, &acc, &t)
		}
	}
	*r = acc
}

// VarTimeMulAdd computes r = u*P + v*G, in variable time (the combination
// exponents and the bits they expose are the public signature/verification
// values, not secrets — ground rule per spec.md 4.4 and the teacher's
// verify.go, which performs its batch check the same way). wNAF-recodes u
// against a window built from P; v is recoded and walked against G's window.
func (p *Params) VarTimeMulAdd(u *scalar254.Elem, P *Point, v *scalar254.Elem, tbl *FixedBaseTable) Point {
	winP := p.buildWindow(P)
	du := scalar254.RecodeWNAF(u)
	dv := scalar254.RecodeWNAF(v)

	acc := p.Neutral()
	for i := 255; i >= 0; i-- {
		if i != 255 {
			p.XDouble(&acc, &acc, 1)
		}
		if du[i] != 0 {
			t := p.lookupVarTime(winP[:], du[i])
			p.AddAffine(&acc, &acc, &t)
		}
		if dv[i] != 0 {
			t := p.lookupVarTime(tbl.windows[0][:], dv[i])
			p.AddAffine(&acc, &acc, &t)
		}
	}
	return acc
}

// lookupVarTime is the non-constant-time counterpart of Lookup, used only
// on public verification exponents.
func (p *Params) lookupVarTime(win []PointAffine, k int8) PointAffine {
	if k == 0 {
		panic("lookupVarTime: k == 0")
	}
	neg := k < 0
	if neg {
		k = -k
	}
	a := win[k-1]
	if neg {
		p.NegateAffine(&a, &a)
	}
	return a
}
