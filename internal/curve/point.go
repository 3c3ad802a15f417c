// Package curve implements the jq255 group layer: points in extended
// (E:Z:U:T) coordinates, the complete addition/doubling formulas, and the
// windowed lookup primitive scalar multiplication builds on. A single
// Params value selects between the jq255e and jq255s formula variants
// (their addition/doubling combination step differs in shape, not just in
// a constant, so the two are selected by a curve-identity flag fixed at
// program start rather than threaded through as data — never branched on
// secret scalar/point values).
package curve

import "jq255.dev/jq255/internal/gf255"

// Point is a group element in extended (E:Z:U:T) coordinates.
type Point struct {
	E, Z, U, T gf255.Elem
}

// PointAffine is a point with Z implicitly 1 (extended affine).
type PointAffine struct {
	E, U, T gf255.Elem
}

// Params carries the field and the curve identity needed by the point
// formulas. IsE selects the jq255e combination step (a,b)=(0,-2); the
// jq255s step (a,b)=(-1,1/2) is used otherwise.
type Params struct {
	GF  *gf255.Params
	IsE bool
}

// Neutral returns the group identity, (1:1:0:0).
func (p *Params) Neutral() Point {
	return Point{E: p.GF.One(), Z: p.GF.One()}
}

// NeutralAffine returns the affine identity, (1:0:0).
func (p *Params) NeutralAffine() PointAffine {
	return PointAffine{E: p.GF.One()}
}

// IsNeutral reports whether pt is the group identity (U == 0).
func (p *Params) IsNeutral(pt *Point) uint64 {
	return p.GF.IsZero(&pt.U)
}

// ToAffine converts pt to extended affine form (E:U:T) by inverting Z once.
func (p *Params) ToAffine(dst *PointAffine, pt *Point) {
	gf := p.GF
	var izE gf255.Elem
	gf.Inv(&izE, &pt.Z)
	gf.Mul(&dst.E, &pt.E, &izE)
	gf.Mul(&dst.U, &pt.U, &izE)
	gf.Mul(&dst.T, &pt.T, &izE)
}

// FromAffine lifts an affine point into extended (Z=1) form.
func (p *Params) FromAffine(dst *Point, a *PointAffine) {
	dst.E = a.E
	dst.Z = p.GF.One()
	dst.U = a.U
	dst.T = a.T
}

// Negate computes r = -p (negate U only).
func (p *Params) Negate(r, pt *Point) {
	r.E, r.Z, r.T = pt.E, pt.Z, pt.T
	p.GF.Neg(&r.U, &pt.U)
}

// NegateAffine computes r = -p for an affine point.
func (p *Params) NegateAffine(r, a *PointAffine) {
	r.E, r.T = a.E, a.T
	p.GF.Neg(&r.U, &a.U)
}

// Encode writes the canonical 32-byte encoding of pt.
func (p *Params) Encode(dst []byte, pt *Point) {
	gf := p.GF
	var a PointAffine
	p.ToAffine(&a, pt)
	neg := gf.IsNegative(&a.E)
	var u gf255.Elem
	gf.CondNeg(&u, &a.U, neg)
	gf.Encode(dst, &u)
}

// Decode parses a 32-byte encoding. Returns all-ones and the point (in
// affine extended form) on success; returns all-zeros and the neutral on
// failure (non-square ee, or invalid field encoding).
func (p *Params) Decode(pt *Point, src []byte) uint64 {
	gf := p.GF
	var u gf255.Elem
	ok := gf.Decode(&u, src)

	var uu, u4, ee gf255.Elem
	gf.Square(&uu, &u)
	gf.Square(&u4, &uu)
	if p.IsE {
		// jq255e: ee = 8*u^4 + 1
		gf.Lsh(&ee, &u4, 3)
	} else {
		// jq255s: ee = 2*u^2 - u^4 + 1
		gf.Sub(&ee, &uu, &u4)
		gf.Add(&ee, &ee, &uu)
	}
	one := gf.One()
	gf.Add(&ee, &ee, &one)

	var e gf255.Elem
	sqrtOK := gf.Sqrt(&e, &ee)
	ok &= sqrtOK

	var zero gf255.Elem
	gf.Select(&pt.E, &one, &e, ok)
	pt.Z = gf.One()
	gf.Select(&pt.U, &zero, &u, ok)
	gf.Select(&pt.T, &zero, &uu, ok)
	return ok
}

// combine computes the symmetric combinations shared by Add and AddAffine,
// given the four cross products and z1z2 (the caller passes z1z2 = Z1 for
// the mixed/affine variant, since Z2 == 1 there).
func (p *Params) combine(r *Point, e1e2, u1u2, z1z2, t1t2, eu, zt gf255.Elem) {
	gf := p.GF
	var hd, E3 gf255.Elem
	if p.IsE {
		var g1, g2, eight gf255.Elem
		gf.Lsh(&eight, &t1t2, 3)
		gf.Sub(&hd, &z1z2, &eight)
		gf.Add(&g1, &z1z2, &eight)
		gf.Mul(&g1, &g1, &e1e2)
		gf.Lsh(&g2, &u1u2, 4)
		gf.Mul(&g2, &g2, &zt)
		gf.Add(&E3, &g1, &g2)
	} else {
		var g1, g2, g3 gf255.Elem
		gf.Add(&hd, &z1z2, &t1t2)
		gf.Sub(&g1, &z1z2, &t1t2)
		gf.Mul2(&g2, &u1u2)
		gf.Add(&g3, &e1e2, &g2)
		gf.Mul(&g1, &g3, &g1)
		gf.Mul(&g2, &g2, &zt)
		gf.Sub(&E3, &g1, &g2)
	}

	var z3, t3 gf255.Elem
	gf.Square(&z3, &hd)
	gf.Square(&t3, &eu)

	var g1, g2, u3 gf255.Elem
	gf.Add(&g1, &hd, &eu)
	gf.Square(&g1, &g1)
	gf.Add(&g2, &z3, &t3)
	gf.Sub(&g1, &g1, &g2)
	gf.Half(&u3, &g1)

	r.E, r.Z, r.U, r.T = E3, z3, u3, t3
}

// Add computes r = p1 + p2 using the complete jq255 addition formula.
func (p *Params) Add(r, p1, p2 *Point) {
	gf := p.GF
	var e1e2, u1u2, z1z2, t1t2, eu, zt, g1, g2, g3 gf255.Elem
	gf.Mul(&e1e2, &p1.E, &p2.E)
	gf.Mul(&u1u2, &p1.U, &p2.U)
	gf.Mul(&z1z2, &p1.Z, &p2.Z)
	gf.Mul(&t1t2, &p1.T, &p2.T)

	gf.Add(&g1, &p1.E, &p1.U)
	gf.Add(&g2, &p2.E, &p2.U)
	gf.Mul(&eu, &g1, &g2)
	gf.Add(&g3, &e1e2, &u1u2)
	gf.Sub(&eu, &eu, &g3)

	gf.Add(&g1, &p1.Z, &p1.T)
	gf.Add(&g2, &p2.Z, &p2.T)
	gf.Mul(&zt, &g1, &g2)
	gf.Add(&g3, &z1z2, &t1t2)
	gf.Sub(&zt, &zt, &g3)

	p.combine(r, e1e2, u1u2, z1z2, t1t2, eu, zt)
}

// AddAffine computes r = p1 + p2 where p2 is extended affine (Z2 == 1).
func (p *Params) AddAffine(r *Point, p1 *Point, p2 *PointAffine) {
	gf := p.GF
	var e1e2, u1u2, t1t2, eu, zt, g1, g2, g3 gf255.Elem
	gf.Mul(&e1e2, &p1.E, &p2.E)
	gf.Mul(&u1u2, &p1.U, &p2.U)
	gf.Mul(&t1t2, &p1.T, &p2.T)

	gf.Add(&g1, &p1.E, &p1.U)
	gf.Add(&g2, &p2.E, &p2.U)
	gf.Mul(&eu, &g1, &g2)
	gf.Add(&g3, &e1e2, &u1u2)
	gf.Sub(&eu, &eu, &g3)

	gf.Mul(&g1, &p1.Z, &p2.T)
	gf.Add(&zt, &g1, &p1.T)

	p.combine(r, e1e2, u1u2, p1.Z, t1t2, eu, zt)
}

// Sub computes r = p1 - p2.
func (p *Params) Sub(r, p1, p2 *Point) {
	var neg Point
	p.Negate(&neg, p2)
	p.Add(r, p1, &neg)
}

// SubAffine computes r = p1 - p2 where p2 is extended affine.
func (p *Params) SubAffine(r *Point, p1 *Point, p2 *PointAffine) {
	var neg PointAffine
	p.NegateAffine(&neg, p2)
	p.AddAffine(r, p1, &neg)
}

// XDouble computes r = 2^n * pt.
func (p *Params) XDouble(r *Point, pt *Point, n uint) {
	if n == 0 {
		*r = *pt
		return
	}
	gf := p.GF

	var x, w, j gf255.Elem
	if p.IsE {
		var eSq, zSq gf255.Elem
		gf.Square(&eSq, &pt.E)
		gf.Mul(&j, &pt.E, &pt.U)
		gf.Mul2(&j, &j)
		gf.Square(&x, &eSq)
		gf.Square(&zSq, &pt.Z)
		gf.Mul2(&zSq, &zSq)
		gf.Sub(&w, &zSq, &eSq)
	} else {
		// First doubling, P (ezut) -> 2*P+N (xwj), per the jq255s branch of
		// the reference's point_xdouble: uu=U^2, X=8*uu^2, W=2*uu-(T+Z)^2,
		// J=2*E*U. uu is computed from U directly, not from T (uu=T only
		// when Z=1); this is the general-point form, valid for any Z.
		var uu, sumTZ gf255.Elem
		gf.Square(&uu, &pt.U)
		gf.Square(&x, &uu)
		gf.Lsh(&x, &x, 3)
		gf.Add(&sumTZ, &pt.T, &pt.Z)
		gf.Square(&sumTZ, &sumTZ)
		var twoUU gf255.Elem
		gf.Mul2(&twoUU, &uu)
		gf.Sub(&w, &twoUU, &sumTZ)
		gf.Mul(&j, &pt.E, &pt.U)
		gf.Mul2(&j, &j)
	}

	for i := uint(1); i < n; i++ {
		if p.IsE {
			var ww, t1, t2, jp, ww2, wp, xp gf255.Elem
			gf.Square(&ww, &w)
			var twoX gf255.Elem
			gf.Mul2(&twoX, &x)
			gf.Sub(&t1, &ww, &twoX)
			gf.Square(&t2, &t1)
			gf.Mul(&jp, &w, &t1)
			gf.Mul(&jp, &jp, &j)
			gf.Mul2(&jp, &jp)
			gf.Square(&ww2, &ww)
			var twoWW2 gf255.Elem
			gf.Mul2(&twoWW2, &ww2)
			gf.Sub(&wp, &t2, &twoWW2)
			gf.Square(&xp, &t2)
			x, w, j = xp, wp, jp
		} else {
			var t1, t2, x2, t3, wp, jp gf255.Elem
			gf.Mul(&t1, &w, &j)
			gf.Square(&t2, &t1)
			gf.Square(&x2, &t2)
			gf.Mul2(&x2, &x2)
			var sumWJ gf255.Elem
			gf.Add(&sumWJ, &w, &j)
			gf.Square(&sumWJ, &sumWJ)
			var twoT1 gf255.Elem
			gf.Mul2(&twoT1, &t1)
			gf.Sub(&t3, &sumWJ, &twoT1)
			var t3sq, halfT3sq gf255.Elem
			gf.Square(&t3sq, &t3)
			gf.Half(&halfT3sq, &t3sq)
			gf.Sub(&wp, &t2, &halfT3sq)
			var twoXminusT3 gf255.Elem
			gf.Mul2(&twoXminusT3, &x)
			gf.Sub(&twoXminusT3, &twoXminusT3, &t3)
			gf.Mul(&jp, &t1, &twoXminusT3)
			x, w, j = x2, wp, jp
		}
	}

	var z3, t3, u3, e3 gf255.Elem
	gf.Square(&z3, &w)
	gf.Square(&t3, &j)
	gf.Mul(&u3, &w, &j)
	var twoX gf255.Elem
	gf.Mul2(&twoX, &x)
	if p.IsE {
		gf.Sub(&e3, &twoX, &z3)
	} else {
		gf.Sub(&e3, &twoX, &z3)
		gf.Sub(&e3, &e3, &t3)
	}
	r.E, r.Z, r.U, r.T = e3, z3, u3, t3
}

// Select performs a constant-time choice r = ctl ? p1 : p0.
func (p *Params) Select(r *Point, p0, p1 *Point, ctl uint64) {
	gf := p.GF
	gf.Select(&r.E, &p0.E, &p1.E, ctl)
	gf.Select(&r.Z, &p0.Z, &p1.Z, ctl)
	gf.Select(&r.U, &p0.U, &p1.U, ctl)
	gf.Select(&r.T, &p0.T, &p1.T, ctl)
}

// SelectAffine performs a constant-time choice among extended affine points.
func (p *Params) SelectAffine(r *PointAffine, a0, a1 *PointAffine, ctl uint64) {
	gf := p.GF
	gf.Select(&r.E, &a0.E, &a1.E, ctl)
	gf.Select(&r.U, &a0.U, &a1.U, ctl)
	gf.Select(&r.T, &a0.T, &a1.T, ctl)
}

// Lookup scans the full 16-entry window win = {1*P, 2*P, ..., 16*P} and
// returns k*P for signed k in [-16, +16], in constant time: every entry is
// compared, k=0 yields the neutral, and the sign of k conditionally
// negates U of the selected entry.
func (p *Params) Lookup(win []PointAffine, k int8) PointAffine {
	sign := uint64(0)
	if k < 0 {
		sign = ^uint64(0)
		k = -k
	}
	result := p.NeutralAffine()
	for i := 0; i < 16; i++ {
		idx := int8(i + 1)
		eq := ^uint64(0) * boolMask(idx == k)
		p.SelectAffine(&result, &result, &win[i], eq)
	}
	var neg PointAffine
	p.NegateAffine(&neg, &result)
	p.SelectAffine(&result, &result, &neg, sign&(^uint64(0)*boolMask(k != 0)))
	return result
}

func boolMask(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Equal compares two points for equality as group elements (both converted
// to affine and their u-coordinates, sign-adjusted by e, compared).
func (p *Params) Equal(a, b *Point) bool {
	var ea [32]byte
	var eb [32]byte
	p.Encode(ea[:], a)
	p.Encode(eb[:], b)
	return ea == eb
}
