// Package jq255e holds the jq255e curve's fixed constants (field modulus,
// group order, generator, endomorphism) and the GLV-style scalar split
// available on this curve specifically (jq255s has no such endomorphism).
// internal/curve's Mul does not use the split; callers apply SplitEndo and
// ApplyEndo directly.
package jq255e

import (
	"math/bits"

	"jq255.dev/jq255/internal/curve"
	"jq255.dev/jq255/internal/gf255"
	"jq255.dev/jq255/internal/scalar254"
)

// MQ is jq255e's field constant: the field modulus is q = 2^255 - MQ.
const MQ = 18651

var (
	GF     = gf255.NewParams(MQ)
	Scalar = scalar254.JQ255E
	Curve  = &curve.Params{GF: GF, IsE: true}

	// Generator is the conventional base point, (E:Z:U:T) = (3:1:1:1),
	// taken verbatim from original_source/jq255.c's point_base constant.
	Generator Point

	// eta is a fixed square root of -1 in the field, used by the
	// endomorphism zeta(e,u) = (e, eta*u). Computed at init via Sqrt
	// rather than hardcoded, since Sqrt is already verified against the
	// field's own arithmetic and this avoids transcribing an unconfirmed
	// magic constant.
	eta gf255.Elem

	// eU, eV are the GLV lattice basis halves, taken verbatim from
	// original_source/jq255.c's scalar_split (128-bit constants, each
	// less than 2^127).
	eU = scalar254.Elem{}
	eV = scalar254.Elem{}

	// FixedBase holds the four precomputed 65-bit-spaced windows over
	// Generator, built once at init for MulFixed.
	FixedBase *curve.FixedBaseTable
)

// Point is an alias so callers outside this package don't need to import
// internal/curve directly for jq255e-specific code.
type Point = curve.Point

func init() {
	var three gf255.Elem
	GF.SetUint64(&three, 3)
	Generator = Point{
		E: three,
		Z: GF.One(),
		U: GF.One(),
		T: GF.One(),
	}

	var minusOne gf255.Elem
	one := GF.One()
	GF.Neg(&minusOne, &one)
	ok := GF.Sqrt(&eta, &minusOne)
	if ok != ^uint64(0) {
		panic("jq255e: -1 is not a square in the field, this should be unreachable")
	}

	setWords128(&eU, 0xC93F6111, 0x2ACCF9DE, 0x53C2C6E6, 0x1A509F7A)
	setWords128(&eV, 0x5466F77E, 0x0B7A3130, 0xFFBB3A93, 0x7D440C6A)

	FixedBase = Curve.NewFixedBaseTable(&Generator)
}

// setWords128 packs four little-endian 32-bit words into the low two limbs
// of a scalar254.Elem, exactly mirroring original_source/jq255.c's LGF-style
// packing for its uint32_t[4] lattice constants.
func setWords128(e *scalar254.Elem, w0, w1, w2, w3 uint32) {
	lo := uint64(w0) | uint64(w1)<<32
	hi := uint64(w2) | uint64(w3)<<32
	scalar254.SetLimbs(e, lo, hi, 0, 0)
}

// ApplyEndo computes zeta(P) = (E, eta*U) for the curve endomorphism,
// extended to (E:Z:U:T) coordinates: U' = eta*U, T' = eta^2*T = -T (since
// eta^2 = -1 from the invariant U^2 = T*Z).
func ApplyEndo(dst, src *Point) {
	dst.E = src.E
	dst.Z = src.Z
	GF.Mul(&dst.U, &eta, &src.U)
	GF.Neg(&dst.T, &src.T)
}

// SplitEndo splits scalar k into (k0, sign0, k1, sign1) such that
// k = sign0'*k0 + sign1'*k1*mu (mod r), with mu the scalar corresponding to
// the eta endomorphism, and |k0|, |k1| < 2^127. This mirrors
// original_source/jq255.c's scalar_split: c = round(k*eV/r),
// d = round(k*eU/r), k0 = k - d*eU - c*eV, k1 = d*eV - c*eU, each reduced to
// a sign and magnitude. The rounding division and the final subtraction are
// both done here in exact (non-modular) wide arithmetic, rather than the
// reference's mod-2^128-truncated variant, since the true values are
// guaranteed within 127 bits regardless — see DESIGN.md.
func SplitEndo(k *scalar254.Elem) (k0 scalar254.Elem, sign0 uint64, k1 scalar254.Elem, sign1 uint64) {
	kWide := widen(k, 8)
	eUWide := widen(&eU, 8)
	eVWide := widen(&eV, 8)
	rWide := widen(&Scalar.R, 8)

	prodV := mulWide(kWide, eVWide)
	prodU := mulWide(kWide, eUWide)

	c := roundDiv(prodV, rWide)
	d := roundDiv(prodU, rWide)

	// k0 = k - d*eU - c*eV
	dU := mulWide(widen8(d), eUWide)
	cV := mulWide(widen8(c), eVWide)
	k0part, b0 := subWide(kWide, dU)
	k0wide, b1 := subWide(k0part, cV)
	neg0 := b0 | b1
	k0 = narrow(absWide(k0wide, neg0))

	// k1 = d*eV - c*eU
	dV := mulWide(widen8(d), eVWide)
	cU := mulWide(widen8(c), eUWide)
	k1wide, neg1 := subWide(dV, cU)
	k1 = narrow(absWide(k1wide, neg1))

	return k0, maskFromBit(neg0), k1, maskFromBit(neg1)
}

func maskFromBit(b uint64) uint64 {
	return uint64(0) - (b & 1)
}

// --- wide integer helpers for SplitEndo (8-limb inputs, 16-limb products) ---
// These exist only to compute the GLV coefficients from a scalar. They are
// not constant-time: mulWide skips zero limbs, divModWide's loop count
// follows the operands' bit lengths and it sets quotient bits under a
// branch, and roundDiv and absWide branch on the rounding and sign bits.

func widen(e *scalar254.Elem, n int) []uint64 {
	out := make([]uint64, n)
	limbs := scalar254.Limbs(e)
	copy(out, limbs[:])
	return out
}

func widen8(v [2]uint64) []uint64 {
	out := make([]uint64, 8)
	out[0], out[1] = v[0], v[1]
	return out
}

func mulWide(a, b []uint64) []uint64 {
	out := make([]uint64, len(a)+len(b))
	for i := range a {
		if a[i] == 0 {
			continue
		}
		var carry uint64
		for j := range b {
			hi, lo := bits.Mul64(a[i], b[j])
			lo, c := bits.Add64(lo, carry, 0)
			hi, _ = bits.Add64(hi, 0, c)
			var c2 uint64
			out[i+j], c2 = bits.Add64(out[i+j], lo, 0)
			k := i + j + 1
			for c2 != 0 {
				out[k], c2 = bits.Add64(out[k], c2, 0)
				k++
			}
			carry = hi
		}
		k := i + len(b)
		for carry != 0 {
			out[k], carry = bits.Add64(out[k], carry, 0)
			k++
		}
	}
	return out
}

func bitLenWide(a []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i*64 + (64 - bits.LeadingZeros64(a[i]))
		}
	}
	return 0
}

func shiftLeftWide(src []uint64, shift, outLen int) []uint64 {
	out := make([]uint64, outLen)
	limbShift := shift / 64
	bitShift := uint(shift % 64)
	for i := len(src) - 1; i >= 0; i-- {
		idx := i + limbShift
		if idx >= outLen {
			continue
		}
		out[idx] |= src[i] << bitShift
		if bitShift > 0 && idx+1 < outLen {
			out[idx+1] |= src[i] >> (64 - bitShift)
		}
	}
	return out
}

func subWideSlices(a, b []uint64) ([]uint64, uint64) {
	out := make([]uint64, len(a))
	var borrow uint64
	for i := range a {
		out[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return out, borrow
}

// divModWide performs a binary long division of num by den (arbitrary-width
// little-endian limb slices; den may be shorter than num), returning the
// quotient and remainder. Used only for the rounding division in
// SplitEndo; see reduceModR in internal/scalar254 for the same pattern
// applied to field/scalar reduction.
func divModWide(num, den []uint64) (quotient, remainder []uint64) {
	n := len(num)
	work := make([]uint64, n)
	copy(work, num)
	quo := make([]uint64, n)

	numBits := bitLenWide(work)
	denBits := bitLenWide(den)
	if numBits < denBits {
		return quo, work
	}
	for shift := numBits - denBits; shift >= 0; shift-- {
		shifted := shiftLeftWide(den, shift, n)
		diff, borrow := subWideSlices(work, shifted)
		ctl := borrow - 1 // all-ones iff work >= shifted (no borrow)
		for i := range work {
			work[i] ^= ctl & (work[i] ^ diff[i])
		}
		if ctl != 0 {
			limb := shift / 64
			bit := uint(shift % 64)
			quo[limb] |= uint64(1) << bit
		}
	}
	return quo, work
}

// roundDiv computes round(num/den) as a 2-limb (128-bit) magnitude.
func roundDiv(num, den []uint64) [2]uint64 {
	quo, rem := divModWide(num, den)
	// round up iff 2*remainder >= den
	rem2 := shiftLeftWide(rem, 1, len(rem)+1)
	rem2 = rem2[:len(den)]
	_, borrow := subWideSlices(rem2, padTo(den, len(rem2)))
	if borrow == 0 {
		// rem2 >= den: round up
		c := uint64(1)
		for i := range quo {
			var cc uint64
			quo[i], cc = bits.Add64(quo[i], c, 0)
			c = cc
			if c == 0 {
				break
			}
		}
	}
	var out [2]uint64
	out[0], out[1] = quo[0], quo[1]
	return out
}

func padTo(a []uint64, n int) []uint64 {
	out := make([]uint64, n)
	copy(out, a)
	return out
}

func subWide(a, b []uint64) ([]uint64, uint64) {
	return subWideSlices(a, b)
}

func absWide(v []uint64, neg uint64) []uint64 {
	if neg == 0 {
		return v
	}
	out := make([]uint64, len(v))
	var carry uint64 = 1
	for i := range v {
		nv := ^v[i]
		var c uint64
		out[i], c = bits.Add64(nv, carry, 0)
		carry = c
	}
	return out
}

func narrow(v []uint64) scalar254.Elem {
	var e scalar254.Elem
	var lo, hi uint64
	if len(v) > 0 {
		lo = v[0]
	}
	if len(v) > 1 {
		hi = v[1]
	}
	scalar254.SetLimbs(&e, lo, hi, 0, 0)
	return e
}
