// Package jq255s holds the jq255s curve's fixed constants: field modulus,
// group order, and generator. Unlike jq255e, jq255s has no efficient
// endomorphism, so it gets only the plain constant-time and fixed-base
// multiplication paths from internal/curve.
package jq255s

import (
	"jq255.dev/jq255/internal/curve"
	"jq255.dev/jq255/internal/gf255"
	"jq255.dev/jq255/internal/scalar254"
)

// MQ is jq255s's field constant: the field modulus is q = 2^255 - MQ.
const MQ = 3957

var (
	GF     = gf255.NewParams(MQ)
	Scalar = scalar254.JQ255S
	Curve  = &curve.Params{GF: GF, IsE: false}

	// Generator is the conventional base point, taken verbatim from
	// original_source/jq255.c's point_base constant for JQ255S: E is the
	// field value below, Z=1, U=3, T=9.
	Generator Point

	// FixedBase holds the four precomputed 65-bit-spaced windows over
	// Generator, built once at init for MulFixed.
	FixedBase *curve.FixedBaseTable
)

// Point is an alias so callers outside this package don't need to import
// internal/curve directly for jq255s-specific code.
type Point = curve.Point

func init() {
	var e gf255.Elem
	// Little-endian 32-bit words 0xA2789410, 0x104220CD, 0x348CC437,
	// 0x6D7386B2, 0x4612D10E, 0x55E452A6, 0xA747ADAC, 0x0F520B1B, packed
	// into 64-bit limbs exactly as original_source/jq255.c's LGF macro
	// does for its uint64-limb build.
	var buf [32]byte
	putU32LE(buf[0:4], 0xA2789410)
	putU32LE(buf[4:8], 0x104220CD)
	putU32LE(buf[8:12], 0x348CC437)
	putU32LE(buf[12:16], 0x6D7386B2)
	putU32LE(buf[16:20], 0x4612D10E)
	putU32LE(buf[20:24], 0x55E452A6)
	putU32LE(buf[24:28], 0xA747ADAC)
	putU32LE(buf[28:32], 0x0F520B1B)
	GF.Decode(&e, buf[:])

	var u, t gf255.Elem
	GF.SetUint64(&u, 3)
	GF.SetUint64(&t, 9)

	Generator = Point{
		E: e,
		Z: GF.One(),
		U: u,
		T: t,
	}

	FixedBase = Curve.NewFixedBaseTable(&Generator)
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
