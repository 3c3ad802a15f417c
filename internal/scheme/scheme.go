// Package scheme implements the key-generation, signature, and ECDH schemes
// shared by jq255e and jq255s (spec.md 4.6), parametrized over one curve's
// field/scalar/group layer by an Engine value. The public jq255e and jq255s
// packages are thin, curve-named wrappers around this engine, the way the
// teacher's schnorr.go/ecdh.go sit on top of its single secp256k1 Scalar and
// GroupElementAffine/Jacobian types — except here the same scheme logic
// serves two distinct curves, so the curve-specific pieces are passed in
// rather than hardcoded.
package scheme

import (
	"encoding/binary"

	"jq255.dev/jq255/internal/blake2s"
	"jq255.dev/jq255/internal/curve"
	"jq255.dev/jq255/internal/gf255"
	"jq255.dev/jq255/internal/scalar254"
	"jq255.dev/jq255/internal/zeroize"
)

// modeByte selects the signing/verification transcript shape: 0x52 ("R",
// raw message, no hash_name) when hash_name is empty, 0x48 ("H", hashed
// message under a named function) otherwise. Named per spec.md 4.6.
const (
	modeRaw    byte = 0x52
	modeHashed byte = 0x48
)

// Engine bundles one curve's field, scalar, group, and fixed-base layers.
// Both jq255e and jq255s plug their Curve.Mul straight into the ECDH path
// here; jq255e's GLV endomorphism split (internal/jq255e.SplitEndo) is an
// independent optimization hook scalar multiplication callers may use
// directly, not something this engine dispatches on.
type Engine struct {
	GF        *gf255.Params
	Scalar    *scalar254.Params
	Curve     *curve.Params
	Generator *curve.Point
	FixedBase *curve.FixedBaseTable
}

// GeneratePrivateKey derives a scalar from a seed: BLAKE2s(seed) reduced mod
// r, substituting 1 for the vanishingly unlikely all-zero result (spec.md
// 4.6's key-generation rule).
func (e *Engine) GeneratePrivateKey(seed []byte) scalar254.Elem {
	digest := blake2s.Sum256(seed)
	var s scalar254.Elem
	e.Scalar.DecodeReduce(&s, digest[:])
	if e.Scalar.IsZero(&s) {
		s = e.Scalar.One()
	}
	return s
}

// MakePublic computes Q = s*G via the constant-time fixed-base path.
func (e *Engine) MakePublic(s *scalar254.Elem) curve.Point {
	var Q curve.Point
	e.Curve.MulFixed(&Q, s, e.FixedBase)
	return Q
}

// EncodePoint writes the canonical 32-byte encoding of Q into dst.
func (e *Engine) EncodePoint(dst []byte, Q *curve.Point) {
	e.Curve.Encode(dst, Q)
}

// DecodePoint parses a 32-byte public-key encoding. Returns true on
// success; on failure Q is set to the neutral.
func (e *Engine) DecodePoint(Q *curve.Point, src []byte) bool {
	return e.Curve.Decode(Q, src) == ^uint64(0)
}

func tail(modeByte byte, hashName string, hv []byte) []byte {
	out := make([]byte, 0, 1+len(hashName)+1+len(hv))
	out = append(out, modeByte)
	if modeByte == modeHashed {
		out = append(out, []byte(hashName)...)
		out = append(out, 0x00)
	}
	out = append(out, hv...)
	return out
}

func resolveMode(hashName string) byte {
	if hashName == "" {
		return modeRaw
	}
	return modeHashed
}

// Sign computes a 48-byte signature (16-byte challenge || 32-byte scalar)
// over hv (either the raw message when hashName is empty, or a caller-
// supplied digest tagged with hashName), per spec.md 4.6. seed is an
// optional extra nonce-derivation input (nil/empty for plain determinism).
func (e *Engine) Sign(s *scalar254.Elem, Qe []byte, seed []byte, hashName string, hv []byte) [48]byte {
	modeByte := resolveMode(hashName)
	t := tail(modeByte, hashName, hv)

	var sEnc [32]byte
	e.Scalar.Encode(sEnc[:], s)

	var seedLen [8]byte
	binary.LittleEndian.PutUint64(seedLen[:], uint64(len(seed)))

	nonceInput := make([]byte, 0, 32+len(Qe)+8+len(seed)+len(t))
	nonceInput = append(nonceInput, sEnc[:]...)
	nonceInput = append(nonceInput, Qe...)
	nonceInput = append(nonceInput, seedLen[:]...)
	nonceInput = append(nonceInput, seed...)
	nonceInput = append(nonceInput, t...)

	nonceDigest := blake2s.Sum256(nonceInput)
	var k scalar254.Elem
	e.Scalar.DecodeReduce(&k, nonceDigest[:])

	var R curve.Point
	e.Curve.MulFixed(&R, &k, e.FixedBase)

	var Renc [32]byte
	e.Curve.Encode(Renc[:], &R)

	challengeInput := make([]byte, 0, 32+len(Qe)+len(t))
	challengeInput = append(challengeInput, Renc[:]...)
	challengeInput = append(challengeInput, Qe...)
	challengeInput = append(challengeInput, t...)
	challengeDigest := blake2s.Sum256(challengeInput)

	var c [16]byte
	copy(c[:], challengeDigest[:16])

	var cScalar scalar254.Elem
	e.Scalar.DecodeReduce(&cScalar, c[:])

	var sc, S scalar254.Elem
	e.Scalar.Mul(&sc, s, &cScalar)
	e.Scalar.Add(&S, &k, &sc)

	var sig [48]byte
	copy(sig[:16], c[:])
	var sEncS [32]byte
	e.Scalar.Encode(sEncS[:], &S)
	copy(sig[16:], sEncS[:])

	zeroize.Bytes(sEnc[:])
	zeroize.Bytes(nonceDigest[:])
	e.Scalar.Clear(&k)
	e.Scalar.Clear(&sc)

	return sig
}

// Verify checks a 48-byte signature against public key Q (and its retained
// encoding Qe), returning false on any malformed input or challenge
// mismatch. Runs in variable time, as spec.md 4.6/5 call out for this
// operation only.
func (e *Engine) Verify(sig []byte, Q *curve.Point, Qe []byte, hashName string, hv []byte) bool {
	if len(sig) != 48 {
		return false
	}
	if e.Curve.IsNeutral(Q) == ^uint64(0) {
		return false
	}

	var c [16]byte
	copy(c[:], sig[:16])
	var S scalar254.Elem
	if !e.Scalar.Decode(&S, sig[16:48]) {
		return false
	}

	var cScalar scalar254.Elem
	e.Scalar.DecodeReduce(&cScalar, c[:])
	var cNeg scalar254.Elem
	e.Scalar.Negate(&cNeg, &cScalar)

	Rp := e.Curve.VarTimeMulAdd(&cNeg, Q, &S, e.FixedBase)

	var Renc [32]byte
	e.Curve.Encode(Renc[:], &Rp)

	modeByte := resolveMode(hashName)
	t := tail(modeByte, hashName, hv)
	challengeInput := make([]byte, 0, 32+len(Qe)+len(t))
	challengeInput = append(challengeInput, Renc[:]...)
	challengeInput = append(challengeInput, Qe...)
	challengeInput = append(challengeInput, t...)
	cpDigest := blake2s.Sum256(challengeInput)

	for i := 0; i < 16; i++ {
		if c[i] != cpDigest[i] {
			return false
		}
	}
	return true
}

// ECDH computes the shared secret between local scalar s (with retained
// encoding Qe) and peer point Qp (with retained encoding Qpe and validity
// flag peerValid). On an invalid peer key, the output is still a
// deterministic, unguessable function of s rather than a visible failure,
// selected via constant-time byte masking per spec.md 4.6/7. Returns the
// 32-byte shared secret and whether the peer key was valid.
func (e *Engine) ECDH(s *scalar254.Elem, Qp *curve.Point, peerValid bool, Qe, Qpe []byte) ([32]byte, bool) {
	badMask := uint64(0)
	if !peerValid {
		badMask = ^uint64(0)
	}

	var P curve.Point
	e.Curve.Mul(&P, s, Qp)

	var shared [32]byte
	e.Curve.Encode(shared[:], &P)

	var sEnc [32]byte
	e.Scalar.Encode(sEnc[:], s)
	for i := range shared {
		shared[i] ^= byte(badMask) & (shared[i] ^ sEnc[i])
	}

	var lower, higher []byte
	if lexLess(Qe, Qpe) {
		lower, higher = Qe, Qpe
	} else {
		lower, higher = Qpe, Qe
	}

	label := byte(0x53) ^ (byte(badMask) & (0x53 ^ 0x46))

	input := make([]byte, 0, 64+1+32)
	input = append(input, lower...)
	input = append(input, higher...)
	input = append(input, label)
	input = append(input, shared[:]...)

	out := blake2s.Sum256(input)

	zeroize.Bytes(sEnc[:])
	zeroize.Bytes(shared[:])

	return out, peerValid
}

// lexLess reports whether a precedes b in plain byte-string order (the
// "byte-wise" ordering spec.md 4.6 calls for when pairing the two public
// keys into an ECDH transcript) — the same sense as bytes.Compare, not an
// integer comparison of the little-endian-encoded field element.
func lexLess(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
