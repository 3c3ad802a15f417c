// Package jq255e is the public API for the jq255e group: key generation,
// Schnorr-style signatures, and ECDH. It is a thin, curve-named wrapper
// around internal/scheme's shared engine, the way the teacher's top-level
// package sits on top of its single secp256k1 Scalar/GroupElement layer —
// here the engine is parametrized so the same scheme code also backs
// jq255s without duplication.
package jq255e

import (
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	icurve "jq255.dev/jq255/internal/curve"
	ijq255e "jq255.dev/jq255/internal/jq255e"
	"jq255.dev/jq255/internal/scalar254"
	"jq255.dev/jq255/internal/scheme"
	"jq255.dev/jq255/internal/zeroize"
)

func newSHA256() hash.Hash { return sha256.New() }

var engine = &scheme.Engine{
	GF:        ijq255e.GF,
	Scalar:    ijq255e.Scalar,
	Curve:     ijq255e.Curve,
	Generator: &ijq255e.Generator,
	FixedBase: ijq255e.FixedBase,
}

// PrivateKey is a jq255e scalar. The zero scalar is the invalid state.
type PrivateKey struct {
	s scalar254.Elem
}

// PublicKey is a jq255e group element, together with the 32-byte encoding
// it was produced or decoded from, so re-encoding is a copy rather than a
// recomputation. The neutral point with valid=false is the invalid state.
type PublicKey struct {
	Q       icurve.Point
	encoded [32]byte
	valid   bool
}

// KeyPair is a private key and its matching public key.
type KeyPair struct {
	Priv PrivateKey
	Pub  PublicKey
}

// GeneratePrivateKey derives a private key from an arbitrary-length seed.
func GeneratePrivateKey(seed []byte) *PrivateKey {
	return &PrivateKey{s: engine.GeneratePrivateKey(seed)}
}

// MakePublic computes the public key matching a private key.
func MakePublic(priv *PrivateKey) *PublicKey {
	Q := engine.MakePublic(&priv.s)
	pub := &PublicKey{Q: Q, valid: true}
	engine.EncodePoint(pub.encoded[:], &Q)
	return pub
}

// GenerateKeyPair creates a fresh random key pair.
func GenerateKeyPair() (*KeyPair, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	priv := GeneratePrivateKey(seed[:])
	pub := MakePublic(priv)
	zeroize.Bytes(seed[:])
	return &KeyPair{Priv: *priv, Pub: *pub}, nil
}

// EncodePrivateKey returns the 32-byte scalar encoding. An invalid
// (zero-scalar) key encodes to 32 zero bytes.
func EncodePrivateKey(priv *PrivateKey) [32]byte {
	var out [32]byte
	engine.Scalar.Encode(out[:], &priv.s)
	return out
}

// DecodePrivateKey strictly parses a 32-byte scalar encoding. The zero
// scalar is rejected (it is the invalid-key sentinel, not a usable key);
// on any failure the returned key holds the zero scalar.
func DecodePrivateKey(src []byte) (*PrivateKey, bool) {
	if len(src) != 32 {
		return &PrivateKey{}, false
	}
	var s scalar254.Elem
	ok := engine.Scalar.Decode(&s, src)
	if ok && engine.Scalar.IsZero(&s) {
		ok = false
	}
	if !ok {
		return &PrivateKey{}, false
	}
	return &PrivateKey{s: s}, true
}

// EncodePublicKey returns the 32-byte encoding. An invalid (neutral)
// public key encodes to 32 zero bytes, not its decode-time input bytes.
func EncodePublicKey(pub *PublicKey) [32]byte {
	if !pub.valid {
		return [32]byte{}
	}
	return pub.encoded
}

// DecodePublicKey parses a 32-byte public-key encoding. On success the
// returned key retains src as its encoding, so EncodePublicKey echoes it
// back exactly. The decode also reports failure (and returns the invalid,
// neutral state) when src is the canonical encoding of the neutral point
// itself: the neutral point IS the invalid-key sentinel (spec.md 3), so its
// encoding can never name a usable key.
func DecodePublicKey(src []byte) (*PublicKey, bool) {
	if len(src) != 32 {
		return &PublicKey{Q: engine.Curve.Neutral()}, false
	}
	var Q icurve.Point
	ok := engine.DecodePoint(&Q, src)
	ok = ok && engine.Curve.IsNeutral(&Q) == 0
	if !ok {
		return &PublicKey{Q: engine.Curve.Neutral()}, false
	}
	pub := &PublicKey{Q: Q, valid: true}
	copy(pub.encoded[:], src)
	return pub, true
}

// EncodeKeyPair returns the 64-byte encoding (private key || public key).
func EncodeKeyPair(kp *KeyPair) [64]byte {
	var out [64]byte
	privEnc := EncodePrivateKey(&kp.Priv)
	pubEnc := EncodePublicKey(&kp.Pub)
	copy(out[:32], privEnc[:])
	copy(out[32:], pubEnc[:])
	return out
}

// DecodeKeyPair parses a 64-byte key-pair encoding. Both halves are parsed
// independently (the stored public-key bytes are trusted, not rederived
// from the private key), matching how the encoding was produced.
func DecodeKeyPair(src []byte) (*KeyPair, bool) {
	if len(src) != 64 {
		return &KeyPair{Pub: PublicKey{Q: engine.Curve.Neutral()}}, false
	}
	priv, okPriv := DecodePrivateKey(src[:32])
	pub, okPub := DecodePublicKey(src[32:])
	return &KeyPair{Priv: *priv, Pub: *pub}, okPriv && okPub
}

// Sign produces a 48-byte signature over hv under kp, with no extra seed.
// hashName is empty to sign the raw message in hv, or names the hash
// function hv was already computed under (see internal/prehash for
// selectable tags).
func Sign(kp *KeyPair, hashName string, hv []byte) [48]byte {
	return engine.Sign(&kp.Priv.s, kp.Pub.encoded[:], nil, hashName, hv)
}

// SignSeeded is Sign with an extra caller-supplied seed folded into nonce
// derivation (e.g. for deterministic test vectors or additional entropy).
func SignSeeded(kp *KeyPair, seed []byte, hashName string, hv []byte) [48]byte {
	return engine.Sign(&kp.Priv.s, kp.Pub.encoded[:], seed, hashName, hv)
}

// Verify checks a 48-byte signature against pub. Returns false for a
// malformed signature or an invalid public key, in addition to a genuine
// challenge mismatch.
func Verify(pub *PublicKey, sig []byte, hashName string, hv []byte) bool {
	if !pub.valid {
		return false
	}
	return engine.Verify(sig, &pub.Q, pub.encoded[:], hashName, hv)
}

// ECDH computes the 32-byte shared secret between kp and peer. The
// returned bool reports whether peer was a valid public key; on false the
// secret is still a deterministic, unguessable function of kp's private
// key rather than a visible error (spec.md 7).
func ECDH(kp *KeyPair, peer *PublicKey) ([32]byte, bool) {
	return engine.ECDH(&kp.Priv.s, &peer.Q, peer.valid, kp.Pub.encoded[:], peer.encoded[:])
}

// ECDHWithHKDF computes the raw ECDH secret as ECDH does, then expands it
// through HKDF-SHA256 (golang.org/x/crypto/hkdf) with the given info string
// into an outLen-byte key. A convenience for callers that want a
// domain-separated derived key rather than the raw 32-byte group-based
// secret directly.
func ECDHWithHKDF(kp *KeyPair, peer *PublicKey, info []byte, outLen int) ([]byte, bool, error) {
	secret, ok := ECDH(kp, peer)
	defer zeroize.Bytes(secret[:])

	reader := hkdf.New(newSHA256, secret[:], nil, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, ok, err
	}
	return out, ok, nil
}
