// Package prehash dispatches the "hash_name" tag used by the signature
// scheme's pre-hashing mode (spec.md §6: sign/verify accept either the raw
// message or a caller-supplied digest under a named hash function). The
// cached-per-tag lookup mirrors the teacher's hash.go TaggedHash, which
// memoizes a tag's midstate with sync.Once rather than recomputing it per
// call; here the "midstate" is simply which hasher to call; the pattern is
// kept for the same reason: callers repeatedly sign/verify under the same
// tag and shouldn't pay dispatch cost each time.
package prehash

import (
	"errors"
	"hash"
	"sync"

	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"jq255.dev/jq255/internal/blake2s"
)

// ErrUnknownTag is returned by Sum for a hash_name not in the registry.
var ErrUnknownTag = errors.New("jq255: unknown hash_name tag")

// Tag names recognized by Sum, matching spec.md §6's informal "hash_name"
// convention (the empty string selects the no-pre-hash / raw-message path
// at the call site, not here).
const (
	TagSHA256  = "sha256"
	TagSHA3256 = "sha3256"
	TagBLAKE2B = "blake2b"
	TagBLAKE2S = "blake2s"
)

type factory func() hash.Hash

var (
	registryOnce sync.Once
	registry     map[string]factory
)

func initRegistry() {
	registry = map[string]factory{
		TagSHA256:  func() hash.Hash { return sha256simd.New() },
		TagSHA3256: func() hash.Hash { return sha3.New256() },
		TagBLAKE2B: func() hash.Hash {
			h, _ := blake2b.New256(nil)
			return h
		},
		TagBLAKE2S: blake2sHash,
	}
}

// blake2sAdapter adapts internal/blake2s.State to the stdlib hash.Hash
// interface so it can sit in the same registry as the imported hashers.
func blake2sHash() hash.Hash {
	return &blake2sAdapter{s: blake2s.New(blake2s.Size)}
}

type blake2sAdapter struct {
	s *blake2s.State
}

func (a *blake2sAdapter) Write(p []byte) (int, error) { return a.s.Write(p) }
func (a *blake2sAdapter) Sum(b []byte) []byte         { return append(b, a.s.Sum()...) }
func (a *blake2sAdapter) Reset()                      { a.s = blake2s.New(blake2s.Size) }
func (a *blake2sAdapter) Size() int                   { return blake2s.Size }
func (a *blake2sAdapter) BlockSize() int              { return blake2s.BlockSize }

// Sum computes the digest of msg under the named hash function.
func Sum(tagName string, msg []byte) ([]byte, error) {
	registryOnce.Do(initRegistry)
	f, ok := registry[tagName]
	if !ok {
		return nil, ErrUnknownTag
	}
	h := f()
	h.Write(msg)
	return h.Sum(nil), nil
}
