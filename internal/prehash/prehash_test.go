package prehash

import (
	"bytes"
	"testing"

	"jq255.dev/jq255/internal/blake2s"
)

func TestKnownTagsProduceDistinctDigests(t *testing.T) {
	msg := []byte("sample message")
	tags := []string{TagSHA256, TagSHA3256, TagBLAKE2B, TagBLAKE2S}
	seen := make(map[string][]byte, len(tags))
	for _, tag := range tags {
		digest, err := Sum(tag, msg)
		if err != nil {
			t.Fatalf("Sum(%q): %v", tag, err)
		}
		if len(digest) == 0 {
			t.Fatalf("Sum(%q) returned empty digest", tag)
		}
		for otherTag, otherDigest := range seen {
			if bytes.Equal(digest, otherDigest) {
				t.Fatalf("Sum(%q) and Sum(%q) collided: %x", tag, otherTag, digest)
			}
		}
		seen[tag] = digest
	}
}

func TestSumIsDeterministic(t *testing.T) {
	msg := []byte("deterministic check")
	for _, tag := range []string{TagSHA256, TagSHA3256, TagBLAKE2B, TagBLAKE2S} {
		a, err := Sum(tag, msg)
		if err != nil {
			t.Fatalf("Sum(%q): %v", tag, err)
		}
		b, err := Sum(tag, msg)
		if err != nil {
			t.Fatalf("Sum(%q): %v", tag, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("Sum(%q) not deterministic: %x vs %x", tag, a, b)
		}
	}
}

func TestUnknownTagFails(t *testing.T) {
	if _, err := Sum("not-a-real-tag", []byte("x")); err != ErrUnknownTag {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestBlake2sTagMatchesPackage(t *testing.T) {
	msg := []byte("cross-check against internal/blake2s")
	got, err := Sum(TagBLAKE2S, msg)
	if err != nil {
		t.Fatalf("Sum(blake2s): %v", err)
	}
	want := blake2s.Sum256(msg)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("prehash blake2s tag = %x, want %x", got, want)
	}
}
