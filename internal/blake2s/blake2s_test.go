package blake2s

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestVectorsEmptyAndAbc(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"", "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9"},
		{"abc", "508c5e8c327c14e2e1a72ba34eeb452f37458b209ed63a294d999b4c86675982"},
	}
	for _, c := range cases {
		got := Sum256([]byte(c.msg))
		want, err := hex.DecodeString(c.want)
		if err != nil {
			t.Fatalf("bad test vector hex: %v", err)
		}
		if !bytes.Equal(got[:], want) {
			t.Fatalf("blake2s(%q) = %x, want %x", c.msg, got, want)
		}
	}
}

func TestIncrementalMatchesOneShot(t *testing.T) {
	msg := bytes.Repeat([]byte("jq255-test-data-"), 17) // 272 bytes, crosses several blocks
	one := Sum256(msg)

	s := New(32)
	for _, chunk := range [][]byte{msg[:1], msg[1:13], msg[13:64], msg[64:65], msg[65:]} {
		s.Write(chunk)
	}
	got := s.Sum()
	if !bytes.Equal(one[:], got) {
		t.Fatalf("incremental hash mismatch: one-shot %x, incremental %x", one, got)
	}
}

func TestKeyedDiffersFromUnkeyed(t *testing.T) {
	msg := []byte("sample message")
	unkeyed := Sum256(msg)
	keyed := MAC([]byte("a-test-key"), msg)
	if bytes.Equal(unkeyed[:], keyed[:]) {
		t.Fatal("keyed and unkeyed hashes must differ")
	}
}

func TestOutLenTruncates(t *testing.T) {
	full := Sum256([]byte("truncation check"))
	s := New(16)
	s.Write([]byte("truncation check"))
	short := s.Sum()
	if len(short) != 16 {
		t.Fatalf("expected 16-byte digest, got %d", len(short))
	}
	// The output length is part of the parameter block folded into h[0],
	// so a 16-byte digest is not the prefix of the 32-byte one.
	if bytes.Equal(full[:16], short) {
		t.Fatal("short digest must differ from the prefix of the full digest")
	}
}
