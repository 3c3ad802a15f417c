// Package blake2s implements BLAKE2s-256 keyed/unkeyed hashing, the hash
// primitive the jq255 signature scheme and key derivation build on. The
// compression function (compress) is a pure function of (h, block, counter,
// final) with no package-level state, so a future build tag could swap in
// an architecture-specific compress without touching State's buffering
// logic — the same portable/SIMD boundary the teacher draws around
// sha256-simd in hash.go, just drawn one level lower since here we own the
// primitive instead of importing it.
package blake2s

import "encoding/binary"

// Size is the full (256-bit) digest size in bytes.
const Size = 32

// BlockSize is the compression function's input block size in bytes.
const BlockSize = 64

var iv = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

var sigma = [10][16]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

func ror32(x uint32, n uint) uint32 {
	return (x << (32 - n)) | (x >> n)
}

// compress runs the 10-round BLAKE2s mixing over one 64-byte block,
// updating h in place. t is the total byte count injected so far
// (including this block); final is set on the last block only.
func compress(h *[8]uint32, block *[BlockSize]byte, t uint64, final bool) {
	var m [16]uint32
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint32(block[i*4 : i*4+4])
	}

	v := [16]uint32{
		h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7],
		iv[0], iv[1], iv[2], iv[3], iv[4], iv[5], iv[6], iv[7],
	}
	v[12] ^= uint32(t)
	v[13] ^= uint32(t >> 32)
	if final {
		v[14] ^= 0xFFFFFFFF
	}

	g := func(a, b, c, d int, x, y uint32) {
		v[a] += v[b] + x
		v[d] = ror32(v[d]^v[a], 16)
		v[c] += v[d]
		v[b] = ror32(v[b]^v[c], 12)
		v[a] += v[b] + y
		v[d] = ror32(v[d]^v[a], 8)
		v[c] += v[d]
		v[b] = ror32(v[b]^v[c], 7)
	}

	for _, s := range sigma {
		g(0, 4, 8, 12, m[s[0]], m[s[1]])
		g(1, 5, 9, 13, m[s[2]], m[s[3]])
		g(2, 6, 10, 14, m[s[4]], m[s[5]])
		g(3, 7, 11, 15, m[s[6]], m[s[7]])
		g(0, 5, 10, 15, m[s[8]], m[s[9]])
		g(1, 6, 11, 12, m[s[10]], m[s[11]])
		g(2, 7, 8, 13, m[s[12]], m[s[13]])
		g(3, 4, 9, 14, m[s[14]], m[s[15]])
	}

	for i := 0; i < 8; i++ {
		h[i] ^= v[i] ^ v[i+8]
	}
}

// State is an incremental BLAKE2s hash, mirroring the reference's
// blake2s_context: buffered bytes plus the running chain value and byte
// counter. The buffer always holds the not-yet-compressed tail of the
// input (processing of a full block is delayed until we know whether it is
// the last one).
type State struct {
	h      [8]uint32
	buf    [BlockSize]byte
	ctr    uint64
	outLen int
}

// New returns a State producing an outLen-byte digest (1..32), unkeyed.
func New(outLen int) *State {
	s := &State{h: iv, outLen: outLen}
	s.h[0] ^= 0x01010000 ^ uint32(outLen)
	return s
}

// NewKeyed returns a State producing an outLen-byte digest, keyed for MAC
// use. An empty key behaves identically to New.
func NewKeyed(outLen int, key []byte) *State {
	s := New(outLen)
	if len(key) > 0 {
		s.h[0] ^= uint32(len(key)) << 8
		copy(s.buf[:], key)
		s.ctr = BlockSize
	}
	return s
}

// Write absorbs more input. Never returns an error.
func (s *State) Write(data []byte) (int, error) {
	total := len(data)
	if total == 0 {
		return 0, nil
	}

	p := int(s.ctr % BlockSize)
	if s.ctr == 0 || p != 0 {
		clen := BlockSize - p
		if clen > len(data) {
			clen = len(data)
		}
		copy(s.buf[p:], data[:clen])
		s.ctr += uint64(clen)
		data = data[clen:]
		if len(data) == 0 {
			return total, nil
		}
	}

	compress(&s.h, &s.buf, s.ctr, false)

	for len(data) > BlockSize {
		s.ctr += BlockSize
		var block [BlockSize]byte
		copy(block[:], data[:BlockSize])
		compress(&s.h, &block, s.ctr, false)
		data = data[BlockSize:]
	}

	copy(s.buf[:], data)
	s.ctr += uint64(len(data))
	return total, nil
}

// Sum finalizes the hash and returns the outLen-byte digest. The State must
// not be used again afterward.
func (s *State) Sum() []byte {
	p := int(s.ctr % BlockSize)
	if s.ctr == 0 || p != 0 {
		for i := p; i < BlockSize; i++ {
			s.buf[i] = 0
		}
	}
	compress(&s.h, &s.buf, s.ctr, true)

	out := make([]byte, s.outLen)
	var full [32]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(full[i*4:i*4+4], s.h[i])
	}
	copy(out, full[:s.outLen])
	return out
}

// Sum256 computes the unkeyed 32-byte BLAKE2s digest of msg in one call.
func Sum256(msg []byte) [32]byte {
	s := New(32)
	s.Write(msg)
	var out [32]byte
	copy(out[:], s.Sum())
	return out
}

// MAC computes the keyed 32-byte BLAKE2s digest of msg under key in one
// call, for deterministic nonce derivation and similar MAC-style uses.
func MAC(key, msg []byte) [32]byte {
	s := NewKeyed(32, key)
	s.Write(msg)
	var out [32]byte
	copy(out[:], s.Sum())
	return out
}
