// Package gf255 implements arithmetic in the prime field GF(2^255 - MQ) shared
// by the jq255e and jq255s curves. A single Params value parametrizes the
// modulus-specific constants (MQ and its derived exponent ladders) so that
// both curves share one arithmetic core instead of two near-duplicate
// implementations, the way the teacher's field.go/field_mul.go duplicate
// "direct function" variants of the same logic for call-overhead reasons.
package gf255

import (
	"crypto/subtle"
	"math/bits"
	"unsafe"
)

// Elem is a field element held in four 64-bit limbs, little-endian
// (value = n[0] + n[1]<<64 + n[2]<<128 + n[3]<<192). Elements may be
// full-range (any 256-bit pattern) as inputs, and are partially reduced
// (value < 2^255 + a small margin) as outputs of any arithmetic operation.
// Only normalize produces the fully reduced (canonical, 0..q-1) form.
type Elem struct {
	n [4]uint64
}

// Params holds the modulus-dependent constants for one of the two curves'
// fields: q = 2^255 - MQ. Both jq255e (MQ=18651) and jq255s (MQ=3957) are
// instances of the same Params shape.
type Params struct {
	MQ    uint64
	Q     Elem // the modulus itself, as a full element
	QPlus uint64 // 2*MQ, the fold constant for 2^256 mod q
	invExpBits []byte // bits of q-2, LSB first, for Fermat inversion
	sqrtExpBits []byte // bits of the sqrt exponent, LSB first
	sqrtAtkin  bool   // true if q = 5 mod 8 (Atkin's algorithm), false if q = 3 mod 4
}

// NewParams builds the Params for modulus q = 2^255 - mq. mq must be odd,
// less than 2^15, and q = 2^255-mq must be prime (the two curve moduli in
// this package satisfy this; NewParams does not itself verify primality).
func NewParams(mq uint64) *Params {
	p := &Params{MQ: mq, QPlus: 2 * mq}
	// Q = 2^255 - mq, computed directly in limbs: 2^255 has bit 255 set
	// (top limb = 1<<63), then subtract mq from the low limb with borrow.
	var q Elem
	q.n[3] = 1 << 63
	subSmall(&q, mq)
	p.Q = q

	// q-2, as a bit ladder (LSB first), for Fermat inversion a^(q-2).
	qm2 := q
	subSmall(&qm2, 2)
	p.invExpBits = bitsLE(qm2)

	// sqrt exponent: q mod 4 selects the branch per spec.md 4.1.
	if q.n[0]%4 == 3 {
		// q = 3 mod 4: x = a^((q+1)/4)
		e := q
		addOne(&e)
		shr2(&e)
		p.sqrtExpBits = bitsLE(e)
		p.sqrtAtkin = false
	} else {
		// q = 5 mod 8: Atkin's algorithm, b = (2a)^((q-5)/8)
		e := q
		subSmall(&e, 5)
		shr3(&e)
		p.sqrtExpBits = bitsLE(e)
		p.sqrtAtkin = true
	}
	return p
}

func addOne(e *Elem) {
	carry := uint64(1)
	for i := 0; i < 4 && carry != 0; i++ {
		e.n[i], carry = bits.Add64(e.n[i], 0, carry)
	}
}

func subSmall(e *Elem, v uint64) {
	borrow := v
	for i := 0; i < 4; i++ {
		lo, b := bits.Sub64(e.n[i], borrow, 0)
		e.n[i] = lo
		if b == 0 {
			return
		}
		borrow = 1
	}
}

func shr2(e *Elem) {
	e.n[0] = (e.n[0] >> 2) | (e.n[1] << 62)
	e.n[1] = (e.n[1] >> 2) | (e.n[2] << 62)
	e.n[2] = (e.n[2] >> 2) | (e.n[3] << 62)
	e.n[3] = e.n[3] >> 2
}

func shr3(e *Elem) {
	e.n[0] = (e.n[0] >> 3) | (e.n[1] << 61)
	e.n[1] = (e.n[1] >> 3) | (e.n[2] << 61)
	e.n[2] = (e.n[2] >> 3) | (e.n[3] << 61)
	e.n[3] = e.n[3] >> 3
}

func bitsLE(e Elem) []byte {
	out := make([]byte, 0, 256)
	for i := 0; i < 4; i++ {
		w := e.n[i]
		for b := 0; b < 64; b++ {
			out = append(out, byte(w&1))
			w >>= 1
		}
	}
	// trim leading (high-order) zero bits so the ladder starts at the
	// top-most set bit; keep at least one bit.
	top := len(out) - 1
	for top > 0 && out[top] == 0 {
		top--
	}
	return out[:top+1]
}

// One returns the field element 1.
func (p *Params) One() Elem { return Elem{n: [4]uint64{1, 0, 0, 0}} }

// Zero returns the field element 0.
func (p *Params) Zero() Elem { return Elem{} }

// SetUint64 sets z to a small non-negative integer value.
func (p *Params) SetUint64(z *Elem, v uint64) {
	z.n[0], z.n[1], z.n[2], z.n[3] = v, 0, 0, 0
}

// Add computes z = a + b, partially reduced.
func (p *Params) Add(z, a, b *Elem) {
	var t Elem
	var carry uint64
	t.n[0], carry = bits.Add64(a.n[0], b.n[0], 0)
	t.n[1], carry = bits.Add64(a.n[1], b.n[1], carry)
	t.n[2], carry = bits.Add64(a.n[2], b.n[2], carry)
	t.n[3], carry = bits.Add64(a.n[3], b.n[3], carry)
	p.foldCarry(&t, carry)
	*z = t
}

// foldCarry folds a carry bit out of the top limb back in using
// 2^256 = 2*MQ (mod q), applying a second fold if a residual carry remains.
func (p *Params) foldCarry(t *Elem, carry uint64) {
	fold := carry * p.QPlus
	var c uint64
	t.n[0], c = bits.Add64(t.n[0], fold, 0)
	t.n[1], c = bits.Add64(t.n[1], 0, c)
	t.n[2], c = bits.Add64(t.n[2], 0, c)
	t.n[3], c = bits.Add64(t.n[3], 0, c)
	if c != 0 {
		fold2 := c * p.QPlus
		t.n[0], _ = bits.Add64(t.n[0], fold2, 0)
	}
}

// Sub computes z = a - b, partially reduced.
func (p *Params) Sub(z, a, b *Elem) {
	var t Elem
	var borrow uint64
	t.n[0], borrow = bits.Sub64(a.n[0], b.n[0], 0)
	t.n[1], borrow = bits.Sub64(a.n[1], b.n[1], borrow)
	t.n[2], borrow = bits.Sub64(a.n[2], b.n[2], borrow)
	t.n[3], borrow = bits.Sub64(a.n[3], b.n[3], borrow)
	p.foldBorrow(&t, borrow)
	*z = t
}

func (p *Params) foldBorrow(t *Elem, borrow uint64) {
	fold := borrow * p.QPlus
	var b uint64
	t.n[0], b = bits.Sub64(t.n[0], fold, 0)
	t.n[1], b = bits.Sub64(t.n[1], 0, b)
	t.n[2], b = bits.Sub64(t.n[2], 0, b)
	t.n[3], b = bits.Sub64(t.n[3], 0, b)
	if b != 0 {
		fold2 := b * p.QPlus
		t.n[0], _ = bits.Sub64(t.n[0], fold2, 0)
	}
}

// Neg computes z = -a.
func (p *Params) Neg(z, a *Elem) {
	var zero Elem
	p.Sub(z, &zero, a)
}

// Mul2 computes z = 2*a.
func (p *Params) Mul2(z, a *Elem) {
	p.Add(z, a, a)
}

// Lsh computes z = a * 2^n for small n (n < 16, as used by the doubling
// and point-addition formulas' small curve-constant multiplications).
func (p *Params) Lsh(z, a *Elem, n uint) {
	t := *a
	for i := uint(0); i < n; i++ {
		p.Add(&t, &t, &t)
	}
	*z = t
}

// Half computes z = a/2 (mod q), constant-time in the parity of a.
func (p *Params) Half(z, a *Elem) {
	mask := uint64(0) - (a.n[0] & 1)
	var qm Elem
	qm.n[0] = mask & p.Q.n[0]
	qm.n[1] = mask & p.Q.n[1]
	qm.n[2] = mask & p.Q.n[2]
	qm.n[3] = mask & p.Q.n[3]
	var t Elem
	p.Add(&t, a, &qm)
	z.n[0] = (t.n[0] >> 1) | (t.n[1] << 63)
	z.n[1] = (t.n[1] >> 1) | (t.n[2] << 63)
	z.n[2] = (t.n[2] >> 1) | (t.n[3] << 63)
	z.n[3] = t.n[3] >> 1
}

// mulSmall computes dst[0..4] = a * s for a 4-limb a and a small (<2^18) s.
func mulSmall(dst *[5]uint64, a [4]uint64, s uint64) {
	var carry uint64
	for i := 0; i < 4; i++ {
		hi, lo := bits.Mul64(a[i], s)
		lo, c := bits.Add64(lo, carry, 0)
		hi, _ = bits.Add64(hi, 0, c)
		dst[i] = lo
		carry = hi
	}
	dst[4] = carry
}

// mul4x4 computes the full 512-bit product of two 4-limb values.
func mul4x4(a, b [4]uint64) [8]uint64 {
	var acc [8]uint64
	for i := 0; i < 4; i++ {
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			lo, c := bits.Add64(lo, carry, 0)
			hi, _ = bits.Add64(hi, 0, c)

			var c2 uint64
			acc[i+j], c2 = bits.Add64(acc[i+j], lo, 0)
			k := i + j + 1
			for c2 != 0 {
				acc[k], c2 = bits.Add64(acc[k], c2, 0)
				k++
			}
			carry = hi
		}
		k := i + 4
		for carry != 0 {
			acc[k], carry = bits.Add64(acc[k], carry, 0)
			k++
		}
	}
	return acc
}

// reduceWide folds an 8-limb wide product down to a partially-reduced
// 4-limb element using 2^256 = 2*MQ (mod q), applied twice as spec.md 4.1
// describes for mul/square.
func (p *Params) reduceWide(wide [8]uint64) Elem {
	var lo, hi [4]uint64
	copy(lo[:], wide[0:4])
	copy(hi[:], wide[4:8])

	var t [5]uint64
	mulSmall(&t, hi, p.QPlus)
	var carry uint64
	for i := 0; i < 4; i++ {
		t[i], carry = bits.Add64(t[i], lo[i], carry)
	}
	t[4] += carry

	// second fold: t[4] (small) times QPlus, added back in.
	var t2 [5]uint64
	mulSmall(&t2, [4]uint64{t[0], t[1], t[2], t[3]}, 1)
	fold := t[4] * p.QPlus
	var z Elem
	var c uint64
	z.n[0], c = bits.Add64(t2[0], fold, 0)
	z.n[1], c = bits.Add64(t2[1], 0, c)
	z.n[2], c = bits.Add64(t2[2], 0, c)
	z.n[3], c = bits.Add64(t2[3], 0, c)
	if c != 0 {
		z.n[0], _ = bits.Add64(z.n[0], c*p.QPlus, 0)
	}
	return z
}

// Mul computes z = a*b (mod q), partially reduced.
func (p *Params) Mul(z, a, b *Elem) {
	wide := mul4x4(a.n, b.n)
	*z = p.reduceWide(wide)
}

// Square computes z = a*a (mod q), partially reduced.
func (p *Params) Square(z, a *Elem) {
	wide := mul4x4(a.n, a.n)
	*z = p.reduceWide(wide)
}

// Xsquare computes z = a^(2^n) via n successive squarings.
func (p *Params) Xsquare(z, a *Elem, n uint) {
	t := *a
	for i := uint(0); i < n; i++ {
		p.Square(&t, &t)
	}
	*z = t
}

// Select performs a constant-time choice: z = ctl ? a1 : a0. ctl must be
// exactly 0 or ^uint64(0) (all-ones).
func (p *Params) Select(z *Elem, a0, a1 *Elem, ctl uint64) {
	for i := 0; i < 4; i++ {
		z.n[i] = a0.n[i] ^ (ctl & (a0.n[i] ^ a1.n[i]))
	}
}

// CondNeg conditionally negates: z = ctl ? -a : a.
func (p *Params) CondNeg(z, a *Elem, ctl uint64) {
	var neg Elem
	p.Neg(&neg, a)
	p.Select(z, a, &neg, ctl)
}

// normalize returns the fully reduced canonical representative of a
// (0 <= result < q), via at most two conditional subtractions of q from
// the 256-bit full-range representation that partial reduction can leave.
func (p *Params) normalize(a *Elem) Elem {
	t := *a
	// A partially-reduced value can exceed q by a small multiple; two
	// conditional subtractions of q suffice given the bound our add/sub/
	// mul maintain (value < 2^255 + a small margin, per spec.md 3).
	for i := 0; i < 2; i++ {
		var d Elem
		var borrow uint64
		d.n[0], borrow = bits.Sub64(t.n[0], p.Q.n[0], 0)
		d.n[1], borrow = bits.Sub64(t.n[1], p.Q.n[1], borrow)
		d.n[2], borrow = bits.Sub64(t.n[2], p.Q.n[2], borrow)
		d.n[3], borrow = bits.Sub64(t.n[3], p.Q.n[3], borrow)
		ctl := borrow - 1 // all-ones if borrow==0 (t>=q), else 0
		p.Select(&t, &t, &d, ctl)
	}
	return t
}

// IsZero returns all-ones if a represents 0 under any of its
// partially-reduced forms (0, q, or 2q), else all-zeros.
func (p *Params) IsZero(a *Elem) uint64 {
	n := p.normalize(a)
	x := n.n[0] | n.n[1] | n.n[2] | n.n[3]
	return ctEq64(x, 0)
}

func ctEq64(a, b uint64) uint64 {
	x := a ^ b
	return ^uint64(0) * boolToMask(x == 0)
}

func boolToMask(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// IsNegative returns all-ones iff the least significant bit of the fully
// reduced value of a is 1.
func (p *Params) IsNegative(a *Elem) uint64 {
	n := p.normalize(a)
	return uint64(0) - (n.n[0] & 1)
}

// Encode normalizes a and emits its canonical 32-byte little-endian form.
func (p *Params) Encode(dst []byte, a *Elem) {
	n := p.normalize(a)
	for i := 0; i < 4; i++ {
		putU64LE(dst[i*8:i*8+8], n.n[i])
	}
}

// Decode parses 32 little-endian bytes. Returns all-ones and the value on
// success (integer was in 0..q-1); returns all-zeros and sets z to 0 on
// failure (integer >= q).
func (p *Params) Decode(z *Elem, src []byte) uint64 {
	var t Elem
	for i := 0; i < 4; i++ {
		t.n[i] = getU64LE(src[i*8 : i*8+8])
	}
	var d Elem
	var borrow uint64
	d.n[0], borrow = bits.Sub64(t.n[0], p.Q.n[0], 0)
	d.n[1], borrow = bits.Sub64(t.n[1], p.Q.n[1], borrow)
	d.n[2], borrow = bits.Sub64(t.n[2], p.Q.n[2], borrow)
	d.n[3], borrow = bits.Sub64(t.n[3], p.Q.n[3], borrow)
	ok := borrow // 1 iff t < q
	mask := uint64(0) - ok
	var zero Elem
	p.Select(z, &zero, &t, mask)
	return mask
}

func putU64LE(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

func getU64LE(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// Equal compares the fully reduced values of a and b in constant time.
func (p *Params) Equal(a, b *Elem) bool {
	na, nb := p.normalize(a), p.normalize(b)
	return subtle.ConstantTimeCompare(
		(*[32]byte)(unsafe.Pointer(&na.n[0]))[:],
		(*[32]byte)(unsafe.Pointer(&nb.n[0]))[:],
	) == 1
}

// Clear zeroes a field element, for wiping ephemeral secrets.
func (p *Params) Clear(a *Elem) {
	memclear(unsafe.Pointer(&a.n[0]), unsafe.Sizeof(a.n))
}

func memclear(ptr unsafe.Pointer, n uintptr) {
	for i := uintptr(0); i < n; i++ {
		*(*byte)(unsafe.Pointer(uintptr(ptr) + i)) = 0
	}
}

// powLadder computes z = a^e where e's bits (LSB first) are given, using a
// constant-time square-and-always-multiply-then-select ladder: generic in
// place of the curve-specific 3-bit/2-bit addition-chain windows the
// reference implementation hand-tunes per modulus (see DESIGN.md).
func (p *Params) powLadder(z, a *Elem, expBits []byte) {
	result := p.One()
	base := *a
	for _, bit := range expBits {
		var cand Elem
		p.Mul(&cand, &result, &base)
		ctl := uint64(0) - uint64(bit)
		p.Select(&result, &result, &cand, ctl)
		p.Square(&base, &base)
	}
	*z = result
}

// Inv computes z = a^(q-2) (mod q), i.e. the modular inverse, or 0 if
// a = 0.
func (p *Params) Inv(z, a *Elem) {
	p.powLadder(z, a, p.invExpBits)
}

// Sqrt computes the non-negative square root of a, if one exists. Returns
// all-ones and sets z to the root on success; returns all-zeros and sets
// z to 0 otherwise.
func (p *Params) Sqrt(z *Elem, a *Elem) uint64 {
	var x Elem
	if !p.sqrtAtkin {
		// q = 3 mod 4: x = a^((q+1)/4)
		p.powLadder(&x, a, p.sqrtExpBits)
	} else {
		// q = 5 mod 8 (Atkin): b = (2a)^((q-5)/8); c = 2a*b^2; x = a*b*(c-1)
		var twoA Elem
		p.Mul2(&twoA, a)
		var b Elem
		p.powLadder(&b, &twoA, p.sqrtExpBits)
		var b2, c Elem
		p.Square(&b2, &b)
		p.Mul(&c, &twoA, &b2)
		one := p.One()
		var cm1 Elem
		p.Sub(&cm1, &c, &one)
		var ab Elem
		p.Mul(&ab, a, &b)
		p.Mul(&x, &ab, &cm1)
	}
	// conditionally negate to the non-negative representative
	p.CondNeg(&x, &x, p.IsNegative(&x))
	// verify x^2 == a
	var check Elem
	p.Square(&check, &x)
	ok := boolToMask(p.Equal(&check, a))
	ctl := ^uint64(0) * ok
	var zero Elem
	p.Select(z, &zero, &x, ctl)
	return ctl
}
