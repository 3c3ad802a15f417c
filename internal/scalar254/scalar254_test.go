package scalar254

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func elemToBig(e Elem) *big.Int {
	v := new(big.Int)
	for i := 3; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(e.n[i]))
	}
	return v
}

func rBig(p *Params) *big.Int {
	return elemToBig(p.R)
}

func TestAddMulAgainstBig(t *testing.T) {
	for _, p := range []*Params{JQ255E, JQ255S} {
		r := rBig(p)
		for i := 0; i < 64; i++ {
			var ab, bb [32]byte
			rand.Read(ab[:])
			rand.Read(bb[:])
			var a, b Elem
			p.DecodeReduce(&a, ab[:])
			p.DecodeReduce(&b, bb[:])

			var sum Elem
			p.Add(&sum, &a, &b)
			want := new(big.Int).Add(elemToBig(a), elemToBig(b))
			want.Mod(want, r)
			if elemToBig(sum).Cmp(want) != 0 {
				t.Fatalf("add mismatch")
			}

			var prod Elem
			p.Mul(&prod, &a, &b)
			want2 := new(big.Int).Mul(elemToBig(a), elemToBig(b))
			want2.Mod(want2, r)
			if elemToBig(prod).Cmp(want2) != 0 {
				t.Fatalf("mul mismatch")
			}
		}
	}
}

func TestDecodeReduceMatchesIntLEmodR(t *testing.T) {
	for _, p := range []*Params{JQ255E, JQ255S} {
		r := rBig(p)
		for _, n := range []int{1, 17, 32, 48, 64} {
			buf := make([]byte, n)
			rand.Read(buf)
			var z Elem
			p.DecodeReduce(&z, buf)

			want := new(big.Int)
			for i := len(buf) - 1; i >= 0; i-- {
				want.Lsh(want, 8)
				want.Or(want, big.NewInt(int64(buf[i])))
			}
			want.Mod(want, r)
			if elemToBig(z).Cmp(want) != 0 {
				t.Fatalf("len=%d decode_reduce mismatch: got %x want %x", n, elemToBig(z), want)
			}
		}
	}
}

func TestDecodeStrictRejectsGEOrder(t *testing.T) {
	for _, p := range []*Params{JQ255E, JQ255S} {
		var buf [32]byte
		p.Encode(buf[:], &p.R)
		var z Elem
		if p.Decode(&z, buf[:]) {
			t.Fatal("decode must reject the integer r itself")
		}
	}
}

func TestRecodeBoothIdentity(t *testing.T) {
	for _, p := range []*Params{JQ255E, JQ255S} {
		for i := 0; i < 32; i++ {
			var buf [32]byte
			rand.Read(buf[:])
			var s Elem
			p.DecodeReduce(&s, buf[:])

			digits := RecodeBooth(&s)
			got := new(big.Int)
			for i := 50; i >= 0; i-- {
				got.Lsh(got, 5)
				got.Add(got, big.NewInt(int64(digits[i])))
			}
			got.Mod(got, rBig(p))
			if got.Cmp(elemToBig(s)) != 0 {
				t.Fatalf("booth recoding doesn't sum back to s")
			}
			if digits[50] < 0 {
				t.Fatalf("top booth digit must be non-negative, got %d", digits[50])
			}
		}
	}
}

func TestRecodeWNAFIdentityAndGap(t *testing.T) {
	for _, p := range []*Params{JQ255E, JQ255S} {
		for i := 0; i < 32; i++ {
			var buf [32]byte
			rand.Read(buf[:])
			var s Elem
			p.DecodeReduce(&s, buf[:])

			digits := RecodeWNAF(&s)
			got := new(big.Int)
			for i := 255; i >= 0; i-- {
				got.Lsh(got, 1)
				got.Add(got, big.NewInt(int64(digits[i])))
			}
			got.Mod(got, rBig(p))
			if got.Cmp(elemToBig(s)) != 0 {
				t.Fatalf("wNAF recoding doesn't sum back to s")
			}

			last := -100
			for i, d := range digits {
				if d != 0 {
					if last >= 0 && i-last < 4 {
						t.Fatalf("nonzero wNAF digits too close: %d and %d", last, i)
					}
					if d%2 == 0 {
						t.Fatalf("wNAF digit %d is even", d)
					}
					last = i
				}
			}
		}
	}
}
