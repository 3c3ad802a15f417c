package scheme

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"jq255.dev/jq255/internal/jq255e"
	"jq255.dev/jq255/internal/jq255s"
)

func engines() map[string]*Engine {
	return map[string]*Engine{
		"jq255e": {
			GF:        jq255e.GF,
			Scalar:    jq255e.Scalar,
			Curve:     jq255e.Curve,
			Generator: &jq255e.Generator,
			FixedBase: jq255e.FixedBase,
		},
		"jq255s": {
			GF:        jq255s.GF,
			Scalar:    jq255s.Scalar,
			Curve:     jq255s.Curve,
			Generator: &jq255s.Generator,
			FixedBase: jq255s.FixedBase,
		},
	}
}

func TestSignVerifyRoundTripBothCurves(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			s := e.GeneratePrivateKey([]byte("scheme-level-test-seed"))
			Q := e.MakePublic(&s)
			var Qe [32]byte
			e.EncodePoint(Qe[:], &Q)

			msg := []byte("scheme level message")
			sig := e.Sign(&s, Qe[:], nil, "", msg)

			if !e.Verify(sig[:], &Q, Qe[:], "", msg) {
				t.Fatalf("verify failed for %s; signature=%s\npoint=%s",
					name, spew.Sdump(sig), spew.Sdump(Q))
			}
		})
	}
}

func TestVerifyRejectsMismatchedPoint(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			s1 := e.GeneratePrivateKey([]byte("scheme-level-seed-one"))
			s2 := e.GeneratePrivateKey([]byte("scheme-level-seed-two"))
			Q1 := e.MakePublic(&s1)
			Q2 := e.MakePublic(&s2)

			var Qe1, Qe2 [32]byte
			e.EncodePoint(Qe1[:], &Q1)
			e.EncodePoint(Qe2[:], &Q2)

			msg := []byte("scheme level message")
			sig := e.Sign(&s1, Qe1[:], nil, "", msg)

			if e.Verify(sig[:], &Q2, Qe2[:], "", msg) {
				t.Fatalf("verify accepted a signature against the wrong key for %s;\n"+
					"signer point=%s\nwrong point=%s", name, spew.Sdump(Q1), spew.Sdump(Q2))
			}
		})
	}
}

func TestECDHMatchesBothDirections(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			sa := e.GeneratePrivateKey([]byte("scheme-level-seed-a"))
			sb := e.GeneratePrivateKey([]byte("scheme-level-seed-b"))
			Qa := e.MakePublic(&sa)
			Qb := e.MakePublic(&sb)

			var Qae, Qbe [32]byte
			e.EncodePoint(Qae[:], &Qa)
			e.EncodePoint(Qbe[:], &Qb)

			sharedAB, okAB := e.ECDH(&sa, &Qb, true, Qae[:], Qbe[:])
			sharedBA, okBA := e.ECDH(&sb, &Qa, true, Qbe[:], Qae[:])

			if !okAB || !okBA {
				t.Fatalf("%s: expected both sides to report a valid peer", name)
			}
			if sharedAB != sharedBA {
				t.Fatalf("%s: ECDH(a,b) != ECDH(b,a)\na->b=%s\nb->a=%s",
					name, spew.Sdump(sharedAB), spew.Sdump(sharedBA))
			}
		})
	}
}

func TestGeneratePrivateKeyNilSeedIsNonZero(t *testing.T) {
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			s := e.GeneratePrivateKey(nil)
			if e.Scalar.IsZero(&s) {
				t.Fatalf("%s: GeneratePrivateKey produced the zero scalar:\n%s",
					name, spew.Sdump(s))
			}
		})
	}
}
