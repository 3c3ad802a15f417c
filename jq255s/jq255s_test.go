package jq255s

import (
	"bytes"
	"testing"
)

func testKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	priv := GeneratePrivateKey([]byte("jq255s-test-seed-vector-0001"))
	pub := MakePublic(priv)
	return &KeyPair{Priv: *priv, Pub: *pub}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	enc := EncodePublicKey(&kp.Pub)

	decoded, ok := DecodePublicKey(enc[:])
	if !ok {
		t.Fatal("decode of freshly encoded public key failed")
	}
	if !engine.Curve.Equal(&decoded.Q, &kp.Pub.Q) {
		t.Fatal("decoded point does not match original")
	}
	reenc := EncodePublicKey(decoded)
	if reenc != enc {
		t.Fatal("re-encoding did not reproduce original bytes")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	msg := []byte("sample message")

	sig := Sign(kp, "", msg)
	if !Verify(&kp.Pub, sig[:], "", msg) {
		t.Fatal("verify failed on freshly produced signature")
	}
}

func TestSignatureMutationBreaksVerification(t *testing.T) {
	kp := testKeyPair(t)
	msg := []byte("sample message")
	sig := Sign(kp, "", msg)

	for _, pos := range []int{0, 16, 47} {
		mutated := sig
		mutated[pos] ^= 0x01
		if Verify(&kp.Pub, mutated[:], "", msg) {
			t.Fatalf("verify accepted signature mutated at byte %d", pos)
		}
	}
}

func TestSignDeterministicWithoutSeed(t *testing.T) {
	kp := testKeyPair(t)
	msg := []byte("sample message")

	sig1 := Sign(kp, "", msg)
	sig2 := Sign(kp, "", msg)
	if sig1 != sig2 {
		t.Fatal("signing twice with no seed produced different signatures")
	}
}

func TestSignSeededDiffersAndVerifies(t *testing.T) {
	kp := testKeyPair(t)
	msg := []byte("sample message")

	plain := Sign(kp, "", msg)
	seeded := SignSeeded(kp, []byte("extra-entropy"), "", msg)
	if plain == seeded {
		t.Fatal("seeded signature matched unseeded signature")
	}
	if !Verify(&kp.Pub, seeded[:], "", msg) {
		t.Fatal("seeded signature failed to verify")
	}
}

func TestECDHCommutative(t *testing.T) {
	a, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	sharedAB, okAB := ECDH(a, &b.Pub)
	sharedBA, okBA := ECDH(b, &a.Pub)
	if !okAB || !okBA {
		t.Fatal("ECDH reported an invalid peer for two freshly generated keys")
	}
	if sharedAB != sharedBA {
		t.Fatal("ECDH(A, B) != ECDH(B, A)")
	}
}

func TestECDHInvalidPeerStillProducesOutput(t *testing.T) {
	a, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	invalidPub, _ := DecodePublicKey(make([]byte, 32))

	shared, ok := ECDH(a, invalidPub)
	if ok {
		t.Fatal("expected invalid peer to report ok=false")
	}
	var zero [32]byte
	if bytes.Equal(shared[:], zero[:]) {
		t.Fatal("ECDH against an invalid peer must still return a nonzero output")
	}
}

func TestKeyPairEncodeDecodeRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	enc := EncodeKeyPair(kp)
	decoded, ok := DecodeKeyPair(enc[:])
	if !ok {
		t.Fatal("decode of freshly encoded keypair failed")
	}
	if decoded.Priv.s != kp.Priv.s {
		t.Fatal("decoded private scalar mismatch")
	}
	if !engine.Curve.Equal(&decoded.Pub.Q, &kp.Pub.Q) {
		t.Fatal("decoded public point mismatch")
	}
}
