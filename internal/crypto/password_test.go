package crypto

import (
	"errors"
	"math/rand"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, salt, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if salt == "" || hash[:len(salt)] != salt {
		t.Fatalf("expected salt to be a prefix of the hash, got %q / %q", salt, hash)
	}
	ok, err := h.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching password to verify")
	}
	ok, err = h.Verify("correct horse battery stapler", hash)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestVerifyRandomPasswords(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%")

	randomPassword := func(n int) string {
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(runes)
	}

	for i := 0; i < 8; i++ {
		password := randomPassword(6 + rng.Intn(20))
		hash, _, err := h.Hash(password)
		if err != nil {
			t.Fatalf("hash %q: %v", password, err)
		}
		if ok, err := h.Verify(password, hash); err != nil || !ok {
			t.Fatalf("expected %q to verify against its own hash (ok=%v err=%v)", password, ok, err)
		}
		other := randomPassword(6 + rng.Intn(20))
		if other == password {
			continue
		}
		if ok, err := h.Verify(other, hash); err != nil || ok {
			t.Fatalf("expected %q to fail against hash of %q (ok=%v err=%v)", other, password, ok, err)
		}
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.DefaultCost)
	ok, err := h.Verify("whatever", "not-a-bcrypt-hash")
	if ok {
		t.Fatalf("expected malformed hash to fail verification")
	}
	if !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("expected ErrMalformedHash, got %v", err)
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	h := NewHasher(99)
	hash, _, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash with clamped cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
