package crypto

import (
	"bytes"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	salt, err := RandBytes(16)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	h := HashPassword([]byte("s3cret"), salt)
	if len(h) == 0 {
		t.Fatalf("empty hash")
	}
	if !VerifyPassword([]byte("s3cret"), salt, h) {
		t.Fatalf("verify should succeed for correct password")
	}
	if VerifyPassword([]byte("wrong"), salt, h) {
		t.Fatalf("verify should fail for wrong password")
	}
}

func TestHashDependsOnSalt(t *testing.T) {
	s1, _ := RandBytes(16)
	s2, _ := RandBytes(16)
	h1 := HashPassword([]byte("pw"), s1)
	h2 := HashPassword([]byte("pw"), s2)
	if bytes.Equal(h1, h2) {
		t.Fatalf("same hash for different salts")
	}
}
