package security

import (
	"bytes"
	"errors"
	"testing"
)

func TestFieldCipherRoundTrip(t *testing.T) {
	c, err := NewFieldCipher(bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	enc, err := c.Encrypt("alice@example.com")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == "alice@example.com" {
		t.Fatal("expected ciphertext to differ from plaintext")
	}
	again, _ := c.Encrypt("alice@example.com")
	if enc == again {
		t.Fatal("expected random nonce to produce distinct ciphertexts")
	}
	plain, err := c.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "alice@example.com" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestFieldCipherRejectsTamperingAndWrongKey(t *testing.T) {
	a, _ := NewFieldCipher(bytes.Repeat([]byte{1}, 32))
	b, _ := NewFieldCipher(bytes.Repeat([]byte{2}, 32))
	enc, err := a.Encrypt("secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := b.Decrypt(enc); !errors.Is(err, ErrCiphertext) {
		t.Fatalf("expected ErrCiphertext for wrong key, got %v", err)
	}
	if _, err := a.Decrypt("short"); !errors.Is(err, ErrCiphertext) {
		t.Fatalf("expected ErrCiphertext for garbage, got %v", err)
	}
}

func TestFieldCipherOptional(t *testing.T) {
	c, _ := NewFieldCipher(bytes.Repeat([]byte{3}, 32))
	empty := ""
	if got, err := c.EncryptOptional(&empty); err != nil || got != nil {
		t.Fatalf("expected nil for empty input, got %v %v", got, err)
	}
	if got, err := c.DecryptOptional(nil); err != nil || got != nil {
		t.Fatalf("expected nil for nil input, got %v %v", got, err)
	}
	v := "Acme"
	enc, err := c.EncryptOptional(&v)
	if err != nil || enc == nil {
		t.Fatalf("encrypt optional: %v", err)
	}
	dec, err := c.DecryptOptional(enc)
	if err != nil || dec == nil || *dec != "Acme" {
		t.Fatalf("decrypt optional: %v %v", dec, err)
	}
}

func TestNewFieldCipherKeyLength(t *testing.T) {
	if _, err := NewFieldCipher([]byte("short")); err == nil {
		t.Fatal("expected error for short key")
	}
}
