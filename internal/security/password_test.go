package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("expected hash to differ from plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected matching password to pass")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
	BurnPasswordCheck("anything")
}
