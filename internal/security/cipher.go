package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrCiphertext = errors.New("malformed ciphertext")

// FieldCipher encrypts individual column values with XChaCha20-Poly1305.
// Ciphertexts are base64(nonce || sealed).
type FieldCipher struct {
	key []byte
}

func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("field cipher key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &FieldCipher{key: k}, nil
}

func (c *FieldCipher) Encrypt(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *FieldCipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCiphertext
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCiphertext
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrCiphertext
	}
	return string(plain), nil
}

// EncryptOptional leaves nil and empty values as nil.
func (c *FieldCipher) EncryptOptional(plain *string) (*string, error) {
	if plain == nil || *plain == "" {
		return nil, nil
	}
	enc, err := c.Encrypt(*plain)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

func (c *FieldCipher) DecryptOptional(encoded *string) (*string, error) {
	if encoded == nil {
		return nil, nil
	}
	plain, err := c.Decrypt(*encoded)
	if err != nil {
		return nil, err
	}
	return &plain, nil
}
