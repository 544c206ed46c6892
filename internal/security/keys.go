package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair is an RSA signing key and its verification half.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// ParseKeyPair decodes base64-wrapped PEM keys as they appear in the
// environment. The private key may be PKCS#1 or PKCS#8; the public key
// PKIX or PKCS#1. The two halves must match.
func ParseKeyPair(privateB64, publicB64 string) (KeyPair, error) {
	privPEM, err := decodeB64(privateB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("decode private key: %w", err)
	}
	pubPEM, err := decodeB64(publicB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("decode public key: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("parse private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("parse public key: %w", err)
	}
	if !priv.PublicKey.Equal(pub) {
		return KeyPair{}, errors.New("public key does not match private key")
	}
	return KeyPair{Private: priv, Public: pub}, nil
}

// GenerateKeyPair creates a fresh RSA key pair.
func GenerateKeyPair(bits int) (KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}
	return KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// EncodeKeyPair returns the base64-wrapped PKCS#8 / PKIX PEM form accepted
// by ParseKeyPair.
func EncodeKeyPair(kp KeyPair) (privateB64, publicB64 string, err error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(kp.Private)
	if err != nil {
		return "", "", fmt.Errorf("marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(kp.Public)
	if err != nil {
		return "", "", fmt.Errorf("marshal public key: %w", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return base64.StdEncoding.EncodeToString(privPEM), base64.StdEncoding.EncodeToString(pubPEM), nil
}

func decodeB64(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, errors.New("empty value")
	}
	return base64.StdEncoding.DecodeString(v)
}
