package security

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
)

func TestEncodeParseKeyPairRoundTrip(t *testing.T) {
	access, _, _ := testKeys(t)
	privB64, pubB64, err := EncodeKeyPair(access)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	kp, err := ParseKeyPair(privB64, pubB64)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !kp.Public.Equal(access.Public) || !kp.Private.Equal(access.Private) {
		t.Fatal("expected decoded key pair to equal original")
	}
}

func TestParseKeyPairAcceptsPKCS1PrivateKey(t *testing.T) {
	access, _, _ := testKeys(t)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(access.Private)})
	_, pubB64, err := EncodeKeyPair(access)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ParseKeyPair(base64.StdEncoding.EncodeToString(privPEM), pubB64); err != nil {
		t.Fatalf("parse pkcs1: %v", err)
	}
}

func TestParseKeyPairRejectsBadInput(t *testing.T) {
	access, refresh, _ := testKeys(t)
	accessPriv, _, err := EncodeKeyPair(access)
	if err != nil {
		t.Fatalf("encode access: %v", err)
	}
	_, refreshPub, err := EncodeKeyPair(refresh)
	if err != nil {
		t.Fatalf("encode refresh: %v", err)
	}

	tests := []struct {
		name      string
		priv, pub string
	}{
		{name: "empty private", priv: "", pub: refreshPub},
		{name: "not base64", priv: "%%%", pub: refreshPub},
		{name: "not pem", priv: base64.StdEncoding.EncodeToString([]byte("hello")), pub: refreshPub},
		{name: "mismatched halves", priv: accessPriv, pub: refreshPub},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseKeyPair(tc.priv, tc.pub); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}
