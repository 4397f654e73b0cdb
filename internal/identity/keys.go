package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

const pemTypePrivateKey = "PRIVATE KEY"

// ParsePrivateKeyPEM reads a PKCS#8 Ed25519 private key.
func ParsePrivateKeyPEM(data string) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("key is not an Ed25519 private key")
	}
	return priv, nil
}

func MarshalPrivateKeyPEM(key ed25519.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der})), nil
}

// GenerateKeyPEM returns a fresh signing key in PEM form.
func GenerateKeyPEM() (string, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return MarshalPrivateKeyPEM(priv)
}

// LoadOrGenerateKey parses data, or generates an ephemeral key when data is empty.
// Sessions signed with an ephemeral key do not survive a restart.
func LoadOrGenerateKey(data string) (ed25519.PrivateKey, error) {
	if data != "" {
		return ParsePrivateKeyPEM(data)
	}

	identityLogger.Warn().Msg("No session signing key configured, generating an ephemeral one")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return priv, nil
}
