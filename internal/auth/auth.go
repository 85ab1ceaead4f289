// Package auth signs Foundico API requests.
//
// Foundico authenticates every call with two headers: the public key, and an
// HMAC-SHA256 of the exact request body keyed by the private key, base64
// encoded.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// Header names expected by Foundico.
const (
	HeaderPublicKey = "X-Foundico-Public-Key"
	HeaderAccessKey = "X-Foundico-Access-Key"
)

// ErrMissingKeys is returned when either half of the key pair is empty.
var ErrMissingKeys = errors.New("foundico public and private keys are required")

// Credentials holds the Foundico key pair.
type Credentials struct {
	PublicKey  string
	privateKey []byte
}

// NewCredentials validates and stores a key pair.
func NewCredentials(publicKey, privateKey string) (*Credentials, error) {
	if publicKey == "" || privateKey == "" {
		return nil, ErrMissingKeys
	}
	return &Credentials{
		PublicKey:  publicKey,
		privateKey: []byte(privateKey),
	}, nil
}

// Sign returns the base64 HMAC-SHA256 of payload.
func (c *Credentials) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.privateKey)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignRequest generates authentication headers for a request carrying body.
// The body must be sent byte-for-byte as signed.
func (c *Credentials) SignRequest(body []byte) map[string]string {
	return map[string]string{
		HeaderPublicKey: c.PublicKey,
		HeaderAccessKey: c.Sign(body),
	}
}
