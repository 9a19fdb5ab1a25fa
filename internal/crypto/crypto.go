// Package crypto provides the credential digests and the reversible
// contact-field encryption used by the record store. One Cipher is
// constructed at startup from the configured key and handed to every
// component that needs it.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCrypto is returned when a ciphertext is malformed, tampered with, or
// was produced under a different key.
var ErrCrypto = errors.New("invalid key or ciphertext")

// digestSalt is fixed so that Hash stays deterministic: stored digests are
// compared by equality during authentication.
var digestSalt = []byte("school-fees/credentials/v1")

const digestIterations = 100_000

// Cipher holds the process-wide symmetric key.
type Cipher struct {
	key []byte // 32 bytes, derived from the configured key string
}

// New derives a 256-bit AES key from the configured key string. Deriving via
// SHA-256 keeps the cipher insensitive to the configured key length.
func New(key string) (*Cipher, error) {
	if key == "" {
		return nil, fmt.Errorf("encryption key is empty")
	}
	sum := sha256.Sum256([]byte(key))
	return &Cipher{key: sum[:]}, nil
}

// Hash returns a one-way hex digest of a password or security answer.
// Same input always yields the same digest; the plaintext is never
// recoverable.
func (c *Cipher) Hash(secret string) string {
	sum := pbkdf2.Key([]byte(secret), digestSalt, digestIterations, 32, sha256.New)
	return hex.EncodeToString(sum)
}

// Encrypt seals plaintext with AES-256-GCM and returns a base64 string
// safe to store in a text column. Layout is nonce+ciphertext so Decrypt
// can split it back apart.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed or tampered input fails with
// ErrCrypto rather than returning wrong plaintext (GCM authenticates).
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad encoding", ErrCrypto)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("new gcm: %w", err)
	}

	ns := aesgcm.NonceSize()
	if len(data) < ns {
		return "", fmt.Errorf("%w: cipher too short", ErrCrypto)
	}
	nonce, sealed := data[:ns], data[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return string(plaintext), nil
}
