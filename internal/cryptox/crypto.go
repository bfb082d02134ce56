// Package cryptox implements the at-rest cipher used for journal content.
//
// Ciphertext strings are self-describing: the hex-encoded 12-byte GCM nonce
// followed by the hex-encoded AES-256-GCM output (ciphertext plus tag), with
// no delimiter. A fresh nonce is drawn for every Encrypt call.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"golang.org/x/crypto/blake2b"
)

const (
	// KeySize is the raw key length (AES-256).
	KeySize = 32
	// IVSize is the GCM nonce length in bytes; its hex prefix is 2*IVSize chars.
	IVSize = 12
)

var (
	// ErrKeyMissing is returned when an operation runs without a key.
	ErrKeyMissing = errors.New("encryption key is not available")
	// ErrDecrypt marks a recoverable per-entry failure: wrong key, tampered
	// or malformed ciphertext.
	ErrDecrypt = errors.New("could not decrypt")
)

// Key is raw symmetric key material. A nil Key means "no key".
type Key []byte

// GenerateKey returns a new random 256-bit key.
func GenerateKey() Key {
	return Key(common.GenerateRandByteArray(KeySize))
}

// ParseKeyHex decodes the external hex representation of a key.
func ParseKeyHex(s string) (Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("decode key: want %d bytes, got %d", KeySize, len(b))
	}
	return Key(b), nil
}

// Hex returns the external representation of k.
func (k Key) Hex() string {
	return hex.EncodeToString(k)
}

// Fingerprint returns a short digest identifying k without revealing it.
func (k Key) Fingerprint() string {
	if len(k) == 0 {
		return ""
	}
	sum := blake2b.Sum256(k)
	return hex.EncodeToString(sum[:8])
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under key and returns hex(iv) + hex(ciphertext).
//
// Example:
//
//	key := cryptox.GenerateKey()
//	ct, err := cryptox.Encrypt("dear diary", key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ct[:24]) // the nonce
func Encrypt(plaintext string, key Key) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyMissing
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	iv := common.GenerateRandByteArray(IVSize)
	ciphertext := aesgcm.Seal(nil, iv, []byte(plaintext), nil)

	return hex.EncodeToString(iv) + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any malformed input or authentication failure
// yields ErrDecrypt; only an absent key yields ErrKeyMissing.
func Decrypt(ciphertext string, key Key) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyMissing
	}
	if len(ciphertext) < IVSize*2 {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	iv, err := hex.DecodeString(ciphertext[:IVSize*2])
	if err != nil {
		return "", fmt.Errorf("%w: bad nonce encoding", ErrDecrypt)
	}
	body, err := hex.DecodeString(ciphertext[IVSize*2:])
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", ErrDecrypt)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		// a key of the wrong size cannot have produced this ciphertext
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext, err := aesgcm.Open(nil, iv, body, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
