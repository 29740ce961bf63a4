// Package encoding turns a counter's attribute set into an opaque state
// token and back.
//
// The HTTP host keeps no per-instance state on the server: every response
// carries the attributes forward in the token and every request brings
// them back. Tokens come in two modes:
//   - Signed (default): base64url(msgpack) + "." + truncated HMAC-SHA256; readable but tamper-proof
//   - Sensitive: AES-256-GCM with a random nonce; fully opaque
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the envelope version written into every token.
const Version = 1

var (
	ErrInvalidFormat      = errors.New("encoding: invalid token format")
	ErrSignatureInvalid   = errors.New("encoding: signature verification failed")
	ErrDecryptFailed      = errors.New("encoding: decryption failed")
	ErrUnsupportedVersion = errors.New("encoding: unsupported token version")
)

// sigSize is the number of HMAC bytes kept in a signed token.
const sigSize = 16

// envelope is the msgpack payload of a token.
type envelope struct {
	Version int               `msgpack:"v"`
	Attrs   map[string]string `msgpack:"a"`
}

// Encoder signs or seals attribute sets.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates an encoder. Keys shorter than 32 bytes are stretched
// with SHA-256; a 32-byte key is used as is for AES-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	key = key[:32]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encoding: cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encoding: gcm: %w", err)
	}

	return &Encoder{key: key, gcm: gcm}, nil
}

// Encode packs attrs into a token. If sensitive is true the token is
// encrypted; otherwise it is signed.
func (e *Encoder) Encode(attrs map[string]string, sensitive bool) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	packed, err := msgpack.Marshal(envelope{Version: Version, Attrs: attrs})
	if err != nil {
		return "", fmt.Errorf("encoding: marshal: %w", err)
	}

	if sensitive {
		return e.encrypt(packed)
	}
	return e.sign(packed), nil
}

// Decode unpacks a token produced by Encode with the same mode and key.
func (e *Encoder) Decode(token string, sensitive bool) (map[string]string, error) {
	var (
		packed []byte
		err    error
	)
	if sensitive {
		packed, err = e.decrypt(token)
	} else {
		packed, err = e.verify(token)
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := msgpack.Unmarshal(packed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if env.Attrs == nil {
		env.Attrs = map[string]string{}
	}
	return env.Attrs, nil
}

// sign produces base64(payload).base64(hmac[:16]).
func (e *Encoder) sign(data []byte) string {
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := mac.Sum(nil)[:sigSize]
	return base64.RawURLEncoding.EncodeToString(data) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (e *Encoder) verify(token string) ([]byte, error) {
	payload, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)[:sigSize]) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encoding: nonce: %w", err)
	}
	sealed := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (e *Encoder) decrypt(token string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(sealed) < e.gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptFailed)
	}

	nonce, ciphertext := sealed[:e.gcm.NonceSize()], sealed[e.gcm.NonceSize():]
	data, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
