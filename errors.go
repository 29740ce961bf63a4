package mycounter

import (
	"context"
	"errors"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/mycounter/lib/encoding"
)

// Sentinel errors for host operations. Counter methods themselves never
// fail; these come from decoding state tokens and from HTTP input.
var (
	ErrDecryptFailed    = errors.New("mycounter: state decryption failed")
	ErrSignatureInvalid = errors.New("mycounter: signature verification failed")
	ErrInvalidFormat    = errors.New("mycounter: invalid state format")
	ErrUnknownAttribute = errors.New("mycounter: unknown attribute")
	ErrUnknownElement   = errors.New("mycounter: unknown element")
)

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest checks if err was caused by client input: a tampered or
// malformed state token, or a write to an attribute the counter does not
// support.
func IsBadRequest(err error) bool {
	return IsDecryptionError(err) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrUnknownAttribute)
}

// wrapEncodingError maps encoding package errors to the sentinels above.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat), errors.Is(err, encoding.ErrUnsupportedVersion):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}

// ErrorComponent renders err in place of a counter that could not be
// created. The message is HTML-escaped.
func ErrorComponent(err error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, werr := io.WriteString(w, `<div class="`+TagName+`-error">Counter error: `+html.EscapeString(err.Error())+`</div>`)
		return werr
	})
}
