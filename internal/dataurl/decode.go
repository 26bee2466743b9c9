package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrDecode indicates a base64 payload that does not decode to UTF-8 text.
var ErrDecode = errors.New("payload decoding failed")

// asciiSpace matches the whitespace that atob-style decoders skip.
const asciiSpace = " \t\n\f\r"

// DecodeBase64 decodes a base64 payload into UTF-8 text.
//
// Failures are logged to logger (log.Default when nil) and yield "", so an
// empty result is ambiguous: it may be an empty document or a corrupt payload.
// Use DecodeBase64Strict when the distinction matters.
func DecodeBase64(payload string, logger *log.Logger) string {
	text, err := DecodeBase64Strict(payload)
	if err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Printf("base64 decoding failed: %v", err)
		return ""
	}
	return text
}

// DecodeBase64Strict decodes a base64 payload into UTF-8 text and reports
// failures as ErrDecode. ASCII whitespace is ignored and trailing padding is
// optional.
func DecodeBase64Strict(payload string) (string, error) {
	compact := strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiSpace, r) {
			return -1
		}
		return r
	}, payload)

	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(compact, "="))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrDecode)
	}
	return string(data), nil
}

// DecodePercent undoes percent-encoding the way decodeURIComponent does:
// "+" is kept literally. Malformed escapes and escapes that do not form
// UTF-8 (such as "%FF") are reported as ErrInvalidDataURL.
func DecodePercent(payload string) (string, error) {
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: escaped bytes are not valid UTF-8", ErrInvalidDataURL)
	}
	return text, nil
}
