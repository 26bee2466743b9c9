// Package dataurl parses and decodes RFC 2397 data URLs.
//
// Only the media type and the base64 flag of the header are recognized;
// other parameters such as charset are ignored.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Scheme is the literal prefix of every data URL.
const Scheme = "data:"

// DefaultMIME is used when the header carries no media type.
const DefaultMIME = "text/plain"

const base64Token = "base64"

// ErrInvalidDataURL indicates a string that is not a well-formed data URL.
var ErrInvalidDataURL = errors.New("invalid data URL")

// DataURL is the parsed form of a data URL. Payload is left exactly as found:
// still base64 or percent encoded.
type DataURL struct {
	MIME    string
	Base64  bool
	Payload string
}

// Parse splits a data URL into its media type, encoding flag and payload.
func Parse(raw string) (DataURL, error) {
	if !strings.HasPrefix(raw, Scheme) {
		return DataURL{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidDataURL, Scheme)
	}

	header, payload, found := strings.Cut(raw[len(Scheme):], ",")
	if !found {
		return DataURL{}, fmt.Errorf("%w: missing comma between header and payload", ErrInvalidDataURL)
	}

	segments := strings.Split(header, ";")

	mime := segments[0]
	if mime == "" {
		mime = DefaultMIME
	}

	isBase64 := false
	for _, s := range segments {
		if s == base64Token {
			isBase64 = true
			break
		}
	}

	return DataURL{MIME: mime, Base64: isBase64, Payload: payload}, nil
}

// IsDataURL reports whether raw uses the data scheme.
func IsDataURL(raw string) bool {
	return strings.HasPrefix(raw, Scheme)
}

// IsText reports whether the media type can hold a markdown document.
// Any type mentioning "markdown" or "text" qualifies.
func (d DataURL) IsText() bool {
	return strings.Contains(d.MIME, "markdown") || strings.Contains(d.MIME, "text")
}

// Encode builds a base64 data URL carrying text with the given media type.
func Encode(mime, text string) string {
	if mime == "" {
		mime = DefaultMIME
	}
	return Scheme + mime + ";" + base64Token + "," + base64.StdEncoding.EncodeToString([]byte(text))
}
