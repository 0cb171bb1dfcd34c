// Package sniff resolves the content type stored with an uploaded file.
//
// The client-declared type always wins when it names a known, non-generic
// MIME type: clients may know things the leading bytes cannot reveal, such
// as a text format without a distinguishing header. Only when the declared
// type is absent, generic or unknown are the buffered header bytes sniffed.
package sniff

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Generic is the fallback type used when neither the declared type nor
// the header bytes identify the content.
const Generic = "application/octet-stream"

// Resolve picks the stored MIME type from the client-declared content type
// and the first bytes of the payload. It never returns an empty string.
func Resolve(declared string, head []byte) string {
	if t, ok := normalizeDeclared(declared); ok {
		return t
	}

	if len(head) == 0 {
		return Generic
	}

	detected := mimetype.Detect(head)
	if !detected.Is(Generic) {
		t, _, err := mime.ParseMediaType(detected.String())
		if err == nil && t != "" {
			return t
		}
	}

	return Generic
}

// normalizeDeclared strips parameters (e.g. "; charset=utf-8") from the
// declared type and reports whether it is a known non-generic MIME type.
func normalizeDeclared(declared string) (string, bool) {
	if declared == "" {
		return "", false
	}

	t, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", false
	}

	t = strings.ToLower(t)
	if t == Generic {
		return "", false
	}

	if _, ok := knownTypes[t]; !ok {
		return "", false
	}
	return t, true
}
