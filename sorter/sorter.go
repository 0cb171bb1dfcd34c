// Package sorter defines the sort options accepted by file listings.
// Only whitelisted record fields may be sorted on; anything else is
// rejected at parse time rather than passed through to the store.
package sorter

import (
	"github.com/code19m/errx"
)

// CodeInvalidSortField is returned when an unknown sort field is requested.
const CodeInvalidSortField = "INVALID_SORT_FIELD"

// Field is a sortable file record field.
type Field string

const (
	FieldFilename    Field = "filename"
	FieldUploadDate  Field = "uploadDate"
	FieldTag         Field = "tag"
	FieldContentType Field = "contentType"
	FieldSize        Field = "size"
)

// Opt is a single listing sort option.
type Opt struct {
	Field     Field
	Ascending bool
}

// Default returns the sort applied when the caller requests none.
func Default() Opt {
	return Opt{Field: FieldUploadDate, Ascending: true}
}

// Parse validates a requested sort field name. An empty string selects
// the default field.
func Parse(field string, ascending bool) (Opt, error) {
	if field == "" {
		return Opt{Field: FieldUploadDate, Ascending: ascending}, nil
	}

	switch f := Field(field); f {
	case FieldFilename, FieldUploadDate, FieldTag, FieldContentType, FieldSize:
		return Opt{Field: f, Ascending: ascending}, nil
	default:
		return Opt{}, errx.New(
			"unknown sort field: "+field,
			errx.WithCode(CodeInvalidSortField),
			errx.WithType(errx.T_Validation),
		)
	}
}
