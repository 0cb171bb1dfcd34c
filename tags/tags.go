// Package tags canonicalizes the tag set attached to a file.
package tags

import (
	"sort"
	"strings"

	"github.com/code19m/errx"
	"github.com/samber/lo"
)

// CodeEmptyTag is returned when the input contains an empty tag.
const CodeEmptyTag = "EMPTY_TAG"

// Normalize lowercases every tag, removes case-insensitive duplicates and
// returns the set in sorted order so equal tag sets compare deterministically.
// An empty string anywhere in the input fails the whole call. Normalize does
// not cap the number of tags; that limit belongs to the transport boundary.
func Normalize(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}

	for _, t := range in {
		if t == "" {
			return nil, errx.New(
				"tag must not be empty",
				errx.WithCode(CodeEmptyTag),
				errx.WithType(errx.T_Validation),
			)
		}
	}

	out := lo.Uniq(lo.Map(in, func(t string, _ int) string {
		return strings.ToLower(t)
	}))
	sort.Strings(out)

	return out, nil
}
