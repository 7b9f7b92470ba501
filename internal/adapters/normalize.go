package adapters

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName puts a catalog name in canonical form: Unicode NFC, trimmed, inner whitespace runs
// collapsed to one space. Case and punctuation are preserved; comparison stays exact.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
