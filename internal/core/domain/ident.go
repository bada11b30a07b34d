package domain

import "strings"

// QuoteIdent double-quotes an identifier so it can be interpolated into
// generated SQL regardless of case or reserved words.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
