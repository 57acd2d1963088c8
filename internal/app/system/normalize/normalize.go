// internal/app/system/normalize/normalize.go
//
// Package normalize canonicalizes user input before it is stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/edutrack/internal/app/system/htmlsanitize"
)

// Name strips markup, collapses runs of whitespace, and upper-cases.
// Institute, user, and subscription names are stored this way.
func Name(s string) string {
	return strings.ToUpper(Title(s))
}

// Title strips markup and collapses whitespace but keeps case. Used for
// branch, level, batch, category, and activity names.
func Title(s string) string {
	return strings.Join(strings.Fields(htmlsanitize.Plain(s)), " ")
}

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Mobile keeps a leading '+' and the digits of a phone number.
func Mobile(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Role upper-cases a role name.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
