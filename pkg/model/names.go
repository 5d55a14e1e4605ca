package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Naming grammar. Each pattern is anchored and compiled once.
var (
	modelNamePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	entityNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	snakeNamePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	fieldRefPattern   = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*\.[a-z][a-z0-9_]*$`)
	semverPattern     = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?(\+[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsModelName reports whether s is a valid document name (lowercase snake).
func IsModelName(s string) bool { return modelNamePattern.MatchString(s) }

// IsEntityName reports whether s is a valid entity name (PascalCase).
func IsEntityName(s string) bool { return entityNamePattern.MatchString(s) }

// IsSnakeName reports whether s is a valid field, index, metric or rule name.
func IsSnakeName(s string) bool { return snakeNamePattern.MatchString(s) }

// IsFieldRef reports whether s has the Entity.field reference syntax.
func IsFieldRef(s string) bool { return fieldRefPattern.MatchString(s) }

// IsSemver reports whether s is a semantic version such as 1.4.0 or 2.0.0-rc.1.
func IsSemver(s string) bool { return semverPattern.MatchString(s) }

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// FieldRef is a parsed Entity.field reference.
type FieldRef struct {
	Entity string
	Field  string
}

// String returns the reference in Entity.field form.
func (r FieldRef) String() string {
	return r.Entity + "." + r.Field
}

// ParseRef splits a well-formed Entity.field reference.
func ParseRef(s string) (FieldRef, bool) {
	if !IsFieldRef(s) {
		return FieldRef{}, false
	}
	entity, field, _ := strings.Cut(s, ".")
	return FieldRef{Entity: entity, Field: field}, true
}

// Ref builds an Entity.field reference string.
func Ref(entity, field string) string {
	return entity + "." + field
}

// SuggestEntityName proposes a PascalCase spelling of s, e.g. "order_item" -> "OrderItem".
func SuggestEntityName(s string) string {
	title := cases.Title(language.Und)
	var sb strings.Builder
	for _, part := range splitWords(s) {
		sb.WriteString(title.String(part))
	}
	return sb.String()
}

// SuggestSnakeName proposes a snake_case spelling of s, e.g. "emailAddress" -> "email_address".
func SuggestSnakeName(s string) string {
	lower := cases.Lower(language.Und)
	parts := splitWords(s)
	for i, p := range parts {
		parts[i] = lower.String(p)
	}
	return strings.Join(parts, "_")
}

// splitWords breaks s at separators and lower-to-upper case transitions.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
