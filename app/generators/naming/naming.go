// Package naming derives every identifier form a generated resource needs
// from a single canonical PascalCase entity name.
package naming

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Form names one derived identifier form.
type Form string

// Supported forms. FormPascal is the canonical input and cannot be overridden.
const (
	FormPascal       Form = "pascal"
	FormCamel        Form = "camel"
	FormLower        Form = "lower"
	FormPlural       Form = "plural"
	FormSnake        Form = "snake"
	FormKebab        Form = "kebab"
	FormPluralPascal Form = "pluralPascal"
	FormPluralCamel  Form = "pluralCamel"
)

var overridableForms = map[Form]bool{
	FormCamel:        true,
	FormLower:        true,
	FormPlural:       true,
	FormSnake:        true,
	FormKebab:        true,
	FormPluralPascal: true,
	FormPluralCamel:  true,
}

// ParseForm maps a form name as written in descriptor files to a Form.
func ParseForm(s string) (Form, error) {
	f := Form(s)
	if f == FormPascal || overridableForms[f] {
		return f, nil
	}
	return "", fmt.Errorf("unknown name form %q", s)
}

// NameSet holds all derived names for one entity.
type NameSet struct {
	Pascal       string // "OrderItem"
	Camel        string // "orderItem"
	Lower        string // "orderitem"
	Plural       string // "order-items"
	Snake        string // "order_item"
	Kebab        string // "order-item"
	PluralPascal string // "OrderItems"
	PluralCamel  string // "orderItems"
}

// Get returns the value of a single form.
func (n NameSet) Get(f Form) string {
	switch f {
	case FormPascal:
		return n.Pascal
	case FormCamel:
		return n.Camel
	case FormLower:
		return n.Lower
	case FormPlural:
		return n.Plural
	case FormSnake:
		return n.Snake
	case FormKebab:
		return n.Kebab
	case FormPluralPascal:
		return n.PluralPascal
	case FormPluralCamel:
		return n.PluralCamel
	}
	return ""
}

// Derive computes the NameSet for canonical. Overrides replace individual
// derived forms; the canonical Pascal form itself cannot be overridden.
func Derive(canonical string, overrides map[Form]string) (NameSet, error) {
	if err := ValidateIdentifier(canonical); err != nil {
		return NameSet{}, err
	}

	snake := ToSnakeCase(canonical)
	kebab := strings.ReplaceAll(snake, "_", "-")
	camel := LowerFirst(canonical)

	names := NameSet{
		Pascal:       canonical,
		Camel:        camel,
		Lower:        strings.ToLower(canonical),
		Plural:       Pluralize(kebab),
		Snake:        snake,
		Kebab:        kebab,
		PluralPascal: Pluralize(canonical),
		PluralCamel:  Pluralize(camel),
	}

	// Apply in a fixed order so error reporting is stable.
	forms := make([]string, 0, len(overrides))
	for f := range overrides {
		forms = append(forms, string(f))
	}
	sort.Strings(forms)

	for _, f := range forms {
		form := Form(f)
		value := overrides[form]
		if !overridableForms[form] {
			return NameSet{}, &InvalidIdentifierError{
				Name:   canonical,
				Reason: fmt.Sprintf("form %q cannot be overridden", f),
			}
		}
		if strings.TrimSpace(value) == "" {
			return NameSet{}, &InvalidIdentifierError{
				Name:   canonical,
				Reason: fmt.Sprintf("override for form %q is empty", f),
			}
		}
		names.set(form, value)
	}

	return names, nil
}

func (n *NameSet) set(f Form, v string) {
	switch f {
	case FormCamel:
		n.Camel = v
	case FormLower:
		n.Lower = v
	case FormPlural:
		n.Plural = v
	case FormSnake:
		n.Snake = v
	case FormKebab:
		n.Kebab = v
	case FormPluralPascal:
		n.PluralPascal = v
	case FormPluralCamel:
		n.PluralCamel = v
	}
}

// Pluralize appends "es" to words ending in s, x, ch or sh and "s" otherwise.
// It is a heuristic: irregular plurals need an explicit override.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "s") || strings.HasSuffix(lower, "x") ||
		strings.HasSuffix(lower, "ch") || strings.HasSuffix(lower, "sh") {
		return word + "es"
	}
	return word + "s"
}

// Singularize strips a plural suffix from a table-style word:
// "categories" -> "category", "boxes" -> "box", "statuses" -> "status".
// Words of three letters or fewer and words ending in "us", "ss" or
// "series" are returned unchanged.
func Singularize(word string) string {
	if len(word) <= 3 {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "series"), strings.HasSuffix(lower, "species"):
		return word
	case strings.HasSuffix(lower, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "uses") && len(lower) > 4 && !isVowel(lower[len(lower)-5]):
		// "statuses" -> "status", "buses" -> "bus"; "houses" keeps its "e".
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "ss"):
		return word
	case strings.HasSuffix(lower, "s"):
		return word[:len(word)-1]
	}
	return word
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

// ToPascalCase joins snake_case or kebab-case parts with each part's first
// letter uppercased: "order_item" -> "OrderItem".
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(UpperFirst(part))
	}
	return b.String()
}

// ToSnakeCase inserts an underscore before each internal uppercase letter,
// then lowercases: "OrderItem" -> "order_item".
func ToSnakeCase(s string) string {
	var result strings.Builder
	result.Grow(len(s) + 4)

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}

// UpperFirst uppercases the first letter only: "title" -> "Title".
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LowerFirst lowercases the first letter only: "OrderItem" -> "orderItem".
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
