package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrazmi/crudgen/app/generators/naming"
)

// SampleVariant selects which literal SampleValue produces.
type SampleVariant int

const (
	// SampleCreate is a valid value used to build a new entity.
	SampleCreate SampleVariant = iota
	// SampleUpdate is a valid value distinct from SampleCreate.
	SampleUpdate
	// SampleInvalid violates not-blank and not-null constraints.
	SampleInvalid
)

var sizeMaxPattern = regexp.MustCompile(`max\s*=\s*(\d+)`)

// SampleValue returns a deterministic source literal for a field, used by
// generated tests to construct requests and entities.
func SampleValue(f FieldSpec, variant SampleVariant) string {
	if variant == SampleInvalid {
		return invalidValue(f.Type)
	}

	n := 1
	if variant == SampleUpdate {
		n = 2
	}

	switch f.Type {
	case "String":
		return strconv.Quote(sampleText(f, variant))
	case "Long", "long":
		return fmt.Sprintf("%dL", n)
	case "Integer", "int":
		return strconv.Itoa(n)
	case "Short", "short":
		return fmt.Sprintf("(short) %d", n)
	case "Double", "double":
		return fmt.Sprintf("%d.0", n)
	case "Float", "float":
		return fmt.Sprintf("%d.0f", n)
	case "BigDecimal":
		return fmt.Sprintf("BigDecimal.valueOf(%d000)", n)
	case "Boolean", "boolean":
		return strconv.FormatBool(variant == SampleCreate)
	case "LocalDateTime":
		return fmt.Sprintf("LocalDateTime.of(2024, 1, %d, 0, 0)", n)
	case "LocalDate":
		return fmt.Sprintf("LocalDate.of(2024, 1, %d)", n)
	case "LocalTime":
		return fmt.Sprintf("LocalTime.of(%d, 0)", n)
	case "Instant":
		return fmt.Sprintf("Instant.parse(\"2024-01-0%dT00:00:00Z\")", n)
	case "UUID":
		return fmt.Sprintf("UUID.fromString(\"00000000-0000-0000-0000-00000000000%d\")", n)
	}
	return "null"
}

func sampleText(f FieldSpec, variant SampleVariant) string {
	if hasRule(f, "Email") {
		if variant == SampleUpdate {
			return "updated@example.com"
		}
		return "test@example.com"
	}

	prefix := "Test"
	if variant == SampleUpdate {
		prefix = "Updated"
	}
	text := prefix + naming.UpperFirst(f.Name)

	if limit := maxSize(f); limit > 0 && len(text) > limit {
		text = text[:limit]
	}
	return text
}

func invalidValue(typ string) string {
	switch typ {
	case "String":
		return `""`
	case "long":
		return "0L"
	case "int":
		return "0"
	case "short":
		return "(short) 0"
	case "double":
		return "0.0"
	case "float":
		return "0.0f"
	case "boolean":
		return "false"
	}
	return "null"
}

func hasRule(f FieldSpec, name string) bool {
	for _, rule := range f.ValidationRules {
		if rule == name || strings.HasPrefix(rule, name+"(") {
			return true
		}
	}
	return false
}

// maxSize extracts n from a "Size(max = n)" rule.
func maxSize(f FieldSpec) int {
	for _, rule := range f.ValidationRules {
		if !strings.HasPrefix(rule, "Size") {
			continue
		}
		m := sizeMaxPattern.FindStringSubmatch(rule)
		if len(m) < 2 {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}
