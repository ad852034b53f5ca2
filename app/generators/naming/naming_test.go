package naming

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		input string
		want  NameSet
	}{
		{"Order", NameSet{
			Pascal: "Order", Camel: "order", Lower: "order", Plural: "orders",
			Snake: "order", Kebab: "order", PluralPascal: "Orders", PluralCamel: "orders",
		}},
		{"Address", NameSet{
			Pascal: "Address", Camel: "address", Lower: "address", Plural: "addresses",
			Snake: "address", Kebab: "address", PluralPascal: "Addresses", PluralCamel: "addresses",
		}},
		{"OrderItem", NameSet{
			Pascal: "OrderItem", Camel: "orderItem", Lower: "orderitem", Plural: "order-items",
			Snake: "order_item", Kebab: "order-item", PluralPascal: "OrderItems", PluralCamel: "orderItems",
		}},
		{"TaxBox", NameSet{
			Pascal: "TaxBox", Camel: "taxBox", Lower: "taxbox", Plural: "tax-boxes",
			Snake: "tax_box", Kebab: "tax-box", PluralPascal: "TaxBoxes", PluralCamel: "taxBoxes",
		}},
		{"Batch", NameSet{
			Pascal: "Batch", Camel: "batch", Lower: "batch", Plural: "batches",
			Snake: "batch", Kebab: "batch", PluralPascal: "Batches", PluralCamel: "batches",
		}},
		{"Item2", NameSet{
			Pascal: "Item2", Camel: "item2", Lower: "item2", Plural: "item2s",
			Snake: "item2", Kebab: "item2", PluralPascal: "Item2s", PluralCamel: "item2s",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Derive(tt.input, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveIsPure(t *testing.T) {
	first, err := Derive("ShippingAddress", nil)
	require.NoError(t, err)
	second, err := Derive("ShippingAddress", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveRoundTrip(t *testing.T) {
	names, err := Derive("OrderLine", nil)
	require.NoError(t, err)

	// Every form can be traced back to the canonical name.
	assert.Equal(t, names.Pascal, UpperFirst(names.Camel))
	assert.Equal(t, names.Lower, toLowerASCII(names.Pascal))
	assert.Equal(t, names.Snake, ToSnakeCase(names.Pascal))
	assert.Equal(t, names.Plural, Pluralize(names.Kebab))
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func TestDeriveOverrides(t *testing.T) {
	names, err := Derive("Person", map[Form]string{
		FormPlural:       "people",
		FormPluralPascal: "People",
		FormSnake:        "persons",
	})
	require.NoError(t, err)

	assert.Equal(t, "people", names.Plural)
	assert.Equal(t, "People", names.PluralPascal)
	assert.Equal(t, "persons", names.Snake)
	assert.Equal(t, "person", names.Camel, "forms without an override are still derived")
}

func TestDeriveOverrideErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[Form]string
	}{
		{"canonical form", map[Form]string{FormPascal: "Other"}},
		{"empty value", map[Form]string{FormPlural: "  "}},
		{"unknown form", map[Form]string{Form("shouty"): "ORDER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive("Order", tt.overrides)
			var idErr *InvalidIdentifierError
			require.True(t, errors.As(err, &idErr), "expected InvalidIdentifierError, got %v", err)
		})
	}
}

func TestDeriveInvalidIdentifier(t *testing.T) {
	tests := []string{"", "1Order", "Order Item", "order-item", "Order_Item", "_Order", "Ordér"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Derive(input, nil)
			var idErr *InvalidIdentifierError
			require.True(t, errors.As(err, &idErr), "expected InvalidIdentifierError, got %v", err)
			assert.Equal(t, input, idErr.Name)
			assert.NotEmpty(t, idErr.Reason)
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"order", "orders"},
		{"address", "addresses"},
		{"box", "boxes"},
		{"church", "churches"},
		{"dish", "dishes"},
		{"category", "categorys"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.input))
		})
	}
}

func TestParseForm(t *testing.T) {
	f, err := ParseForm("plural")
	require.NoError(t, err)
	assert.Equal(t, FormPlural, f)

	_, err = ParseForm("screaming")
	assert.Error(t, err)
}

func TestNameSetGet(t *testing.T) {
	names, err := Derive("OrderItem", nil)
	require.NoError(t, err)

	assert.Equal(t, "OrderItem", names.Get(FormPascal))
	assert.Equal(t, "order-items", names.Get(FormPlural))
	assert.Equal(t, "order_item", names.Get(FormSnake))
	assert.Equal(t, "", names.Get(Form("missing")))
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"orders", "order"},
		{"categories", "category"},
		{"addresses", "address"},
		{"boxes", "box"},
		{"branches", "branch"},
		{"glasses", "glass"},
		{"glass", "glass"},
		{"order_items", "order_item"},
		{"ies", "ies"},
		{"bus", "bus"},
		{"statuses", "status"},
		{"status", "status"},
		{"buses", "bus"},
		{"campuses", "campus"},
		{"houses", "house"},
		{"series", "series"},
		{"tv_series", "tv_series"},
		{"Statuses", "Status"},
		{"users", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Singularize(tt.input))
		})
	}
}

func TestToPascalCase(t *testing.T) {
	assert.Equal(t, "OrderItem", ToPascalCase("order_item"))
	assert.Equal(t, "OrderItem", ToPascalCase("order-item"))
	assert.Equal(t, "Id", ToPascalCase("id"))
	assert.Equal(t, "CustomerAccountId", ToPascalCase("customer__account_id"))
	assert.Equal(t, "", ToPascalCase(""))
}
