package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"legal suffix llc", "Smith Pest Control LLC", "smith pest control"},
		{"legal suffix inc with comma", "Acme Exterminators, Inc.", "acme exterminators"},
		{"ampersand", "Smith & Sons", "smith and sons"},
		{"hyphen and apostrophe", "O'Brien Pest-Control", "obrien pest control"},
		{"collapses whitespace", "  Smith   Pest  Control ", "smith pest control"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	t.Run("identical after normalization", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, TokenSetRatio("Smith Pest Control LLC", "smith pest control"))
	})

	t.Run("token order irrelevant", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, TokenSetRatio("Pest Control Smith", "Smith Pest Control"))
	})

	t.Run("subset scores full marks", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100, TokenSetRatio("Smith Pest Control", "Smith Pest"))
	})

	t.Run("unrelated names score low", func(t *testing.T) {
		t.Parallel()
		assert.Less(t, TokenSetRatio("Acme Plumbing", "Zen Roofing"), 60)
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, TokenSetRatio("", "Smith Pest Control"))
	})
}

func TestAddressMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"containment", "123 Main St, Springfield, IL 62701", "123 Main St, Springfield", true},
		{"token overlap with abbreviation", "456 Oak Ave Springfield IL", "456 Oak Avenue Springfield", true},
		{"different addresses", "123 Main St Springfield", "900 Elm Rd Shelbyville", false},
		{"empty side", "", "123 Main St", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AddressMatch(tt.a, tt.b))
		})
	}
}

func TestRegistrableDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url", "https://www.example.com/contact?x=1", "example.com"},
		{"bare domain", "example.com", "example.com"},
		{"strips port", "http://example.com:8080/", "example.com"},
		{"keeps subdomain", "https://shop.example.com", "shop.example.com"},
		{"mixed case", "HTTPS://WWW.Example.COM", "example.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RegistrableDomain(tt.in))
		})
	}
}

func TestDomainsEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, DomainsEqual("https://www.smithpest.com", "smithpest.com/about"))
	assert.False(t, DomainsEqual("smithpest.com", "acmepest.com"))
	assert.False(t, DomainsEqual("", ""))
}
