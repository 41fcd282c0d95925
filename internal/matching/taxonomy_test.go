// internal/matching/taxonomy_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomy_NormalizeField(t *testing.T) {
	tax := NewTaxonomy()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"english degree name", "Bachelor of Computer Science (Hons)", "computer science"},
		{"malay degree name", "Sarjana Muda Sains Komputer", "computer science"},
		{"malay engineering", "Sarjana Muda Kejuruteraan Awam", "engineering"},
		{"malay accounting diploma", "Diploma Perakaunan", "business"},
		{"medicine", "Doctor of Medicine", "medicine"},
		{"nursing maps to medicine", "Diploma in Nursing", "medicine"},
		{"law", "Bachelor of Law", "law"},
		{"hospitality", "Diploma Hospitaliti", "hospitality"},
		{"pengurusan hits business first", "Diploma Pengurusan Acara", "business"},
		{"all fields literal", "All fields", "all"},
		{"all programmes literal", "Open to all programmes", "all"},
		{"applicable-to-all phrasing", "Applicable to all undergraduate programmes", "all"},
		{"unknown field", "Basket Weaving", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tax.NormalizeField(tt.input))
		})
	}
}

func TestTaxonomy_NormalizeField_FirstMatchWins(t *testing.T) {
	tax := NewTaxonomy()

	// "kejuruteraan perisian" is a computer science keyword even though
	// "kejuruteraan" alone belongs to engineering; table order decides.
	assert.Equal(t, "computer science", tax.NormalizeField("Sarjana Muda Kejuruteraan Perisian"))

	// Chemical engineering hits the engineering entry before science sees
	// the shared "kimia"/"chemical" keyword.
	assert.Equal(t, "engineering", tax.NormalizeField("Chemical Engineering"))
}

func TestTaxonomy_Compatible(t *testing.T) {
	tax := NewTaxonomy()

	tests := []struct {
		name     string
		student  string
		courses  []string
		majors   []string
		expected bool
	}{
		{"empty student value", "", []string{"Computer Science"}, nil, false},
		{"other wildcard", "Other", []string{"Nursing"}, []string{"Medicine"}, true},
		{"cross language field match", "Sains Komputer", []string{"Computer Science"}, nil, true},
		{"field match via majors list", "Software Engineering", nil, []string{"Sains Komputer"}, true},
		{"all entry in courses", "Basket Weaving", []string{"All fields"}, nil, true},
		{"substring match", "Basket Weaving", []string{"Advanced Basket Weaving"}, nil, true},
		{"reverse substring match", "Advanced Basket Weaving Studies", []string{"Basket Weaving"}, nil, true},
		{"no match", "Computer Science", []string{"Nursing"}, []string{"Medicine"}, false},
		{"both lists empty", "Computer Science", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tax.Compatible(tt.student, tt.courses, tt.majors))
		})
	}
}

func TestTaxonomy_Compatible_QualifierStripping(t *testing.T) {
	tax := NewTaxonomy()

	// Award-level qualifiers on either side never block a field match.
	assert.True(t, tax.Compatible(
		"Bachelor of Computer Science (Hons)",
		[]string{"Diploma Sains Komputer"},
		nil,
	))
}
