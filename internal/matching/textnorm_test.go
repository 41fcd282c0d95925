// internal/matching/textnorm_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorterStem(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"caresses", "caress"},
		{"ponies", "poni"},
		{"cats", "cat"},
		{"agreed", "agre"},
		{"plastered", "plaster"},
		{"motoring", "motor"},
		{"happy", "happi"},
		{"relational", "relat"},
		{"conditional", "condit"},
		{"engineering", "engin"},
		{"sciences", "scienc"},
		{"at", "at"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, porterStem(tt.word))
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"stop words and short tokens dropped", "The quick brown fox and a dog", "quick brown fox dog"},
		{"punctuation stripped", "computer-science, software!", "comput scienc softwar"},
		{"case folded", "ENGINEERING Scholarship", "engin scholarship"},
		{"only stop words", "the and of", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_ExtractKeywords(t *testing.T) {
	n := NewNormalizer()

	t.Run("frequency ordering", func(t *testing.T) {
		text := "science science science research research funding"
		keywords := n.ExtractKeywords(text, 10)
		assert.Equal(t, []string{"scienc", "research", "fund"}, keywords)
	})

	t.Run("ties keep first seen order", func(t *testing.T) {
		keywords := n.ExtractKeywords("alpha beta gamma", 10)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, keywords)
	})

	t.Run("cap applied", func(t *testing.T) {
		keywords := n.ExtractKeywords("alpha beta gamma delta", 2)
		assert.Len(t, keywords, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, n.ExtractKeywords("", 10))
	})
}
