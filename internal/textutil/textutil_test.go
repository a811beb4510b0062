package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello world", "hello world"},
		{"collapse whitespace", "hello\t\n  world ", "hello world"},
		{"strip url", "see https://example.com/page for details", "see for details"},
		{"strip www url", "see www.example.com now", "see now"},
		{"strip email", "contact admin@example.com today", "contact today"},
		{"empty", "", ""},
		{"only url", "https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"two sentences",
			"The Earth is round. It orbits the Sun.",
			[]string{"The Earth is round.", "It orbits the Sun."},
		},
		{
			"mixed terminators",
			"Really? Yes! Good.",
			[]string{"Really?", "Yes!", "Good."},
		},
		{
			"trailing remainder without terminator",
			"First sentence. trailing fragment",
			[]string{"First sentence.", "trailing fragment"},
		},
		{
			"no boundary inside decimal",
			"Pi is 3.14 approximately.",
			[]string{"Pi is 3.14 approximately."},
		},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The Earth, orbits; the SUN!")
	expected := []string{"the", "earth", "orbits", "the", "sun"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Tokenize = %v, want %v", got, expected)
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "the earth orbits", "the earth orbits", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"empty left", "", "something", 0.0},
		{"empty right", "something", "", 0.0},
		{"both empty", "", "", 0.0},
		// sets: {a,b,c} and {b,c,d}: intersection 2, union 4
		{"partial", "a b c", "b c d", 0.5},
		{"case insensitive", "Earth", "earth", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Overlap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestOverlap_Symmetric(t *testing.T) {
	a := "the quick brown fox"
	b := "the slow brown turtle"
	if Overlap(a, b) != Overlap(b, a) {
		t.Error("Overlap must be symmetric")
	}
}

func TestTruncateText(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	short := TruncateText(text, 25)
	if short != "First sentence here." {
		t.Errorf("expected first sentence only, got %q", short)
	}

	if got := TruncateText(text, 1000); got != text {
		t.Errorf("text under the limit must pass through, got %q", got)
	}
}
