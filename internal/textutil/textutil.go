// Package textutil provides the text primitives shared by the pipeline:
// cleaning, sentence segmentation, tokenization, and lexical overlap.
// Everything here is a pure function of its input.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe      = regexp.MustCompile(`\S+@\S+`)
)

// CleanText normalizes whitespace and strips URLs and e-mail addresses
func CleanText(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitSentences splits text into trimmed sentences. A boundary is a
// '.', '!' or '?' followed by whitespace; empty segments are dropped.
// No length filtering happens here.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// Tokenize lowercases text, removes punctuation, and splits on whitespace
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Fields(b.String())
}

// TokenSet returns the set of tokens in text
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// Overlap computes word-set Jaccard similarity between two texts.
// Either side being empty yields 0.
func Overlap(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// TruncateText trims text to at most maxLen characters on sentence
// boundaries, keeping only whole sentences.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	var b strings.Builder
	for _, sentence := range SplitSentences(text) {
		if b.Len()+len(sentence)+1 > maxLen {
			break
		}
		b.WriteString(sentence)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
