package extract

import "strings"

// SVO is a subject-verb-object triple found in a sentence
type SVO struct {
	Subject string
	Verb    string
	Object  string // may be empty
}

// SyntaxParser identifies the primary verb of a sentence together with
// its nominal subject and direct object or complement. Availability is
// a capability: a nil parser puts the extractor into degraded
// whole-sentence mode.
type SyntaxParser interface {
	ParseSVO(sentence string) (SVO, bool)
}

// HeuristicParser is a lightweight dependency-free SVO parser. It finds
// the first verb by lexicon and suffix rules, takes the nearest content
// word before it as the subject and the first content word after it as
// the object.
type HeuristicParser struct{}

// NewHeuristicParser creates a new heuristic parser
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Common verbs that the suffix rules would miss
var verbLexicon = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"has": {}, "have": {}, "had": {},
	"does": {}, "do": {}, "did": {},
	"can": {}, "will": {}, "would": {}, "could": {}, "should": {}, "must": {}, "may": {},
	"contains": {}, "consists": {}, "orbits": {}, "holds": {}, "makes": {}, "means": {},
	"says": {}, "states": {}, "shows": {}, "becomes": {}, "remains": {}, "lies": {},
	"represents": {}, "includes": {}, "produces": {}, "causes": {}, "measures": {},
}

// Words that never act as subject or object
var functionWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "from": {}, "by": {},
	"with": {}, "as": {}, "and": {}, "or": {}, "but": {}, "not": {}, "no": {},
	"its": {}, "his": {}, "her": {}, "their": {}, "our": {}, "your": {}, "my": {},
	"very": {}, "also": {}, "about": {}, "approximately": {},
}

// ParseSVO implements SyntaxParser
func (p *HeuristicParser) ParseSVO(sentence string) (SVO, bool) {
	words := strings.Fields(sentence)
	if len(words) < 2 {
		return SVO{}, false
	}

	verbIdx := -1
	for i, w := range words {
		if isVerb(normalizeWord(w)) {
			verbIdx = i
			break
		}
	}
	if verbIdx <= 0 {
		// No verb, or the sentence starts with one: no nominal subject
		return SVO{}, false
	}

	subject := ""
	for i := verbIdx - 1; i >= 0; i-- {
		w := normalizeWord(words[i])
		if w == "" {
			continue
		}
		if _, fn := functionWords[strings.ToLower(w)]; !fn {
			subject = w
			break
		}
	}
	if subject == "" {
		return SVO{}, false
	}

	object := ""
	for i := verbIdx + 1; i < len(words); i++ {
		w := normalizeWord(words[i])
		if w == "" {
			continue
		}
		lower := strings.ToLower(w)
		if _, fn := functionWords[lower]; fn {
			continue
		}
		if isVerb(lower) {
			continue
		}
		object = w
		break
	}

	return SVO{
		Subject: subject,
		Verb:    normalizeWord(words[verbIdx]),
		Object:  object,
	}, true
}

func isVerb(word string) bool {
	lower := strings.ToLower(word)
	if _, ok := verbLexicon[lower]; ok {
		return true
	}
	// Regular past tense and gerund forms
	if len(lower) > 4 && (strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "ing")) {
		return true
	}
	return false
}

// normalizeWord strips surrounding punctuation from a token
func normalizeWord(w string) string {
	return strings.Trim(w, ".,;:!?\"'()[]{}")
}
