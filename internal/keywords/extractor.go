// Package keywords derives comparable skill and topic terms from free text.
package keywords

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/aaaton/golem/v4"
	golemen "github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// minKeywordLength is the shortest keyword kept, in runes.
const minKeywordLength = 3

// Penn Treebank tags for common and proper nouns.
var (
	commonNounTags = map[string]bool{"NN": true, "NNS": true}
	properNounTags = map[string]bool{"NNP": true, "NNPS": true}
)

// Extractor turns text into a keyword set using part-of-speech tagging and lemmatization.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	lemma func(word string) string
}

// NewExtractor loads the English lemmatization dictionary.
// Loading is comparatively slow; prefer Default for process-wide reuse.
func NewExtractor() (*Extractor, error) {
	lemmatizer, err := golem.New(golemen.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemmatizer: %w", err)
	}
	return &Extractor{lemma: lemmatizer.Lemma}, nil
}

var (
	defaultOnce      sync.Once
	defaultExtractor *Extractor
	defaultErr       error
)

// Default returns the process-wide extractor, building it on first use.
func Default() (*Extractor, error) {
	defaultOnce.Do(func() {
		defaultExtractor, defaultErr = NewExtractor()
	})
	return defaultExtractor, defaultErr
}

type taggedToken struct {
	text string
	tag  string
}

// Extract returns the lowercase lemmas of the nouns in text, without stop words and short tokens.
// Empty or blank text yields an empty set.
func (e *Extractor) Extract(text string) (Set, error) {
	if strings.TrimSpace(text) == "" {
		return make(Set), nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tag text: %w", err)
	}

	tokens := doc.Tokens()
	tagged := make([]taggedToken, 0, len(tokens))
	for _, tok := range tokens {
		tagged = append(tagged, taggedToken{text: tok.Text, tag: tok.Tag})
	}

	return e.collect(tagged), nil
}

func (e *Extractor) collect(tokens []taggedToken) Set {
	out := make(Set)
	for _, tok := range tokens {
		common, proper := commonNounTags[tok.tag], properNounTags[tok.tag]
		if !common && !proper {
			continue
		}

		surface := strings.TrimSpace(tok.text)
		lower := strings.ToLower(surface)
		if utf8.RuneCountInString(surface) < minKeywordLength || !hasLetter(surface) || IsStopWord(lower) {
			continue
		}

		keyword := lower
		if common && e.lemma != nil {
			keyword = strings.ToLower(e.lemma(lower))
		}

		// Lemmas can come out shorter than their surface form ("axes" -> "ax").
		if utf8.RuneCountInString(keyword) < minKeywordLength || IsStopWord(keyword) {
			continue
		}
		out.Add(keyword)
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
