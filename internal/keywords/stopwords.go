package keywords

import (
	"sync"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

var (
	stopOnce  sync.Once
	stopWords analysis.TokenMap
)

// StopWords returns the English stop word list shared by keyword extraction and lexical scoring.
// The map is built once and must be treated as read-only.
func StopWords() analysis.TokenMap {
	stopOnce.Do(func() {
		stopWords = analysis.NewTokenMap()
		// The list is compiled into bleve; a load error would mean a broken build.
		if err := stopWords.LoadBytes(en.EnglishStopWords); err != nil {
			panic(err)
		}
	})
	return stopWords
}

// IsStopWord reports whether the lowercase word is an English stop word.
func IsStopWord(word string) bool {
	return StopWords()[word]
}
