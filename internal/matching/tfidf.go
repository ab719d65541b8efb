package matching

import (
	"math"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/length"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"

	"github.com/spigell/ats-matcher/internal/keywords"
)

// lexicalAnalyzer splits on unicode word boundaries, lowercases, and drops
// single-character tokens and English stop words.
var lexicalAnalyzer = &analysis.DefaultAnalyzer{
	Tokenizer: unicode.NewUnicodeTokenizer(),
	TokenFilters: []analysis.TokenFilter{
		lowercase.NewLowerCaseFilter(),
		length.NewLengthFilter(2, -1),
		stop.NewStopTokensFilter(keywords.StopWords()),
	},
}

// TFIDFScore is the lexical cosine similarity of the two texts as a percentage in [0, 100],
// rounded to two decimals. Terms are weighted with raw frequency times smoothed inverse
// document frequency, ln((1+n)/(1+df)) + 1, over the two-document corpus.
// It is independent of the semantic score and never averaged with it.
func TFIDFScore(resumeText, jdText string) float64 {
	docs := []map[string]float64{termFrequencies(resumeText), termFrequencies(jdText)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}

	n := float64(len(docs))
	for _, doc := range docs {
		for term, tf := range doc {
			doc[term] = tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
		}
	}

	var dot, normA, normB float64
	for term, wa := range docs[0] {
		normA += wa * wa
		if wb, ok := docs[1][term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range docs[1] {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return percent(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func termFrequencies(text string) map[string]float64 {
	tf := make(map[string]float64)
	if text == "" {
		return tf
	}
	for _, tok := range lexicalAnalyzer.Analyze([]byte(text)) {
		tf[string(tok.Term)]++
	}
	return tf
}

// percent maps a similarity to [0, 100] with two decimals. NaN maps to 0.
func percent(sim float64) float64 {
	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	if sim > 1 {
		sim = 1
	}
	return math.Round(sim*10000) / 100
}
