package embedding

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer produces BERT-style model inputs padded or truncated to exactly maxTokens.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64, err error)
}

// WordPieceTokenizer wraps a HuggingFace tokenizer.json definition.
type WordPieceTokenizer struct {
	tk *tokenizer.Tokenizer
}

// NewWordPieceTokenizer loads the tokenizer definition at path.
func NewWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", path, err)
	}
	return &WordPieceTokenizer{tk: tk}, nil
}

// Tokenize encodes text with special tokens, then fits the sequence to maxTokens.
func (w *WordPieceTokenizer) Tokenize(text string, maxTokens int) ([]int64, []int64, []int64, error) {
	enc, err := w.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode text: %w", err)
	}
	ids, mask, types := fitSequence(enc.GetIds(), enc.GetAttentionMask(), enc.GetTypeIds(), maxTokens)
	return ids, mask, types, nil
}

// fitSequence pads with zeros up to maxTokens, or truncates while keeping the
// trailing separator token so the model still sees a terminated sequence.
func fitSequence(ids, mask, types []int, maxTokens int) ([]int64, []int64, []int64) {
	outIDs := make([]int64, maxTokens)
	outMask := make([]int64, maxTokens)
	outTypes := make([]int64, maxTokens)

	n := len(ids)
	keep := n
	if keep > maxTokens {
		keep = maxTokens - 1
	}
	for i := 0; i < keep; i++ {
		outIDs[i] = int64(ids[i])
		outMask[i] = valueAt(mask, i, 1)
		outTypes[i] = valueAt(types, i, 0)
	}
	if n > maxTokens {
		last := maxTokens - 1
		outIDs[last] = int64(ids[n-1])
		outMask[last] = valueAt(mask, n-1, 1)
		outTypes[last] = valueAt(types, n-1, 0)
	}

	return outIDs, outMask, outTypes
}

func valueAt(values []int, i int, fallback int64) int64 {
	if i < len(values) {
		return int64(values[i])
	}
	return fallback
}
