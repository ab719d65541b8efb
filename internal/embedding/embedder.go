// Package embedding turns text into fixed-size sentence vectors.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Close() error
}

// Options configures the ONNX sentence-embedding model.
type Options struct {
	// ModelPath is the exported sentence-transformer graph (e.g. all-MiniLM-L6-v2.onnx).
	ModelPath string
	// TokenizerPath is the HuggingFace tokenizer.json matching the model.
	TokenizerPath string
	// RuntimeLibrary optionally points to the onnxruntime shared library.
	RuntimeLibrary string
	// OutputName is the graph output to read. Defaults to last_hidden_state.
	OutputName string
	// Pooled is set when the output is already a [1, dims] sentence embedding;
	// otherwise token states are mean-pooled with the attention mask.
	Pooled     bool
	Dimensions int
	MaxTokens  int
}

const (
	defaultOutputName = "last_hidden_state"
	defaultDimensions = 384
	defaultMaxTokens  = 256
)

func (o Options) withDefaults() Options {
	if o.OutputName == "" {
		o.OutputName = defaultOutputName
	}
	if o.Dimensions <= 0 {
		o.Dimensions = defaultDimensions
	}
	if o.MaxTokens <= 2 {
		o.MaxTokens = defaultMaxTokens
	}
	return o
}
