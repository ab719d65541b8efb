//go:build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEmbedder runs a sentence-transformer graph through ONNX Runtime.
// Input and output tensors are allocated once; Embed serialises access to them.
type ONNXEmbedder struct {
	opts      Options
	tokenizer Tokenizer

	session             *ort.AdvancedSession
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXEmbedder loads the tokenizer and the model graph described by opts.
func NewONNXEmbedder(opts Options) (*ONNXEmbedder, error) {
	opts = opts.withDefaults()

	tokenizer, err := NewWordPieceTokenizer(opts.TokenizerPath)
	if err != nil {
		return nil, err
	}

	if opts.RuntimeLibrary != "" {
		ort.SetSharedLibraryPath(opts.RuntimeLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}

	e := &ONNXEmbedder{opts: opts, tokenizer: tokenizer}
	if err := e.allocate(); err != nil {
		_ = e.Close()
		return nil, err
	}

	return e, nil
}

func (e *ONNXEmbedder) allocate() error {
	inputShape := ort.NewShape(1, int64(e.opts.MaxTokens))
	zeros := make([]int64, e.opts.MaxTokens)

	var err error
	if e.inputIDsTensor, err = ort.NewTensor(inputShape, append([]int64(nil), zeros...)); err != nil {
		return fmt.Errorf("create input_ids tensor: %w", err)
	}
	if e.attentionMaskTensor, err = ort.NewTensor(inputShape, append([]int64(nil), zeros...)); err != nil {
		return fmt.Errorf("create attention_mask tensor: %w", err)
	}
	if e.tokenTypeIDsTensor, err = ort.NewTensor(inputShape, append([]int64(nil), zeros...)); err != nil {
		return fmt.Errorf("create token_type_ids tensor: %w", err)
	}

	outputShape := ort.NewShape(1, int64(e.opts.MaxTokens), int64(e.opts.Dimensions))
	outputSize := e.opts.MaxTokens * e.opts.Dimensions
	if e.opts.Pooled {
		outputShape = ort.NewShape(1, int64(e.opts.Dimensions))
		outputSize = e.opts.Dimensions
	}
	if e.outputTensor, err = ort.NewTensor(outputShape, make([]float32, outputSize)); err != nil {
		return fmt.Errorf("create output tensor: %w", err)
	}

	e.session, err = ort.NewAdvancedSession(
		e.opts.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{e.opts.OutputName},
		[]ort.ArbitraryTensor{e.inputIDsTensor, e.attentionMaskTensor, e.tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{e.outputTensor},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create onnx session for %q: %w", e.opts.ModelPath, err)
	}
	return nil
}

// Embed returns the L2-normalised sentence embedding of text.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputIDs, attentionMask, tokenTypeIDs, err := e.tokenizer.Tokenize(text, e.opts.MaxTokens)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, fmt.Errorf("onnx embedder is closed")
	}

	copy(e.inputIDsTensor.GetData(), inputIDs)
	copy(e.attentionMaskTensor.GetData(), attentionMask)
	copy(e.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	output := e.outputTensor.GetData()
	var vec []float32
	if e.opts.Pooled {
		vec = make([]float32, e.opts.Dimensions)
		copy(vec, output)
	} else {
		vec = MeanPool(output, attentionMask, e.opts.Dimensions)
	}

	NormalizeL2(vec)
	return vec, nil
}

func (e *ONNXEmbedder) Dimensions() int {
	return e.opts.Dimensions
}

// Close releases the session and tensors.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{e.inputIDsTensor, e.attentionMaskTensor, e.tokenTypeIDsTensor} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if e.outputTensor != nil {
		_ = e.outputTensor.Destroy()
	}
	e.inputIDsTensor, e.attentionMaskTensor, e.tokenTypeIDsTensor, e.outputTensor = nil, nil, nil, nil
	return err
}
