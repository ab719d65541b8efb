package embedding

import "math"

// MeanPool averages token states of shape [seqLen, dims] over positions whose mask is set.
// A mask with no set positions yields a zero vector.
func MeanPool(hidden []float32, mask []int64, dims int) []float32 {
	out := make([]float32, dims)
	var count float32
	for pos, m := range mask {
		if m == 0 {
			continue
		}
		offset := pos * dims
		if offset+dims > len(hidden) {
			break
		}
		for j := 0; j < dims; j++ {
			out[j] += hidden[offset+j]
		}
		count++
	}
	if count == 0 {
		return out
	}
	for j := range out {
		out[j] /= count
	}
	return out
}

// NormalizeL2 scales x in place to unit length. Zero vectors are left untouched.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= norm
	}
}
