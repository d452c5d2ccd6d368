package embedding

import "hash/fnv"

const (
	clsToken         = 101
	sepToken         = 102
	vocabSize        = 30000
	defaultMaxTokens = 256
)

// encoding is one BERT-style model input. All three slices share the padded length.
type encoding struct {
	ids   []int64 // input_ids
	mask  []int64 // attention_mask
	types []int64 // token_type_ids, always zero for single-sentence input
}

// encode maps the words of text onto hashed vocabulary ids wrapped in [CLS] ... [SEP],
// truncated and zero-padded to maxTokens.
func encode(text string, maxTokens int) encoding {
	if maxTokens < 2 {
		maxTokens = defaultMaxTokens
	}
	enc := encoding{
		ids:   make([]int64, maxTokens),
		mask:  make([]int64, maxTokens),
		types: make([]int64, maxTokens),
	}
	n := 0
	push := func(id int64) {
		enc.ids[n] = id
		enc.mask[n] = 1
		n++
	}
	push(clsToken)
	for _, w := range tokenizeWords(text) {
		if n == maxTokens-1 {
			break
		}
		push(int64(HashString(w) % vocabSize))
	}
	push(sepToken)
	return enc
}

// HashString returns the FNV-32a hash of s.
func HashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
