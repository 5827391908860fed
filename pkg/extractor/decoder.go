package extractor

import (
	"fmt"
	"math"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

// TagDecoder turns the inference backend's raw score vectors into labeled
// subtokens. It is a pure function of its inputs and the label set.
type TagDecoder struct {
	labels *models.LabelSet
}

func NewTagDecoder(labels *models.LabelSet) *TagDecoder {
	return &TagDecoder{labels: labels}
}

// Decode assigns one label per real position. scores and real are the
// backend's parallel output; tokens are the tokenizer units the real
// positions map onto, in order. Padding and special positions are dropped
// entirely and never reach word construction.
func (d *TagDecoder) Decode(
	tokens []models.EncodedToken,
	scores [][]float32,
	real []bool,
) ([]models.Subtoken, error) {
	if len(scores) != len(real) {
		return nil, fmt.Errorf(
			"backend returned %d score vectors but %d token flags: %w",
			len(scores), len(real), models.ErrShapeMismatch,
		)
	}

	subtokens := make([]models.Subtoken, 0, len(tokens))
	next := 0
	for i, vec := range scores {
		if !real[i] {
			continue
		}
		if next >= len(tokens) {
			return nil, fmt.Errorf(
				"backend marked more real positions than the %d submitted tokens: %w",
				len(tokens), models.ErrShapeMismatch,
			)
		}
		if len(vec) != d.labels.Size() {
			return nil, models.NewShapeMismatchError(d.labels.Size(), len(vec))
		}
		class, confidence := argmax(vec)
		tok := tokens[next]
		subtokens = append(subtokens, models.Subtoken{
			Text:         tok.Text,
			Start:        tok.Start,
			End:          tok.End,
			Continuation: tok.Continuation,
			Label:        d.labels.At(class),
			Score:        confidence,
		})
		next++
	}
	if next != len(tokens) {
		return nil, fmt.Errorf(
			"backend marked %d real positions for %d submitted tokens: %w",
			next, len(tokens), models.ErrShapeMismatch,
		)
	}
	return subtokens, nil
}

// argmax returns the index of the maximum score and its softmax probability.
// Ties resolve to the lowest class index so decoding is deterministic.
func argmax(vec []float32) (int, float32) {
	best := 0
	for i, v := range vec {
		if v > vec[best] {
			best = i
		}
	}
	var sum float64
	max := float64(vec[best])
	for _, v := range vec {
		sum += math.Exp(float64(v) - max)
	}
	return best, float32(1 / sum)
}
