package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/internal"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var log = internal.GetLogger()

// Force compiler to validate that the Extractor implements the
// AddressExtractor interface.
var _ models.AddressExtractor = &Extractor{}

// Extractor is the entity decoding engine: raw text in, word-level tags and a
// structured entity map out. The tokenizer and backend are injected and read
// only; the Extractor holds no mutable state after construction and is safe
// for concurrent use.
type Extractor struct {
	tokenizer models.Tokenizer
	backend   models.InferenceBackend
	decoder   *TagDecoder
	assembler *EntityAssembler
	maxTokens int
}

func NewExtractor(
	tokenizer models.Tokenizer,
	backend models.InferenceBackend,
	labels *models.LabelSet,
	maxTokens int,
) *Extractor {
	return &Extractor{
		tokenizer: tokenizer,
		backend:   backend,
		decoder:   NewTagDecoder(labels),
		assembler: NewEntityAssembler(),
		maxTokens: maxTokens,
	}
}

// PredictOne runs the full pipeline for a single text: tokenize, score,
// decode tags, merge words, assemble spans.
func (e *Extractor) PredictOne(
	ctx context.Context,
	text string,
) (*models.PredictionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyText
	}

	tokens, err := e.tokenizer.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize failed: %w", err)
	}
	if e.maxTokens > 0 && len(tokens) > e.maxTokens {
		return nil, models.NewInputTooLongError(len(tokens), e.maxTokens)
	}

	ids := make([]int64, len(tokens))
	for i, t := range tokens {
		ids[i] = t.ID
	}

	scores, real, err := e.backend.Infer(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	subtokens, err := e.decoder.Decode(tokens, scores, real)
	if err != nil {
		return nil, err
	}

	words := e.assembler.Words(text, subtokens)
	_, entities, err := e.assembler.Assemble(text, words)
	if err != nil {
		return nil, err
	}

	tokenLabels := make([]models.TokenLabel, len(words))
	for i, w := range words {
		tokenLabels[i] = models.TokenLabel{Token: w.Text, Label: w.Label.String()}
	}

	return &models.PredictionResult{
		Text:     text,
		Tokens:   tokenLabels,
		Entities: entities,
	}, nil
}

// PredictBatch runs PredictOne per item, in input order, with failure
// isolation: an item's error is recorded in its slot and the remaining items
// still run. The batch fails as a whole only when the backend is unreachable
// or every item failed.
func (e *Extractor) PredictBatch(
	ctx context.Context,
	texts []string,
) ([]models.BatchPrediction, error) {
	results := make([]models.BatchPrediction, len(texts))
	failed := 0
	for i, text := range texts {
		result, err := e.PredictOne(ctx, text)
		if err != nil {
			if errors.Is(err, models.ErrBackendUnavailable) {
				return nil, err
			}
			log.Warnf("batch item %d failed: %v", i, err)
			results[i] = models.BatchPrediction{Err: err}
			failed++
			continue
		}
		results[i] = models.BatchPrediction{Result: result}
	}
	if len(texts) > 0 && failed == len(texts) {
		return results, fmt.Errorf("all %d batch items failed", failed)
	}
	return results, nil
}

// Ready reports whether the inference backend is reachable.
func (e *Extractor) Ready(ctx context.Context) error {
	return e.backend.Ping(ctx)
}
