package models

import "context"

// AddressExtractor is the engine surface the serving layer depends on.
// The one real implementation lives in pkg/extractor; tests substitute
// synthetic ones.
type AddressExtractor interface {
	// PredictOne runs the full pipeline for a single text.
	PredictOne(ctx context.Context, text string) (*PredictionResult, error)
	// PredictBatch runs the pipeline per item with failure isolation.
	// The returned slice has the same length and order as texts.
	PredictBatch(ctx context.Context, texts []string) ([]BatchPrediction, error)
	// Ready reports whether the inference backend is reachable.
	Ready(ctx context.Context) error
}
