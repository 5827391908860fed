package testutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

// WriteVocab writes a WordPiece vocab file into a test temp dir. [UNK] is
// always the first entry, so the caller's tokens get ids starting at 1 in the
// given order.
func WriteVocab(tb testing.TB, tokens ...string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "vocab.txt")
	lines := append([]string{"[UNK]"}, tokens...)
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
	if err != nil {
		tb.Fatal(err)
	}
	return path
}

// OneHot returns a score vector with a single high class and a flat
// background, so argmax is unambiguous and softmax confidence is stable.
func OneHot(size, index int) []float32 {
	vec := make([]float32, size)
	vec[index] = 8
	return vec
}

// ScriptedBackend fakes a model server: each submitted id scores as the tag
// scripted for it, one-hot over Labels. Like a real server it brackets the
// sequence with two special positions that must be dropped by the decoder.
type ScriptedBackend struct {
	Labels  *models.LabelSet
	TagByID map[int64]string
	// Err, when set, fails every call.
	Err error
	// ExtraScores, when set, is appended to every score vector to provoke
	// shape mismatches.
	ExtraScores int
}

var _ models.InferenceBackend = &ScriptedBackend{}

func (b *ScriptedBackend) Infer(
	_ context.Context,
	ids []int64,
) ([][]float32, []bool, error) {
	if b.Err != nil {
		return nil, nil, b.Err
	}

	classOf := func(tag string) (int, error) {
		for i, name := range b.Labels.Names() {
			if name == tag {
				return i, nil
			}
		}
		return 0, fmt.Errorf("scripted tag %q not in label set", tag)
	}

	size := b.Labels.Size() + b.ExtraScores
	outside, err := classOf("O")
	if err != nil {
		return nil, nil, err
	}

	scores := [][]float32{OneHot(size, outside)}
	real := []bool{false}
	for _, id := range ids {
		tag, ok := b.TagByID[id]
		if !ok {
			tag = "O"
		}
		class, err := classOf(tag)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, OneHot(size, class))
		real = append(real, true)
	}
	scores = append(scores, OneHot(size, outside))
	real = append(real, false)

	return scores, real, nil
}

func (b *ScriptedBackend) Ping(context.Context) error {
	return b.Err
}

// FakeExtractor is a canned AddressExtractor for serving-layer tests.
type FakeExtractor struct {
	Result  *models.PredictionResult
	Batch   []models.BatchPrediction
	Err     error
	ReadyFn func(ctx context.Context) error
}

var _ models.AddressExtractor = &FakeExtractor{}

func (f *FakeExtractor) PredictOne(
	_ context.Context,
	text string,
) (*models.PredictionResult, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}

func (f *FakeExtractor) PredictBatch(
	_ context.Context,
	texts []string,
) ([]models.BatchPrediction, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Batch, nil
}

func (f *FakeExtractor) Ready(ctx context.Context) error {
	if f.ReadyFn != nil {
		return f.ReadyFn(ctx)
	}
	return nil
}

// RandomAddressTexts returns n distinct street-address-like strings. The
// faker is seeded so tests stay reproducible.
func RandomAddressTexts(n int) []string {
	faker := gofakeit.New(42)
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("%d %s", faker.Number(1, 999), faker.Street())
	}
	return texts
}
