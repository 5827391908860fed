package tokenizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/testutils"
)

func newTestWordPiece(t *testing.T, lowercase bool, tokens ...string) *WordPiece {
	t.Helper()
	wp, err := NewWordPiece(testutils.WriteVocab(t, tokens...), lowercase)
	assert.NoError(t, err)
	return wp
}

func TestEncodeOffsets(t *testing.T) {
	wp := newTestWordPiece(t, false, "Bến", "Nghé")

	text := "Bến Nghé"
	tokens, err := wp.Encode(text)
	assert.NoError(t, err)
	assert.Len(t, tokens, 2)

	for _, tok := range tokens {
		// Offsets are byte offsets and round-trip through the input
		assert.Equal(t, text[tok.Start:tok.End], tok.Text)
	}
	assert.Equal(t, "Bến", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, "Nghé", tokens[1].Text)
	assert.False(t, tokens[1].Continuation)
}

func TestEncodeSubwordContinuation(t *testing.T) {
	wp := newTestWordPiece(t, false, "Nguy", "##ễn")

	tokens, err := wp.Encode("Nguyễn")
	assert.NoError(t, err)
	assert.Len(t, tokens, 2)

	assert.Equal(t, "Nguy", tokens[0].Text)
	assert.False(t, tokens[0].Continuation)
	assert.Equal(t, "ễn", tokens[1].Text)
	assert.True(t, tokens[1].Continuation)
	assert.Equal(t, tokens[0].End, tokens[1].Start)
}

func TestEncodeGreedyLongestMatch(t *testing.T) {
	wp := newTestWordPiece(t, false, "Quậ", "Quận", "##n")

	tokens, err := wp.Encode("Quận")
	assert.NoError(t, err)
	// The longest prefix wins, not the first vocab entry
	assert.Len(t, tokens, 1)
	assert.Equal(t, "Quận", tokens[0].Text)
}

func TestEncodeEdgePunctuation(t *testing.T) {
	wp := newTestWordPiece(t, false, "Huệ", ",", "TP.HCM")

	tokens, err := wp.Encode("Huệ, TP.HCM")
	assert.NoError(t, err)

	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	// Trailing comma splits off; the interior dot stays attached
	assert.Equal(t, []string{"Huệ", ",", "TP.HCM"}, texts)
	for _, tok := range tokens {
		assert.False(t, tok.Continuation)
	}
}

func TestEncodeUnknownWord(t *testing.T) {
	wp := newTestWordPiece(t, false, "Quận")

	text := "Quận xyz"
	tokens, err := wp.Encode(text)
	assert.NoError(t, err)
	assert.Len(t, tokens, 2)

	// The uncovered word collapses into one [UNK] spanning the whole word
	assert.Equal(t, int64(0), tokens[1].ID)
	assert.Equal(t, "xyz", tokens[1].Text)
	assert.Equal(t, text[tokens[1].Start:tokens[1].End], tokens[1].Text)
}

func TestEncodeLowercase(t *testing.T) {
	wp := newTestWordPiece(t, true, "quận")

	tokens, err := wp.Encode("Quận")
	assert.NoError(t, err)
	assert.Len(t, tokens, 1)
	// Matching is lowercased but the emitted text is the original surface
	assert.Equal(t, "Quận", tokens[0].Text)
	assert.Equal(t, int64(1), tokens[0].ID)
}

func TestEncodeEmptyText(t *testing.T) {
	wp := newTestWordPiece(t, false, "x")

	tokens, err := wp.Encode("   ")
	assert.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestNewWordPieceRequiresUnk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	err := os.WriteFile(path, []byte("a\nb\n"), 0o644)
	assert.NoError(t, err)

	_, err = NewWordPiece(path, false)
	assert.ErrorContains(t, err, "[UNK]")

	_, err = NewWordPiece(filepath.Join(t.TempDir(), "missing.txt"), false)
	assert.Error(t, err)
}

var _ models.Tokenizer = &WordPiece{}
