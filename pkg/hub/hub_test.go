package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/config"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var testCtx = context.Background()

func TestLoadLabelSetFromModelConfig(t *testing.T) {
	dir := t.TempDir()
	modelConfig := `{
		"id2label": {
			"0": "O",
			"1": "B-STREET",
			"2": "I-STREET",
			"3": "B-WARD",
			"4": "I-WARD"
		}
	}`
	err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(modelConfig), 0o644)
	assert.NoError(t, err)

	ls, err := LoadLabelSet(dir)
	assert.NoError(t, err)
	assert.Equal(t, 5, ls.Size())
	// Ordered by class id, not map iteration order
	assert.Equal(t, "O", ls.At(0).String())
	assert.Equal(t, "B-STREET", ls.At(1).String())
	assert.Equal(t, "I-WARD", ls.At(4).String())
}

func TestLoadLabelSetFallsBackToDefault(t *testing.T) {
	ls, err := LoadLabelSet(t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, models.DefaultLabelSet().Names(), ls.Names())
}

func TestLoadLabelSetRejectsBadMappings(t *testing.T) {
	for name, body := range map[string]string{
		"gap":        `{"id2label": {"0": "O", "2": "B-CITY"}}`,
		"bad id":     `{"id2label": {"zero": "O"}}`,
		"bad label":  `{"id2label": {"0": "B-PROVINCE"}}`,
		"bad syntax": `{`,
	} {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0o644)
		assert.NoError(t, err)

		_, err = LoadLabelSet(dir)
		assert.Error(t, err, "case %q", name)
	}
}

func TestEnsureAssetsDownloadsMissingFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + VocabFile:
			_, _ = w.Write([]byte("[UNK]\nQuận\n"))
		case "/" + ConfigFile:
			_, _ = w.Write([]byte(`{"id2label": {"0": "O"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		Model: config.ModelConfig{Dir: dir, AssetsURL: ts.URL},
	}

	err := EnsureAssets(testCtx, cfg)
	assert.NoError(t, err)

	vocab, err := os.ReadFile(filepath.Join(dir, VocabFile))
	assert.NoError(t, err)
	assert.Contains(t, string(vocab), "Quận")

	_, err = os.Stat(filepath.Join(dir, ConfigFile))
	assert.NoError(t, err)
}

func TestEnsureAssetsToleratesMissingModelConfig(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/"+VocabFile {
			_, _ = w.Write([]byte("[UNK]\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	cfg := &config.Config{
		Model: config.ModelConfig{Dir: t.TempDir(), AssetsURL: ts.URL},
	}
	assert.NoError(t, EnsureAssets(testCtx, cfg))
}

func TestEnsureAssetsSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, VocabFile), []byte("[UNK]\n"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("{}"), 0o644))

	// No assets URL configured: must succeed since everything is local
	cfg := &config.Config{Model: config.ModelConfig{Dir: dir}}
	assert.NoError(t, EnsureAssets(testCtx, cfg))
}

func TestEnsureAssetsFailsWithoutVocabSource(t *testing.T) {
	cfg := &config.Config{Model: config.ModelConfig{Dir: t.TempDir()}}
	assert.Error(t, EnsureAssets(testCtx, cfg))
}
