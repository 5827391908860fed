package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/config"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/internal"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var log = internal.GetLogger()

const (
	VocabFile = "vocab.txt"
	// ConfigFile carries the model's id2label mapping.
	ConfigFile = "config.json"
)

// EnsureAssets downloads the tokenizer vocabulary and model config into
// cfg.Model.Dir when they are missing. The vocabulary is mandatory; a model
// config missing upstream is tolerated since the engine carries a default
// label order.
func EnsureAssets(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Model.Dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = internal.NewLeveledLogrus(log)

	base := strings.TrimRight(cfg.Model.AssetsURL, "/")
	for _, asset := range []struct {
		name     string
		required bool
	}{
		{VocabFile, true},
		{ConfigFile, false},
	} {
		dest := filepath.Join(cfg.Model.Dir, asset.name)
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if base == "" {
			if asset.required {
				return fmt.Errorf("%s missing and model.assets_url not configured", dest)
			}
			continue
		}
		log.Infof("Downloading model asset %s", asset.name)
		err := downloadFile(ctx, client, base+"/"+asset.name, dest)
		if err != nil {
			if !asset.required {
				log.Warnf("Optional asset %s not available: %v", asset.name, err)
				continue
			}
			return fmt.Errorf("download %s: %w", asset.name, err)
		}
	}
	return nil
}

func downloadFile(
	ctx context.Context,
	client *retryablehttp.Client,
	url string,
	dest string,
) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	// Write to a temp file first so a failed download never leaves a
	// truncated asset behind.
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

type modelConfig struct {
	ID2Label map[string]string `json:"id2label"`
}

// LoadLabelSet builds the label enumeration from the model config's id2label
// mapping, ordered by class id. This is the single source of truth shared by
// the tag decoder and entity assembler. When config.json is absent the
// compiled-in default order is used.
func LoadLabelSet(modelDir string) (*models.LabelSet, error) {
	path := filepath.Join(modelDir, ConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnf("%s not found, using default label order", path)
		return models.DefaultLabelSet(), nil
	}
	if err != nil {
		return nil, err
	}

	var mc modelConfig
	if err := json.Unmarshal(data, &mc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(mc.ID2Label) == 0 {
		log.Warnf("%s has no id2label mapping, using default label order", path)
		return models.DefaultLabelSet(), nil
	}

	names := make([]string, len(mc.ID2Label))
	for key, name := range mc.ID2Label {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 || id >= len(names) {
			return nil, fmt.Errorf("%s: id2label has invalid class id %q", path, key)
		}
		if names[id] != "" {
			return nil, fmt.Errorf("%s: id2label defines class id %d twice", path, id)
		}
		names[id] = name
	}
	for id, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%s: id2label is missing class id %d", path, id)
		}
	}

	ls, err := models.NewLabelSet(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Loaded %d labels from %s", ls.Size(), path)
	return ls, nil
}
