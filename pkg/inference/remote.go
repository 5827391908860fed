package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/internal"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var log = internal.GetLogger()

// Force compiler to validate that the backend implements the
// InferenceBackend interface.
var _ models.InferenceBackend = &RemoteBackend{}

type inferRequest struct {
	InputIDs []int64 `json:"input_ids"`
}

type inferResponse struct {
	Logits [][]float32 `json:"logits"`
	Real   []bool      `json:"real_tokens"`
}

// RemoteBackend scores token ids against a model server over HTTP. The
// server owns special and padding positions; its real_tokens flags mark, in
// order, the positions aligned with the submitted ids.
type RemoteBackend struct {
	serverURL string
	client    *retryablehttp.Client
}

func NewRemoteBackend(serverURL string, timeout time.Duration) *RemoteBackend {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = internal.NewLeveledLogrus(log)
	client.HTTPClient.Timeout = timeout
	return &RemoteBackend{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    client,
	}
}

func (b *RemoteBackend) Infer(
	ctx context.Context,
	ids []int64,
) ([][]float32, []bool, error) {
	body, err := json.Marshal(inferRequest{InputIDs: ids})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, b.serverURL+"/logits", body,
	)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, nil, fmt.Errorf(
				"%w: model server returned %s", models.ErrBackendUnavailable, resp.Status,
			)
		}
		return nil, nil, fmt.Errorf("model server returned %s", resp.Status)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read inference response: %w", err)
	}

	var ir inferResponse
	if err := json.Unmarshal(bodyBytes, &ir); err != nil {
		return nil, nil, fmt.Errorf("unmarshal inference response: %w", err)
	}
	return ir.Logits, ir.Real, nil
}

// Ping checks the model server's health endpoint.
func (b *RemoteBackend) Ping(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodGet, b.serverURL+"/healthz", nil,
	)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", models.ErrBackendUnavailable, resp.Status)
	}
	return nil
}
