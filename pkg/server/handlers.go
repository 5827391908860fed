package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/internal"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

var log = internal.GetLogger()

var validate = validator.New()

type PredictRequest struct {
	Text string `json:"text" validate:"required"`
}

type BatchPredictRequest struct {
	Texts []string `json:"texts" validate:"required,min=1"`
}

// BatchPredictItem is one slot of a batch response. Result and Error are
// mutually exclusive; slots appear in request order.
type BatchPredictItem struct {
	RecordID string                   `json:"record_id"`
	Result   *models.PredictionResult `json:"result,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

type BatchPredictResponse struct {
	Results []BatchPredictItem `json:"results"`
}

type ExtractResponse struct {
	Text     string           `json:"text"`
	Entities models.EntityMap `json:"entities"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

// PostPredictHandler tags a single text and returns word-level tokens plus
// the extracted entity map.
func PostPredictHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request PredictRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := appState.Extractor.PredictOne(r.Context(), request.Text)
		if err != nil {
			renderError(w, err, statusForError(err))
			return
		}

		if err := encodeJSON(w, result); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// PostExtractHandler returns only the entity map for a single text.
func PostExtractHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request PredictRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := appState.Extractor.PredictOne(r.Context(), request.Text)
		if err != nil {
			renderError(w, err, statusForError(err))
			return
		}

		response := ExtractResponse{Text: result.Text, Entities: result.Entities}
		if err := encodeJSON(w, response); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// PostPredictBatchHandler tags a batch of texts. Items fail independently:
// a slot carries either a result or that item's error, in request order.
func PostPredictBatchHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request BatchPredictRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		predictions, err := appState.Extractor.PredictBatch(r.Context(), request.Texts)
		if predictions == nil && err != nil {
			renderError(w, err, statusForError(err))
			return
		}

		response := BatchPredictResponse{
			Results: make([]BatchPredictItem, len(predictions)),
		}
		for i, p := range predictions {
			item := BatchPredictItem{RecordID: uuid.New().String()}
			if p.Err != nil {
				item.Error = p.Err.Error()
			} else {
				item.Result = p.Result
			}
			response.Results[i] = item
		}

		if err := encodeJSON(w, response); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetHealthHandler reports whether the inference backend is reachable.
func GetHealthHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:      "ok",
			ModelLoaded: true,
			Message:     "Service is healthy",
		}
		if err := appState.Extractor.Ready(r.Context()); err != nil {
			response.Status = "warning"
			response.ModelLoaded = false
			response.Message = err.Error()
		}
		if err := encodeJSON(w, response); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
