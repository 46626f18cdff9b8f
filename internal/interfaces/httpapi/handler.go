package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

var strictJSON = jsoniter.Config{
	EscapeHTML:            true,
	DisallowUnknownFields: true,
}.Froze()

type Handler struct {
	predictionService *usecase.PredictionService
	logger            *logging.Logger
	validator         *validator.Validate
	now               func() time.Time
}

func NewHandler(predictionService *usecase.PredictionService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictionService: predictionService,
		logger:            logger,
		validator:         validator.New(),
		now:               time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	loaded := make(map[string]bool, len(market.All()))
	for _, m := range market.All() {
		loaded[m.String()] = false
	}
	for _, m := range h.predictionService.LoadedMarkets() {
		loaded[m.String()] = true
	}

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:        "ok",
		MarketsLoaded: loaded,
	})
}

func (h *Handler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMarkets")
	defer span.End()

	loaded := make(map[market.Market]bool)
	for _, m := range h.predictionService.LoadedMarkets() {
		loaded[m] = true
	}

	items := make([]marketDTO, 0, len(market.All()))
	for _, m := range market.All() {
		items = append(items, marketDTO{
			Market:              m.String(),
			Labels:              m.Labels(),
			TargetLabel:         m.TargetLabel(),
			DefaultFeatureCount: len(m.FeatureNames()),
			Loaded:              loaded[m],
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Predict")
	defer span.End()

	var req predictionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	setSpanMarkets(span, req.Markets)

	prediction, err := h.predictionService.Predict(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "predict failed",
			"home_team_id", req.HomeTeamID,
			"away_team_id", req.AwayTeamID,
			"match_date", req.MatchDate,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(prediction, h.now()))
}

func (h *Handler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictBatch")
	defer span.End()

	var req batchPredictionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.PredictInput, 0, len(req.Fixtures))
	fixtureIDs := make([]*int64, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		inputs = append(inputs, item.toInput())
		fixtureIDs = append(fixtureIDs, item.FixtureID)
	}

	results, err := h.predictionService.PredictBatch(ctx, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "batch predict failed", "batch_size", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batchToDTO(ctx, results, fixtureIDs, h.now()))
}

func (h *Handler) ListModelMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListModelMetrics")
	defer span.End()

	items, err := h.predictionService.ListMetrics(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list model metrics failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]modelMetricsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, metricsToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetModelMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetModelMetrics")
	defer span.End()

	m, err := market.Parse(r.PathValue("market"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.predictionService.Metrics(ctx, m)
	if err != nil {
		h.logger.WarnContext(ctx, "get model metrics failed", "market", m.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metricsToDTO(item))
}

func (h *Handler) ReloadModels(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadModels")
	defer span.End()

	var req reloadRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.predictionService.Reload(ctx, req.Markets)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := reloadDTO{Markets: make([]reloadMarketDTO, 0, len(results))}
	for _, item := range results {
		if item.Loadable {
			out.Loadable = append(out.Loadable, item.Market.String())
		}
		out.Markets = append(out.Markets, reloadMarketDTO{
			Market:   item.Market.String(),
			Loadable: item.Loadable,
			Version:  item.Version,
			Location: item.Location,
			Error:    item.Error,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON rejects unknown fields. An empty body is accepted only when
// allowEmpty is set and leaves dst untouched.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, tooLarge.Limit)
		}
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}

	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
