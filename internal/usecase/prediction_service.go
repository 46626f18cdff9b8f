package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/feature"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchMaxItems       = 100
	DefaultBatchWorkers        = 8
	DefaultHistoryFetchTimeout = 10 * time.Second

	probabilityTolerance = 1e-6
)

var DefaultHistorySeasons = []int{2022, 2023, 2024}

var matchDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

type PredictionConfig struct {
	HistorySeasons      []int
	IncludeTargetSeason bool
	HistoryFetchTimeout time.Duration
	BatchMaxItems       int
	BatchWorkers        int
	Windows             feature.Windows
	// OnReload runs before a reload probes the models. The app uses it to drop
	// cached fixture history.
	OnReload func(context.Context)
	Logger   *logging.Logger
}

type PredictInput struct {
	HomeTeamID int64
	AwayTeamID int64
	MatchDate  string
	FixtureID  *int64
	Markets    []string
}

type MarketPrediction struct {
	Market market.Market
	// Labels orders Probabilities by class index.
	Labels          []string
	Probabilities   map[string]float64
	Outcome         string
	Confidence      float64
	ModelVersion    string
	FeatureCount    int
	MissingFeatures int
}

type SkippedMarket struct {
	Market market.Market
	Reason string
}

type Prediction struct {
	FixtureID  *int64
	HomeTeamID int64
	AwayTeamID int64
	MatchDate  time.Time
	Season     int
	Markets    []MarketPrediction
	Skipped    []SkippedMarket
}

// BatchResult carries either a prediction or the error for one batch item.
type BatchResult struct {
	Index      int
	Prediction *Prediction
	Err        error
}

type ModelMetrics struct {
	Market           market.Market
	Version          string
	TrainedAt        time.Time
	Accuracy         float64
	BaselineAccuracy float64
	Improvement      float64
	FeatureCount     int
	ConfigName       string
	ROCAUC           *float64
	F1               *float64
	Precision        *float64
	Recall           *float64
	TrainSamples     int
	TestSamples      int
	Location         string
}

type ReloadResult struct {
	Market   market.Market
	Loadable bool
	Version  string
	Location string
	Error    string
}

type predictRequest struct {
	target    feature.Target
	fixtureID *int64
	markets   []market.Market
}

type PredictionService struct {
	fixtures fixture.Repository
	registry *ModelRegistry
	composer *feature.Composer
	cfg      PredictionConfig
	logger   *logging.Logger
}

func NewPredictionService(fixtures fixture.Repository, registry *ModelRegistry, cfg PredictionConfig) *PredictionService {
	if len(cfg.HistorySeasons) == 0 {
		cfg.HistorySeasons = append([]int(nil), DefaultHistorySeasons...)
	}
	if cfg.HistoryFetchTimeout <= 0 {
		cfg.HistoryFetchTimeout = DefaultHistoryFetchTimeout
	}
	if cfg.BatchMaxItems <= 0 {
		cfg.BatchMaxItems = DefaultBatchMaxItems
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = DefaultBatchWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	return &PredictionService{
		fixtures: fixtures,
		registry: registry,
		composer: feature.NewComposer(cfg.Windows),
		cfg:      cfg,
		logger:   cfg.Logger,
	}
}

func (s *PredictionService) Predict(ctx context.Context, input PredictInput) (result Prediction, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict",
		attribute.Int64("home_team_id", input.HomeTeamID),
		attribute.Int64("away_team_id", input.AwayTeamID),
	)
	defer func() { endUsecaseSpan(span, err) }()

	req, err := parsePredictInput(input)
	if err != nil {
		return Prediction{}, err
	}

	history, err := s.fetchHistory(ctx, s.historySeasons(req.target))
	if err != nil {
		return Prediction{}, err
	}

	return s.predictOne(ctx, history, req)
}

// PredictBatch returns one result per input in input order. Item failures,
// panics included, are reported in that item's result. Only a failed history
// fetch or an out-of-range batch size fails the whole call.
func (s *PredictionService) PredictBatch(ctx context.Context, inputs []PredictInput) (results []BatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictBatch",
		attribute.Int("batch_size", len(inputs)),
	)
	defer func() { endUsecaseSpan(span, err) }()

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: batch must contain at least one fixture", ErrInvalidInput)
	}
	if len(inputs) > s.cfg.BatchMaxItems {
		return nil, fmt.Errorf("%w: batch size %d exceeds limit %d", ErrInvalidInput, len(inputs), s.cfg.BatchMaxItems)
	}

	results = make([]BatchResult, len(inputs))
	requests := make([]*predictRequest, len(inputs))
	targets := make([]feature.Target, 0, len(inputs))
	for i, input := range inputs {
		results[i].Index = i
		req, parseErr := parsePredictInput(input)
		if parseErr != nil {
			results[i].Err = parseErr
			continue
		}
		requests[i] = &req
		targets = append(targets, req.target)
	}
	if len(targets) == 0 {
		return results, nil
	}

	history, err := s.fetchHistory(ctx, s.historySeasons(targets...))
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(min(s.cfg.BatchWorkers, len(targets)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, req := range requests {
		if req == nil {
			continue
		}
		workers.Add(1)
		if submitErr := pool.Submit(func() {
			defer workers.Done()

			var pc panics.Catcher
			pc.Try(func() {
				prediction, predictErr := s.predictOne(ctx, history, *req)
				if predictErr != nil {
					results[i].Err = predictErr
					return
				}
				results[i].Prediction = &prediction
			})
			if recovered := pc.Recovered(); recovered != nil {
				results[i].Prediction = nil
				results[i].Err = fmt.Errorf("batch item %d panicked: %w", i, recovered.AsError())
			}
		}); submitErr != nil {
			workers.Done()
			results[i].Err = fmt.Errorf("submit batch item to worker pool: %w", submitErr)
		}
	}
	workers.Wait()

	return results, nil
}

func (s *PredictionService) predictOne(ctx context.Context, history *feature.History, req predictRequest) (Prediction, error) {
	vector, err := s.composer.Compose(history, req.target)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrFeatureComputation, err)
	}

	out := Prediction{
		FixtureID:  req.fixtureID,
		HomeTeamID: req.target.HomeTeamID,
		AwayTeamID: req.target.AwayTeamID,
		MatchDate:  req.target.MatchDate,
		Season:     req.target.Season,
		Markets:    make([]MarketPrediction, 0, len(req.markets)),
	}

	for _, m := range req.markets {
		model, err := s.registry.Get(ctx, m)
		if err != nil {
			if len(req.markets) == 1 {
				return Prediction{}, err
			}
			s.logger.WarnContext(ctx, "market skipped",
				"market", m.String(),
				"location", s.registry.Location(m),
				"error", err,
			)
			out.Skipped = append(out.Skipped, SkippedMarket{Market: m, Reason: "model unavailable"})
			continue
		}

		prediction, err := s.infer(ctx, m, model, vector)
		if err != nil {
			return Prediction{}, err
		}
		out.Markets = append(out.Markets, prediction)
	}
	if len(out.Markets) == 0 {
		return Prediction{}, fmt.Errorf("%w: none of the %d requested markets has a loadable model", ErrModelUnavailable, len(req.markets))
	}

	return out, nil
}

func (s *PredictionService) infer(ctx context.Context, m market.Market, model *artifact.Artifact, vector feature.Vector) (MarketPrediction, error) {
	values, missing := vector.Select(model.FeatureNames)
	if missing > 0 {
		s.logger.WarnContext(ctx, "features zero-filled",
			"market", m.String(),
			"missing_count", missing,
			"feature_count", len(values),
		)
	}

	var (
		raw []float64
		err error
	)
	var pc panics.Catcher
	pc.Try(func() {
		raw, err = model.Classifier.PredictProba(values)
	})
	if recovered := pc.Recovered(); recovered != nil {
		err = recovered.AsError()
	}
	if err != nil {
		return MarketPrediction{}, fmt.Errorf("%w: market %s: %w", ErrInference, m, err)
	}

	labels := m.Labels()
	probs, err := normalizeProbabilities(raw, len(labels))
	if err != nil {
		return MarketPrediction{}, fmt.Errorf("%w: market %s: %w", ErrInference, m, err)
	}

	byLabel := make(map[string]float64, len(labels))
	for i, label := range labels {
		byLabel[label] = probs[i]
	}
	best := argMax(probs)

	return MarketPrediction{
		Market:          m,
		Labels:          labels,
		Probabilities:   byLabel,
		Outcome:         labels[best],
		Confidence:      probs[best],
		ModelVersion:    model.Version,
		FeatureCount:    len(values),
		MissingFeatures: missing,
	}, nil
}

func (s *PredictionService) Metrics(ctx context.Context, m market.Market) (ModelMetrics, error) {
	if !m.Valid() {
		return ModelMetrics{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, market.ErrUnknownMarket, m)
	}
	model, err := s.registry.Get(ctx, m)
	if err != nil {
		return ModelMetrics{}, err
	}
	return metricsOf(m, model), nil
}

// ListMetrics reports every market whose artifact loads; the rest are logged
// and left out.
func (s *PredictionService) ListMetrics(ctx context.Context) ([]ModelMetrics, error) {
	out := make([]ModelMetrics, 0, len(market.All()))
	for _, m := range market.All() {
		model, err := s.registry.Get(ctx, m)
		if err != nil {
			if errors.Is(err, ErrModelUnavailable) {
				s.logger.WarnContext(ctx, "metrics skipped", "market", m.String(), "error", err)
				continue
			}
			return nil, err
		}
		out = append(out, metricsOf(m, model))
	}
	return out, nil
}

// Reload evicts the requested markets (all when empty) and probes them again.
func (s *PredictionService) Reload(ctx context.Context, rawMarkets []string) ([]ReloadResult, error) {
	markets, err := market.ParseList(rawMarkets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if s.cfg.OnReload != nil {
		s.cfg.OnReload(ctx)
	}
	s.registry.Invalidate(markets...)
	results := s.probe(ctx, markets)
	for _, item := range results {
		s.logger.InfoContext(ctx, "model reloaded",
			"market", item.Market.String(),
			"loadable", item.Loadable,
			"version", item.Version,
		)
	}
	return results, nil
}

// WarmUp loads every market ahead of the first request.
func (s *PredictionService) WarmUp(ctx context.Context) []ReloadResult {
	results := s.probe(ctx, market.All())
	for _, item := range results {
		if !item.Loadable {
			s.logger.WarnContext(ctx, "model warm-up failed",
				"market", item.Market.String(),
				"location", item.Location,
				"error", item.Error,
			)
		}
	}
	return results
}

func (s *PredictionService) probe(ctx context.Context, markets []market.Market) []ReloadResult {
	results := make([]ReloadResult, len(markets))

	var g errgroup.Group
	for i, m := range markets {
		g.Go(func() error {
			row := ReloadResult{Market: m, Location: s.registry.Location(m)}
			model, err := s.registry.Get(ctx, m)
			if err != nil {
				row.Error = err.Error()
			} else {
				row.Loadable = true
				row.Version = model.Version
			}
			results[i] = row
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// LoadedMarkets lists the markets whose artifacts are resident.
func (s *PredictionService) LoadedMarkets() []market.Market {
	out := make([]market.Market, 0, len(market.All()))
	for _, m := range market.All() {
		if s.registry.Loaded(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *PredictionService) historySeasons(targets ...feature.Target) []int {
	seasons := append([]int(nil), s.cfg.HistorySeasons...)
	if s.cfg.IncludeTargetSeason {
		for _, target := range targets {
			seasons = append(seasons, target.Season)
		}
	}
	slices.Sort(seasons)
	return slices.Compact(seasons)
}

func (s *PredictionService) fetchHistory(ctx context.Context, seasons []int) (*feature.History, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.HistoryFetchTimeout)
	defer cancel()

	items, err := s.fixtures.ListCompletedBySeasons(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("%w: list completed fixtures: %w", ErrDependencyUnavailable, err)
	}
	return feature.NewHistory(items), nil
}

func parsePredictInput(input PredictInput) (predictRequest, error) {
	if input.HomeTeamID <= 0 {
		return predictRequest{}, fmt.Errorf("%w: home_team_id must be positive, got %d", ErrInvalidInput, input.HomeTeamID)
	}
	if input.AwayTeamID <= 0 {
		return predictRequest{}, fmt.Errorf("%w: away_team_id must be positive, got %d", ErrInvalidInput, input.AwayTeamID)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return predictRequest{}, fmt.Errorf("%w: home_team_id and away_team_id are both %d", ErrInvalidInput, input.HomeTeamID)
	}

	matchDate, err := ParseMatchDate(input.MatchDate)
	if err != nil {
		return predictRequest{}, err
	}

	markets, err := market.ParseList(input.Markets)
	if err != nil {
		return predictRequest{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return predictRequest{
		target: feature.Target{
			HomeTeamID: input.HomeTeamID,
			AwayTeamID: input.AwayTeamID,
			MatchDate:  matchDate,
			Season:     feature.SeasonForDate(matchDate),
		},
		fixtureID: input.FixtureID,
		markets:   markets,
	}, nil
}

// ParseMatchDate accepts a calendar date, RFC 3339 or a zone-less timestamp.
// Values without a zone are read as UTC.
func ParseMatchDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: match_date is required", ErrInvalidInput)
	}
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: match_date %q is not YYYY-MM-DD or RFC 3339", ErrInvalidInput, raw)
}

func normalizeProbabilities(raw []float64, classes int) ([]float64, error) {
	if len(raw) != classes {
		return nil, fmt.Errorf("classifier returned %d probabilities, want %d", len(raw), classes)
	}

	sum := 0.0
	for i, p := range raw {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, fmt.Errorf("probability %d is invalid: %v", i, p)
		}
		sum += p
	}
	if sum <= 0 {
		return nil, fmt.Errorf("probabilities sum to %v", sum)
	}

	out := make([]float64, len(raw))
	if math.Abs(sum-1) <= probabilityTolerance {
		copy(out, raw)
		return out, nil
	}
	for i, p := range raw {
		out[i] = p / sum
	}
	return out, nil
}

// argMax picks the highest probability; the lowest index wins ties.
func argMax(probs []float64) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best
}

func metricsOf(m market.Market, model *artifact.Artifact) ModelMetrics {
	return ModelMetrics{
		Market:           m,
		Version:          model.Version,
		TrainedAt:        model.TrainedAt,
		Accuracy:         model.Metrics.Accuracy,
		BaselineAccuracy: model.Metrics.BaselineAccuracy,
		Improvement:      model.Improvement(),
		FeatureCount:     model.FeatureCount(),
		ConfigName:       model.Metrics.ConfigName,
		ROCAUC:           model.Metrics.ROCAUC,
		F1:               model.Metrics.F1,
		Precision:        model.Metrics.Precision,
		Recall:           model.Metrics.Recall,
		TrainSamples:     model.Metrics.TrainSamples,
		TestSamples:      model.Metrics.TestSamples,
		Location:         model.Location,
	}
}
