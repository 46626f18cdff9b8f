package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type predictionRequest struct {
	HomeTeamID int64    `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID int64    `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	MatchDate  string   `json:"match_date" validate:"required"`
	FixtureID  *int64   `json:"fixture_id,omitempty" validate:"omitempty,gt=0"`
	Markets    []string `json:"markets,omitempty" validate:"omitempty,dive,required"`
}

func (r predictionRequest) toInput() usecase.PredictInput {
	return usecase.PredictInput{
		HomeTeamID: r.HomeTeamID,
		AwayTeamID: r.AwayTeamID,
		MatchDate:  r.MatchDate,
		FixtureID:  r.FixtureID,
		Markets:    r.Markets,
	}
}

// Items are validated one by one in the service so a bad fixture only fails
// its own entry.
type batchPredictionRequest struct {
	Fixtures []predictionRequest `json:"fixtures" validate:"required,min=1"`
}

type reloadRequest struct {
	Markets []string `json:"markets,omitempty" validate:"omitempty,dive,required"`
}

type healthDTO struct {
	Status        string          `json:"status"`
	MarketsLoaded map[string]bool `json:"markets_loaded"`
}

type marketDTO struct {
	Market              string   `json:"market"`
	Labels              []string `json:"labels"`
	TargetLabel         string   `json:"target_label"`
	DefaultFeatureCount int      `json:"default_feature_count"`
	Loaded              bool     `json:"loaded"`
}

type marketPredictionDTO struct {
	Market           string             `json:"market"`
	ModelVersion     string             `json:"model_version"`
	Predictions      map[string]float64 `json:"predictions"`
	PredictedOutcome string             `json:"predicted_outcome"`
	Confidence       float64            `json:"confidence"`
	FeaturesUsed     int                `json:"features_used"`
	MissingFeatures  int                `json:"missing_features"`
}

type skippedMarketDTO struct {
	Market string `json:"market"`
	Reason string `json:"reason"`
}

type predictionDTO struct {
	FixtureID      *int64                `json:"fixture_id,omitempty"`
	HomeTeamID     int64                 `json:"home_team_id"`
	AwayTeamID     int64                 `json:"away_team_id"`
	MatchDate      string                `json:"match_date"`
	Season         int                   `json:"season"`
	Markets        []marketPredictionDTO `json:"markets"`
	SkippedMarkets []skippedMarketDTO    `json:"skipped_markets,omitempty"`
	PredictedAt    string                `json:"predicted_at"`
}

type batchItemErrorDTO struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type batchItemDTO struct {
	Index      int                `json:"index"`
	FixtureID  *int64             `json:"fixture_id,omitempty"`
	Prediction *predictionDTO     `json:"prediction,omitempty"`
	Error      *batchItemErrorDTO `json:"error,omitempty"`
}

type batchPredictionDTO struct {
	Predictions []batchItemDTO `json:"predictions"`
	Count       int            `json:"count"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	PredictedAt string         `json:"predicted_at"`
}

type modelMetricsDTO struct {
	Market           string   `json:"market"`
	ModelVersion     string   `json:"model_version"`
	TrainingDate     string   `json:"training_date,omitempty"`
	Accuracy         float64  `json:"accuracy"`
	BaselineAccuracy float64  `json:"baseline_accuracy"`
	Improvement      float64  `json:"improvement"`
	ConfigName       string   `json:"config_name,omitempty"`
	FeatureCount     int      `json:"feature_count"`
	ROCAUC           *float64 `json:"roc_auc,omitempty"`
	F1Score          *float64 `json:"f1_score,omitempty"`
	Precision        *float64 `json:"precision,omitempty"`
	Recall           *float64 `json:"recall,omitempty"`
	TrainSamples     int      `json:"train_samples,omitempty"`
	TestSamples      int      `json:"test_samples,omitempty"`
}

type reloadMarketDTO struct {
	Market   string `json:"market"`
	Loadable bool   `json:"loadable"`
	Version  string `json:"version,omitempty"`
	Location string `json:"location"`
	Error    string `json:"error,omitempty"`
}

type reloadDTO struct {
	Loadable []string          `json:"loadable"`
	Markets  []reloadMarketDTO `json:"markets"`
}

func predictionToDTO(p usecase.Prediction, predictedAt time.Time) predictionDTO {
	markets := make([]marketPredictionDTO, 0, len(p.Markets))
	for _, item := range p.Markets {
		markets = append(markets, marketPredictionDTO{
			Market:           item.Market.String(),
			ModelVersion:     item.ModelVersion,
			Predictions:      item.Probabilities,
			PredictedOutcome: item.Outcome,
			Confidence:       item.Confidence,
			FeaturesUsed:     item.FeatureCount,
			MissingFeatures:  item.MissingFeatures,
		})
	}

	var skipped []skippedMarketDTO
	for _, item := range p.Skipped {
		skipped = append(skipped, skippedMarketDTO{Market: item.Market.String(), Reason: item.Reason})
	}

	return predictionDTO{
		FixtureID:      p.FixtureID,
		HomeTeamID:     p.HomeTeamID,
		AwayTeamID:     p.AwayTeamID,
		MatchDate:      p.MatchDate.Format(time.RFC3339),
		Season:         p.Season,
		Markets:        markets,
		SkippedMarkets: skipped,
		PredictedAt:    predictedAt.UTC().Format(time.RFC3339),
	}
}

// fixtureIDs echoes the caller's fixture ids so failed entries stay traceable.
func batchToDTO(ctx context.Context, results []usecase.BatchResult, fixtureIDs []*int64, predictedAt time.Time) batchPredictionDTO {
	out := batchPredictionDTO{
		Predictions: make([]batchItemDTO, 0, len(results)),
		Count:       len(results),
		PredictedAt: predictedAt.UTC().Format(time.RFC3339),
	}

	for _, result := range results {
		item := batchItemDTO{Index: result.Index}
		if result.Index < len(fixtureIDs) {
			item.FixtureID = fixtureIDs[result.Index]
		}
		if result.Err != nil {
			mapped := mapError(ctx, result.Err)
			item.Error = &batchItemErrorDTO{
				Code:    mapped.HTTPStatus,
				Status:  mapped.Status,
				Reason:  mapped.Reason,
				Message: result.Err.Error(),
			}
			out.Failed++
			out.Predictions = append(out.Predictions, item)
			continue
		}

		dto := predictionToDTO(*result.Prediction, predictedAt)
		item.Prediction = &dto
		out.Succeeded++
		out.Predictions = append(out.Predictions, item)
	}

	return out
}

func metricsToDTO(m usecase.ModelMetrics) modelMetricsDTO {
	trainingDate := ""
	if !m.TrainedAt.IsZero() {
		trainingDate = m.TrainedAt.UTC().Format(time.RFC3339)
	}

	return modelMetricsDTO{
		Market:           m.Market.String(),
		ModelVersion:     m.Version,
		TrainingDate:     trainingDate,
		Accuracy:         m.Accuracy,
		BaselineAccuracy: m.BaselineAccuracy,
		Improvement:      m.Improvement,
		ConfigName:       m.ConfigName,
		FeatureCount:     m.FeatureCount,
		ROCAUC:           m.ROCAUC,
		F1Score:          m.F1,
		Precision:        m.Precision,
		Recall:           m.Recall,
		TrainSamples:     m.TrainSamples,
		TestSamples:      m.TestSamples,
	}
}
