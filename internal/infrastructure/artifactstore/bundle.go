package artifactstore

import (
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/classifier"
)

// DefaultFilePattern names a market's bundle. %s is the market identifier.
const DefaultFilePattern = "%s_model.json"

var ErrInvalidBundle = crerr.New("invalid model bundle")

var bundleValidator = validator.New()

var trainingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type bundle struct {
	Market       string          `json:"market" validate:"required"`
	Version      string          `json:"version" validate:"required"`
	TrainingDate string          `json:"training_date"`
	FeatureNames []string        `json:"feature_names" validate:"required,min=1,unique,dive,required"`
	Metrics      bundleMetrics   `json:"metrics"`
	Classifier   classifier.Spec `json:"classifier"`
}

type bundleMetrics struct {
	Accuracy         float64  `json:"accuracy" validate:"gte=0,lte=1"`
	BaselineAccuracy float64  `json:"baseline_accuracy" validate:"gte=0,lte=1"`
	Improvement      *float64 `json:"improvement"`
	ROCAUC           *float64 `json:"roc_auc"`
	F1               *float64 `json:"f1_score"`
	Precision        *float64 `json:"precision"`
	Recall           *float64 `json:"recall"`
	ConfigName       string   `json:"config_name"`
	TrainSamples     int      `json:"train_samples" validate:"gte=0"`
	TestSamples      int      `json:"test_samples" validate:"gte=0"`
}

// decodeBundle turns raw bundle bytes into a ready artifact for want. The
// input buffer may be reused after return.
func decodeBundle(raw []byte, want market.Market, location string) (*artifact.Artifact, error) {
	var b bundle
	if err := sonic.ConfigStd.Unmarshal(raw, &b); err != nil {
		return nil, crerr.Wrapf(crerr.Mark(err, ErrInvalidBundle), "decode bundle %s", location)
	}
	if err := bundleValidator.Struct(b); err != nil {
		return nil, crerr.Wrapf(crerr.Mark(err, ErrInvalidBundle), "validate bundle %s", location)
	}

	got, err := market.Parse(b.Market)
	if err != nil || got != want {
		return nil, crerr.Wrapf(ErrInvalidBundle, "bundle %s is for market %q, want %q", location, b.Market, want)
	}
	if b.Classifier.Classes != len(want.Labels()) {
		return nil, crerr.Wrapf(ErrInvalidBundle, "bundle %s has %d classes, market %s has %d outcomes",
			location, b.Classifier.Classes, want, len(want.Labels()))
	}

	model, err := classifier.New(b.Classifier, len(b.FeatureNames))
	if err != nil {
		return nil, crerr.Wrapf(crerr.Mark(err, ErrInvalidBundle), "build classifier %s", location)
	}

	trainedAt, err := parseTrainingDate(b.TrainingDate)
	if err != nil {
		return nil, crerr.Wrapf(crerr.Mark(err, ErrInvalidBundle), "bundle %s", location)
	}

	metrics := artifact.Metrics{
		Accuracy:         b.Metrics.Accuracy,
		BaselineAccuracy: b.Metrics.BaselineAccuracy,
		Improvement:      b.Metrics.Accuracy - b.Metrics.BaselineAccuracy,
		ROCAUC:           b.Metrics.ROCAUC,
		F1:               b.Metrics.F1,
		Precision:        b.Metrics.Precision,
		Recall:           b.Metrics.Recall,
		ConfigName:       b.Metrics.ConfigName,
		TrainSamples:     b.Metrics.TrainSamples,
		TestSamples:      b.Metrics.TestSamples,
	}
	if b.Metrics.Improvement != nil {
		metrics.Improvement = *b.Metrics.Improvement
	}

	return &artifact.Artifact{
		Market:       want,
		Classifier:   model,
		FeatureNames: b.FeatureNames,
		Version:      b.Version,
		TrainedAt:    trainedAt,
		Metrics:      metrics,
		Location:     location,
	}, nil
}

func parseTrainingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range trainingDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, crerr.Newf("unsupported training_date %q", value)
}
