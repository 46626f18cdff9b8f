package artifact

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/market"
)

// Classifier predicts class probabilities for one ordered feature vector.
type Classifier interface {
	PredictProba(features []float64) ([]float64, error)
	NumClasses() int
}

// Metrics is the evaluation snapshot recorded at training time.
type Metrics struct {
	Accuracy         float64
	BaselineAccuracy float64
	Improvement      float64
	ROCAUC           *float64
	F1               *float64
	Precision        *float64
	Recall           *float64
	ConfigName       string
	TrainSamples     int
	TestSamples      int
}

// Artifact is a trained classifier plus the metadata needed to serve it.
type Artifact struct {
	Market       market.Market
	Classifier   Classifier
	FeatureNames []string
	Version      string
	TrainedAt    time.Time
	Metrics      Metrics
	Location     string
}

// Improvement is accuracy over the majority-class baseline.
func (a *Artifact) Improvement() float64 {
	if a == nil {
		return 0
	}
	return a.Metrics.Accuracy - a.Metrics.BaselineAccuracy
}

func (a *Artifact) FeatureCount() int {
	if a == nil {
		return 0
	}
	return len(a.FeatureNames)
}
