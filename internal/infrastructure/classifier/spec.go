package classifier

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
)

const (
	KindLogistic     = "logistic"
	KindTreeEnsemble = "tree_ensemble"
)

var ErrInvalidSpec = crerr.New("invalid classifier spec")

// Spec is the serialized classifier section of a model bundle. Only the
// fields of the declared kind are read.
type Spec struct {
	Kind    string `json:"kind" validate:"required,oneof=logistic tree_ensemble"`
	Classes int    `json:"classes" validate:"required,min=2"`

	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`
	Scaler       *Scaler     `json:"scaler,omitempty"`

	BaseScore float64    `json:"base_score,omitempty"`
	Trees     []TreeSpec `json:"trees,omitempty"`
}

// Scaler standardizes inputs as (x - mean) / scale before inference.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// TreeSpec is one boosted regression tree in XGBoost dump layout.
type TreeSpec struct {
	Class int        `json:"class"`
	Nodes []NodeSpec `json:"nodes"`
}

// NodeSpec is either a split (Feature, Threshold, Yes, No, Missing) or a leaf.
type NodeSpec struct {
	ID        int      `json:"nodeid"`
	Feature   int      `json:"split"`
	Threshold float64  `json:"split_condition"`
	Yes       int      `json:"yes"`
	No        int      `json:"no"`
	Missing   int      `json:"missing"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// New builds a classifier expecting featureCount inputs.
func New(spec Spec, featureCount int) (artifact.Classifier, error) {
	if featureCount <= 0 {
		return nil, crerr.Wrap(ErrInvalidSpec, "feature count must be greater than zero")
	}
	if spec.Classes < 2 {
		return nil, crerr.Wrapf(ErrInvalidSpec, "classes=%d must be at least 2", spec.Classes)
	}

	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case KindLogistic:
		return newLogistic(spec, featureCount)
	case KindTreeEnsemble:
		return newTreeEnsemble(spec, featureCount)
	default:
		return nil, crerr.Wrapf(ErrInvalidSpec, "unsupported kind %q", spec.Kind)
	}
}

func checkInput(features []float64, want int) error {
	if len(features) != want {
		return crerr.Newf("feature vector has %d values, model expects %d", len(features), want)
	}
	return nil
}
