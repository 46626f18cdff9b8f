package classifier

import (
	"math"

	crerr "github.com/cockroachdb/errors"
)

// Logistic is a linear model. A single coefficient row over two classes is
// a binary sigmoid; one row per class is a softmax.
type Logistic struct {
	classes      int
	coefficients [][]float64
	intercepts   []float64
	mean         []float64
	scale        []float64
}

func newLogistic(spec Spec, featureCount int) (*Logistic, error) {
	rows := len(spec.Coefficients)
	binary := spec.Classes == 2 && rows == 1
	if !binary && rows != spec.Classes {
		return nil, crerr.Wrapf(ErrInvalidSpec, "logistic has %d coefficient rows for %d classes", rows, spec.Classes)
	}
	if len(spec.Intercepts) != rows {
		return nil, crerr.Wrapf(ErrInvalidSpec, "logistic has %d intercepts for %d rows", len(spec.Intercepts), rows)
	}
	for i, row := range spec.Coefficients {
		if len(row) != featureCount {
			return nil, crerr.Wrapf(ErrInvalidSpec, "coefficient row %d has %d values, want %d", i, len(row), featureCount)
		}
	}

	model := &Logistic{
		classes:      spec.Classes,
		coefficients: spec.Coefficients,
		intercepts:   spec.Intercepts,
	}
	if spec.Scaler != nil {
		if len(spec.Scaler.Mean) != featureCount || len(spec.Scaler.Scale) != featureCount {
			return nil, crerr.Wrapf(ErrInvalidSpec, "scaler must carry %d means and scales", featureCount)
		}
		model.mean = spec.Scaler.Mean
		model.scale = spec.Scaler.Scale
	}
	return model, nil
}

func (l *Logistic) NumClasses() int {
	return l.classes
}

func (l *Logistic) PredictProba(features []float64) ([]float64, error) {
	if err := checkInput(features, len(l.coefficients[0])); err != nil {
		return nil, err
	}

	x := l.standardize(features)
	margins := make([]float64, len(l.coefficients))
	for i, row := range l.coefficients {
		margins[i] = dot(row, x) + l.intercepts[i]
	}

	if len(margins) == 1 {
		p := sigmoid(margins[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(margins), nil
}

func (l *Logistic) standardize(features []float64) []float64 {
	if l.mean == nil {
		return features
	}
	out := make([]float64, len(features))
	for i, value := range features {
		scale := l.scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (value - l.mean[i]) / scale
	}
	return out
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// softmax shifts by the max margin so large margins do not overflow.
func softmax(margins []float64) []float64 {
	maxMargin := math.Inf(-1)
	for _, m := range margins {
		if m > maxMargin {
			maxMargin = m
		}
	}

	out := make([]float64, len(margins))
	var sum float64
	for i, m := range margins {
		out[i] = math.Exp(m - maxMargin)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
