package artifactstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bttsBundle = `{
  "market": "btts",
  "version": "1.0.0-btts",
  "training_date": "2024-05-01T10:30:00.123456",
  "feature_names": ["home_btts_pct", "away_btts_pct"],
  "metrics": {
    "accuracy": 0.61,
    "baseline_accuracy": 0.52,
    "roc_auc": 0.64,
    "f1_score": 0.6,
    "config_name": "balanced",
    "train_samples": 800,
    "test_samples": 200
  },
  "classifier": {
    "kind": "logistic",
    "classes": 2,
    "coefficients": [[1.5, 0.5]],
    "intercepts": [-1]
  }
}`

func writeBundle(t *testing.T, dir string, m market.Market, body string) {
	t.Helper()
	path := filepath.Join(dir, string(m)+"_model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestFileStore_LoadsBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBundle(t, dir, market.BothTeamsToScore, bttsBundle)

	store := NewFileStore(dir, "")
	got, err := store.Load(context.Background(), market.BothTeamsToScore)
	require.NoError(t, err)

	assert.Equal(t, market.BothTeamsToScore, got.Market)
	assert.Equal(t, "1.0.0-btts", got.Version)
	assert.Equal(t, []string{"home_btts_pct", "away_btts_pct"}, got.FeatureNames)
	assert.Equal(t, time.Date(2024, time.May, 1, 10, 30, 0, 123456000, time.UTC), got.TrainedAt)
	assert.InDelta(t, 0.09, got.Metrics.Improvement, 1e-9)
	require.NotNil(t, got.Metrics.ROCAUC)
	assert.InDelta(t, 0.64, *got.Metrics.ROCAUC, 1e-9)
	assert.Nil(t, got.Metrics.Precision)
	assert.Equal(t, filepath.Join(dir, "btts_model.json"), got.Location)

	probs, err := got.Classifier.PredictProba([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs[1], 1e-12)
}

func TestFileStore_MissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir(), "")
	_, err := store.Load(context.Background(), market.MatchResult)
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestFileStore_RejectsInvalidBundles(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"malformed json": `{"market": "btts",`,
		"wrong market":   `{"market":"1x2","version":"v","feature_names":["a"],"classifier":{"kind":"logistic","classes":2,"coefficients":[[1]],"intercepts":[0]}}`,
		"no features":    `{"market":"btts","version":"v","feature_names":[],"classifier":{"kind":"logistic","classes":2,"coefficients":[[1]],"intercepts":[0]}}`,
		"class mismatch": `{"market":"btts","version":"v","feature_names":["a"],"classifier":{"kind":"logistic","classes":3,"coefficients":[[1],[1],[1]],"intercepts":[0,0,0]}}`,
		"shape mismatch": `{"market":"btts","version":"v","feature_names":["a","b"],"classifier":{"kind":"logistic","classes":2,"coefficients":[[1]],"intercepts":[0]}}`,
		"unknown kind":   `{"market":"btts","version":"v","feature_names":["a"],"classifier":{"kind":"svm","classes":2}}`,
		"bad date":       `{"market":"btts","version":"v","training_date":"yesterday","feature_names":["a"],"classifier":{"kind":"logistic","classes":2,"coefficients":[[1]],"intercepts":[0]}}`,
	}

	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeBundle(t, dir, market.BothTeamsToScore, body)

			_, err := NewFileStore(dir, "").Load(context.Background(), market.BothTeamsToScore)
			require.Error(t, err)
			assert.True(t, crerr.Is(err, ErrInvalidBundle), "got %v", err)
		})
	}
}

type stubGetter struct {
	calls atomic.Int32
	fn    func(key string) (*s3.GetObjectOutput, error)
}

func (s *stubGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.calls.Add(1)
	return s.fn(*params.Key)
}

func body(raw string) io.ReadCloser {
	return io.NopCloser(bytes.NewBufferString(raw))
}

func TestS3Store_LoadsBundleUnderPrefix(t *testing.T) {
	t.Parallel()

	var requested string
	getter := &stubGetter{fn: func(key string) (*s3.GetObjectOutput, error) {
		requested = key
		return &s3.GetObjectOutput{Body: body(bttsBundle)}, nil
	}}
	store := newS3Store(getter, S3Config{Bucket: "models", Prefix: "/prod/"})

	got, err := store.Load(context.Background(), market.BothTeamsToScore)
	require.NoError(t, err)
	assert.Equal(t, "prod/btts_model.json", requested)
	assert.Equal(t, "s3://models/prod/btts_model.json", got.Location)
}

func TestS3Store_MissingKeyIsNotFound(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{fn: func(string) (*s3.GetObjectOutput, error) {
		return nil, &types.NoSuchKey{}
	}}
	store := newS3Store(getter, S3Config{Bucket: "models"})

	_, err := store.Load(context.Background(), market.OverUnder)
	require.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestS3Store_OpensCircuitAfterTransientFailures(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{fn: func(string) (*s3.GetObjectOutput, error) {
		return nil, crerr.New("connection reset by peer")
	}}
	store := newS3Store(getter, S3Config{
		Bucket: "models",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		_, err := store.Load(context.Background(), market.MatchResult)
		require.Error(t, err)
	}

	_, err := store.Load(context.Background(), market.MatchResult)
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), getter.calls.Load())
}

func TestS3Store_NotFoundDoesNotTripCircuit(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{fn: func(string) (*s3.GetObjectOutput, error) {
		return nil, &types.NoSuchKey{}
	}}
	store := newS3Store(getter, S3Config{
		Bucket:         "models",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	})

	for i := 0; i < 3; i++ {
		_, err := store.Load(context.Background(), market.MatchResult)
		assert.ErrorIs(t, err, artifact.ErrNotFound)
	}
	assert.Equal(t, int32(3), getter.calls.Load())
}

func TestS3Store_RejectsOversizedObjects(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{fn: func(string) (*s3.GetObjectOutput, error) {
		return &s3.GetObjectOutput{Body: body(bttsBundle)}, nil
	}}
	store := newS3Store(getter, S3Config{Bucket: "models", MaxObjectBytes: 16})

	_, err := store.Load(context.Background(), market.BothTeamsToScore)
	assert.ErrorIs(t, err, ErrObjectTooLarge)
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://s3.example.com", normalizeEndpoint("https://s3.example.com", false))
	assert.Equal(t, "https://minio:9000", normalizeEndpoint("minio:9000", true))
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("minio:9000", false))
}
