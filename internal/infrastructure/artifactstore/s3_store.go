package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const defaultMaxObjectBytes = 64 << 20

var (
	ErrObjectTooLarge = crerr.New("model object exceeds size limit")
	errS3Transient    = crerr.New("object storage transient failure")
)

// S3Config points the store at an S3-compatible bucket. Endpoint may be left
// empty for AWS itself.
type S3Config struct {
	Endpoint       string
	Region         string
	Bucket         string
	Prefix         string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	ForcePathStyle bool
	FilePattern    string
	MaxObjectBytes int64
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store loads bundles from object storage behind a circuit breaker.
type S3Store struct {
	client         objectGetter
	bucket         string
	prefix         string
	pattern        string
	maxObjectBytes int64
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, crerr.New("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, crerr.New("s3 region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(normalizeEndpoint(cfg.Endpoint, cfg.UseSSL))
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(client objectGetter, cfg S3Config) *S3Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	pattern := cfg.FilePattern
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	maxBytes := cfg.MaxObjectBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxObjectBytes
	}
	breaker := resilience.NewCircuitBreaker("model-store-s3", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &S3Store{
		client:         client,
		bucket:         cfg.Bucket,
		prefix:         strings.Trim(cfg.Prefix, "/"),
		pattern:        pattern,
		maxObjectBytes: maxBytes,
		logger:         logger,
		breaker:        breaker,
	}
}

func (s *S3Store) key(m market.Market) string {
	name := fmt.Sprintf(s.pattern, m)
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) Location(m market.Market) string {
	return "s3://" + s.bucket + "/" + s.key(m)
}

func (s *S3Store) Load(ctx context.Context, m market.Market) (*artifact.Artifact, error) {
	location := s.Location(m)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	err := s.breaker.Execute(func() error {
		return s.fetch(ctx, s.key(m), buf)
	}, isS3CircuitFailure)
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			s.logger.WarnContext(ctx, "model storage circuit breaker rejected request",
				"location", location,
				"state", s.breaker.State(),
			)
		}
		return nil, crerr.Wrapf(err, "load %s", location)
	}

	return decodeBundle(buf.B, m, location)
}

func (s *S3Store) fetch(ctx context.Context, key string, buf *bytebufferpool.ByteBuffer) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return crerr.WithStack(artifact.ErrNotFound)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if isTransient(err) {
			return crerr.Mark(err, errS3Transient)
		}
		return err
	}
	defer out.Body.Close()

	n, err := buf.ReadFrom(io.LimitReader(out.Body, s.maxObjectBytes+1))
	if err != nil {
		return crerr.Mark(crerr.Wrap(err, "read object body"), errS3Transient)
	}
	if n > s.maxObjectBytes {
		return crerr.Wrapf(ErrObjectTooLarge, "object is larger than %d bytes", s.maxObjectBytes)
	}
	return nil
}

func isS3CircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errS3Transient)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	return httpStatus(err) == http.StatusNotFound
}

// isTransient treats throttling, server faults and transport errors as
// failures worth tripping the breaker for.
func isTransient(err error) bool {
	status := httpStatus(err)
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorFault() == smithy.FaultServer {
			return true
		}
		switch apiErr.ErrorCode() {
		case "SlowDown", "Throttling", "ThrottlingException", "RequestTimeout", "ServiceUnavailable":
			return true
		}
		return false
	}
	return status == 0
}

func httpStatus(err error) int {
	type httpResponseError interface {
		HTTPStatusCode() int
	}
	var respErr httpResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

func normalizeEndpoint(endpoint string, useSSL bool) string {
	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return endpoint
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimPrefix(endpoint, "//")
}
