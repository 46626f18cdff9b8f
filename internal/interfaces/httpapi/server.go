package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const DefaultMaxBodyBytes = 1 << 20

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	AdminToken         string
	MaxBodyBytes       int64
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPredictionRoutes(mux, handler)
	registerModelRoutes(mux, handler, cfg.AdminToken)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, LimitRequestBody(cfg.MaxBodyBytes, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
