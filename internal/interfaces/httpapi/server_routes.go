package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/markets", handler.ListMarkets)
	mux.HandleFunc("POST /v1/predictions", handler.Predict)
	mux.HandleFunc("POST /v1/predictions/batch", handler.PredictBatch)
}

func registerModelRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/models/metrics", handler.ListModelMetrics)
	mux.HandleFunc("GET /v1/models/{market}/metrics", handler.GetModelMetrics)
	mux.Handle("POST /v1/models/reload", RequireAdminToken(adminToken, http.HandlerFunc(handler.ReloadModels)))
}
