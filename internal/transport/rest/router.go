package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	"workshopzones/internal/metrics"
	"workshopzones/internal/service"
	"workshopzones/internal/transport/rest/handler"
	"workshopzones/internal/transport/rest/middleware"
	"workshopzones/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AnalysisService *service.AnalysisService
	WSHub           *ws.Hub
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	AllowedOrigins  []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(c.AnalysisService, logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AnalysisService, c.AllowedOrigins, logger)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.AllowedOrigins))
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.Metrics(c.Metrics))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/workshops/{groupId}/analysis", analysisHandler.Analyze).Methods("POST", "OPTIONS")
	v1.HandleFunc("/workshops/{groupId}/analysis", analysisHandler.Latest).Methods("GET", "OPTIONS")
	v1.HandleFunc("/respondents/classify", analysisHandler.Classify).Methods("POST", "OPTIONS")
	v1.HandleFunc("/instrument", analysisHandler.Instrument).Methods("GET", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/workshops/{groupId}", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.Metrics != nil {
		r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	}

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, `{"error":"api docs not registered"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	return r
}
