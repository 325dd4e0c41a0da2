package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

const brokerCheckTimeout = 3 * time.Second

// StatusResponse represents the response from / and /status
type StatusResponse struct {
	Status   string        `json:"status"`
	Version  string        `json:"version"`
	Database string        `json:"database"`
	Broker   *BrokerStatus `json:"broker,omitempty"`
}

// BrokerStatus reports the broker probe outcome
type BrokerStatus struct {
	Status    string  `json:"status"`
	URL       string  `json:"url,omitempty"`
	LatencyMS float64 `json:"latency_ms,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	handler := handleStatus(s.Version, s.HealthStore, s.Broker)
	s.Router.HandleFunc("/", handler).Methods("GET")
	s.Router.HandleFunc("/status", handler).Methods("GET")
}

// handleStatus answers 503 when the database is unreachable. A failing
// broker probe only degrades the status.
func handleStatus(version string, healthStore store.HealthStore, broker server.BrokerChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{Status: "ok", Version: version, Database: "ok"}
		code := http.StatusOK

		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			resp.Status = "error"
			resp.Database = "error"
			code = http.StatusServiceUnavailable
		}

		if broker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), brokerCheckTimeout)
			defer cancel()

			status, err := broker.Check(ctx)
			if err != nil {
				resp.Broker = &BrokerStatus{Status: "error", Error: err.Error()}
				if resp.Status == "ok" {
					resp.Status = "degraded"
				}
			} else {
				resp.Broker = &BrokerStatus{
					Status:    "ok",
					URL:       status.URL,
					LatencyMS: float64(status.Latency) / float64(time.Millisecond),
				}
			}
		}

		respondWithJSON(w, code, resp)
	}
}
