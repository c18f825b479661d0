package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/weekly-pulse/internal/metrics"
	"github.com/AngelCh415/weekly-pulse/internal/pipeline"
	"github.com/AngelCh415/weekly-pulse/internal/utils"
)

func NewRouter(log *slog.Logger, p *pipeline.Pipeline, mSvc *metrics.Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/run", func(w http.ResponseWriter, r *http.Request) {
		rep, err := p.Run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, map[string]any{
			"run_id":    rep.Meta.RunID,
			"weeks":     rep.Meta.WeekRange.Weeks,
			"anomalies": len(rep.Anomalies),
		})
	})

	mux.Get("/report/latest", func(w http.ResponseWriter, r *http.Request) {
		rep, ok := mSvc.Latest()
		if !ok {
			http.Error(w, "no report computed yet", 404)
			return
		}
		writeJSON(w, rep)
	})

	mux.Get("/report/weeks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mSvc.Weeks(r.URL.Query()))
	})

	mux.Get("/report/anomalies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mSvc.Anomalies(r.URL.Query()))
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
