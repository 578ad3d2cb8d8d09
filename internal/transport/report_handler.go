package transport

import (
	"fmt"
	"net/http"
	"time"

	"madeh-desk/internal/config"
	"madeh-desk/internal/middleware"
	"madeh-desk/internal/report"
	"madeh-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler handles HTTP requests for reporting and the dashboard
type ReportHandler struct {
	reportService service.ReportService
	cfg           config.ReportsConfig
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, cfg config.ReportsConfig, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		cfg:           cfg,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes behind authentication
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/summary", h.Summary)
		r.Get("/trend", h.Trend)
		r.Get("/download", h.Download)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/dashboard", h.Dashboard)
	})
}

// reportParams parses the shared granularity/date/top_n query
// parameters. Defaults are daily, today, and the configured ranking
// size.
func (h *ReportHandler) reportParams(r *http.Request) (report.Granularity, time.Time, int, error) {
	granularity := report.Daily
	if raw := r.URL.Query().Get("granularity"); raw != "" {
		parsed, err := report.ParseGranularity(raw)
		if err != nil {
			return "", time.Time{}, 0, err
		}
		granularity = parsed
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return "", time.Time{}, 0, fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", err)
		}
		day = parsed
	}

	topN := queryInt(r, "top_n", h.cfg.TopN)
	if topN < 1 {
		topN = h.cfg.TopN
	}

	return granularity, day, topN, nil
}

// Summary returns the full rollup for one reporting window
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	granularity, day, topN, err := h.reportParams(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.reportService.Summary(r.Context(), granularity, day, topN)
	if err != nil {
		h.logger.Error("Failed to build report summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// Trend returns the day-bucketed revenue series for trend charts
func (h *ReportHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", h.cfg.TrendDays)
	if days < 1 || days > 365 {
		days = h.cfg.TrendDays
	}

	series, err := h.reportService.Trend(r.Context(), days)
	if err != nil {
		h.logger.Error("Failed to build trend series", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build trend")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, series)
}

// Dashboard returns today's headline numbers
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard metrics", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, metrics)
}

// Download returns the report as a file attachment
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	granularity, day, topN, err := h.reportParams(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	document, err := h.reportService.Export(r.Context(), granularity, day, topN)
	if err != nil {
		h.logger.Error("Failed to export report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export report")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Filename()))
	h.logger.Info("Report exported", zap.String("filename", document.Filename()))
	middleware.RespondWithJSON(w, http.StatusOK, document)
}
