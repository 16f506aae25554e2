package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pulse/internal/catalog"
	apierrors "pulse/internal/errors"
	"pulse/internal/exporter"
	"pulse/internal/infrastructure"
	"pulse/internal/services"
)

// PulseHandler handles the layer, zone and export HTTP requests with RFC 7807
// compliance
type PulseHandler struct {
	service      PulseServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	metrics      *infrastructure.Metrics
}

// NewPulseHandler creates a new pulse handler with RFC 7807 error handling.
// metrics may be nil in tests.
func NewPulseHandler(service PulseServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.Metrics) *PulseHandler {
	return &PulseHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "pulse_handler")),
		errorHandler: errorHandler,
		metrics:      metrics,
	}
}

// Routes returns the pulse routes with proper Chi patterns
func (h *PulseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/layers", h.GetCatalog)

	r.Route("/layer/{layerID}", func(r chi.Router) {
		r.Get("/", h.GetLayerSnapshot)
		r.Get("/timeseries", h.GetLayerSeries)
	})

	r.Route("/zone/{zoneKey}", func(r chi.Router) {
		r.Get("/summary", h.GetZoneSummary)
		r.Get("/scores", h.GetZoneScores)
	})

	r.Get("/export/{layerID}", h.ExportCSV)

	return r
}

// GetCatalog handles GET /api/layers
func (h *PulseHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	categories := h.service.Catalog(r.Context())

	count := 0
	for _, c := range categories {
		count += len(c.Layers)
	}

	render.JSON(w, r, map[string]interface{}{
		"status":     "success",
		"categories": categories,
		"count":      count,
	})
}

// GetLayerSnapshot handles GET /api/layer/{layerID}?region=
func (h *PulseHandler) GetLayerSnapshot(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	layerID := chi.URLParam(r, "layerID")
	region := r.URL.Query().Get("region")

	h.logger.InfoContext(r.Context(), "fetching layer snapshot",
		slog.String("request_id", reqID),
		slog.String("layer", layerID),
		slog.String("region", region),
	)

	snapshot, err := h.service.LayerSnapshot(r.Context(), layerID, region)
	if err != nil {
		h.handleServiceError(w, r, err, layerID)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveResolution(snapshot.Meta.Source)
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   snapshot,
	})
}

// GetLayerSeries handles GET /api/layer/{layerID}/timeseries?zone=&period=
func (h *PulseHandler) GetLayerSeries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	layerID := chi.URLParam(r, "layerID")
	zoneKey := r.URL.Query().Get("zone")
	period := r.URL.Query().Get("period")

	if zoneKey == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("zone", "Zone key is required"))
		return
	}

	h.logger.InfoContext(r.Context(), "fetching layer timeseries",
		slog.String("request_id", reqID),
		slog.String("layer", layerID),
		slog.String("zone", zoneKey),
		slog.String("period", period),
	)

	series, err := h.service.LayerSeries(r.Context(), layerID, zoneKey, period)
	if err != nil {
		h.handleServiceError(w, r, err, layerID)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveResolution(series.Meta.Source)
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
	})
}

// GetZoneSummary handles GET /api/zone/{zoneKey}/summary
func (h *PulseHandler) GetZoneSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	zoneKey := chi.URLParam(r, "zoneKey")

	h.logger.InfoContext(r.Context(), "fetching zone summary",
		slog.String("request_id", reqID),
		slog.String("zone", zoneKey),
	)

	summary, err := h.service.ZoneSummary(r.Context(), zoneKey)
	if err != nil {
		h.handleServiceError(w, r, err, zoneKey)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetZoneScores handles GET /api/zone/{zoneKey}/scores
func (h *PulseHandler) GetZoneScores(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	zoneKey := chi.URLParam(r, "zoneKey")

	h.logger.InfoContext(r.Context(), "fetching zone scores",
		slog.String("request_id", reqID),
		slog.String("zone", zoneKey),
	)

	scores, err := h.service.ZoneScores(r.Context(), zoneKey)
	if err != nil {
		h.handleServiceError(w, r, err, zoneKey)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   scores,
	})
}

// ExportCSV handles GET /api/export/{layerID}?zone=
// Without a zone it exports the per-zone snapshot; with a zone it exports the
// monthly time series for that zone.
func (h *PulseHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	layerID := chi.URLParam(r, "layerID")
	zoneKey := r.URL.Query().Get("zone")

	h.logger.InfoContext(r.Context(), "exporting csv",
		slog.String("request_id", reqID),
		slog.String("layer", layerID),
		slog.String("zone", zoneKey),
	)

	if zoneKey == "" {
		rows, filename, err := h.service.SnapshotExportRows(r.Context(), layerID)
		if err != nil {
			h.handleServiceError(w, r, err, layerID)
			return
		}
		if h.metrics != nil {
			h.metrics.ObserveExport("snapshot")
		}
		if err := exporter.WriteSnapshotCSV(w, filename, rows); err != nil {
			h.logger.ErrorContext(r.Context(), "csv stream failed",
				slog.String("error", err.Error()),
				slog.String("request_id", reqID),
			)
		}
		return
	}

	rows, filename, err := h.service.SeriesExportRows(r.Context(), layerID, zoneKey)
	if err != nil {
		h.handleServiceError(w, r, err, layerID)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport("timeseries")
	}
	if err := exporter.WriteSeriesCSV(w, filename, rows); err != nil {
		h.logger.ErrorContext(r.Context(), "csv stream failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
	}
}

// handleServiceError maps service sentinels to API errors before handing off
// to the RFC 7807 error handler.
func (h *PulseHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("subject", subject),
	)

	switch {
	case errors.Is(err, catalog.ErrUnknownLayer):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"LAYER_NOT_FOUND",
			fmt.Sprintf("Layer '%s' not found", subject),
			map[string]interface{}{"layer": subject},
		))

	case errors.Is(err, services.ErrUnknownZone):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"ZONE_NOT_FOUND",
			fmt.Sprintf("Zone '%s' not found", subject),
			map[string]interface{}{"zone": subject},
		))

	case errors.Is(err, services.ErrInvalidPeriod):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("period", "Period must be one of: monthly, yearly"))

	case errors.Is(err, services.ErrEmptyRegion):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("region", "Region matches no zones"))

	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
