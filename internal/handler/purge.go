package handler

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eshop-ops/retention/internal/model"
	"github.com/eshop-ops/retention/internal/service"
)

type PurgeHandler struct {
	purge  service.PurgeService
	logger *zap.Logger
}

func NewPurgeHandler(purge service.PurgeService, logger *zap.Logger) *PurgeHandler {
	return &PurgeHandler{purge: purge, logger: logger}
}

// PurgeInactive handles POST /api/v1/users/purge-inactive?inactive_days=N.
//
// The run itself is always reported with 200: per-account failures are part
// of the result, not a transport error. Only a batch that could not start at
// all maps to 502.
func (h *PurgeHandler) PurgeInactive(w http.ResponseWriter, r *http.Request) {
	days := int(service.DefaultThreshold / (24 * time.Hour))
	if raw := r.URL.Query().Get("inactive_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "inactive_days must be a positive integer")
			return
		}
		days = v
	}

	h.logger.Info("purge requested over http", zap.Int("inactive_days", days))

	report, err := h.purge.Run(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.logger.Error("purge batch failed to start", zap.Error(err))
		writeError(w, http.StatusBadGateway, "purge batch could not start")
		return
	}

	errList := report.Errors
	if errList == nil {
		errList = []model.PurgeError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "purge completed",
		"inactive_days":  days,
		"eligible_count": report.Eligible,
		"purged_count":   report.Processed,
		"errors":         errList,
	})
}

// Health handles GET /api/v1/health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
