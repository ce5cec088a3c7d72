package handlers

import (
	"net/http"

	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// CallLogsHandler serves the read side of the append-only call log.
type CallLogsHandler struct {
	store  store.Store
	logger *logging.Logger
}

// NewCallLogsHandler creates a new call logs handler.
func NewCallLogsHandler(st store.Store, logger *logging.Logger) *CallLogsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CallLogsHandler{store: st, logger: logger}
}

// ListCallLogs returns every call log entry.
// GET /api/call-logs
func (h *CallLogsHandler) ListCallLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.ListCallLogs(r.Context())
	if err != nil {
		h.logger.Error("call logs: list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list call logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
