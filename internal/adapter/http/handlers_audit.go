package http

import (
	"net/http"

	"github.com/wadesk/wadesk/internal/domain/audit"
	"github.com/wadesk/wadesk/internal/middleware"
)

// ListAuditLogs handles GET /api/v1/audit-logs.
func (h *Handlers) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	entries, err := h.Conversations.AuditLogs(r.Context(), u.OrgID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
