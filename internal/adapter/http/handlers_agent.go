package http

import (
	"net/http"

	"github.com/wadesk/wadesk/internal/domain/agent"
	"github.com/wadesk/wadesk/internal/middleware"
)

// ListAgents handles GET /api/v1/agents.
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	agents, err := h.Agents.List(r.Context(), u.OrgID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if agents == nil {
		agents = []agent.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

// CreateAgent handles POST /api/v1/agents.
func (h *Handlers) CreateAgent(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[agent.CreateRequest](w, r)
	if !ok {
		return
	}

	a, err := h.Agents.Create(r.Context(), u.OrgID, u.ID, &req)
	if err != nil {
		writeDomainError(w, err, "agent creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAgent handles GET /api/v1/agents/{id}.
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	a, err := h.Agents.Get(r.Context(), urlParam(r, "id"))
	if err != nil || a.OrgID != u.OrgID {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAgent handles PUT /api/v1/agents/{id}.
func (h *Handlers) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[agent.UpdateRequest](w, r)
	if !ok {
		return
	}

	a, err := h.Agents.Update(r.Context(), u.OrgID, u.ID, urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAgent handles DELETE /api/v1/agents/{id}.
func (h *Handlers) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if err := h.Agents.Delete(r.Context(), u.OrgID, u.ID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
