package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refguard/internal/audit"
	"refguard/internal/incident"
	"refguard/internal/reference"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/httputil"
	"refguard/pkg/requestcontext"
)

type IncidentService interface {
	Create(ctx context.Context, req incident.CreateRequest) (*incident.Incident, error)
	Get(ctx context.Context, id uuid.UUID) (*incident.Incident, error)
	List(ctx context.Context) ([]*incident.Incident, error)
	History(ctx context.Context, id uuid.UUID) ([]audit.Record, error)
	ChangeState(ctx context.Context, id uuid.UUID, newState reference.ID, detail string) (*incident.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type IncidentHandler struct {
	service IncidentService
	logger  *slog.Logger
}

func NewIncidentHandler(service IncidentService, logger *slog.Logger) *IncidentHandler {
	return &IncidentHandler{service: service, logger: logger}
}

func (h *IncidentHandler) Register(r chi.Router) {
	r.Post("/incidents", h.HandleCreate)
	r.Get("/incidents", h.HandleList)
	r.Get("/incidents/{id}", h.HandleGet)
	r.Get("/incidents/{id}/history", h.HandleHistory)
	r.Put("/incidents/{id}/state", h.HandleChangeState)
	r.Delete("/incidents/{id}", h.HandleDelete)
}

type createIncidentRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StateID     reference.ID `json:"state_id"`
	AddressID   reference.ID `json:"address_id"`
	ReporterID  reference.ID `json:"reporter_id"`
}

type changeStateRequest struct {
	StateID reference.ID `json:"state_id"`
	Detail  string       `json:"detail"`
}

type incidentResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	State       reference.Reference `json:"state"`
	Address     reference.Reference `json:"address"`
	Reporter    reference.Reference `json:"reporter"`
}

func toIncidentResponse(inc *incident.Incident) incidentResponse {
	return incidentResponse{
		ID:          inc.ID.String(),
		Title:       inc.Title,
		Description: inc.Description,
		State:       inc.State,
		Address:     inc.Address,
		Reporter:    inc.Reporter,
	}
}

// HandleCreate handles POST /v1/incidents.
func (h *IncidentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createIncidentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	inc, err := h.service.Create(ctx, incident.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		StateID:     req.StateID,
		AddressID:   req.AddressID,
		ReporterID:  req.ReporterID,
	})
	if err != nil {
		h.fail(ctx, "create incident failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIncidentResponse(inc))
}

// HandleList handles GET /v1/incidents.
func (h *IncidentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.service.List(r.Context())
	if err != nil {
		h.fail(r.Context(), "list incidents failed", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]incidentResponse, len(incidents))
	for i, inc := range incidents {
		out[i] = toIncidentResponse(inc)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"incidents": out})
}

// HandleGet handles GET /v1/incidents/{id}.
func (h *IncidentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	inc, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIncidentResponse(inc))
}

// HandleHistory handles GET /v1/incidents/{id}/history. Unlike the generic
// audit route it answers 404 for an unknown incident.
func (h *IncidentHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	records, err := h.service.History(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), "incident history failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": toAuditRecords(records)})
}

// HandleChangeState handles PUT /v1/incidents/{id}/state.
func (h *IncidentHandler) HandleChangeState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req changeStateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	inc, err := h.service.ChangeState(ctx, id, req.StateID, req.Detail)
	if err != nil {
		h.fail(ctx, "change incident state failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIncidentResponse(inc))
}

// HandleDelete handles DELETE /v1/incidents/{id}.
func (h *IncidentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(r.Context(), "delete incident failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IncidentHandler) fail(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
}

func parseUUID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid id"))
		return uuid.UUID{}, false
	}
	return id, true
}
