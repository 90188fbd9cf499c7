package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"refguard/internal/audit"
	"refguard/internal/reference"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/httputil"
)

// AuditReader lists the audit trail of one parent entity.
type AuditReader interface {
	History(ctx context.Context, parent audit.Parent) ([]audit.Record, error)
}

type AuditHandler struct {
	reader AuditReader
	logger *slog.Logger
}

func NewAuditHandler(reader AuditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{reader: reader, logger: logger}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/audit/{parentKind}/{parentID}", h.HandleHistory)
}

type auditRecordResponse struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Detail     string              `json:"detail"`
	PriorState reference.Reference `json:"prior_state"`
	NewState   reference.Reference `json:"new_state"`
	ParentKind audit.ParentKind    `json:"parent_kind"`
	ParentID   string              `json:"parent_id"`
}

// HandleHistory handles GET /v1/audit/{parentKind}/{parentID}.
func (h *AuditHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parent, err := audit.ParentOf(audit.ParentKind(chi.URLParam(r, "parentKind")), chi.URLParam(r, "parentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "unknown audit parent"))
		return
	}

	records, err := h.reader.History(ctx, parent)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit history failed", "parent_kind", parent.Kind(), "parent_id", parent.ID(), "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": toAuditRecords(records)})
}

func toAuditRecords(records []audit.Record) []auditRecordResponse {
	out := make([]auditRecordResponse, len(records))
	for i, rec := range records {
		out[i] = auditRecordResponse{
			ID:         rec.ID.String(),
			CreatedAt:  rec.CreatedAt,
			Detail:     rec.Detail,
			PriorState: rec.PriorState,
			NewState:   rec.NewState,
			ParentKind: rec.Parent.Kind(),
			ParentID:   rec.Parent.ID(),
		}
	}
	return out
}
