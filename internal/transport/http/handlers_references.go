package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	"refguard/internal/reference/validator"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/httputil"
	"refguard/pkg/requestcontext"
)

// ReferenceValidator checks one reference against its owning peer.
type ReferenceValidator interface {
	Validate(ctx context.Context, ref reference.Reference) error
}

// ReferenceHandler exposes reference validation to operators and peers.
type ReferenceHandler struct {
	validator ReferenceValidator
	logger    *slog.Logger
}

func NewReferenceHandler(v ReferenceValidator, logger *slog.Logger) *ReferenceHandler {
	return &ReferenceHandler{validator: v, logger: logger}
}

func (h *ReferenceHandler) Register(r chi.Router) {
	r.Post("/references/validate", h.HandleValidate)
}

type validateRequest struct {
	Kind reference.Kind `json:"kind"`
	ID   reference.ID   `json:"id"`
}

type validateResponse struct {
	Result    string `json:"result"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference,omitempty"`
	Category  string `json:"category,omitempty"`
}

// HandleValidate handles POST /v1/references/validate.
func (h *ReferenceHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Kind == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "kind is required"))
		return
	}

	ref := reference.New(req.Kind, req.ID)
	err := h.validator.Validate(ctx, ref)

	var rejected *validator.RejectedError
	var unavailable *validator.UnavailableError
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, validateResponse{Result: "ok"})
	case errors.As(err, &rejected):
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, validateResponse{Result: "rejected", Reason: rejected.Reason})
	case errors.As(err, &unavailable):
		h.logger.WarnContext(ctx, "reference could not be verified",
			"request_id", requestcontext.RequestID(ctx),
			"reference", ref,
			"error", err,
		)
		// the peer error carries a body snippet; callers only see the category
		category, ok := peer.GetCategory(err)
		if !ok {
			category = peer.CategoryOutage
		}
		httputil.WriteJSON(w, http.StatusServiceUnavailable, validateResponse{
			Result:    "unavailable",
			Reason:    string(ref.Kind) + " service unavailable",
			Reference: ref.String(),
			Category:  string(category),
		})
	case dErrors.HasCode(err, dErrors.CodeContractViolation):
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown reference kind "+string(req.Kind)))
	default:
		h.logger.ErrorContext(ctx, "reference validation failed", "reference", ref, "error", err)
		httputil.WriteError(w, err)
	}
}
