package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refguard/internal/donation"
	"refguard/internal/reference"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/httputil"
)

// DonationService stores donations, profiles and teams.
type DonationService interface {
	Save(ctx context.Context, req donation.SaveRequest) (*donation.Donation, error)
	Get(ctx context.Context, id uuid.UUID) (*donation.Donation, error)
	ListByDonor(ctx context.Context, donorID reference.ID) ([]*donation.Donation, error)
	SaveProfile(ctx context.Context, userID, addressID, avatarID reference.ID, bio string) (*donation.Profile, error)
	Profile(ctx context.Context, userID reference.ID) (*donation.Profile, error)
	SaveTeam(ctx context.Context, name string, memberIDs ...reference.ID) (*donation.Team, error)
	Team(ctx context.Context, id uuid.UUID) (*donation.Team, error)
}

type DonationHandler struct {
	service DonationService
	logger  *slog.Logger
}

func NewDonationHandler(service DonationService, logger *slog.Logger) *DonationHandler {
	return &DonationHandler{service: service, logger: logger}
}

func (h *DonationHandler) Register(r chi.Router) {
	r.Post("/donations", h.HandleSave)
	r.Get("/donations", h.HandleListByDonor)
	r.Get("/donations/{id}", h.HandleGet)
	r.Put("/profiles/{userID}", h.HandleSaveProfile)
	r.Get("/profiles/{userID}", h.HandleProfile)
	r.Post("/teams", h.HandleSaveTeam)
	r.Get("/teams/{id}", h.HandleTeam)
}

type saveDonationRequest struct {
	DonorID reference.ID `json:"donor_id"`
	PhotoID reference.ID `json:"photo_id"`
	Amount  int64        `json:"amount"`
	Note    string       `json:"note"`
}

type donationResponse struct {
	ID        string              `json:"id"`
	Donor     reference.Reference `json:"donor"`
	Photo     reference.Reference `json:"photo"`
	Amount    int64               `json:"amount"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func toDonationResponse(d *donation.Donation) donationResponse {
	return donationResponse{
		ID:        d.ID.String(),
		Donor:     d.Donor,
		Photo:     d.Photo,
		Amount:    d.Amount,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
	}
}

// HandleSave handles POST /v1/donations.
func (h *DonationHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req saveDonationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Save(r.Context(), donation.SaveRequest{
		DonorID: req.DonorID,
		PhotoID: req.PhotoID,
		Amount:  req.Amount,
		Note:    req.Note,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "save donation failed", "donor_id", req.DonorID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDonationResponse(d))
}

// HandleGet handles GET /v1/donations/{id}.
func (h *DonationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDonationResponse(d))
}

// HandleListByDonor handles GET /v1/donations?donor_id=.
func (h *DonationHandler) HandleListByDonor(w http.ResponseWriter, r *http.Request) {
	donorID := reference.ID(r.URL.Query().Get("donor_id"))
	if donorID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "donor_id is required"))
		return
	}
	donations, err := h.service.ListByDonor(r.Context(), donorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]donationResponse, len(donations))
	for i, d := range donations {
		out[i] = toDonationResponse(d)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"donations": out})
}

type saveProfileRequest struct {
	AddressID reference.ID `json:"address_id"`
	AvatarID  reference.ID `json:"avatar_id"`
	Bio       string       `json:"bio"`
}

// HandleSaveProfile handles PUT /v1/profiles/{userID}.
func (h *DonationHandler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := reference.ID(chi.URLParam(r, "userID"))
	var req saveProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.SaveProfile(r.Context(), userID, req.AddressID, req.AvatarID, req.Bio)
	if err != nil {
		h.logger.WarnContext(r.Context(), "save profile failed", "user_id", userID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleProfile handles GET /v1/profiles/{userID}.
func (h *DonationHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context(), reference.ID(chi.URLParam(r, "userID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

type saveTeamRequest struct {
	Name      string         `json:"name"`
	MemberIDs []reference.ID `json:"member_ids"`
}

// HandleSaveTeam handles POST /v1/teams.
func (h *DonationHandler) HandleSaveTeam(w http.ResponseWriter, r *http.Request) {
	var req saveTeamRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	t, err := h.service.SaveTeam(r.Context(), req.Name, req.MemberIDs...)
	if err != nil {
		h.logger.WarnContext(r.Context(), "save team failed", "team", req.Name, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

// HandleTeam handles GET /v1/teams/{id}.
func (h *DonationHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	t, err := h.service.Team(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}
