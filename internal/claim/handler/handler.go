// Package handler exposes the claim registry over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"claimbank/internal/claim/models"
	"claimbank/pkg/domain"
	dErrors "claimbank/pkg/domain-errors"
	"claimbank/pkg/platform/httputil"
	"claimbank/pkg/platform/middleware/auth"
	"claimbank/pkg/requestcontext"
)

// Service defines the claim operations the handler needs.
type Service interface {
	CreateClaimWithTag(ctx context.Context, params models.CreateClaimParams, tag []byte) (*models.Claim, error)
	GetClaim(ctx context.Context, claimID int64) (*models.Claim, error)
	ListClaims(ctx context.Context, party domain.Party) ([]*models.Claim, error)
	Holder(ctx context.Context, claimID int64) (domain.Party, error)
	PayClaim(ctx context.Context, claimID int64, amount int64) (*models.Claim, error)
	UpdateTag(ctx context.Context, claimID int64, tag []byte) (*models.Claim, error)
	RejectClaim(ctx context.Context, claimID int64) (*models.Claim, error)
	RescindClaim(ctx context.Context, claimID int64) (*models.Claim, error)
}

// Handler handles claim endpoints.
type Handler struct {
	logger    *slog.Logger
	claims    Service
	validator auth.PartyValidator
}

// New creates a claim Handler.
func New(claims Service, validator auth.PartyValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		claims:    claims,
		validator: validator,
	}
}

// Register mounts the claim routes. Every route requires an
// authenticated party; authorization beyond that is the service's
// concern.
func (h *Handler) Register(r chi.Router) {
	claimRouter := chi.NewRouter()
	claimRouter.Use(auth.RequireParty(h.validator, h.logger))
	claimRouter.Post("/", h.handleCreateClaim)
	claimRouter.Get("/", h.handleListClaims)
	claimRouter.Get("/{claimID}", h.handleGetClaim)
	claimRouter.Get("/{claimID}/holder", h.handleHolder)
	claimRouter.Post("/{claimID}/payments", h.handlePayClaim)
	claimRouter.Put("/{claimID}/tag", h.handleUpdateTag)
	claimRouter.Post("/{claimID}/reject", h.handleRejectClaim)
	claimRouter.Post("/{claimID}/rescind", h.handleRescindClaim)

	r.Mount("/claims", claimRouter)
}

func (h *Handler) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	claim, err := h.claims.CreateClaimWithTag(ctx, req.Params(), req.TagBytes())
	if err != nil {
		h.writeFailure(ctx, w, "failed to create claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, NewClaimResponse(claim))
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	claim, err := h.claims.GetClaim(ctx, claimID)
	if err != nil {
		h.writeFailure(ctx, w, "failed to get claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewClaimResponse(claim))
}

// handleListClaims lists claims for the party query parameter, falling
// back to the authenticated caller when absent.
func (h *Handler) handleListClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	party := requestcontext.Caller(ctx)
	if raw := r.URL.Query().Get("party"); raw != "" {
		parsed, err := domain.ParseParty(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "invalid party"))
			return
		}
		party = parsed
	}

	claims, err := h.claims.ListClaims(ctx, party)
	if err != nil {
		h.writeFailure(ctx, w, "failed to list claims", err)
		return
	}

	resp := ListClaimsResponse{Claims: make([]ClaimResponse, 0, len(claims))}
	for _, claim := range claims {
		resp.Claims = append(resp.Claims, NewClaimResponse(claim))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	holder, err := h.claims.Holder(ctx, claimID)
	if err != nil {
		h.writeFailure(ctx, w, "failed to resolve holder", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HolderResponse{ClaimID: claimID, Holder: holder.String()})
}

func (h *Handler) handlePayClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[PayClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	claim, err := h.claims.PayClaim(ctx, claimID, req.Amount)
	if err != nil {
		h.writeFailure(ctx, w, "failed to pay claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewClaimResponse(claim))
}

func (h *Handler) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateTagRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	claim, err := h.claims.UpdateTag(ctx, claimID, []byte(req.Tag))
	if err != nil {
		h.writeFailure(ctx, w, "failed to update tag", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewClaimResponse(claim))
}

func (h *Handler) handleRejectClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	claim, err := h.claims.RejectClaim(ctx, claimID)
	if err != nil {
		h.writeFailure(ctx, w, "failed to reject claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewClaimResponse(claim))
}

func (h *Handler) handleRescindClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}

	claim, err := h.claims.RescindClaim(ctx, claimID)
	if err != nil {
		h.writeFailure(ctx, w, "failed to rescind claim", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NewClaimResponse(claim))
}

func (h *Handler) claimID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "claimID")
	claimID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || claimID <= 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid claim id %q", raw))
		return 0, false
	}
	return claimID, true
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
