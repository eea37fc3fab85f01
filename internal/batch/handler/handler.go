// Package handler exposes batch units of work over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	claimhandler "claimbank/internal/claim/handler"
	"claimbank/internal/claim/models"
	"claimbank/pkg/platform/httputil"
	"claimbank/pkg/platform/middleware/auth"
	"claimbank/pkg/requestcontext"
)

// Service defines the batch operations the handler needs.
type Service interface {
	BatchCreate(ctx context.Context, items []models.CreateClaimParams, sharedTag []byte) ([]int64, error)
	BatchPay(ctx context.Context, claimIDs []int64, amounts []int64) error
}

// BatchCreateRequest is the body for POST /batch/claims. Tag is shared
// by every claim in the batch; per-item tags are not part of the batch
// surface.
type BatchCreateRequest struct {
	Claims []claimhandler.CreateClaimRequest `json:"claims"`
	Tag    string                            `json:"tag,omitempty"`
}

func (r *BatchCreateRequest) Validate() error {
	if err := models.ValidateTag([]byte(r.Tag)); err != nil {
		return err
	}
	for i := range r.Claims {
		if err := r.Claims[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Items converts the validated request into creation parameters.
func (r *BatchCreateRequest) Items() []models.CreateClaimParams {
	items := make([]models.CreateClaimParams, 0, len(r.Claims))
	for i := range r.Claims {
		items = append(items, r.Claims[i].Params())
	}
	return items
}

// SharedTag returns the batch-wide tag as bytes, nil when absent.
func (r *BatchCreateRequest) SharedTag() []byte {
	if r.Tag == "" {
		return nil
	}
	return []byte(r.Tag)
}

// BatchCreateResponse returns the assigned ids in item order.
type BatchCreateResponse struct {
	IDs []int64 `json:"ids"`
}

// BatchPayRequest is the body for POST /batch/payments. ClaimIDs and
// Amounts are parallel.
type BatchPayRequest struct {
	ClaimIDs []int64 `json:"claim_ids"`
	Amounts  []int64 `json:"amounts"`
}

// Handler handles batch endpoints.
type Handler struct {
	logger    *slog.Logger
	batches   Service
	validator auth.PartyValidator
}

// New creates a batch Handler.
func New(batches Service, validator auth.PartyValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		batches:   batches,
		validator: validator,
	}
}

// Register mounts the batch routes behind party authentication.
func (h *Handler) Register(r chi.Router) {
	batchRouter := chi.NewRouter()
	batchRouter.Use(auth.RequireParty(h.validator, h.logger))
	batchRouter.Post("/claims", h.handleBatchCreate)
	batchRouter.Post("/payments", h.handleBatchPay)

	r.Mount("/batch", batchRouter)
}

func (h *Handler) handleBatchCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchCreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ids, err := h.batches.BatchCreate(ctx, req.Items(), req.SharedTag())
	if err != nil {
		h.logger.WarnContext(ctx, "batch create failed",
			"request_id", requestID,
			"count", len(req.Claims),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, BatchCreateResponse{IDs: ids})
}

func (h *Handler) handleBatchPay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchPayRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.batches.BatchPay(ctx, req.ClaimIDs, req.Amounts); err != nil {
		h.logger.WarnContext(ctx, "batch pay failed",
			"request_id", requestID,
			"count", len(req.ClaimIDs),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
