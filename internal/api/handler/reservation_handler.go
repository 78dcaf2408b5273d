package handler

import (
	"log/slog"
	"lunchly/internal/api/handler/dto"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/pkg/apperrors"
	"lunchly/internal/web"
	"net/http"
)

type ReservationHandler struct {
	service  reservation.Service
	renderer web.Renderer
	logger   *slog.Logger
}

func NewReservationHandler(s reservation.Service, renderer web.Renderer, l *slog.Logger) *ReservationHandler {
	if s == nil {
		panic("reservation service cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReservationHandler{
		service:  s,
		renderer: renderer,
		logger:   l.With("component", "ReservationHandler"),
	}
}

// Create handles POST /{id}/add-reservation/. A customer id that does not
// exist surfaces as NotFound from storage.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, r, h.renderer, h.logger, err)
		return
	}

	var req dto.ReservationForm
	values, err := decodeBody(w, r, &req)
	if err != nil {
		respondError(w, r, h.renderer, h.logger, err)
		return
	}
	if values != nil {
		req = dto.ReservationFormFromValues(values)
	}

	startAt, numGuests, err := req.Validate()
	if err != nil {
		respondError(w, r, h.renderer, h.logger, apperrors.NewBadRequest("%v", err))
		return
	}

	created, err := h.service.Create(r.Context(), customerID, startAt, numGuests, req.Notes)
	if err != nil {
		respondError(w, r, h.renderer, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Reservation created successfully",
		slog.Int64("customerID", customerID),
		slog.Int64("reservationID", created.ID()),
	)
	redirectToCustomer(w, r, customerID)
}
