package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/reservation"
	"skirent-backend/internal/service"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// reservationRequest is the reservation form. A material is picked by id; the name is
// accepted for edits of reservations that only recorded it in their notes.
type reservationRequest struct {
	ClientID     string `json:"client_id"`
	MaterialID   *int32 `json:"material_id"`
	MaterialName string `json:"material_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
}

func (req reservationRequest) draft() reservation.Draft {
	return reservation.Draft{
		MaterialID:   req.MaterialID,
		MaterialName: req.MaterialName,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       domain.ReservationStatus(strings.TrimSpace(req.Status)),
	}
}

type quoteView struct {
	MaterialID   int32                    `json:"material_id"`
	MaterialName string                   `json:"material_name"`
	Status       domain.ReservationStatus `json:"status"`
	StartDate    string                   `json:"start_date"`
	EndDate      string                   `json:"end_date"`
	UnitPrice    float64                  `json:"unit_price"`
	Days         int                      `json:"days"`
	Total        float64                  `json:"total"`
}

type quoteResponse struct {
	Valid   bool       `json:"valid"`
	Reason  string     `json:"reason,omitempty"`
	Message string     `json:"message,omitempty"`
	Quote   *quoteView `json:"quote,omitempty"`
}

func newQuoteResponse(outcome reservation.Outcome) quoteResponse {
	switch o := outcome.(type) {
	case reservation.Validated:
		v := o.Reservation
		return quoteResponse{Valid: true, Quote: &quoteView{
			MaterialID:   v.MaterialID,
			MaterialName: v.MaterialName,
			Status:       v.Status,
			StartDate:    reservation.Format(v.StartDate),
			EndDate:      reservation.Format(v.EndDate),
			UnitPrice:    v.UnitPrice,
			Days:         v.Days,
			Total:        v.Total,
		}}
	case reservation.Rejected:
		return quoteResponse{Reason: string(o.Reason), Message: o.Reason.Message()}
	default:
		return quoteResponse{}
	}
}

// Quote validates the form and prices it without saving. A rejection is a normal
// 200 answer with valid=false.
func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	outcome, err := h.reservationSvc.Quote(r.Context(), actorFrom(r), req.draft())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(outcome))
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.reservationSvc.Submit(r.Context(), actorFrom(r), reservation.SubmitRequest{
		ClientID: strings.TrimSpace(req.ClientID),
		Draft:    req.draft(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	var req reservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.reservationSvc.Submit(r.Context(), actorFrom(r), reservation.SubmitRequest{
		ClientID:      strings.TrimSpace(req.ClientID),
		ReservationID: &id,
		Draft:         req.draft(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	res, err := h.reservationSvc.GetReservation(r.Context(), actorFrom(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservationSvc.ListReservations(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReservationHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.reservationSvc.CountReservations(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// ListByClient returns the latest reservations of a client; ?limit=N caps the list.
func (h *ReservationHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid limit")
			return
		}
		limit = n
	}
	list, err := h.reservationSvc.ListClientReservations(r.Context(), actorFrom(r), mux.Vars(r)["id"], limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReservationHandler) CountByClient(w http.ResponseWriter, r *http.Request) {
	n, err := h.reservationSvc.CountClientReservations(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(w, r, "id")
	if !ok {
		return
	}
	if err := h.reservationSvc.DeleteReservation(r.Context(), actorFrom(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
