package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"github.com/lesquel/mesaYa-Res-sub003/internal/scheduling"
)

const (
	dateLayout = "2006-01-02"
)

type Handlers struct {
	reservations *scheduling.Service
	holds        *scheduling.HoldCoordinator
	exceptions   *scheduling.ExceptionService
	logger       observability.Logger
}

func NewHandlers(reservations *scheduling.Service, holds *scheduling.HoldCoordinator, exceptions *scheduling.ExceptionService, logger observability.Logger) *Handlers {
	return &Handlers{
		reservations: reservations,
		holds:        holds,
		exceptions:   exceptions,
		logger:       logger,
	}
}

type reservationResponse struct {
	ID              uuid.UUID `json:"id"`
	RestaurantID    uuid.UUID `json:"restaurantId"`
	UserID          uuid.UUID `json:"userId"`
	TableID         uuid.UUID `json:"tableId"`
	ReservationDate string    `json:"reservationDate"`
	ReservationTime string    `json:"reservationTime"`
	DurationMinutes int       `json:"durationMinutes"`
	NumberOfGuests  int       `json:"numberOfGuests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toReservationResponse(s domain.ReservationSnapshot) reservationResponse {
	return reservationResponse{
		ID:              s.ID,
		RestaurantID:    s.RestaurantID,
		UserID:          s.UserID,
		TableID:         s.TableID,
		ReservationDate: s.Date.Format(dateLayout),
		ReservationTime: s.Start.String(),
		DurationMinutes: s.DurationMinutes,
		NumberOfGuests:  s.Guests,
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantID    uuid.UUID `json:"restaurantId"`
		UserID          uuid.UUID `json:"userId"`
		TableID         uuid.UUID `json:"tableId"`
		ReservationDate string    `json:"reservationDate"`
		ReservationTime string    `json:"reservationTime"`
		DurationMinutes int       `json:"durationMinutes"`
		NumberOfGuests  int       `json:"numberOfGuests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.ReservationDate)
	if err != nil {
		http.Error(w, "invalid reservationDate", http.StatusBadRequest)
		return
	}
	start, err := domain.ParseClock(req.ReservationTime)
	if err != nil {
		http.Error(w, "invalid reservationTime", http.StatusBadRequest)
		return
	}

	snapshot, err := h.reservations.Schedule(r.Context(), scheduling.ScheduleRequest{
		RestaurantID:    req.RestaurantID,
		UserID:          req.UserID,
		TableID:         req.TableID,
		Date:            date,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Guests:          req.NumberOfGuests,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationResponse(snapshot))
}

func (h *Handlers) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID          uuid.UUID `json:"userId"`
		OwnerID         uuid.UUID `json:"ownerId"`
		ReservationDate *string   `json:"reservationDate"`
		ReservationTime *string   `json:"reservationTime"`
		DurationMinutes *int      `json:"durationMinutes"`
		NumberOfGuests  *int      `json:"numberOfGuests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := scheduling.UpdateRequest{
		ReservationID:   id,
		UserID:          req.UserID,
		OwnerID:         req.OwnerID,
		DurationMinutes: req.DurationMinutes,
		Guests:          req.NumberOfGuests,
	}
	if req.ReservationDate != nil {
		date, err := time.Parse(dateLayout, *req.ReservationDate)
		if err != nil {
			http.Error(w, "invalid reservationDate", http.StatusBadRequest)
			return
		}
		update.Date = &date
	}
	if req.ReservationTime != nil {
		start, err := domain.ParseClock(*req.ReservationTime)
		if err != nil {
			http.Error(w, "invalid reservationTime", http.StatusBadRequest)
			return
		}
		update.Start = &start
	}

	snapshot, err := h.reservations.Update(r.Context(), update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(snapshot))
}

func (h *Handlers) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID  uuid.UUID `json:"userId"`
		OwnerID uuid.UUID `json:"ownerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.reservations.Cancel(r.Context(), scheduling.CancelRequest{
		ReservationID: id,
		UserID:        req.UserID,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(snapshot))
}

func (h *Handlers) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		OwnerID uuid.UUID `json:"ownerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.reservations.Confirm(r.Context(), scheduling.ConfirmRequest{
		ReservationID: id,
		OwnerID:       req.OwnerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(snapshot))
}

func (h *Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ownerID, err := uuid.Parse(r.URL.Query().Get("ownerId"))
	if err != nil {
		http.Error(w, "invalid ownerId", http.StatusBadRequest)
		return
	}

	if err := h.reservations.Delete(r.Context(), scheduling.DeleteRequest{ReservationID: id, OwnerID: ownerID}); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	snapshot, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(snapshot))
}

func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseID(w, r)
	if !ok {
		return
	}
	snapshots, err := h.reservations.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items := make([]reservationResponse, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, toReservationResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *Handlers) SelectTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableID      uuid.UUID `json:"tableId"`
		RestaurantID uuid.UUID `json:"restaurantId"`
		SectionID    uuid.UUID `json:"sectionId"`
		UserID       uuid.UUID `json:"userId"`
		SessionID    string    `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.holds.Select(r.Context(), scheduling.SelectTableRequest{
		TableID:      req.TableID,
		RestaurantID: req.RestaurantID,
		SectionID:    req.SectionID,
		UserID:       req.UserID,
		SessionID:    req.SessionID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := map[string]any{"success": result.Success, "tableId": result.TableID}
	if result.Success {
		resp["selectedBy"] = result.SelectedBy
		resp["expiresAt"] = result.ExpiresAt.Format(time.RFC3339)
	} else {
		resp["message"] = result.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ReleaseTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableID      uuid.UUID `json:"tableId"`
		RestaurantID uuid.UUID `json:"restaurantId"`
		SectionID    uuid.UUID `json:"sectionId"`
		UserID       uuid.UUID `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.holds.Release(r.Context(), scheduling.ReleaseTableRequest{
		TableID:      req.TableID,
		RestaurantID: req.RestaurantID,
		SectionID:    req.SectionID,
		UserID:       req.UserID,
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type exceptionResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Reason       string    `json:"reason,omitempty"`
}

func toExceptionResponse(ex domain.ScheduleException) exceptionResponse {
	return exceptionResponse{
		ID:           ex.ID,
		RestaurantID: ex.RestaurantID,
		StartDate:    ex.StartDate.Format(dateLayout),
		EndDate:      ex.EndDate.Format(dateLayout),
		Reason:       ex.Reason,
	}
}

func (h *Handlers) CreateScheduleException(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		OwnerID   uuid.UUID `json:"ownerId"`
		StartDate string    `json:"startDate"`
		EndDate   string    `json:"endDate"`
		Reason    string    `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end, ok := parseDateRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	exception, err := h.exceptions.Create(r.Context(), scheduling.CreateExceptionRequest{
		RestaurantID: restaurantID,
		OwnerID:      req.OwnerID,
		StartDate:    start,
		EndDate:      end,
		Reason:       req.Reason,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExceptionResponse(exception))
}

func (h *Handlers) UpdateScheduleException(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		OwnerID   uuid.UUID `json:"ownerId"`
		StartDate string    `json:"startDate"`
		EndDate   string    `json:"endDate"`
		Reason    string    `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end, ok := parseDateRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	exception, err := h.exceptions.Update(r.Context(), scheduling.UpdateExceptionRequest{
		ExceptionID: id,
		OwnerID:     req.OwnerID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExceptionResponse(exception))
}

func (h *Handlers) DeleteScheduleException(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ownerID, err := uuid.Parse(r.URL.Query().Get("ownerId"))
	if err != nil {
		http.Error(w, "invalid ownerId", http.StatusBadRequest)
		return
	}

	if err := h.exceptions.Delete(r.Context(), id, ownerID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListScheduleExceptions(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := parseID(w, r)
	if !ok {
		return
	}
	ownerID, err := uuid.Parse(r.URL.Query().Get("ownerId"))
	if err != nil {
		http.Error(w, "invalid ownerId", http.StatusBadRequest)
		return
	}

	exceptions, err := h.exceptions.List(r.Context(), restaurantID, ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items := make([]exceptionResponse, 0, len(exceptions))
	for _, ex := range exceptions {
		items = append(items, toExceptionResponse(ex))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

// writeError maps the domain taxonomy onto HTTP statuses. One uniform mapping
// regardless of which layer detected the problem.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrTableRestaurantMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrOutsideOperatingHours):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrTableNotFound),
		errors.Is(err, domain.ErrRestaurantNotBookable),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrReservationOwnership), errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrTableConflict),
		errors.Is(err, domain.ErrScheduleExceptionOverlap),
		errors.Is(err, domain.ErrRestaurantClosedByException),
		errors.Is(err, domain.ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSerializationFailure):
		http.Error(w, "conflict, try again", http.StatusConflict)
	default:
		LoggerFromContext(r.Context(), h.logger).WithError(err).Error("unhandled error")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func parseDateRange(w http.ResponseWriter, startRaw, endRaw string) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		http.Error(w, "invalid startDate", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		http.Error(w, "invalid endDate", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
