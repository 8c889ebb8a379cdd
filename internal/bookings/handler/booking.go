package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/bookings/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) QuickBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var quick model.QuickBooking
	if err := httputil.DecodeJSON(r, &quick); err != nil {
		h.writeError(w, "QuickBook", err)
		return
	}

	booking, err := h.service.QuickBook(r.Context(), &quick)
	if err != nil {
		h.writeError(w, "QuickBook", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "QuickBook", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	query := r.URL.Query()
	status, err := httputil.QueryInt(r, "booking_status_id")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if status != 0 && !model.BookingStatus(status).Valid() {
		h.writeError(w, "GetAll", apperrors.InvalidInput("unknown booking_status_id"))
		return
	}

	filter := model.BookingFilter{
		RoomID:   strings.TrimSpace(query.Get("room_id")),
		GuestID:  strings.TrimSpace(query.Get("guest_id")),
		StatusID: model.BookingStatus(status),
	}

	bookings, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// Search lists bookings that share a night with [check_in, check_out),
// optionally for one room.
func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, err := httputil.RequiredQueryDate(r, "check_in")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	checkOut, err := httputil.RequiredQueryDate(r, "check_out")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	roomID := strings.TrimSpace(r.URL.Query().Get("room_id"))
	bookings, err := h.service.Search(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RoomAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	checkIn, err := httputil.RequiredQueryDate(r, "check_in")
	if err != nil {
		h.writeError(w, "RoomAvailability", err)
		return
	}
	checkOut, err := httputil.RequiredQueryDate(r, "check_out")
	if err != nil {
		h.writeError(w, "RoomAvailability", err)
		return
	}

	exclude := strings.TrimSpace(r.URL.Query().Get("exclude_booking_id"))
	result, err := h.service.RoomAvailability(r.Context(), ps.ByName("id"), checkIn, checkOut, exclude)
	if err != nil {
		h.writeError(w, "RoomAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "RoomAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.POST("/api/v1/bookings/quick", h.QuickBook)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/rooms/id/:id/availability", h.RoomAvailability)
}
