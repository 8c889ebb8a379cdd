package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/rooms/service"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := httputil.DecodeJSON(r, &room); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &room); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	rooms, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	room, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// Available lists rooms free for every night in [check_in, check_out).
func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, err := httputil.RequiredQueryDate(r, "check_in")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}
	checkOut, err := httputil.RequiredQueryDate(r, "check_out")
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	rooms, err := h.service.Available(r.Context(), checkIn, checkOut, filter)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "Available", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func parseFilter(r *http.Request) (model.RoomFilter, error) {
	var (
		filter model.RoomFilter
		err    error
	)

	roomType, err := httputil.QueryInt(r, "room_type_id")
	if err != nil {
		return filter, err
	}
	filter.RoomTypeID = model.RoomType(roomType)

	if filter.MinCapacity, err = httputil.QueryInt(r, "capacity"); err != nil {
		return filter, err
	}

	flags := map[string]**bool{
		"has_wifi":             &filter.HasWifi,
		"has_air_conditioning": &filter.HasAirConditioning,
		"has_minibar":          &filter.HasMinibar,
		"has_balcony":          &filter.HasBalcony,
		"has_sea_view":         &filter.HasSeaView,
	}
	for name, dst := range flags {
		if *dst, err = httputil.QueryBool(r, name); err != nil {
			return filter, err
		}
	}

	available, err := httputil.QueryBool(r, "is_available")
	if err != nil {
		return filter, err
	}
	filter.OnlyAvailable = available != nil && *available

	return filter, nil
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.Create)
	router.GET("/api/v1/rooms", h.GetAll)
	router.GET("/api/v1/rooms/available", h.Available)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.PATCH("/api/v1/rooms/id/:id", h.Update)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
}
