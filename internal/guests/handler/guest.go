package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/guests/service"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type GuestHandler struct {
	service service.GuestService
	log     *logger.Logger
}

func NewGuestHandler(service service.GuestService, log *logger.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		log:     log,
	}
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var guest model.Guest
	if err := httputil.DecodeJSON(r, &guest); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &guest); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, guest); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *GuestHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guest, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, guest); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GuestHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	guests, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, guests, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.GuestUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	guest, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, guest); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *GuestHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guests, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WriteSuccess(w, guests); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GuestHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *GuestHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/guests", h.Create)
	router.GET("/api/v1/guests", h.GetAll)
	router.GET("/api/v1/guests/search", h.Search)
	router.GET("/api/v1/guests/id/:id", h.GetByID)
	router.PATCH("/api/v1/guests/id/:id", h.Update)
	router.DELETE("/api/v1/guests/id/:id", h.Delete)
}
