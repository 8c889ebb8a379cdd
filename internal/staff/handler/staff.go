package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/staff/service"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type StaffHandler struct {
	service service.StaffService
	log     *logger.Logger
}

func NewStaffHandler(service service.StaffService, log *logger.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		log:     log,
	}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var member model.Staff
	if err := httputil.DecodeJSON(r, &member); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &member); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, member); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	member, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, member); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll lists staff; ?active=true restricts to active members.
func (h *StaffHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	active, err := httputil.QueryBool(r, "active")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	members, totalCount, err := h.service.GetAll(r.Context(), active != nil && *active, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, members, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.StaffUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	member, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, member); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *StaffHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *StaffHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/staff", h.Create)
	router.GET("/api/v1/staff", h.GetAll)
	router.GET("/api/v1/staff/id/:id", h.GetByID)
	router.PATCH("/api/v1/staff/id/:id", h.Update)
	router.DELETE("/api/v1/staff/id/:id", h.Delete)
}
