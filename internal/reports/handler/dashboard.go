package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/reports/service"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
)

type ReportHandler struct {
	service service.DashboardService
	log     *logger.Logger
}

func NewReportHandler(service service.DashboardService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := httputil.RequiredQueryDate(r, "from")
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}
	to, err := httputil.RequiredQueryDate(r, "to")
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	dash, err := h.service.Dashboard(r.Context(), from, to)
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, dash); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/dashboard", h.Dashboard)
}
