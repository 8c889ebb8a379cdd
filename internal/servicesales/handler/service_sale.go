package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/servicesales/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type SaleHandler struct {
	service service.SaleService
	log     *logger.Logger
}

func NewSaleHandler(service service.SaleService, log *logger.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		log:     log,
	}
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var sale model.ServiceSale
	if err := httputil.DecodeJSON(r, &sale); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &sale); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, sale); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sale, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, sale); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SaleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	status, err := httputil.QueryInt(r, "payment_status_id")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if status != 0 && !model.PaymentStatus(status).Valid() {
		h.writeError(w, "GetAll", apperrors.InvalidInput("unknown payment_status_id"))
		return
	}

	query := r.URL.Query()
	filter := model.ServiceSaleFilter{
		StayID:          strings.TrimSpace(query.Get("stay_id")),
		GuestID:         strings.TrimSpace(query.Get("guest_id")),
		ServiceID:       strings.TrimSpace(query.Get("service_id")),
		PaymentStatusID: model.PaymentStatus(status),
	}

	sales, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, sales, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SaleHandler) ListForStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sales, err := h.service.FindByStay(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListForStay", err)
		return
	}

	if err := httputil.WriteSuccess(w, sales); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForStay", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ServiceSaleUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	sale, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, sale); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SaleHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SaleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/service-sales", h.Create)
	router.GET("/api/v1/service-sales", h.GetAll)
	router.GET("/api/v1/service-sales/id/:id", h.GetByID)
	router.PATCH("/api/v1/service-sales/id/:id", h.Update)
	router.DELETE("/api/v1/service-sales/id/:id", h.Delete)
	router.GET("/api/v1/stays/id/:id/service-sales", h.ListForStay)
}
