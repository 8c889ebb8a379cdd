package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/invoicing"
	"hotelier/internal/stays/service"
	apperrors "hotelier/pkg/errors"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

// InvoiceBuilder is implemented by invoicing.Service.
type InvoiceBuilder interface {
	ForStay(ctx context.Context, stayID string) (*invoicing.Invoice, error)
}

type StayHandler struct {
	service  service.StayService
	invoices InvoiceBuilder
	log      *logger.Logger
}

func NewStayHandler(service service.StayService, invoices InvoiceBuilder, log *logger.Logger) *StayHandler {
	return &StayHandler{
		service:  service,
		invoices: invoices,
		log:      log,
	}
}

func (h *StayHandler) CheckIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CheckIn
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	stay, err := h.service.CheckIn(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	if err := httputil.WriteCreated(w, stay); err != nil {
		h.log.Error("failed to write created response", "handler", "CheckIn", "operation", "WriteCreated", "error", err)
	}
}

func (h *StayHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stay, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, stay); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StayHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	open, err := httputil.QueryBool(r, "open")
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

	filter := model.StayFilter{
		BookingID:       strings.TrimSpace(r.URL.Query().Get("booking_id")),
		PaymentStatusID: model.PaymentStatus(status),
		Open:            open,
	}

	stays, totalCount, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, stays, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *StayHandler) CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stay, err := h.service.CheckOut(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CheckOut", err)
		return
	}

	if err := httputil.WriteSuccess(w, stay); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckOut", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StayHandler) AddPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payment model.Payment
	if err := httputil.DecodeJSON(r, &payment); err != nil {
		h.writeError(w, "AddPayment", err)
		return
	}

	stay, err := h.service.AddPayment(r.Context(), ps.ByName("id"), &payment)
	if err != nil {
		h.writeError(w, "AddPayment", err)
		return
	}

	if err := httputil.WriteSuccess(w, stay); err != nil {
		h.log.Error("failed to write success response", "handler", "AddPayment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StayHandler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoice, err := h.invoices.ForStay(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Invoice", err)
		return
	}

	if err := httputil.WriteSuccess(w, invoice); err != nil {
		h.log.Error("failed to write success response", "handler", "Invoice", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StayHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *StayHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stays", h.CheckIn)
	router.GET("/api/v1/stays", h.GetAll)
	router.GET("/api/v1/stays/id/:id", h.GetByID)
	router.POST("/api/v1/stays/id/:id/checkout", h.CheckOut)
	router.POST("/api/v1/stays/id/:id/payments", h.AddPayment)
	router.GET("/api/v1/stays/id/:id/invoice", h.Invoice)
}
