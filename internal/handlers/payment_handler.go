package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/httperr"
	"github.com/igestaos-eng/barbearia/internal/models"
	"github.com/igestaos-eng/barbearia/internal/payments"
)

type PaymentHandler struct {
	db      *gorm.DB
	gateway *payments.Gateway
	audit   *audit.Dispatcher
}

func NewPaymentHandler(
	db *gorm.DB,
	gateway *payments.Gateway,
	auditDisp *audit.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		gateway: gateway,
		audit:   auditDisp,
	}
}

type CreateDepositRequest struct {
	PayerEmail string `json:"payer_email" binding:"required,email"`
}

// CreateDeposit gera a cobrança pix do sinal de um agendamento
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "E-mail do pagador é obrigatório.")
		return
	}

	var ap models.Appointment
	if err := h.db.Where("archived = ?", false).First(&ap, id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	charge, err := h.gateway.CreateDepositCharge(c.Request.Context(), &ap, req.PayerEmail)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			httperr.BadRequest(c, "payments_disabled", "Pagamentos não configurados.")
			return
		}
		httperr.Internal(c, "payment_failed", "Erro ao criar cobrança.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "appointment_deposit_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: charge,
	})

	c.JSON(http.StatusCreated, charge)
}
