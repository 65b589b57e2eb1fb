package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/dto"
	"github.com/igestaos-eng/barbearia/internal/httperr"
	infraRepo "github.com/igestaos-eng/barbearia/internal/infra/repository"
	"github.com/igestaos-eng/barbearia/internal/models"
	ucAppointment "github.com/igestaos-eng/barbearia/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////
//
// API sem autenticação: cliente final lista serviços, consulta
// horários e reserva. O agendamento criado é referenciado pelo
// public_ref (uuid), nunca pelo id interno.

type PublicHandler struct {
	db *gorm.DB
	tz string

	book         *ucAppointment.BookAppointment
	transition   *ucAppointment.TransitionAppointment
	availability *ucAppointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	tz string,
	book *ucAppointment.BookAppointment,
	transition *ucAppointment.TransitionAppointment,
	availability *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		tz:           tz,
		book:         book,
		transition:   transition,
		availability: availability,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	BarberID      uint   `json:"barber_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string `json:"time" binding:"required"` // HH:mm
	Notes         string `json:"notes"`
}

type PublicCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.Where("active = ?", true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	barberIDStr := c.Query("barber_id")

	if dateStr == "" || serviceIDStr == "" || barberIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data, barbeiro e serviço obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	date, err := parseDate(h.tz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			BarberID:  uint(barberID),
			ServiceID: uint(serviceID),
			Date:      date,
		},
	)

	if err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.BadRequest(c, "service_not_found", "Serviço inválido.")
			return
		}

		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTime(h.tz, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.book.Execute(
		c.Request.Context(),
		ucAppointment.BookAppointmentInput{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			BarberID:      req.BarberID,
			ServiceID:     req.ServiceID,
			ScheduledAt:   start,
			Notes:         req.Notes,
		},
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment_ref": ap.PublicRef,
		"scheduled_at":    ap.ScheduledAt,
		"status":          ap.Status,
		"price":           ap.Price,
	})
}

////////////////////////////////////////////////////////
// LOOKUP / CANCEL POR REFERÊNCIA
////////////////////////////////////////////////////////

func (h *PublicHandler) GetByRef(c *gin.Context) {
	ref, err := uuid.Parse(c.Param("ref"))
	if err != nil {
		httperr.BadRequest(c, "invalid_ref", "Referência inválida.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	ap, err := repo.GetAppointmentByRef(c.Request.Context(), ref)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap))
}

func (h *PublicHandler) CancelByRef(c *gin.Context) {
	ref, err := uuid.Parse(c.Param("ref"))
	if err != nil {
		httperr.BadRequest(c, "invalid_ref", "Referência inválida.")
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Motivo do cancelamento é obrigatório.")
		return
	}

	repo := infraRepo.NewAppointmentGormRepository(h.db)
	ap, err := repo.GetAppointmentByRef(c.Request.Context(), ref)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	ap, err = h.transition.Execute(
		c.Request.Context(),
		ap.ID,
		domain.StatusCancelled,
		req.Reason,
		nil,
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_ref": ap.PublicRef,
		"status":          ap.Status,
	})
}
