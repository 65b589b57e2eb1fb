package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
	"github.com/igestaos-eng/barbearia/internal/middleware"
	ucAppointment "github.com/igestaos-eng/barbearia/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	tz string

	book       *ucAppointment.BookAppointment
	transition *ucAppointment.TransitionAppointment
	reschedule *ucAppointment.RescheduleAppointment
	archive    *ucAppointment.ArchiveAppointment
	restore    *ucAppointment.RestoreAppointment
	reminder   *ucAppointment.MarkReminderSent
	due        *ucAppointment.ListDueReminders
	conflicts  *ucAppointment.ConflictsFor
	listByDate *ucAppointment.ListAppointmentsByDate
	listByMon  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	tz string,
	book *ucAppointment.BookAppointment,
	transition *ucAppointment.TransitionAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	archive *ucAppointment.ArchiveAppointment,
	restore *ucAppointment.RestoreAppointment,
	reminder *ucAppointment.MarkReminderSent,
	due *ucAppointment.ListDueReminders,
	conflicts *ucAppointment.ConflictsFor,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMon *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		tz:         tz,
		book:       book,
		transition: transition,
		reschedule: reschedule,
		archive:    archive,
		restore:    restore,
		reminder:   reminder,
		due:        due,
		conflicts:  conflicts,
		listByDate: listByDate,
		listByMon:  listByMon,
	}
}

func actorID(c *gin.Context) *uint {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID  uint `json:"barber_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`

	CustomerID    uint   `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`

	Notes string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ======================================================
// CREATE (BOOK)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTime(h.tz, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		ScheduledAt:     start,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Notes:           req.Notes,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// TRANSIÇÕES DE STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.doTransition(c, domain.StatusConfirmed, "")
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.doTransition(c, domain.StatusInProgress, "")
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.doTransition(c, domain.StatusCompleted, "")
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.doTransition(c, domain.StatusNoShow, "")
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var req CancelAppointmentRequest
	// corpo vazio = sem motivo; o domínio responde missing_cancellation_reason
	_ = c.ShouldBindJSON(&req)
	h.doTransition(c, domain.StatusCancelled, req.Reason)
}

func (h *AppointmentHandler) doTransition(c *gin.Context, target domain.Status, reason string) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), id, target, reason, actorID(c))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTime(h.tz, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID:      id,
		NewScheduledAt:     start,
		NewDurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// ARCHIVE / RESTORE
// ======================================================

func (h *AppointmentHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.archive.Execute(c.Request.Context(), id, actorID(c))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.restore.Execute(c.Request.Context(), id, actorID(c))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LEMBRETES
// ======================================================

func (h *AppointmentHandler) MarkReminderSent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.reminder.Execute(c.Request.Context(), id)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               ap.ID,
		"reminder_sent":    ap.ReminderSent,
		"reminder_sent_at": ap.ReminderSentAt,
	})
}

func (h *AppointmentHandler) DueReminders(c *gin.Context) {
	apps, err := h.due.Execute(c.Request.Context())
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":        len(apps),
		"appointments": apps,
	})
}

// ======================================================
// CONFLICT PRE-CHECK (UI)
// ======================================================

func (h *AppointmentHandler) Conflicts(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Query("barber_id"), 10, 64)
	if err != nil || barberID == 0 {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	start, err := parseDateTime(h.tz, c.Query("date"), c.Query("time"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	duration, err := strconv.Atoi(c.Query("duration_minutes"))
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
		return
	}

	var excludeID uint
	if v := c.Query("exclude_id"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			excludeID = uint(parsed)
		}
	}

	ids, err := h.conflicts.Execute(
		c.Request.Context(),
		uint(barberID),
		start,
		duration,
		excludeID,
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conflicting_appointment_ids": ids,
	})
}

// ======================================================
// LISTAGENS
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Query("barber_id"), 10, 64)
	if err != nil || barberID == 0 {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	date, err := parseDate(h.tz, c.DefaultQuery("date", ""))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	out, err := h.listByDate.Execute(
		c.Request.Context(),
		uint(barberID),
		date,
		includeArchived,
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date.Format("2006-01-02"),
		"appointments": out,
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Query("barber_id"), 10, 64)
	if err != nil || barberID == 0 {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	out, err := h.listByMon.Execute(
		c.Request.Context(),
		uint(barberID),
		year,
		month,
		includeArchived,
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}
