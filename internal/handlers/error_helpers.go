package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
)

// writeSchedulingError traduz erros de domínio para HTTP em um ponto só.
// Nenhum deles é fatal: todo erro vira resposta para o caller escolher
// outro horário / outra ação.
func writeSchedulingError(c *gin.Context, err error) {

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":                 "time_conflict",
			"message":                    "Horário indisponível.",
			"conflicting_appointment_id": conflict.ConflictingID,
		})
		return
	}

	var invalidTransition *domain.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		httperr.UnprocessableEntity(c, "invalid_transition", invalidTransition.Error())
		return
	}

	var terminal *domain.TerminalStateError
	if errors.As(err, &terminal) {
		httperr.UnprocessableEntity(c, "terminal_state", "Agendamento já encerrado.")
		return
	}

	var invalidState *domain.InvalidStateError
	if errors.As(err, &invalidState) {
		httperr.UnprocessableEntity(c, "invalid_state", "Operação não permitida neste status.")
		return
	}

	switch {
	case errors.Is(err, domain.ErrMissingReason):
		httperr.BadRequest(c, "missing_cancellation_reason", "Motivo do cancelamento é obrigatório.")
	case errors.Is(err, domain.ErrNotFound):
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
	case errors.Is(err, domain.ErrStorageTimeout):
		httperr.GatewayTimeout(c, "storage_timeout", "Banco demorou demais; tente novamente.")
	default:
		var be httperr.BusinessError
		if errors.As(err, &be) {
			httperr.BadRequest(c, be.Code, "Dados inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}
