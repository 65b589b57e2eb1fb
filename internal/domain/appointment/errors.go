package appointment

import (
	"errors"
	"fmt"
)

// ===============================
// Erros de domínio
// ===============================
//
// Todos são valores tipados: o handler traduz com errors.As,
// nunca com comparação de string.

// ConflictError: o horário colide com outro agendamento ativo do barbeiro
type ConflictError struct {
	ConflictingID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time_conflict: appointment %d", e.ConflictingID)
}

// InvalidTransitionError: mudança de status fora da tabela
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid_transition: %s -> %s", e.From, e.To)
}

// TerminalStateError: tentativa de mutação em estado final
type TerminalStateError struct {
	Status Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("terminal_state: %s", e.Status)
}

// InvalidStateError: operação não permitida no status atual (ex.: reagendar)
type InvalidStateError struct {
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid_state: %s", e.Status)
}

var (
	// ErrMissingReason: cancelamento exige motivo não vazio
	ErrMissingReason = errors.New("missing_cancellation_reason")

	// ErrNotFound: agendamento inexistente (ou arquivado, quando a operação exige ativo)
	ErrNotFound = errors.New("appointment_not_found")

	// ErrStorageTimeout: timeout vindo do store; propagado sem retry
	ErrStorageTimeout = errors.New("storage_timeout")
)
