package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// InitialStatus é o status de criação
func InitialStatus() Status {
	return StatusPending
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ===============================
// Máquina de estados
// ===============================

// transitions é a tabela exaustiva: tudo que não está aqui é proibido
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// IsTerminal indica estados sem saída
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActive indica se o agendamento conta para conflito de horário
func IsActive(s Status) bool {
	return s != StatusCancelled && s != StatusNoShow
}

// CanTransition valida uma transição contra a tabela
func CanTransition(from, to Status) error {
	if IsTerminal(from) {
		return &TerminalStateError{Status: from}
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}

	return &InvalidTransitionError{From: from, To: to}
}
