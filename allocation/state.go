package allocation

import "time"

// State представляет состояние конечного автомата аллокации результата.
type State string

const (
	// StateOpen: предпочтения изменяемы, пересчёт запускается на каждой записи.
	StateOpen State = "open"
	// StateLocked: предпочтения только для чтения, пересчёт остановлен,
	// админские override разрешены.
	StateLocked State = "locked"
	// StateFinalized: результат неизменяем целиком, доступны только чтение и экспорт.
	StateFinalized State = "finalized"
)

// StateOf выводит состояние из пары таймстампов результата.
// finalized_at без locked_at в корректных данных не встречается, но на всякий
// случай трактуется как finalized — более строгое из двух.
func StateOf(lockedAt, finalizedAt *time.Time) State {
	switch {
	case finalizedAt != nil:
		return StateFinalized
	case lockedAt != nil:
		return StateLocked
	default:
		return StateOpen
	}
}

// CanTransition сообщает, допустим ли прямой переход current -> next.
// Автомат однонаправленный: open -> locked -> finalized; единственный обратный
// ход — явный админский unlock locked -> open. Из finalized переходов нет.
func (s State) CanTransition(next State) bool {
	allowed := map[State][]State{
		StateOpen:      {StateLocked},
		StateLocked:    {StateFinalized, StateOpen},
		StateFinalized: {},
	}
	for _, n := range allowed[s] {
		if n == next {
			return true
		}
	}
	return false
}

// PreferencesMutable: игрок может менять свой список только в open.
func (s State) PreferencesMutable() bool {
	return s == StateOpen
}

// RecomputeAllowed: автоматический пересчёт работает только в open.
func (s State) RecomputeAllowed() bool {
	return s == StateOpen
}

// OverrideAllowed: ручное назначение владельца доступно до финализации.
func (s State) OverrideAllowed() bool {
	return s != StateFinalized
}
