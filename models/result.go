package models

import (
	"time"

	"github.com/gocongress/prizes-sub001/allocation"
)

// Winner — строка итоговой таблицы: место, внешний идентификатор игрока, дивизион.
type Winner struct {
	Place    int    `json:"place"`
	AgaID    string `json:"agaId"`
	Division string `json:"division"`
}

// Result — итог события: список победителей и вычисленные аллокации наград.
// Два nullable-таймстампа управляют изменяемостью:
//   - AllocationLockedAt: правки предпочтений и автоматический пересчёт
//     остановлены, разрешены только явные админские override;
//   - AllocationFinalizedAt: результат заморожен насовсем.
//
// Инвариант: finalized подразумевает locked, и locked_at <= finalized_at.
type Result struct {
	ID                    int        `json:"id" db:"id"`
	EventID               int        `json:"event_id" db:"event_id"`
	Winners               []Winner   `json:"winners" db:"winners"`
	AllocationLockedAt    *time.Time `json:"allocation_locked_at,omitempty" db:"allocation_locked_at"`
	AllocationFinalizedAt *time.Time `json:"allocation_finalized_at,omitempty" db:"allocation_finalized_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`

	// Awards заполняется сервисным слоем из пула наград события.
	Awards []Award `json:"awards,omitempty" db:"-"`
}

// AllocationState возвращает текущее состояние конечного автомата результата.
func (r *Result) AllocationState() allocation.State {
	return allocation.StateOf(r.AllocationLockedAt, r.AllocationFinalizedAt)
}
