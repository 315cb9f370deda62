package allocation

import "sort"

// PoolAward — взгляд движка на одну награду пула результата.
type PoolAward struct {
	ID      int
	PrizeID int
	// OwnerID — владелец, закреплённый администратором вручную, если есть.
	OwnerID *int
}

// Preference — взгляд движка на одну запись предпочтения.
type Preference struct {
	ID       int // порядок создания; используется как тай-брейк
	PlayerID int
	AwardID  int
	PrizeID  int
	Order    int // preference_order: положительное, пропуски и дубли допустимы
}

// Outcome — вычисленный исход аллокации для одной награды.
type Outcome struct {
	AwardID    int
	PlayerID   *int
	Assignment Assignment
}

// Compute сопоставляет ранжированные предпочтения игроков пулу наград.
//
// Награды обрабатываются в порядке создания (по id), группировка по призу
// получается естественно, так как награды одного приза создаются подряд.
// Для каждой награды выбирается ещё не удовлетворённое предпочтение с
// наименьшим preference_order; равенство порядков разрешается в пользу
// раньше созданной записи. Награда без предпочтений получает DEFAULT.
// Награда с вручную закреплённым владельцем, расходящимся с вычисленным
// исходом, помечается OVERRIDE и исключается из автоматического подбора,
// а её владелец считается удовлетворённым.
//
// Функция чистая и детерминированная: повторный вызов на тех же входных
// данных даёт побайтово идентичный результат.
func Compute(pool []PoolAward, prefs []Preference) []Outcome {
	awards := make([]PoolAward, len(pool))
	copy(awards, pool)
	sort.Slice(awards, func(i, j int) bool { return awards[i].ID < awards[j].ID })

	ordered := make([]Preference, len(prefs))
	copy(ordered, prefs)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].ID < ordered[j].ID
	})

	// 1-based позиция каждой записи в списке её игрока: это и есть
	// "ранг предпочтения" варианта PREFERENCE. Нумерация позиций плотная
	// даже при пропусках в preference_order.
	position := make(map[int]int, len(ordered))
	perPlayer := make(map[int]int)
	for _, p := range ordered {
		perPlayer[p.PlayerID]++
		position[p.ID] = perPlayer[p.PlayerID]
	}

	byAward := make(map[int][]Preference)
	for _, p := range ordered {
		byAward[p.AwardID] = append(byAward[p.AwardID], p)
	}

	satisfied := make(map[int]bool)
	outcomes := make([]Outcome, 0, len(awards))

	for _, award := range awards {
		var candidate *Preference
		for i := range byAward[award.ID] {
			p := byAward[award.ID][i]
			if !satisfied[p.PlayerID] {
				candidate = &p
				break
			}
		}

		switch {
		case award.OwnerID != nil:
			if candidate != nil && candidate.PlayerID == *award.OwnerID {
				// Ручное назначение совпало с вычисленным — считаем его
				// обычным исходом по предпочтению.
				assignment, _ := ByPreference(position[candidate.ID])
				satisfied[candidate.PlayerID] = true
				outcomes = append(outcomes, Outcome{
					AwardID:    award.ID,
					PlayerID:   intPtr(*award.OwnerID),
					Assignment: assignment,
				})
				continue
			}
			satisfied[*award.OwnerID] = true
			outcomes = append(outcomes, Outcome{
				AwardID:    award.ID,
				PlayerID:   intPtr(*award.OwnerID),
				Assignment: ByOverride(),
			})

		case candidate != nil:
			assignment, _ := ByPreference(position[candidate.ID])
			satisfied[candidate.PlayerID] = true
			outcomes = append(outcomes, Outcome{
				AwardID:    award.ID,
				PlayerID:   intPtr(candidate.PlayerID),
				Assignment: assignment,
			})

		default:
			outcomes = append(outcomes, Outcome{
				AwardID:    award.ID,
				Assignment: ByDefault(),
			})
		}
	}

	return outcomes
}

func intPtr(v int) *int {
	return &v
}
