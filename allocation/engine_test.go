package allocation

import (
	"reflect"
	"testing"
)

func ptr(v int) *int { return &v }

func mustPreference(t *testing.T, rank int) Assignment {
	t.Helper()
	a, err := ByPreference(rank)
	if err != nil {
		t.Fatalf("ByPreference(%d): %v", rank, err)
	}
	return a
}

func TestComputeTopPreferenceWins(t *testing.T) {
	// Игрок 7 ранжирует награду 1 первой, награду 2 второй; конкурентов нет.
	pool := []PoolAward{
		{ID: 1, PrizeID: 10},
		{ID: 2, PrizeID: 10},
	}
	prefs := []Preference{
		{ID: 100, PlayerID: 7, AwardID: 1, PrizeID: 10, Order: 1},
		{ID: 101, PlayerID: 7, AwardID: 2, PrizeID: 10, Order: 2},
	}

	outcomes := Compute(pool, prefs)
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	first := outcomes[0]
	if first.PlayerID == nil || *first.PlayerID != 7 {
		t.Fatalf("award 1 should go to player 7, got %v", first.PlayerID)
	}
	if first.Assignment.Method() != MethodPreference {
		t.Fatalf("award 1 method = %s, want PREFERENCE", first.Assignment.Method())
	}
	if rank, _ := first.Assignment.PreferenceRank(); rank != 1 {
		t.Fatalf("award 1 preference rank = %d, want 1", rank)
	}

	// Игрок уже удовлетворён, вторая награда остаётся DEFAULT.
	second := outcomes[1]
	if second.PlayerID != nil {
		t.Fatalf("award 2 should stay unassigned, got player %d", *second.PlayerID)
	}
	if second.Assignment.Method() != MethodDefault {
		t.Fatalf("award 2 method = %s, want DEFAULT", second.Assignment.Method())
	}
}

func TestComputeNoPreferencesMeansDefault(t *testing.T) {
	pool := []PoolAward{{ID: 3, PrizeID: 11}}

	outcomes := Compute(pool, nil)
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Assignment.Method() != MethodDefault {
		t.Fatalf("method = %s, want DEFAULT", outcomes[0].Assignment.Method())
	}
	if outcomes[0].PlayerID != nil {
		t.Fatalf("expected no owner, got %d", *outcomes[0].PlayerID)
	}
}

func TestComputeEqualOrderBrokenByCreation(t *testing.T) {
	// Оба игрока поставили награде 5 одинаковый preference_order;
	// выигрывает раньше созданная запись (меньший id).
	pool := []PoolAward{{ID: 5, PrizeID: 12}}
	prefs := []Preference{
		{ID: 201, PlayerID: 2, AwardID: 5, PrizeID: 12, Order: 1},
		{ID: 200, PlayerID: 1, AwardID: 5, PrizeID: 12, Order: 1},
	}

	outcomes := Compute(pool, prefs)
	if outcomes[0].PlayerID == nil || *outcomes[0].PlayerID != 1 {
		t.Fatalf("tie should resolve to player 1, got %v", outcomes[0].PlayerID)
	}
}

func TestComputeManualOwnerConflictBecomesOverride(t *testing.T) {
	// Награду 6 админ закрепил за игроком 9, хотя по предпочтениям она
	// досталась бы игроку 4.
	pool := []PoolAward{
		{ID: 6, PrizeID: 13, OwnerID: ptr(9)},
		{ID: 7, PrizeID: 13},
	}
	prefs := []Preference{
		{ID: 300, PlayerID: 4, AwardID: 6, PrizeID: 13, Order: 1},
		{ID: 301, PlayerID: 4, AwardID: 7, PrizeID: 13, Order: 2},
		{ID: 302, PlayerID: 9, AwardID: 7, PrizeID: 13, Order: 1},
	}

	outcomes := Compute(pool, prefs)

	if outcomes[0].Assignment.Method() != MethodOverride {
		t.Fatalf("award 6 method = %s, want OVERRIDE", outcomes[0].Assignment.Method())
	}
	if *outcomes[0].PlayerID != 9 {
		t.Fatalf("award 6 owner = %d, want 9", *outcomes[0].PlayerID)
	}

	// Игрок 9 удовлетворён через override, награду 7 получает игрок 4
	// по своему второму предпочтению.
	if *outcomes[1].PlayerID != 4 {
		t.Fatalf("award 7 owner = %d, want 4", *outcomes[1].PlayerID)
	}
	if rank, _ := outcomes[1].Assignment.PreferenceRank(); rank != 2 {
		t.Fatalf("award 7 preference rank = %d, want 2", rank)
	}
}

func TestComputeManualOwnerMatchingPreferenceStaysPreference(t *testing.T) {
	pool := []PoolAward{{ID: 8, PrizeID: 14, OwnerID: ptr(3)}}
	prefs := []Preference{
		{ID: 400, PlayerID: 3, AwardID: 8, PrizeID: 14, Order: 1},
	}

	outcomes := Compute(pool, prefs)
	if outcomes[0].Assignment.Method() != MethodPreference {
		t.Fatalf("method = %s, want PREFERENCE", outcomes[0].Assignment.Method())
	}
}

func TestComputeRankUsesListPositionNotOrderValue(t *testing.T) {
	// preference_order содержит пропуски (10, 30): ранг исхода — плотная
	// позиция в списке игрока, а не сырое значение порядка.
	pool := []PoolAward{
		{ID: 20, PrizeID: 15},
		{ID: 21, PrizeID: 15, OwnerID: ptr(99)},
	}
	prefs := []Preference{
		{ID: 500, PlayerID: 6, AwardID: 21, PrizeID: 15, Order: 10},
		{ID: 501, PlayerID: 6, AwardID: 20, PrizeID: 15, Order: 30},
	}

	outcomes := Compute(pool, prefs)
	if *outcomes[0].PlayerID != 6 {
		t.Fatalf("award 20 owner = %d, want 6", *outcomes[0].PlayerID)
	}
	if rank, _ := outcomes[0].Assignment.PreferenceRank(); rank != 2 {
		t.Fatalf("award 20 rank = %d, want 2 (second choice)", rank)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	pool := []PoolAward{
		{ID: 1, PrizeID: 1},
		{ID: 2, PrizeID: 1, OwnerID: ptr(5)},
		{ID: 3, PrizeID: 2},
		{ID: 4, PrizeID: 2},
	}
	prefs := []Preference{
		{ID: 10, PlayerID: 1, AwardID: 1, PrizeID: 1, Order: 1},
		{ID: 11, PlayerID: 2, AwardID: 1, PrizeID: 1, Order: 1},
		{ID: 12, PlayerID: 2, AwardID: 3, PrizeID: 2, Order: 2},
		{ID: 13, PlayerID: 5, AwardID: 4, PrizeID: 2, Order: 1},
	}

	first := Compute(pool, prefs)
	second := Compute(pool, prefs)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recomputation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeInputOrderDoesNotMatter(t *testing.T) {
	pool := []PoolAward{
		{ID: 2, PrizeID: 1},
		{ID: 1, PrizeID: 1},
	}
	prefs := []Preference{
		{ID: 11, PlayerID: 2, AwardID: 2, PrizeID: 1, Order: 1},
		{ID: 10, PlayerID: 1, AwardID: 1, PrizeID: 1, Order: 1},
	}

	shuffledPool := []PoolAward{pool[1], pool[0]}
	shuffledPrefs := []Preference{prefs[1], prefs[0]}

	if !reflect.DeepEqual(Compute(pool, prefs), Compute(shuffledPool, shuffledPrefs)) {
		t.Fatal("outcome depends on input slice order")
	}
}
