package allocation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Method описывает, каким способом награда получила владельца.
type Method string

const (
	// MethodDefault — награда закреплена конфигурацией, а не выбором игрока.
	MethodDefault Method = "DEFAULT"
	// MethodOverride — владелец выставлен администратором вручную.
	MethodOverride Method = "OVERRIDE"
	// MethodPreference — награда получена по ранжированному предпочтению.
	MethodPreference Method = "PREFERENCE"
)

var ErrInvalidPreferenceRank = errors.New("preference rank must be a positive integer")

// Assignment — тегированный вариант исхода аллокации. Ранг предпочтения
// существует только у варианта MethodPreference; конструкторы ниже
// поддерживают этот инвариант, напрямую структуру не собирать.
type Assignment struct {
	method Method
	rank   int // валиден только при method == MethodPreference
}

func ByDefault() Assignment {
	return Assignment{method: MethodDefault}
}

func ByOverride() Assignment {
	return Assignment{method: MethodOverride}
}

func ByPreference(rank int) (Assignment, error) {
	if rank < 1 {
		return Assignment{}, fmt.Errorf("%w: got %d", ErrInvalidPreferenceRank, rank)
	}
	return Assignment{method: MethodPreference, rank: rank}, nil
}

func (a Assignment) Method() Method {
	return a.method
}

// PreferenceRank возвращает 1-based позицию предпочтения, породившего
// назначение. ok == false для всех вариантов, кроме MethodPreference.
func (a Assignment) PreferenceRank() (rank int, ok bool) {
	if a.method != MethodPreference {
		return 0, false
	}
	return a.rank, true
}

func (a Assignment) String() string {
	if a.method == MethodPreference {
		return fmt.Sprintf("%s(%d)", a.method, a.rank)
	}
	return string(a.method)
}

// MarshalJSON сериализует вариант в объект {"method": ..., "preference_rank": ...},
// где preference_rank присутствует только у MethodPreference.
func (a Assignment) MarshalJSON() ([]byte, error) {
	if a.method == MethodPreference {
		return json.Marshal(struct {
			Method Method `json:"method"`
			Rank   int    `json:"preference_rank"`
		}{a.method, a.rank})
	}
	return json.Marshal(struct {
		Method Method `json:"method"`
	}{a.method})
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Method Method `json:"method"`
		Rank   *int   `json:"preference_rank"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Method {
	case MethodDefault:
		*a = ByDefault()
	case MethodOverride:
		*a = ByOverride()
	case MethodPreference:
		if raw.Rank == nil {
			return errors.New("preference assignment requires preference_rank")
		}
		parsed, err := ByPreference(*raw.Rank)
		if err != nil {
			return err
		}
		*a = parsed
	default:
		return fmt.Errorf("unknown allocation method %q", raw.Method)
	}
	return nil
}

// FromColumns восстанавливает вариант из пары nullable-колонок БД.
// Нужен репозиториям: схема хранит метод и ранг раздельно.
func FromColumns(method *string, rank *int) (*Assignment, error) {
	if method == nil {
		return nil, nil
	}
	switch Method(*method) {
	case MethodDefault:
		a := ByDefault()
		return &a, nil
	case MethodOverride:
		a := ByOverride()
		return &a, nil
	case MethodPreference:
		if rank == nil {
			return nil, fmt.Errorf("allocation method %s stored without preference rank", *method)
		}
		a, err := ByPreference(*rank)
		if err != nil {
			return nil, err
		}
		return &a, nil
	default:
		return nil, fmt.Errorf("unknown allocation method %q", *method)
	}
}

// Columns раскладывает вариант обратно в nullable-колонки БД.
func (a Assignment) Columns() (method string, rank *int) {
	if a.method == MethodPreference {
		r := a.rank
		return string(a.method), &r
	}
	return string(a.method), nil
}
