package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrInvalidPreferenceOrder = errors.New("preference order must be a positive integer")
	ErrEventNameRequired      = errors.New("event name is required")
	ErrEventInvalidDateRange  = errors.New("event end date must be after start date")
	ErrPrizeNameRequired      = errors.New("prize name is required")
	ErrPrizeInvalidQuantity   = errors.New("prize quantity must be positive")
	ErrWinnersInvalid         = errors.New("winners list is malformed")
	ErrPlayerRankInvalid      = errors.New("player rank is out of range")

	// Ошибки конфликтов
	ErrUserEmailConflict   = errors.New("email address is already in use")
	ErrPlayerAgaIDConflict = errors.New("player with this AGA id already exists")
	ErrPrizeNameConflict   = errors.New("prize name is already in use")
	ErrPrizeInUse          = errors.New("prize has awards and cannot be deleted")
	ErrResultExists        = errors.New("result already exists for this event")

	// Нарушения конечного автомата аллокации. Никогда не схлопываются в
	// общий Conflict: презентационный слой показывает для них разные
	// пояснения ("results are locked" / "results are finalized").
	ErrResultLocked       = errors.New("result allocation is locked")
	ErrResultFinalized    = errors.New("result allocation is finalized")
	ErrResultNotLocked    = errors.New("result must be locked first")
	ErrAllocationEmpty    = errors.New("result has no computed awards; confirm locking an empty allocation")
	ErrInvalidTransition  = errors.New("invalid allocation state transition")
	ErrResultNotFinalized = errors.New("result must be finalized before export")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrNoLinkedPlayer         = errors.New("account is not linked to a player registration")
	ErrWebhookBadSignature    = errors.New("webhook signature verification failed")

	// Ошибки, специфичные для сущностей (дублируют ErrNotFound, но дают контекст)
	ErrUserNotFound       = errors.New("user not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPrizeNotFound      = errors.New("prize not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrAwardNotFound      = errors.New("award not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrPreferenceNotFound = errors.New("award preference not found")
)
