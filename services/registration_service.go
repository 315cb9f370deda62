package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
	"github.com/google/uuid"
)

// RegistrationService принимает вебхуки внешней регистрационной системы.
// Каждая доставка несёт пачку регистраций; игроки идемпотентно апсертятся
// по AGA id, поэтому повторная доставка того же вебхука безопасна.
type RegistrationService interface {
	// VerifySignature сверяет HMAC-SHA256 подпись тела доставки.
	VerifySignature(body []byte, signature string) error
	Ingest(ctx context.Context, body []byte) (*IngestReport, error)
}

// RegistrationPayload — формат тела вебхука.
type RegistrationPayload struct {
	Registrations []RegistrationEntry `json:"registrations"`
}

type RegistrationEntry struct {
	AgaID string `json:"aga_id"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
}

type IngestReport struct {
	DeliveryID string `json:"delivery_id"`
	Processed  int    `json:"processed"`
	Skipped    int    `json:"skipped"`
}

type registrationService struct {
	db         *sql.DB
	playerRepo repositories.PlayerRepository
	secret     []byte
	logger     *slog.Logger
}

func NewRegistrationService(db *sql.DB, playerRepo repositories.PlayerRepository, secret string, logger *slog.Logger) RegistrationService {
	return &registrationService{
		db:         db,
		playerRepo: playerRepo,
		secret:     []byte(secret),
		logger:     logger,
	}
}

func (s *registrationService) VerifySignature(body []byte, signature string) error {
	signature = strings.TrimPrefix(signature, "sha256=")
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return ErrWebhookBadSignature
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrWebhookBadSignature
	}
	return nil
}

func (s *registrationService) Ingest(ctx context.Context, body []byte) (*IngestReport, error) {
	var payload RegistrationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrValidationFailed
	}

	report := &IngestReport{DeliveryID: uuid.New().String()}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, entry := range payload.Registrations {
			agaID := strings.TrimSpace(entry.AgaID)
			if agaID == "" || strings.TrimSpace(entry.Name) == "" {
				report.Skipped++
				continue
			}

			player := &models.Player{
				AgaID: agaID,
				Name:  strings.TrimSpace(entry.Name),
				Rank:  entry.Rank,
			}
			if err := s.playerRepo.UpsertByAgaID(ctx, tx, player); err != nil {
				return mapPlayerRepoError(err)
			}
			report.Processed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration webhook processed",
		slog.String("delivery_id", report.DeliveryID),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
	)
	return report, nil
}
