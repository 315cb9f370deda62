package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
	"github.com/gocongress/prizes-sub001/storage"
	"github.com/google/uuid"
)

// ExportService выгружает финализированную аллокацию в CSV и кладёт файл в
// объектное хранилище. Экспортировать можно только finalized-результат:
// до этого момента таблица ещё может измениться.
type ExportService interface {
	ExportAllocationCSV(ctx context.Context, resultID int) (*storage.UploadResult, error)
}

type exportService struct {
	resultRepo repositories.ResultRepository
	awardRepo  repositories.AwardRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewExportService(
	resultRepo repositories.ResultRepository,
	awardRepo repositories.AwardRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		resultRepo: resultRepo,
		awardRepo:  awardRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *exportService) ExportAllocationCSV(ctx context.Context, resultID int) (*storage.UploadResult, error) {
	res, err := s.resultRepo.GetByID(ctx, nil, resultID)
	if err != nil {
		return nil, mapResultRepoError(err)
	}
	if res.AllocationFinalizedAt == nil {
		return nil, ErrResultNotFinalized
	}

	awards, err := s.awardRepo.ListByEvent(ctx, nil, res.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load awards for export: %w", err)
	}

	players, err := s.playersByID(ctx, awards)
	if err != nil {
		return nil, err
	}

	payload, err := renderAllocationCSV(awards, players)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/result_%d_%s.csv", resultID, uuid.New().String())
	uploaded, err := s.uploader.Upload(ctx, key, "text/csv", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to upload allocation export: %w", err)
	}

	s.logger.Info("allocation export uploaded",
		slog.Int("result_id", resultID),
		slog.String("key", uploaded.Key),
	)
	return uploaded, nil
}

func (s *exportService) playersByID(ctx context.Context, awards []*models.Award) (map[int]*models.Player, error) {
	players := make(map[int]*models.Player)
	for _, a := range awards {
		if a.PlayerID == nil {
			continue
		}
		if _, ok := players[*a.PlayerID]; ok {
			continue
		}
		player, err := s.playerRepo.GetByID(ctx, nil, *a.PlayerID)
		if err != nil {
			return nil, mapPlayerRepoError(err)
		}
		players[player.ID] = player
	}
	return players, nil
}

func renderAllocationCSV(awards []*models.Award, players map[int]*models.Player) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"award_id", "prize", "value", "player_aga_id", "player_name", "method", "preference_rank"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, a := range awards {
		prizeName := ""
		if a.Prize != nil {
			prizeName = a.Prize.Name
		}

		agaID, playerName := "", ""
		if a.PlayerID != nil {
			if p, ok := players[*a.PlayerID]; ok {
				agaID, playerName = p.AgaID, p.Name
			}
		}

		method, rank := "", ""
		if a.Assignment != nil {
			method = string(a.Assignment.Method())
			if r, ok := a.Assignment.PreferenceRank(); ok {
				rank = strconv.Itoa(r)
			}
		}

		row := []string{
			strconv.Itoa(a.ID),
			prizeName,
			strconv.Itoa(a.Value),
			agaID,
			playerName,
			method,
			rank,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render allocation csv: %w", err)
	}
	return buf.Bytes(), nil
}
