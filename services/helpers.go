package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
)

// runInTx выполняет fn внутри одной транзакции. Любая ошибка или паника
// откатывает все частичные записи; фиксация — только при nil.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()
	return fn(tx)
}

// Охранники конечного автомата. Вынесены в чистые функции, чтобы
// легальность операции проверялась в одном месте, а не по обработчикам.
// res == nil означает, что результат события ещё не создан: автомат в open.

func guardPreferenceWrite(res *models.Result) error {
	if res == nil {
		return nil
	}
	state := res.AllocationState()
	if !state.PreferencesMutable() {
		return stateError(res)
	}
	return nil
}

func guardRecompute(res *models.Result) error {
	if !res.AllocationState().RecomputeAllowed() {
		return stateError(res)
	}
	return nil
}

func guardOverride(res *models.Result) error {
	if !res.AllocationState().OverrideAllowed() {
		return stateError(res)
	}
	return nil
}

// stateError выбирает более строгую из двух ошибок состояния.
func stateError(res *models.Result) error {
	if res.AllocationFinalizedAt != nil {
		return ErrResultFinalized
	}
	return ErrResultLocked
}

// mapPlayerRepoError переводит ошибки репозитория игроков в сервисные.
func mapPlayerRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerAgaIDConflict):
		return ErrPlayerAgaIDConflict
	default:
		return err
	}
}
