// Package limit contains monthly spending limit use cases.
package limit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// DuplicateLimitMessage is shown when a period already has a limit.
const DuplicateLimitMessage = "Dados inválidos ou limite já existe para este mês"

// LimitOutput is a limit enriched with its derived period.
type LimitOutput struct {
	Limit    *entity.Limit
	Period   valueobject.PeriodKey
	Editable bool
}

func toOutput(limit *entity.Limit, now time.Time) LimitOutput {
	period := limit.Period()
	return LimitOutput{
		Limit:    limit,
		Period:   period,
		Editable: budget.IsPeriodMutable(period.Month, period.Year, now),
	}
}

// PeriodInput identifies the target period either by zero-based month and
// year, or by a date inside the period.
type PeriodInput struct {
	Month *int
	Year  *int
	Date  string
}

func resolvePeriod(in PeriodInput) (valueobject.PeriodKey, error) {
	if in.Month != nil && in.Year != nil {
		period, err := valueobject.NewPeriodKey(valueobject.Month(*in.Month), *in.Year)
		if err != nil {
			return valueobject.PeriodKey{}, domainerror.NewLimitError(
				domainerror.ErrCodeInvalidLimitPeriod,
				"mês ou ano inválido",
				err,
			)
		}
		return period, nil
	}

	if strings.TrimSpace(in.Date) != "" {
		return valueobject.DerivePeriod(in.Date)
	}

	return valueobject.PeriodKey{}, domainerror.NewLimitError(
		domainerror.ErrCodeMissingLimitFields,
		"informe mês e ano ou a data do limite",
		nil,
	)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := valueobject.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, domainerror.NewLimitError(
			domainerror.ErrCodeInvalidLimitAmount,
			"valor deve ser numérico",
			err,
		)
	}
	if !amount.IsPositive() {
		return decimal.Zero, domainerror.NewLimitError(
			domainerror.ErrCodeNonPositiveLimit,
			"valor deve ser maior que zero",
			domainerror.ErrNonPositiveAmount,
		)
	}
	return amount, nil
}

func duplicateError() error {
	return domainerror.NewLimitError(
		domainerror.ErrCodeLimitAlreadyExists,
		DuplicateLimitMessage,
		domainerror.ErrLimitAlreadyExists,
	)
}

// findOwned loads a limit and checks that userID owns it.
func findOwned(ctx context.Context, repo adapter.LimitRepository, id, userID uuid.UUID) (*entity.Limit, error) {
	limit, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrLimitNotFound) {
			return nil, domainerror.NewLimitError(
				domainerror.ErrCodeLimitNotFound,
				"limite não encontrado",
				domainerror.ErrLimitNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find limit: %w", err)
	}

	if !limit.IsOwnedBy(userID) {
		return nil, domainerror.NewLimitError(
			domainerror.ErrCodeUnauthorizedLimit,
			"limite pertence a outro usuário",
			domainerror.ErrUnauthorizedLimitAccess,
		)
	}
	return limit, nil
}

// ensureFree fails when the user already has a limit for period other than exceptID.
func ensureFree(ctx context.Context, repo adapter.LimitRepository, userID uuid.UUID, period valueobject.PeriodKey, exceptID uuid.UUID) error {
	existing, err := repo.FindByUserAndPeriod(ctx, userID, period)
	switch {
	case errors.Is(err, domainerror.ErrLimitNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check existing limit: %w", err)
	case existing.ID != exceptID:
		return duplicateError()
	}
	return nil
}

// lockPeriod takes the (user, period) lock. A nil locker disables locking.
func lockPeriod(ctx context.Context, locker adapter.PeriodLocker, userID uuid.UUID, period valueobject.PeriodKey) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}

	release, err := locker.Lock(ctx, userID, period)
	if err != nil {
		if errors.Is(err, domainerror.ErrLimitPeriodBusy) {
			return nil, domainerror.NewLimitError(
				domainerror.ErrCodeLimitPeriodBusy,
				"limite deste mês está sendo alterado, tente novamente",
				err,
			)
		}
		return nil, fmt.Errorf("failed to lock period: %w", err)
	}
	return release, nil
}

func invalidateSnapshots(ctx context.Context, cache adapter.SnapshotCache, userID uuid.UUID, periods ...valueobject.PeriodKey) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID, periods...); err != nil {
		slog.Warn("Failed to invalidate snapshot cache", "error", err, "userID", userID)
	}
}
