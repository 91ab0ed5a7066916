package limit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func intPtr(v int) *int { return &v }

func period(m valueobject.Month, y int) valueobject.PeriodKey {
	return valueobject.PeriodKey{Month: m, Year: y}
}

type fakeLimitRepository struct {
	limits map[uuid.UUID]*entity.Limit
	writes []string
}

func newFakeLimitRepository(limits ...*entity.Limit) *fakeLimitRepository {
	repo := &fakeLimitRepository{limits: map[uuid.UUID]*entity.Limit{}}
	for _, l := range limits {
		repo.limits[l.ID] = l
	}
	return repo
}

func (f *fakeLimitRepository) Create(_ context.Context, limit *entity.Limit) error {
	f.writes = append(f.writes, "create")
	f.limits[limit.ID] = limit
	return nil
}

func (f *fakeLimitRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Limit, error) {
	l, ok := f.limits[id]
	if !ok {
		return nil, domainerror.ErrLimitNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLimitRepository) FindByUserAndPeriod(_ context.Context, userID uuid.UUID, p valueobject.PeriodKey) (*entity.Limit, error) {
	for _, l := range f.limits {
		if l.UserID == userID && l.Period() == p {
			return l, nil
		}
	}
	return nil, domainerror.ErrLimitNotFound
}

func (f *fakeLimitRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Limit, error) {
	var result []*entity.Limit
	for _, l := range f.limits {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLimitRepository) Update(_ context.Context, limit *entity.Limit) error {
	f.writes = append(f.writes, "update")
	f.limits[limit.ID] = limit
	return nil
}

func (f *fakeLimitRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.writes = append(f.writes, "delete")
	delete(f.limits, id)
	return nil
}

type fakeLocker struct {
	busy     bool
	locked   []valueobject.PeriodKey
	released int
}

func (f *fakeLocker) Lock(_ context.Context, _ uuid.UUID, p valueobject.PeriodKey) (func(), error) {
	if f.busy {
		return nil, domainerror.ErrLimitPeriodBusy
	}
	f.locked = append(f.locked, p)
	return func() { f.released++ }, nil
}

type fakeCache struct {
	invalidated []valueobject.PeriodKey
}

func (f *fakeCache) Get(context.Context, uuid.UUID, valueobject.PeriodKey) (*budget.Snapshot, error) {
	return nil, adapter.ErrCacheMiss
}

func (f *fakeCache) Generation(context.Context, uuid.UUID, valueobject.PeriodKey) (int64, error) {
	return 0, nil
}

func (f *fakeCache) Set(context.Context, uuid.UUID, *budget.Snapshot, int64) error { return nil }

func (f *fakeCache) Invalidate(_ context.Context, _ uuid.UUID, periods ...valueobject.PeriodKey) error {
	f.invalidated = append(f.invalidated, periods...)
	return nil
}

func storedLimit(userID uuid.UUID, amount string, p valueobject.PeriodKey) *entity.Limit {
	return entity.NewLimit(userID, decimal.RequireFromString(amount), p, testNow)
}

func assertLimitCode(t *testing.T, err error, want domainerror.LimitErrorCode) {
	t.Helper()
	var limitErr *domainerror.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitError %s, got %v", want, err)
	}
	if limitErr.Code != want {
		t.Errorf("expected code %s, got %s", want, limitErr.Code)
	}
}

func TestCreateLimit(t *testing.T) {
	userID := uuid.New()

	t.Run("by month and year", func(t *testing.T) {
		repo := newFakeLimitRepository()
		locker := &fakeLocker{}
		cache := &fakeCache{}
		uc := NewCreateLimitUseCase(repo, locker, cache, clock)

		out, err := uc.Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "1500,00",
			PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Period != period(valueobject.June, 2024) || out.Limit.Amount.String() != "1500" {
			t.Errorf("unexpected output %+v", out)
		}
		if out.Limit.Date.Format(valueobject.ISODateLayout) != "2024-06-01" {
			t.Errorf("limit date not normalized: %s", out.Limit.Date)
		}
		if len(locker.locked) != 1 || locker.released != 1 {
			t.Errorf("expected lock taken and released, got locked=%v released=%d", locker.locked, locker.released)
		}
		if len(cache.invalidated) != 1 {
			t.Errorf("expected cache invalidation")
		}
	})

	t.Run("by date", func(t *testing.T) {
		out, err := NewCreateLimitUseCase(newFakeLimitRepository(), nil, nil, clock).Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "800", PeriodInput: PeriodInput{Date: "2024-08-20"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Period != period(valueobject.August, 2024) {
			t.Errorf("unexpected period %v", out.Period)
		}
	})

	t.Run("duplicate period", func(t *testing.T) {
		repo := newFakeLimitRepository(storedLimit(userID, "1000", period(valueobject.June, 2024)))
		_, err := NewCreateLimitUseCase(repo, &fakeLocker{}, nil, clock).Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "1500", PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		assertLimitCode(t, err, domainerror.ErrCodeLimitAlreadyExists)
		var limitErr *domainerror.LimitError
		if errors.As(err, &limitErr) && limitErr.Message != DuplicateLimitMessage {
			t.Errorf("unexpected message %q", limitErr.Message)
		}
		if len(repo.writes) != 0 {
			t.Errorf("expected no writes")
		}
	})

	t.Run("another user's limit does not collide", func(t *testing.T) {
		repo := newFakeLimitRepository(storedLimit(uuid.New(), "1000", period(valueobject.June, 2024)))
		if _, err := NewCreateLimitUseCase(repo, nil, nil, clock).Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "1500", PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("past period rejected before lock and write", func(t *testing.T) {
		repo := newFakeLimitRepository()
		locker := &fakeLocker{}
		_, err := NewCreateLimitUseCase(repo, locker, nil, clock).Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "1500", PeriodInput: PeriodInput{Month: intPtr(4), Year: intPtr(2024)},
		})
		if !errors.Is(err, domainerror.ErrPeriodImmutable) {
			t.Fatalf("expected immutable period, got %v", err)
		}
		if len(repo.writes) != 0 || len(locker.locked) != 0 {
			t.Errorf("expected no side effects")
		}
	})

	t.Run("busy period", func(t *testing.T) {
		_, err := NewCreateLimitUseCase(newFakeLimitRepository(), &fakeLocker{busy: true}, nil, clock).Execute(context.Background(), CreateLimitInput{
			UserID: userID, Amount: "1500", PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		assertLimitCode(t, err, domainerror.ErrCodeLimitPeriodBusy)
	})

	tests := []struct {
		name  string
		input CreateLimitInput
		code  domainerror.LimitErrorCode
	}{
		{"non numeric", CreateLimitInput{Amount: "mil", PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)}}, domainerror.ErrCodeInvalidLimitAmount},
		{"zero", CreateLimitInput{Amount: "0", PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)}}, domainerror.ErrCodeNonPositiveLimit},
		{"month out of range", CreateLimitInput{Amount: "10", PeriodInput: PeriodInput{Month: intPtr(12), Year: intPtr(2024)}}, domainerror.ErrCodeInvalidLimitPeriod},
		{"no period", CreateLimitInput{Amount: "10"}, domainerror.ErrCodeMissingLimitFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeLimitRepository()
			_, err := NewCreateLimitUseCase(repo, nil, nil, clock).Execute(context.Background(), tt.input)
			assertLimitCode(t, err, tt.code)
			if len(repo.writes) != 0 {
				t.Errorf("expected no writes")
			}
		})
	}
}

func TestUpdateLimit(t *testing.T) {
	userID := uuid.New()

	t.Run("changes amount", func(t *testing.T) {
		existing := storedLimit(userID, "1000", period(valueobject.June, 2024))
		repo := newFakeLimitRepository(existing)
		cache := &fakeCache{}

		out, err := NewUpdateLimitUseCase(repo, &fakeLocker{}, cache, clock).Execute(context.Background(), UpdateLimitInput{
			UserID: userID, LimitID: existing.ID, Amount: "1200",
			PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Limit.Amount.String() != "1200" {
			t.Errorf("amount not updated: %s", out.Limit.Amount)
		}
		if len(repo.writes) != 1 || repo.writes[0] != "update" {
			t.Errorf("expected update, got %v", repo.writes)
		}
	})

	t.Run("move onto an occupied period", func(t *testing.T) {
		existing := storedLimit(userID, "1000", period(valueobject.June, 2024))
		other := storedLimit(userID, "900", period(valueobject.July, 2024))
		repo := newFakeLimitRepository(existing, other)

		_, err := NewUpdateLimitUseCase(repo, nil, nil, clock).Execute(context.Background(), UpdateLimitInput{
			UserID: userID, LimitID: existing.ID, Amount: "1000",
			PeriodInput: PeriodInput{Month: intPtr(6), Year: intPtr(2024)},
		})
		assertLimitCode(t, err, domainerror.ErrCodeLimitAlreadyExists)
		if len(repo.writes) != 0 {
			t.Errorf("expected no writes")
		}
	})

	t.Run("stored in past", func(t *testing.T) {
		existing := storedLimit(userID, "1000", period(valueobject.May, 2024))
		repo := newFakeLimitRepository(existing)

		_, err := NewUpdateLimitUseCase(repo, nil, nil, clock).Execute(context.Background(), UpdateLimitInput{
			UserID: userID, LimitID: existing.ID, Amount: "1000",
			PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		if !errors.Is(err, domainerror.ErrPeriodImmutable) {
			t.Fatalf("expected immutable period, got %v", err)
		}
		if len(repo.writes) != 0 {
			t.Errorf("expected no writes")
		}
	})

	t.Run("not owned", func(t *testing.T) {
		existing := storedLimit(uuid.New(), "1000", period(valueobject.June, 2024))
		_, err := NewUpdateLimitUseCase(newFakeLimitRepository(existing), nil, nil, clock).Execute(context.Background(), UpdateLimitInput{
			UserID: userID, LimitID: existing.ID, Amount: "1000",
			PeriodInput: PeriodInput{Month: intPtr(5), Year: intPtr(2024)},
		})
		assertLimitCode(t, err, domainerror.ErrCodeUnauthorizedLimit)
	})
}

func TestDeleteLimit(t *testing.T) {
	userID := uuid.New()

	current := storedLimit(userID, "1000", period(valueobject.June, 2024))
	past := storedLimit(userID, "1000", period(valueobject.December, 2023))
	repo := newFakeLimitRepository(current, past)
	uc := NewDeleteLimitUseCase(repo, nil, clock)

	if err := uc.Execute(context.Background(), DeleteLimitInput{UserID: userID, LimitID: current.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := uc.Execute(context.Background(), DeleteLimitInput{UserID: userID, LimitID: past.ID})
	if !errors.Is(err, domainerror.ErrPeriodImmutable) {
		t.Fatalf("expected immutable period, got %v", err)
	}
	if len(repo.writes) != 1 {
		t.Errorf("expected exactly one delete, got %v", repo.writes)
	}

	err = uc.Execute(context.Background(), DeleteLimitInput{UserID: userID, LimitID: uuid.New()})
	assertLimitCode(t, err, domainerror.ErrCodeLimitNotFound)
}

func TestListLimits(t *testing.T) {
	userID := uuid.New()
	repo := newFakeLimitRepository(
		storedLimit(userID, "1000", period(valueobject.June, 2024)),
		storedLimit(userID, "900", period(valueobject.May, 2024)),
	)

	out, err := NewListLimitsUseCase(repo, clock).Execute(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 limits, got %d", len(out))
	}
	for _, l := range out {
		want := l.Period.Month == valueobject.June
		if l.Editable != want {
			t.Errorf("limit %v editable=%v, want %v", l.Period, l.Editable, want)
		}
	}
}
