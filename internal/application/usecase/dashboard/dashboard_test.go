package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
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

var june2024 = valueobject.PeriodKey{Month: valueobject.June, Year: 2024}

type fakeExpenseRepository struct {
	expenses []*entity.Expense
	calls    atomic.Int32
	delay    time.Duration

	// afterLoad runs once the result is read, before it is returned.
	afterLoad func()
	// release, when set, holds every load until it is closed.
	release chan struct{}
	loading chan struct{}
}

func (f *fakeExpenseRepository) Create(context.Context, *entity.Expense) error { return nil }
func (f *fakeExpenseRepository) FindByID(context.Context, uuid.UUID) (*entity.Expense, error) {
	return nil, domainerror.ErrExpenseNotFound
}
func (f *fakeExpenseRepository) FindByUser(_ context.Context, _ uuid.UUID, filter entity.ExpenseFilter) ([]*entity.Expense, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.release != nil {
		f.loading <- struct{}{}
		<-f.release
	}

	found := f.expenses
	if filter.Period != nil {
		found = budget.FilterByPeriod(f.expenses, *filter.Period)
	}
	if hook := f.afterLoad; hook != nil {
		f.afterLoad = nil
		hook()
	}
	return found, nil
}
func (f *fakeExpenseRepository) Update(context.Context, *entity.Expense) error { return nil }
func (f *fakeExpenseRepository) Delete(context.Context, uuid.UUID) error       { return nil }

type fakeLimitRepository struct {
	limit *entity.Limit
	err   error
}

func (f *fakeLimitRepository) Create(context.Context, *entity.Limit) error { return nil }
func (f *fakeLimitRepository) FindByID(context.Context, uuid.UUID) (*entity.Limit, error) {
	return nil, domainerror.ErrLimitNotFound
}
func (f *fakeLimitRepository) FindByUserAndPeriod(_ context.Context, _ uuid.UUID, p valueobject.PeriodKey) (*entity.Limit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.limit == nil || f.limit.Period() != p {
		return nil, domainerror.ErrLimitNotFound
	}
	return f.limit, nil
}
func (f *fakeLimitRepository) FindByUser(context.Context, uuid.UUID) ([]*entity.Limit, error) {
	return nil, nil
}
func (f *fakeLimitRepository) Update(context.Context, *entity.Limit) error { return nil }
func (f *fakeLimitRepository) Delete(context.Context, uuid.UUID) error     { return nil }

type fakeBalanceRepository struct {
	balance *adapter.Balance
	err     error
}

func (f *fakeBalanceRepository) RemainingBalance(context.Context, uuid.UUID, valueobject.PeriodKey) (*adapter.Balance, error) {
	return f.balance, f.err
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]budget.Snapshot
	generations map[string]int64
	sets        int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]budget.Snapshot{}, generations: map[string]int64{}}
}

func (c *memoryCache) key(userID uuid.UUID, p valueobject.PeriodKey) string {
	return userID.String() + p.String()
}

func (c *memoryCache) Get(_ context.Context, userID uuid.UUID, p valueobject.PeriodKey) (*budget.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[c.key(userID, p)]
	if !ok {
		return nil, adapter.ErrCacheMiss
	}
	return &s, nil
}

func (c *memoryCache) Generation(_ context.Context, userID uuid.UUID, p valueobject.PeriodKey) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[c.key(userID, p)], nil
}

func (c *memoryCache) Set(_ context.Context, userID uuid.UUID, s *budget.Snapshot, generation int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.key(userID, s.Period)
	if c.generations[key] != generation {
		return adapter.ErrStaleSnapshot
	}
	c.sets++
	c.entries[key] = *s
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID uuid.UUID, periods ...valueobject.PeriodKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range periods {
		key := c.key(userID, p)
		c.generations[key]++
		delete(c.entries, key)
	}
	return nil
}

func expenseOn(userID uuid.UUID, amount, date string) *entity.Expense {
	d, _ := time.Parse(valueobject.ISODateLayout, date)
	return entity.NewExpense(userID, "Mercado", decimal.RequireFromString(amount), d, testNow)
}

func TestGetSnapshot_LocalSum(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{expenses: []*entity.Expense{
		expenseOn(userID, "200", "2024-06-02"),
		expenseOn(userID, "150", "2024-06-10"),
		expenseOn(userID, "999", "2024-05-30"),
	}}
	limits := &fakeLimitRepository{limit: entity.NewLimit(userID, decimal.RequireFromString("1500"), june2024, testNow)}

	uc := NewGetSnapshotUseCase(expenses, limits, nil, nil, clock)
	snapshot, err := uc.Execute(context.Background(), GetSnapshotInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Period != june2024 {
		t.Errorf("expected current period, got %v", snapshot.Period)
	}
	if snapshot.Spent.String() != "350" || snapshot.Remaining.String() != "1150" {
		t.Errorf("unexpected spent/remaining %s/%s", snapshot.Spent, snapshot.Remaining)
	}
	if snapshot.PercentageConsumed.String() != "23.33" || snapshot.Status != budget.StatusOnTrack {
		t.Errorf("unexpected percentage/status %s/%s", snapshot.PercentageConsumed, snapshot.Status)
	}
	if snapshot.ExpenseCount != 2 {
		t.Errorf("expected 2 expenses, got %d", snapshot.ExpenseCount)
	}
}

func TestGetSnapshot_RemoteBalanceTakesPrecedence(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")}}
	limits := &fakeLimitRepository{limit: entity.NewLimit(userID, decimal.RequireFromString("1000"), june2024, testNow)}
	balances := &fakeBalanceRepository{balance: &adapter.Balance{
		LimitAmount: decimal.RequireFromString("1000"),
		Spent:       decimal.RequireFromString("700"),
		Remaining:   decimal.RequireFromString("300"),
	}}

	snapshot, err := NewGetSnapshotUseCase(expenses, limits, balances, nil, clock).
		Execute(context.Background(), GetSnapshotInput{UserID: userID, Period: &june2024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Spent.String() != "700" || snapshot.Remaining.String() != "300" {
		t.Errorf("remote balance ignored: spent=%s remaining=%s", snapshot.Spent, snapshot.Remaining)
	}
	if snapshot.Status != budget.StatusWarning {
		t.Errorf("expected warning, got %s", snapshot.Status)
	}
}

func TestGetSnapshot_BalanceFailureFallsBack(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")}}
	limits := &fakeLimitRepository{limit: entity.NewLimit(userID, decimal.RequireFromString("1000"), june2024, testNow)}
	balances := &fakeBalanceRepository{err: errors.New("connection reset")}

	snapshot, err := NewGetSnapshotUseCase(expenses, limits, balances, nil, clock).
		Execute(context.Background(), GetSnapshotInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Spent.String() != "100" {
		t.Errorf("expected local sum 100, got %s", snapshot.Spent)
	}
}

func TestGetSnapshot_NoLimit(t *testing.T) {
	userID := uuid.New()
	snapshot, err := NewGetSnapshotUseCase(&fakeExpenseRepository{}, &fakeLimitRepository{}, &fakeBalanceRepository{}, nil, clock).
		Execute(context.Background(), GetSnapshotInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.HasLimit || snapshot.Status != budget.StatusNoLimit || !snapshot.Spent.IsZero() {
		t.Errorf("unexpected empty snapshot %+v", snapshot)
	}
}

func TestGetSnapshot_LimitLoadError(t *testing.T) {
	_, err := NewGetSnapshotUseCase(&fakeExpenseRepository{}, &fakeLimitRepository{err: errors.New("db down")}, nil, nil, clock).
		Execute(context.Background(), GetSnapshotInput{UserID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetSnapshot_Cache(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")}}
	cache := newMemoryCache()
	uc := NewGetSnapshotUseCase(expenses, &fakeLimitRepository{}, nil, cache, clock)

	for i := 0; i < 3; i++ {
		if _, err := uc.Execute(context.Background(), GetSnapshotInput{UserID: userID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := expenses.calls.Load(); got != 1 {
		t.Errorf("expected 1 load with cache, got %d", got)
	}

	_ = cache.Invalidate(context.Background(), userID, june2024)
	if _, err := uc.Execute(context.Background(), GetSnapshotInput{UserID: userID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := expenses.calls.Load(); got != 2 {
		t.Errorf("expected reload after invalidation, got %d loads", got)
	}
}

func TestGetSnapshot_WriteDuringLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	limits := &fakeLimitRepository{limit: entity.NewLimit(userID, decimal.RequireFromString("1000"), june2024, testNow)}
	expenses := &fakeExpenseRepository{expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")}}
	cache := newMemoryCache()

	// An expense lands, and its invalidation with it, while the first load is in flight
	expenses.afterLoad = func() {
		expenses.expenses = append(expenses.expenses, expenseOn(userID, "900", "2024-06-20"))
		_ = cache.Invalidate(ctx, userID, june2024)
	}

	uc := NewGetSnapshotUseCase(expenses, limits, nil, cache, clock)
	first, err := uc.Execute(ctx, GetSnapshotInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Spent.String() != "100" {
		t.Errorf("first spent = %s, want 100", first.Spent)
	}
	if cache.sets != 0 {
		t.Errorf("snapshot read before the write was cached")
	}

	second, err := uc.Execute(ctx, GetSnapshotInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Spent.String() != "1000" || second.Status != budget.StatusExceeded {
		t.Errorf("second snapshot spent=%s status=%s, want 1000 exceeded", second.Spent, second.Status)
	}
}

func TestGetSnapshot_CancelledCallerDoesNotFailOthers(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{
		expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")},
		release:  make(chan struct{}),
		loading:  make(chan struct{}, 2),
	}
	uc := NewGetSnapshotUseCase(expenses, &fakeLimitRepository{}, nil, nil, clock)

	leaving, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := uc.Execute(leaving, GetSnapshotInput{UserID: userID})
		firstErr <- err
	}()
	<-expenses.loading

	type outcome struct {
		snapshot *budget.Snapshot
		err      error
	}
	second := make(chan outcome, 1)
	go func() {
		snapshot, err := uc.Execute(context.Background(), GetSnapshotInput{UserID: userID})
		second <- outcome{snapshot, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(expenses.release)
	got := <-second
	if got.err != nil {
		t.Fatalf("second caller failed: %v", got.err)
	}
	if got.snapshot.Spent.String() != "100" {
		t.Errorf("second caller spent = %s, want 100", got.snapshot.Spent)
	}
}

func TestGetSnapshot_ConcurrentRequestsShareLoad(t *testing.T) {
	userID := uuid.New()
	expenses := &fakeExpenseRepository{
		expenses: []*entity.Expense{expenseOn(userID, "100", "2024-06-02")},
		delay:    50 * time.Millisecond,
	}
	uc := NewGetSnapshotUseCase(expenses, &fakeLimitRepository{}, nil, nil, clock)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshot, err := uc.Execute(context.Background(), GetSnapshotInput{UserID: userID})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if snapshot.Spent.String() != "100" {
				t.Errorf("unexpected spent %s", snapshot.Spent)
			}
		}()
	}
	wg.Wait()

	if got := expenses.calls.Load(); got >= 8 {
		t.Errorf("expected deduplicated loads, got %d", got)
	}
}

func TestGetPeriodOptions(t *testing.T) {
	options := NewGetPeriodOptionsUseCase(clock).Execute()

	if options.Current != june2024 {
		t.Errorf("unexpected current period %v", options.Current)
	}
	if len(options.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(options.Months))
	}
	if options.Months[0].Value != valueobject.January || options.Months[0].Label != "Janeiro" {
		t.Errorf("unexpected first month %+v", options.Months[0])
	}
	if options.Months[2].Label != "Março" {
		t.Errorf("unexpected March label %q", options.Months[2].Label)
	}
	want := []int{2024, 2025, 2026}
	if len(options.Years) != len(want) {
		t.Fatalf("expected years %v, got %v", want, options.Years)
	}
	for i := range want {
		if options.Years[i] != want[i] {
			t.Errorf("expected years %v, got %v", want, options.Years)
		}
	}
}
