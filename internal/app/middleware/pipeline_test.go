package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

type replayCommand struct {
	key string
}

func (c replayCommand) Key() string { return "test.replay" }

func (c replayCommand) IdempotencyKey() string { return c.key }

func (c replayCommand) ResultPrototype() any { return &replayResult{} }

func (c replayCommand) HotelScope() string { return "h1" }

type replayResult struct {
	Value string `json:"value"`
}

type mapStore struct {
	items map[string]IdempotencyRecord
}

func newMapStore() *mapStore {
	return &mapStore{items: make(map[string]IdempotencyRecord)}
}

func (s *mapStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *mapStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.items[rec.Key] = rec
	return nil
}

func countingBus(calls *int, result any, err error) commands.Bus {
	return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		*calls++
		return result, err
	})
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	calls := 0
	bus := ChainCommands(
		countingBus(&calls, &replayResult{Value: "first"}, nil),
		Idempotency(newMapStore(), nil, nil),
	)

	first, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"})
	if err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	got, ok := second.(*replayResult)
	if !ok {
		t.Fatalf("replayed result has type %T", second)
	}
	if got.Value != first.(*replayResult).Value {
		t.Errorf("replayed %q, original %q", got.Value, first.(*replayResult).Value)
	}
}

func TestIdempotencyReplaysFailures(t *testing.T) {
	calls := 0
	bus := ChainCommands(
		countingBus(&calls, nil, errors.New("boom")),
		Idempotency(newMapStore(), nil, nil),
	)

	if _, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"}); err == nil {
		t.Fatal("expected error")
	}
	_, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("replayed error = %v", err)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyReplayKeepsFailureIdentity(t *testing.T) {
	sentinel := errors.New("slot taken")
	catalog := NewFailureCatalog().Register("test/slot-taken", sentinel)
	calls := 0
	bus := ChainCommands(
		countingBus(&calls, nil, fmt.Errorf("room 12: %w", sentinel)),
		Idempotency(newMapStore(), nil, catalog),
	)

	if _, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"}); !errors.Is(err, sentinel) {
		t.Fatalf("first dispatch error = %v", err)
	}
	_, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("replayed error lost its identity: %v", err)
	}
	if err.Error() != "room 12: slot taken" {
		t.Errorf("replayed message = %q", err.Error())
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyUnknownCodeFallsBackToMessage(t *testing.T) {
	catalog := NewFailureCatalog().Register("test/known", errors.New("known"))
	store := newMapStore()
	store.items["req-1"] = IdempotencyRecord{Key: "req-1", FailureCode: "test/retired", FailureMsg: "gone"}
	calls := 0
	bus := ChainCommands(
		countingBus(&calls, nil, nil),
		Idempotency(store, nil, catalog),
	)

	_, err := bus.Dispatch(context.Background(), replayCommand{key: "req-1"})
	if err == nil || err.Error() != "gone" {
		t.Fatalf("replayed error = %v", err)
	}
	if calls != 0 {
		t.Errorf("handler ran %d times, want 0", calls)
	}
}

func TestIdempotencySkipsCommandsWithoutKey(t *testing.T) {
	calls := 0
	bus := ChainCommands(
		countingBus(&calls, &replayResult{}, nil),
		Idempotency(newMapStore(), nil, nil),
	)

	for i := 0; i < 2; i++ {
		if _, err := bus.Dispatch(context.Background(), replayCommand{}); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want every dispatch", calls)
	}
}

type fakeFactory struct {
	unit *fakeUnit
	opts uow.TxOptions
}

func (f *fakeFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	f.opts = opts
	return f.unit, nil
}

type fakeUnit struct {
	committed  bool
	rolledBack bool
}

func (u *fakeUnit) Hotels() domainhotel.Repository { return nil }

func (u *fakeUnit) Bookings() domainbooking.Repository { return nil }

func (u *fakeUnit) Commit(ctx context.Context) error {
	u.committed = true
	return nil
}

func (u *fakeUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	sawUnit := false
	bus := ChainCommands(
		commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			_, sawUnit = uow.FromContext(ctx)
			return nil, nil
		}),
		Transaction(factory, nil),
	)

	if _, err := bus.Dispatch(context.Background(), replayCommand{}); err != nil {
		t.Fatal(err)
	}
	if !sawUnit {
		t.Error("unit of work missing from handler context")
	}
	if !factory.unit.committed || factory.unit.rolledBack {
		t.Errorf("committed=%v rolledBack=%v", factory.unit.committed, factory.unit.rolledBack)
	}
	if factory.opts.HotelID != "h1" {
		t.Errorf("transaction scope = %q, want the command's hotel", factory.opts.HotelID)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	factory := &fakeFactory{unit: &fakeUnit{}}
	bus := ChainCommands(
		commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			return nil, errors.New("handler failed")
		}),
		Transaction(factory, nil),
	)

	if _, err := bus.Dispatch(context.Background(), replayCommand{}); err == nil {
		t.Fatal("expected error")
	}
	if factory.unit.committed || !factory.unit.rolledBack {
		t.Errorf("committed=%v rolledBack=%v", factory.unit.committed, factory.unit.rolledBack)
	}
}
