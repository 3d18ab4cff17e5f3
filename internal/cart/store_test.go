package cart

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const testSession = "session-1"

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	store, err := NewStore(storage, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return store, storage
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddItemMergesByIdentity(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	input := AddItemInput{ProductID: "pixel-7a", Name: "Pixel 7a", UnitBasePrice: price("699.99"), Quantity: 1}

	snapshot, err := store.AddItem(ctx, testSession, input)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if len(snapshot.Items) != 1 || !snapshot.Total.Equal(price("699.99")) {
		t.Fatalf("unexpected snapshot after first add: %+v", snapshot)
	}

	input.Quantity = 2
	snapshot, err = store.AddItem(ctx, testSession, input)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(snapshot.Items) != 1 {
		t.Fatalf("expected merged line, got %d items", len(snapshot.Items))
	}
	if snapshot.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", snapshot.Items[0].Quantity)
	}
	if !snapshot.Total.Equal(price("2099.97")) {
		t.Fatalf("expected total 2099.97, got %s", snapshot.Total)
	}

	snapshot, err = store.UpdateQuantity(ctx, testSession, snapshot.Items[0].Identity, 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !snapshot.Total.Equal(price("699.99")) {
		t.Fatalf("expected total 699.99, got %s", snapshot.Total)
	}

	snapshot, err = store.Remove(ctx, testSession, snapshot.Items[0].Identity)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(snapshot.Items) != 0 || !snapshot.Total.IsZero() || snapshot.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", snapshot)
	}
}

func TestAddItemDistinguishesAddonSelections(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	base := AddItemInput{ProductID: "faraday-bag", Name: "Faraday Bag", UnitBasePrice: price("49.99"), Quantity: 1}

	base.SelectedAddons = SelectedAddons{"Color": {"Black"}}
	if _, err := store.AddItem(ctx, testSession, base); err != nil {
		t.Fatalf("add black failed: %v", err)
	}

	base.SelectedAddons = SelectedAddons{"Color": {"Red"}}
	snapshot, err := store.AddItem(ctx, testSession, base)
	if err != nil {
		t.Fatalf("add red failed: %v", err)
	}

	if len(snapshot.Items) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(snapshot.Items))
	}
	if snapshot.TotalItems != 2 {
		t.Fatalf("expected 2 total items, got %d", snapshot.TotalItems)
	}
	if !snapshot.Total.Equal(price("99.98")) {
		t.Fatalf("expected total 99.98, got %s", snapshot.Total)
	}
}

func TestAddItemKeepsSeparatorBearingLabelsDistinct(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	base := AddItemInput{ProductID: "engraving-kit", Name: "Engraving Kit", UnitBasePrice: price("15.00"), Quantity: 1}

	base.SelectedAddons = SelectedAddons{"Text": {"b|c"}}
	if _, err := store.AddItem(ctx, testSession, base); err != nil {
		t.Fatalf("add joined label failed: %v", err)
	}

	base.SelectedAddons = SelectedAddons{"Text": {"b", "c"}}
	snapshot, err := store.AddItem(ctx, testSession, base)
	if err != nil {
		t.Fatalf("add split labels failed: %v", err)
	}

	if len(snapshot.Items) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(snapshot.Items))
	}
}

func TestAddItemCoercesInvalidQuantity(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	snapshot, err := store.AddItem(context.Background(), testSession, AddItemInput{
		ProductID:     "sim-10gb",
		UnitBasePrice: price("29.99"),
		Quantity:      -4,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if snapshot.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity coerced to 1, got %d", snapshot.Items[0].Quantity)
	}
}

func TestAddItemRejectsMissingProductID(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	_, err := store.AddItem(context.Background(), testSession, AddItemInput{Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityClampsToFloor(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	snapshot, err := store.AddItem(ctx, testSession, AddItemInput{
		ProductID: "pixel-7a", UnitBasePrice: price("699.99"), Quantity: 3,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	identity := snapshot.Items[0].Identity

	snapshot, err = store.UpdateQuantity(ctx, testSession, identity, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].Quantity != 1 {
		t.Fatalf("expected clamp to 1 without removal, got %+v", snapshot)
	}

	snapshot, err = store.UpdateQuantity(ctx, testSession, identity, -5)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if snapshot.Items[0].Quantity != 1 {
		t.Fatalf("expected clamp for negative quantity, got %d", snapshot.Items[0].Quantity)
	}
}

func TestUpdateQuantityUnknownIdentity(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	_, err := store.UpdateQuantity(context.Background(), testSession, "missing", 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAggregateConsistencyAcrossMutations(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	inputs := []AddItemInput{
		{ProductID: "a", UnitBasePrice: price("10.00"), Quantity: 2},
		{ProductID: "b", UnitBasePrice: price("5.50"), UnitAddonPrice: price("1.25"), Quantity: 1,
			SelectedAddons: SelectedAddons{"Size": {"L"}}},
		{ProductID: "a", UnitBasePrice: price("10.00"), Quantity: 3},
	}
	var snapshot Cart
	var err error
	for _, input := range inputs {
		if snapshot, err = store.AddItem(ctx, testSession, input); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	assertConsistent := func(c Cart) {
		t.Helper()
		wantItems := 0
		wantTotal := decimal.Zero
		for _, item := range c.Items {
			wantItems += item.Quantity
			wantTotal = wantTotal.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if c.TotalItems != wantItems {
			t.Fatalf("total items drifted: have %d want %d", c.TotalItems, wantItems)
		}
		if !c.Total.Equal(wantTotal.Round(2)) {
			t.Fatalf("total drifted: have %s want %s", c.Total, wantTotal.Round(2))
		}
	}
	assertConsistent(snapshot)

	if snapshot, err = store.UpdateQuantity(ctx, testSession, "a", 1); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	assertConsistent(snapshot)

	if snapshot, err = store.Remove(ctx, testSession, snapshot.Items[0].Identity); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	assertConsistent(snapshot)
}

func TestRoundTripPersistence(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := store.AddItem(ctx, testSession, AddItemInput{
		ProductID:      "pixel-7a",
		Name:           "Pixel 7a",
		UnitBasePrice:  price("699.99"),
		UnitAddonPrice: price("50.00"),
		Quantity:       2,
		SelectedAddons: SelectedAddons{"Storage": {"256GB"}},
		Image:          "/pixel.jpg",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	loaded := store.Get(ctx, testSession)
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 item after reload, got %d", len(loaded.Items))
	}
	got, want := loaded.Items[0], saved.Items[0]
	if got.Identity != want.Identity || got.Quantity != want.Quantity ||
		!got.UnitBasePrice.Equal(want.UnitBasePrice) || !got.UnitAddonPrice.Equal(want.UnitAddonPrice) ||
		got.Name != want.Name || got.Image != want.Image {
		t.Fatalf("reloaded item differs: %+v vs %+v", got, want)
	}
	if loaded.TotalItems != saved.TotalItems || !loaded.Total.Equal(saved.Total) {
		t.Fatalf("reloaded aggregate differs: %+v vs %+v", loaded, saved)
	}
}

func TestGetDegradesToEmptyCart(t *testing.T) {
	t.Parallel()

	store, storage := newTestStore(t)
	ctx := context.Background()

	// Never written: empty cart, no error.
	cart := store.Get(ctx, "fresh-session")
	if len(cart.Items) != 0 || cart.TotalItems != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	// Corrupt payload: also empty.
	if err := storage.Write(ctx, testSession, []byte("{not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	cart = store.Get(ctx, testSession)
	if len(cart.Items) != 0 {
		t.Fatalf("expected corrupt slot to degrade to empty, got %+v", cart)
	}
}

type failingStorage struct {
	readErr  error
	writeErr error
}

func (f *failingStorage) Read(context.Context, string) ([]byte, error) {
	return nil, f.readErr
}

func (f *failingStorage) Write(context.Context, string, []byte) error {
	return f.writeErr
}

func (f *failingStorage) Delete(context.Context, string) error {
	return nil
}

func TestStorageFailuresSurfaceAsStorageErrors(t *testing.T) {
	t.Parallel()

	store, err := NewStore(&failingStorage{
		readErr:  errors.New("backend down"),
		writeErr: errors.New("quota exceeded"),
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	ctx := context.Background()

	// Reads degrade, never error.
	cart := store.Get(ctx, testSession)
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart on read failure, got %+v", cart)
	}

	_, addErr := store.AddItem(ctx, testSession, AddItemInput{ProductID: "a", UnitBasePrice: price("1.00"), Quantity: 1})
	typed := pkgerrors.As(addErr)
	if typed == nil || typed.Code() != pkgerrors.CodeStorage {
		t.Fatalf("expected storage error, got %v", addErr)
	}
}

func TestObserversReceiveEveryMutation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	var notified []Cart
	cancel := store.Subscribe(func(sessionID string, snapshot Cart) {
		if sessionID != testSession {
			t.Fatalf("unexpected session %q", sessionID)
		}
		notified = append(notified, snapshot)
	})
	defer cancel()

	snapshot, err := store.AddItem(ctx, testSession, AddItemInput{ProductID: "a", UnitBasePrice: price("2.00"), Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := store.UpdateQuantity(ctx, testSession, snapshot.Items[0].Identity, 5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := store.Clear(ctx, testSession); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if len(notified) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notified))
	}
	if notified[1].TotalItems != 5 {
		t.Fatalf("expected second notification with 5 items, got %d", notified[1].TotalItems)
	}
	if len(notified[2].Items) != 0 {
		t.Fatal("expected final notification to carry the cleared cart")
	}

	cancel()
	if _, err := store.AddItem(ctx, testSession, AddItemInput{ProductID: "b", UnitBasePrice: price("1.00"), Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(notified) != 3 {
		t.Fatalf("cancelled observer should not be notified, got %d", len(notified))
	}
}

func TestClearResetsCartUnconditionally(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddItem(ctx, testSession, AddItemInput{ProductID: "a", UnitBasePrice: price("3.00"), Quantity: 4}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	snapshot, err := store.Clear(ctx, testSession)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(snapshot.Items) != 0 || snapshot.TotalItems != 0 || !snapshot.Total.IsZero() {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}

	// Clearing an already-empty cart still succeeds.
	if _, err := store.Clear(ctx, testSession); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}
