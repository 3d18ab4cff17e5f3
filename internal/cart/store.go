package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Store is the single source of truth for cart contents. One session owns one
// persisted slot; all mutations recompute the aggregate from scratch, persist,
// and notify subscribed observers.
type Store struct {
	storage   Storage
	logg      *logger.Logger
	observers *observerRegistry
}

func NewStore(storage Storage, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("cart logger required")
	}
	return &Store{
		storage:   storage,
		logg:      logg,
		observers: newObserverRegistry(),
	}, nil
}

// Subscribe registers an observer for mutation notifications. The returned
// function cancels the subscription.
func (s *Store) Subscribe(obs Observer) func() {
	return s.observers.subscribe(obs)
}

// AddItemInput carries the product snapshot taken at add-to-cart time.
type AddItemInput struct {
	ProductID      string
	Name           string
	UnitBasePrice  decimal.Decimal
	UnitAddonPrice decimal.Decimal
	Quantity       int
	SelectedAddons SelectedAddons
	Image          string
}

// Get reads the session's cart. Missing, unreadable, or corrupt slots degrade
// to an empty cart; this operation never fails.
func (s *Store) Get(ctx context.Context, sessionID string) Cart {
	return s.load(ctx, sessionID)
}

// AddItem validates the input, merges by identity, and persists the result.
// An existing line with the same (product, add-on selection) identity absorbs
// the quantity instead of creating a duplicate.
func (s *Store) AddItem(ctx context.Context, sessionID string, input AddItemInput) (Cart, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}
	if input.UnitBasePrice.IsNegative() || input.UnitAddonPrice.IsNegative() {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	identity := Identity(input.ProductID, input.SelectedAddons)
	current := s.load(ctx, sessionID)

	merged := false
	for i := range current.Items {
		if current.Items[i].Identity == identity {
			current.Items[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		addons := input.SelectedAddons
		if addons.Empty() {
			addons = nil
		}
		current.Items = append(current.Items, Item{
			Identity:       identity,
			ProductID:      input.ProductID,
			Name:           input.Name,
			UnitBasePrice:  input.UnitBasePrice,
			UnitAddonPrice: input.UnitAddonPrice,
			Quantity:       input.Quantity,
			SelectedAddons: addons,
			Image:          input.Image,
		})
	}

	return s.commit(ctx, sessionID, current)
}

// UpdateQuantity sets the line's quantity, clamped to a minimum of 1.
// Removal is explicit via Remove; this path never drops a line.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, identity string, quantity int) (Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	current := s.load(ctx, sessionID)
	found := false
	for i := range current.Items {
		if current.Items[i].Identity == identity {
			current.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return current, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.commit(ctx, sessionID, current)
}

// Remove deletes the matching line.
func (s *Store) Remove(ctx context.Context, sessionID, identity string) (Cart, error) {
	current := s.load(ctx, sessionID)
	kept := current.Items[:0]
	found := false
	for _, item := range current.Items {
		if item.Identity == identity {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return current, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	current.Items = kept

	return s.commit(ctx, sessionID, current)
}

// Clear resets the session's cart unconditionally.
func (s *Store) Clear(ctx context.Context, sessionID string) (Cart, error) {
	return s.commit(ctx, sessionID, emptyCart())
}

func (s *Store) load(ctx context.Context, sessionID string) Cart {
	payload, err := s.storage.Read(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart slot read failed, using empty cart", err)
		}
		return emptyCart()
	}

	var stored Cart
	if err := json.Unmarshal(payload, &stored); err != nil {
		s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "corrupt cart slot, using empty cart")
		return emptyCart()
	}
	if stored.Items == nil {
		stored.Items = []Item{}
	}
	for i := range stored.Items {
		if stored.Items[i].Quantity < 1 {
			stored.Items[i].Quantity = 1
		}
	}
	// Aggregates are rebuilt on every load so persisted counters can never
	// drift from the item list.
	recompute(&stored)
	return stored
}

func (s *Store) commit(ctx context.Context, sessionID string, next Cart) (Cart, error) {
	recompute(&next)

	payload, err := json.Marshal(next)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "encode cart")
	}
	if err := s.storage.Write(ctx, sessionID, payload); err != nil {
		s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart slot write failed", err)
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persist cart")
	}

	s.observers.publish(sessionID, next)
	return next, nil
}
