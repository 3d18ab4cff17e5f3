package payments

import (
	"context"
	"fmt"
	"sort"

	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

type upstream interface {
	ListPaymentGateways(ctx context.Context) ([]woocommerce.PaymentGateway, error)
}

// Method is one selectable payment option at checkout.
type Method struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Service lists the payment methods offered at checkout.
type Service interface {
	ListMethods(ctx context.Context) ([]Method, error)
	// TitleFor resolves the display title for a method id, falling back to
	// the id itself when the gateway list is unavailable.
	TitleFor(ctx context.Context, id string) string
}

type service struct {
	client upstream
	logg   *logger.Logger
}

func NewService(client upstream, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, logg: logg}, nil
}

func (s *service) ListMethods(ctx context.Context) ([]Method, error) {
	gateways, err := s.client.ListPaymentGateways(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]woocommerce.PaymentGateway, 0, len(gateways))
	for _, gw := range gateways {
		if gw.Enabled {
			enabled = append(enabled, gw)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Order < enabled[j].Order
	})

	methods := make([]Method, 0, len(enabled))
	for _, gw := range enabled {
		methods = append(methods, Method{ID: gw.ID, Title: gw.Title, Description: gw.Description})
	}
	return methods, nil
}

func (s *service) TitleFor(ctx context.Context, id string) string {
	methods, err := s.ListMethods(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "payment_method", id), "gateway lookup failed, using method id as title")
		return id
	}
	for _, m := range methods {
		if m.ID == id {
			return m.Title
		}
	}
	return id
}
