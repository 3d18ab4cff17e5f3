package orders

import (
	"context"
	"fmt"

	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

type upstream interface {
	CreateOrder(ctx context.Context, order *woocommerce.OrderRequest) (*woocommerce.CreatedOrder, error)
}

// Service submits built orders upstream.
type Service interface {
	Submit(ctx context.Context, order *woocommerce.OrderRequest) (*woocommerce.CreatedOrder, error)
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

// Submit is a single-attempt, user-initiated action. Upstream rejections and
// transport failures propagate as typed errors for the caller to branch on;
// nothing here retries or clears the cart.
func (s *service) Submit(ctx context.Context, order *woocommerce.OrderRequest) (*woocommerce.CreatedOrder, error) {
	created, err := s.client.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":     created.ID,
		"order_number": created.Number,
		"order_status": created.Status,
	})
	s.logg.Info(ctx, "order created upstream")
	return created, nil
}
