package catalog

import (
	"context"
	"fmt"
	"net/http"

	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
	"github.com/lmarceau/privastore-backend/pkg/woocommerce"
)

type upstream interface {
	ListProducts(ctx context.Context) ([]woocommerce.Product, error)
	GetProduct(ctx context.Context, id string) (*woocommerce.Product, error)
}

// Service exposes the catalog read surface.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
}

type service struct {
	client    upstream
	heuristic bool
	logg      *logger.Logger
}

// NewService builds a catalog service over the upstream client. heuristic
// enables the legacy metadata key scan for add-on extraction.
func NewService(client upstream, heuristic bool, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, heuristic: heuristic, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	raw, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(raw))
	for i := range raw {
		products = append(products, newProduct(&raw[i], ExtractAddons(&raw[i], s.heuristic)))
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	raw, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, mapMissingProduct(err)
	}
	product := newProduct(raw, ExtractAddons(raw, s.heuristic))
	return &product, nil
}

func mapMissingProduct(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		return err
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return err
	}
	if status, ok := details["status"].(int); ok && status == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return err
}
