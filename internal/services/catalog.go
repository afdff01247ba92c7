package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"storefront/internal/models"
)

// CatalogService, ürünleri mağaza API'sinden okur.
type CatalogService struct {
	api    Requester
	logger *slog.Logger
}

// NewCatalogService, yeni bir CatalogService oluşturur.
func NewCatalogService(api Requester, logger *slog.Logger) *CatalogService {
	return &CatalogService{api: api, logger: logger}
}

// ListProducts, kataloğun bir sayfasını döner. Sayfalar 1'den başlar.
func (cs *CatalogService) ListProducts(ctx context.Context, page int) ([]models.Product, models.Pagination, error) {
	if page < 1 {
		return nil, models.Pagination{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var res struct {
		Products   []models.Product  `json:"products"`
		Pagination models.Pagination `json:"pagination"`
	}
	if err := cs.api.Get(ctx, cs.api.Paths().Products+"?"+q.Encode(), &res); err != nil {
		cs.logger.Error("CatalogService.ListProducts - failed", "page", page, "error", err)
		return nil, models.Pagination{}, err
	}
	if res.Products == nil {
		res.Products = []models.Product{}
	}

	cs.logger.Debug("CatalogService.ListProducts - ok", "page", page, "count", len(res.Products))
	return res.Products, res.Pagination, nil
}

// GetProduct, tek bir ürünü döner.
func (cs *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	if id == "" {
		return models.Product{}, ErrMissingProductID
	}

	var res struct {
		Product models.Product `json:"product"`
	}
	if err := cs.api.Get(ctx, cs.api.Paths().Product+"/"+url.PathEscape(id), &res); err != nil {
		cs.logger.Error("CatalogService.GetProduct - failed", "product_id", id, "error", err)
		return models.Product{}, err
	}
	return res.Product, nil
}
