package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"storefront/internal/models"
)

// CartService, sepet isteklerini mağaza API'sine iletir. Sepetin sahibi
// API'dir; bu servis toplam hesaplamaz.
type CartService struct {
	api    Requester
	logger *slog.Logger
}

// NewCartService, yeni bir CartService oluşturur.
func NewCartService(api Requester, logger *slog.Logger) *CartService {
	return &CartService{api: api, logger: logger}
}

// FetchCart, sepetin güncel halini döner.
func (cs *CartService) FetchCart(ctx context.Context) (models.CartSnapshot, error) {
	var res struct {
		Data models.CartSnapshot `json:"data"`
	}
	if err := cs.api.Get(ctx, cs.api.Paths().Cart, &res); err != nil {
		cs.logger.Error("CartService.FetchCart - failed", "error", err)
		return models.CartSnapshot{}, err
	}
	if res.Data.Carts == nil {
		res.Data.Carts = []models.CartItem{}
	}

	cs.logger.Debug("CartService.FetchCart - ok", "lines", len(res.Data.Carts), "final_total", res.Data.FinalTotal.String())
	return res.Data, nil
}

// AddCart, ürünü sepete ekler. 1'den küçük adet 1 olarak gönderilir.
func (cs *CartService) AddCart(ctx context.Context, productID string, qty int) (string, error) {
	if productID == "" {
		return "", ErrMissingProductID
	}
	if qty < 1 {
		qty = 1
	}
	cs.logger.Info("CartService.AddCart", "product_id", productID, "qty", qty)

	var res reply
	body := payload[models.CartLine]{Data: models.CartLine{ProductID: productID, Qty: qty}}
	if err := cs.api.Post(ctx, cs.api.Paths().Cart, body, &res); err != nil {
		cs.logger.Error("CartService.AddCart - failed", "product_id", productID, "error", err)
		return "", err
	}
	return res.Message, nil
}

// UpdateQty, productID'yi içeren satırın adedini günceller.
func (cs *CartService) UpdateQty(ctx context.Context, productID string, qty int) (string, error) {
	if productID == "" {
		return "", ErrMissingProductID
	}
	if qty < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	cs.logger.Info("CartService.UpdateQty", "product_id", productID, "qty", qty)

	var res reply
	body := payload[models.CartLine]{Data: models.CartLine{ProductID: productID, Qty: qty}}
	path := cs.api.Paths().Cart + "/" + url.PathEscape(productID)
	if err := cs.api.Put(ctx, path, body, &res); err != nil {
		cs.logger.Error("CartService.UpdateQty - failed", "product_id", productID, "error", err)
		return "", err
	}
	return res.Message, nil
}

// RemoveItem, sepet satırını kendi id'si ile siler (ürün id'si değil).
func (cs *CartService) RemoveItem(ctx context.Context, cartItemID string) (string, error) {
	if cartItemID == "" {
		return "", ErrMissingItemID
	}
	cs.logger.Info("CartService.RemoveItem", "cart_item_id", cartItemID)

	var res reply
	if err := cs.api.Delete(ctx, cs.api.Paths().Cart+"/"+url.PathEscape(cartItemID), &res); err != nil {
		cs.logger.Error("CartService.RemoveItem - failed", "cart_item_id", cartItemID, "error", err)
		return "", err
	}
	return res.Message, nil
}

// ClearCart, çoğul carts uç noktası ile sepeti boşaltır.
func (cs *CartService) ClearCart(ctx context.Context) (string, error) {
	cs.logger.Info("CartService.ClearCart")

	var res reply
	if err := cs.api.Delete(ctx, cs.api.Paths().Carts, &res); err != nil {
		cs.logger.Error("CartService.ClearCart - failed", "error", err)
		return "", err
	}
	return res.Message, nil
}
