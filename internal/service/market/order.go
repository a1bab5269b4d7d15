package market

import (
	"KolDesk/entity"
	"context"
	"net/http"
)

// CreateOrder submits a finished order draft and returns the
// marketplace's order record.
func (s *MarketService) CreateOrder(ctx context.Context, userUUID string, draft entity.OrderDraft) (*entity.Order, error) {
	body := struct {
		UserUUID string `json:"user_uuid"`
		entity.OrderDraft
	}{userUUID, draft}

	var order entity.Order
	if err := s.call(ctx, http.MethodPost, "/api/v1/orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PayOrder marks an order as paid with the settlement transaction hash.
func (s *MarketService) PayOrder(ctx context.Context, orderNo, txHash string) error {
	body := struct {
		TxHash string `json:"tx_hash"`
	}{txHash}

	return s.call(ctx, http.MethodPost, "/api/v1/orders/"+orderNo+"/pay", body, nil)
}
