package market

import (
	"KolDesk/entity"
	"context"
	"net/http"
)

// ListKols returns the influencers currently promotable on the
// marketplace. The assistant resolves user-named influencers against
// this list.
func (s *MarketService) ListKols(ctx context.Context) ([]entity.Kol, error) {
	var kols []entity.Kol
	if err := s.call(ctx, http.MethodGet, "/api/v1/kols", nil, &kols); err != nil {
		return nil, err
	}
	return kols, nil
}
