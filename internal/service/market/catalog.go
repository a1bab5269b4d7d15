package market

import (
	"KolDesk/entity"
	"context"
	"net/http"
)

// FetchServiceCatalog returns the tweet types and add-on services.
func (s *MarketService) FetchServiceCatalog(ctx context.Context) (*entity.ServiceCatalog, error) {
	var catalog entity.ServiceCatalog
	if err := s.call(ctx, http.MethodGet, "/api/v1/services", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}
