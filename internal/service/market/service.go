package market

import (
	"KolDesk/internal/config"
	"KolDesk/internal/lib/sl"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// MarketService is the HTTP client for the marketplace API. It
// implements the order flow's MarketGateway contract.
type MarketService struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewMarketService(conf *config.Config, logger *slog.Logger) *MarketService {
	if conf.Market.BaseURL == "" {
		return nil
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     conf.Market.ClientID,
		ClientSecret: conf.Market.ClientSecret,
		TokenURL:     conf.Market.TokenURL,
	}

	client := oauthConf.Client(context.Background())
	client.Timeout = 30 * time.Second

	return &MarketService{
		baseURL: conf.Market.BaseURL,
		client:  client,
		log:     logger.With(sl.Module("market")),
	}
}

// apiEnvelope is the marketplace's common response wrapper.
type apiEnvelope struct {
	Result string          `json:"result"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

func (s *MarketService) call(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}

	if err := decodeEnvelope(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func decodeEnvelope(raw []byte, out any) error {
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Result != "success" {
		return fmt.Errorf("api error: %s", envelope.Msg)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
