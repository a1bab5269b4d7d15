package chain

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
)

// ChainService talks to the wallet bridge that fronts the payment
// token contract. It implements the order flow's ChainGateway.
type ChainService struct {
	bridgeURL     string
	apiKey        string
	tokenContract string
	payee         string
	client        *http.Client
	log           *slog.Logger
}

func NewChainService(conf *config.Config, logger *slog.Logger) *ChainService {
	if conf.Chain.BridgeURL == "" {
		return nil
	}

	return &ChainService{
		bridgeURL:     conf.Chain.BridgeURL,
		apiKey:        conf.Chain.ApiKey,
		tokenContract: conf.Chain.TokenContract,
		payee:         conf.Chain.PayeeAddress,
		client:        &http.Client{Timeout: 120 * time.Second},
		log:           logger.With(sl.Module("chain")),
	}
}

func (s *ChainService) call(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.bridgeURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge %s: status %d: %s", path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ActiveChain reports which network the wallet is currently on.
func (s *ChainService) ActiveChain(ctx context.Context, wallet string) (int64, error) {
	var result struct {
		ChainId int64 `json:"chain_id"`
	}
	err := s.call(ctx, "/wallet/chain", map[string]string{"wallet": wallet}, &result)
	if err != nil {
		return 0, err
	}
	return result.ChainId, nil
}

// Balance returns the wallet's token balance.
func (s *ChainService) Balance(ctx context.Context, wallet string) (float64, error) {
	var result struct {
		Balance float64 `json:"balance"`
	}
	body := map[string]string{"wallet": wallet, "token": s.tokenContract}
	if err := s.call(ctx, "/wallet/balance", body, &result); err != nil {
		return 0, err
	}
	return result.Balance, nil
}

// Allowance returns how much the spender may draw from the wallet.
func (s *ChainService) Allowance(ctx context.Context, wallet, spender string) (float64, error) {
	var result struct {
		Allowance float64 `json:"allowance"`
	}
	body := map[string]string{"wallet": wallet, "spender": spender, "token": s.tokenContract}
	if err := s.call(ctx, "/wallet/allowance", body, &result); err != nil {
		return 0, err
	}
	return result.Allowance, nil
}

// Approve asks the wallet to grant the spender an allowance and
// returns the approval transaction hash.
func (s *ChainService) Approve(ctx context.Context, wallet, spender string, amount float64) (string, error) {
	var result struct {
		TxHash string `json:"tx_hash"`
	}
	body := map[string]any{
		"wallet":  wallet,
		"spender": spender,
		"token":   s.tokenContract,
		"amount":  amount,
	}
	if err := s.call(ctx, "/wallet/approve", body, &result); err != nil {
		return "", err
	}
	return result.TxHash, nil
}

// Issue submits the settlement transfer to the payee and returns its
// transaction hash.
func (s *ChainService) Issue(ctx context.Context, wallet string, amount float64, orderNo string) (string, error) {
	var result struct {
		TxHash string `json:"tx_hash"`
	}
	body := map[string]any{
		"wallet":   wallet,
		"token":    s.tokenContract,
		"payee":    s.payee,
		"amount":   amount,
		"order_no": orderNo,
	}
	if err := s.call(ctx, "/wallet/issue", body, &result); err != nil {
		return "", err
	}
	return result.TxHash, nil
}

// WaitForReceipt blocks until the transaction is mined or fails.
func (s *ChainService) WaitForReceipt(ctx context.Context, txHash string) error {
	var result struct {
		Status string `json:"status"`
	}
	if err := s.call(ctx, "/tx/wait", map[string]string{"tx_hash": txHash}, &result); err != nil {
		return err
	}
	if result.Status != "success" {
		return fmt.Errorf("transaction %s reverted", txHash)
	}
	return nil
}
