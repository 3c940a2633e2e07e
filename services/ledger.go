// services/ledger.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Ledger is the external item ledger capability. Settlement calls Mint
// in commit mode; boost consumption calls Burn. Owners are identity
// registry ids.
type Ledger interface {
	Mint(owner string, itemID int64, amount int64) error
	Burn(owner string, itemID int64, amount int64) error
	BalanceOf(owner string, itemID int64) (int64, error)
}

// LedgerServiceClient talks to the ledger service through the gateway.
type LedgerServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewLedgerServiceClient(baseURL, token string) *LedgerServiceClient {
	return &LedgerServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *LedgerServiceClient) post(path string, reqBody map[string]interface{}) ([]byte, int, error) {
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s%s", c.BaseURL, path), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

func (c *LedgerServiceClient) Mint(owner string, itemID int64, amount int64) error {
	body, status, err := c.post("/ledger/mint", map[string]interface{}{
		"owner": owner, "item_id": itemID, "amount": amount,
	})
	if err != nil {
		return fmt.Errorf("ledger mint call failed: %w", err)
	}
	if status != http.StatusOK {
		log.Printf("LedgerService /mint returned %d: %s", status, string(body))
		return fmt.Errorf("ledger mint failed: %d", status)
	}
	return nil
}

func (c *LedgerServiceClient) Burn(owner string, itemID int64, amount int64) error {
	body, status, err := c.post("/ledger/burn", map[string]interface{}{
		"owner": owner, "item_id": itemID, "amount": amount,
	})
	if err != nil {
		return fmt.Errorf("ledger burn call failed: %w", err)
	}
	if status == http.StatusPaymentRequired || status == http.StatusConflict {
		return ErrInsufficientBalance
	}
	if status != http.StatusOK {
		log.Printf("LedgerService /burn returned %d: %s", status, string(body))
		return fmt.Errorf("ledger burn failed: %d", status)
	}
	return nil
}

func (c *LedgerServiceClient) BalanceOf(owner string, itemID int64) (int64, error) {
	url := fmt.Sprintf("%s/ledger/balance?owner=%s&item_id=%d", c.BaseURL, owner, itemID)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ledger balance call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("LedgerService /balance returned %d: %s", resp.StatusCode, string(body))
		return 0, fmt.Errorf("ledger balance failed: %d", resp.StatusCode)
	}

	var out struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// MemoryLedger is an in-process Ledger used by tests and local runs.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[int64]int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]map[int64]int64)}
}

func (m *MemoryLedger) Mint(owner string, itemID int64, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[owner] == nil {
		m.balances[owner] = make(map[int64]int64)
	}
	m.balances[owner][itemID] += amount
	return nil
}

func (m *MemoryLedger) Burn(owner string, itemID int64, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[owner] == nil || m.balances[owner][itemID] < amount {
		return ErrInsufficientBalance
	}
	m.balances[owner][itemID] -= amount
	return nil
}

func (m *MemoryLedger) BalanceOf(owner string, itemID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[owner] == nil {
		return 0, nil
	}
	return m.balances[owner][itemID], nil
}
