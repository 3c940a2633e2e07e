// services/oracle_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// OracleServiceClient talks to the randomness oracle service. Requests
// go out synchronously; fulfilments are pulled later by the oracle
// worker, matching the commit-then-deliver shape of a VRF provider.
type OracleServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewOracleServiceClient(baseURL, token string) *OracleServiceClient {
	return &OracleServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *OracleServiceClient) RequestRandomWords(checkpoint int64) (string, error) {
	reqBody := map[string]interface{}{"checkpoint": checkpoint}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/oracle/requests", c.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("OracleService /requests returned %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("oracle request failed: %d", resp.StatusCode)
	}

	var out struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.RequestID, nil
}

// Fulfilment is one resolved randomness request, as reported by the
// oracle service.
type Fulfilment struct {
	RequestID string `json:"request_id"`
	Word      uint64 `json:"word"`
}

// GetFulfilments returns requests fulfilled since the given time. The
// oracle worker polls this and funnels results into
// CheckpointService.Fulfill.
func (c *OracleServiceClient) GetFulfilments(since time.Time) ([]Fulfilment, error) {
	url := fmt.Sprintf("%s/oracle/fulfilments?since=%s", c.BaseURL, since.UTC().Format(time.RFC3339))
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle fulfilment call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("OracleService /fulfilments returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("oracle fulfilment fetch failed: %d", resp.StatusCode)
	}

	var out struct {
		Fulfilments []Fulfilment `json:"fulfilments"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Fulfilments, nil
}
