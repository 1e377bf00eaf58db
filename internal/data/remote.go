package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tech-envelope/internal/model"
)

// SampleClient fetches performance observations from a measurement data
// service instead of local files.
type SampleClient struct {
	BaseURL string
	Client  *http.Client
}

// NewSampleClient creates a client against the given service base URL.
func NewSampleClient(baseURL string) *SampleClient {
	return &SampleClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ServiceError is a non-2xx answer from the data service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("sample service: %d: %s", e.StatusCode, e.Message)
}

// FetchSamples retrieves the observation series for one technology:
// GET {base}/v1/technologies/{name}/samples, answered in the same JSON
// shape the inline document block uses.
func (c *SampleClient) FetchSamples(ctx context.Context, technology string) ([]model.Sample, error) {
	if technology == "" {
		return nil, fmt.Errorf("technology name is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath("v1", "technologies", technology, "samples")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	var doc samplesJSON
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode samples for %q: %w", technology, err)
	}
	return assembleSamples(u.String(), doc)
}
