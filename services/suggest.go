package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const suggestPrompt = "Create one open-ended and engaging question for an anonymous social messaging platform. " +
	"The question should be suitable for a diverse audience, avoiding personal or sensitive topics. " +
	"Focus on universal themes that encourage friendly interaction and curiosity."

// maxSuggestBody bounds how much of the upstream answer is relayed.
const maxSuggestBody = 1 << 20

// Suggester asks a generative-language endpoint for a conversation starter and
// relays its JSON answer untouched.
type Suggester struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewSuggester(endpoint string, apiKey string) *Suggester {
	return &Suggester{
		client:   &http.Client{Timeout: 20 * time.Second},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

type suggestPart struct {
	Text string `json:"text"`
}

type suggestContent struct {
	Parts []suggestPart `json:"parts"`
}

type suggestReq struct {
	Contents []suggestContent `json:"contents"`
}

func (s *Suggester) Suggest(ctx context.Context) (json.RawMessage, error) {
	body, err := json.Marshal(suggestReq{
		Contents: []suggestContent{{Parts: []suggestPart{{Text: suggestPrompt}}}},
	})
	if err != nil {
		return nil, err
	}
	target, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("suggest endpoint: %w", err)
	}
	query := target.Query()
	query.Set("key", s.apiKey)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxSuggestBody))
	if err != nil {
		return nil, fmt.Errorf("suggest response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest upstream returned %d", res.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("suggest upstream returned invalid JSON")
	}
	return raw, nil
}
