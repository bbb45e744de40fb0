package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/bharat3645/NomadAI/internal/config"
)

// NoResultsMessage is the user-visible text for an empty result set.
const NoResultsMessage = "No relevant places found."

// UnavailableMessage is the user-visible text for any transport or
// decode failure. The adapter never surfaces an error to the caller.
const UnavailableMessage = "Sorry, I couldn't fetch live location data right now."

const textSearchPath = "/maps/api/place/textsearch/json"

// Client queries the places text-search API and formats results for the
// prompt builder.
type Client struct {
	apiKey     string
	baseURL    string
	locality   string
	httpClient *http.Client
}

// NewClient builds a places client with the configured short timeout.
func NewClient(cfg config.PlacesConfig) *Client {
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		locality: cfg.Locality,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Status  string         `json:"status"`
}

type searchResult struct {
	Name             string   `json:"name"`
	Rating           *float64 `json:"rating"`
	FormattedAddress string   `json:"formatted_address"`
}

// Search runs a text search scoped to the configured locality and
// formats the top three results as a human-readable block. Failures are
// swallowed into UnavailableMessage.
func (c *Client) Search(ctx context.Context, query string) string {
	endpoint := fmt.Sprintf("%s%s?query=%s&key=%s",
		c.baseURL,
		textSearchPath,
		url.QueryEscape(fmt.Sprintf("%s in %s", query, c.locality)),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("[places] build request failed: %v", err)
		return UnavailableMessage
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[places] text search request failed: %v", err)
		return UnavailableMessage
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[places] text search returned status %d", resp.StatusCode)
		return UnavailableMessage
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[places] decode response failed: %v", err)
		return UnavailableMessage
	}

	if len(payload.Results) == 0 {
		return NoResultsMessage
	}

	return formatResults(payload.Results)
}

// formatResults renders up to three places, one per line, in a shape the
// generator can weave into conversational text.
func formatResults(results []searchResult) string {
	const maxResults = 3

	limit := len(results)
	if limit > maxResults {
		limit = maxResults
	}

	lines := make([]string, 0, limit)
	for _, place := range results[:limit] {
		rating := "N/A"
		if place.Rating != nil {
			rating = fmt.Sprintf("%.1f", *place.Rating)
		}
		address := place.FormattedAddress
		if address == "" {
			address = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- Name: %s, Rating: %s, Address: %s", place.Name, rating, address))
	}
	return strings.Join(lines, "\n")
}
