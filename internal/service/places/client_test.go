package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bharat3645/NomadAI/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.PlacesConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Locality: "Delhi",
		Timeout:  2 * time.Second,
	})
}

func TestSearchFormatsTopThreeResults(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[
			{"name":"Karim's","rating":4.4,"formatted_address":"Jama Masjid, Delhi"},
			{"name":"Al Jawahar","rating":4.2,"formatted_address":"Matia Mahal, Delhi"},
			{"name":"Moti Mahal","rating":4.0,"formatted_address":"Daryaganj, Delhi"},
			{"name":"Fourth Place","rating":3.9,"formatted_address":"Somewhere"}
		]}`))
	}))
	defer server.Close()

	got := newTestClient(server.URL).Search(context.Background(), "best kebabs")

	if gotQuery.Get("query") != "best kebabs in Delhi" {
		t.Fatalf("locality qualifier missing, query=%q", gotQuery.Get("query"))
	}
	if gotQuery.Get("key") != "test-key" {
		t.Fatalf("api key missing from request")
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "- Name: Karim's, Rating: 4.4, Address: Jama Masjid, Delhi" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestSearchMissingRatingRendersNA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"name":"New Spot","formatted_address":"Hauz Khas"}]}`))
	}))
	defer server.Close()

	got := newTestClient(server.URL).Search(context.Background(), "coffee")
	if got != "- Name: New Spot, Rating: N/A, Address: Hauz Khas" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}

func TestSearchEmptyResultsYieldsNoResultsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	got := newTestClient(server.URL).Search(context.Background(), "unobtainium shops")
	if got != NoResultsMessage {
		t.Fatalf("expected %q, got %q", NoResultsMessage, got)
	}
}

func TestSearchServerErrorYieldsUnavailableMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	got := newTestClient(server.URL).Search(context.Background(), "anything")
	if got != UnavailableMessage {
		t.Fatalf("expected %q, got %q", UnavailableMessage, got)
	}
}

func TestSearchTransportErrorYieldsUnavailableMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	got := newTestClient(server.URL).Search(context.Background(), "anything")
	if got != UnavailableMessage {
		t.Fatalf("expected %q, got %q", UnavailableMessage, got)
	}
}

func TestSearchMalformedBodyYieldsUnavailableMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	got := newTestClient(server.URL).Search(context.Background(), "anything")
	if got != UnavailableMessage {
		t.Fatalf("expected %q, got %q", UnavailableMessage, got)
	}
}
