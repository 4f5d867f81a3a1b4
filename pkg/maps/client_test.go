package maps

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClientGeocodeRequest(t *testing.T) {
	respBody := `{"status":"OK","results":[{"place_id":"place_123","formatted_address":"12 MG Road, Bengaluru","geometry":{"location":{"lat":12.9752,"lng":77.6057}}}]}`

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/api"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Geocode(context.Background(), "12 MG Road Bengaluru")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}

	if !strings.HasPrefix(capturedURL, "http://maps.test/api/geocode/json?") {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if !strings.Contains(capturedURL, "key=test-key") {
		t.Fatalf("api key missing from URL %q", capturedURL)
	}
	if !strings.Contains(capturedURL, "region=in") {
		t.Fatalf("region bias missing from URL %q", capturedURL)
	}

	if result.PlaceID != "place_123" {
		t.Fatalf("unexpected place id %q", result.PlaceID)
	}
	if result.Location.Lat != 12.9752 || result.Location.Lng != 77.6057 {
		t.Fatalf("unexpected location %+v", result.Location)
	}
}

func TestClientGeocodeZeroResults(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"ZERO_RESULTS","results":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/api"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Geocode(context.Background(), "nowhere at all"); err == nil {
		t.Fatal("expected not-found error for zero results")
	}
}

func TestClientGeocodeValidation(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Geocode(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error for blank address")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
