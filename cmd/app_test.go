package cmd

import (
	"testing"
	"time"

	"github.com/lattice-fi/lattice"
)

func TestParseDay(t *testing.T) {
	got, err := parseDay("2017-06-01")
	if err != nil {
		t.Fatalf("parseDay() error: %v", err)
	}
	want := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDay() = %v, want %v", got, want)
	}

	for _, invalid := range []string{"", "01/06/2017", "2017-6-1", "yesterday"} {
		if _, err := parseDay(invalid); err == nil {
			t.Errorf("parseDay(%q) should fail", invalid)
		}
	}
}

func TestParseWeights(t *testing.T) {
	weights, err := parseWeights("BTC=60, eth=40")
	if err != nil {
		t.Fatalf("parseWeights() error: %v", err)
	}
	if len(weights) != 2 || weights["BTC"] != 60 || weights["ETH"] != 40 {
		t.Errorf("parseWeights() = %v", weights)
	}

	for _, invalid := range []string{
		"",
		"BTC",
		"BTC=sixty",
		"BTC=0",
		"BTC=-10",
		"=50",
		"BTC=60,ETH=60", // over 100
	} {
		if _, err := parseWeights(invalid); err == nil {
			t.Errorf("parseWeights(%q) should fail", invalid)
		}
	}
}

func TestBaseAsset(t *testing.T) {
	tests := []struct {
		product string
		want    lattice.AssetID
	}{
		{"BTC-USD", "BTC"},
		{"eth-eur", "ETH"},
		{"LTC", "LTC"},
	}
	for _, tc := range tests {
		if got := baseAsset(tc.product); got != tc.want {
			t.Errorf("baseAsset(%q) = %q, want %q", tc.product, got, tc.want)
		}
	}
}
