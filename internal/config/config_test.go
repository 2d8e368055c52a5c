package config

import (
	"testing"

	"github.com/Shashank29160/AccountGen/internal/research"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("unexpected default port %q", cfg.Port)
	}
	if len(cfg.SourceOrder) != 3 || cfg.SourceOrder[0] != research.SourceYahoo {
		t.Errorf("unexpected default source order %v", cfg.SourceOrder)
	}
	if cfg.ConversationLog.Enabled {
		t.Error("conversation logging should default to off")
	}
}

func TestLoadSourceOrderOverride(t *testing.T) {
	t.Setenv("SOURCE_ORDER", "fmp, yahoo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []research.Source{research.SourceFMP, research.SourceYahoo}
	if len(cfg.SourceOrder) != len(want) {
		t.Fatalf("unexpected order %v", cfg.SourceOrder)
	}
	for i := range want {
		if cfg.SourceOrder[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, cfg.SourceOrder[i], want[i])
		}
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("SOURCE_ORDER", "yahoo,bloomberg")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		frontendURL string
		want        bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"https://app.example.com", false},
	}
	for _, tc := range tests {
		cfg := &Config{FrontendURL: tc.frontendURL}
		if got := cfg.IsDevelopment(); got != tc.want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tc.frontendURL, got, tc.want)
		}
	}
}

func TestSourceConfigAssembly(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("FMP_API_KEY", "fmp-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sc := cfg.SourceConfig()
	if sc.AlphaVantageAPIKey != "test-key" {
		t.Errorf("alpha vantage key not wired: %q", sc.AlphaVantageAPIKey)
	}
	if sc.FMPAPIKey != "fmp-key" {
		t.Errorf("fmp key not wired: %q", sc.FMPAPIKey)
	}
	if sc.YahooBaseURL == "" {
		t.Error("base URLs not defaulted")
	}
}
