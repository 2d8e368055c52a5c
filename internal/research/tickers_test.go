package research

import "testing"

func TestExtractTicker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Tesla TSLA", "TSLA"},
		{"AAPL", "AAPL"},
		{"tesla", "TSLA"},
		{"Research Apple", "AAPL"},
		{"bank of america", "BAC"},
		{"some random startup", ""},
		{"", ""},
		{"A", ""},
	}

	for _, tc := range tests {
		if got := extractTicker(tc.input); got != tc.want {
			t.Errorf("extractTicker(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestExtractTickerPrefersEmbeddedSymbol(t *testing.T) {
	t.Parallel()

	// An explicit symbol beats the name table.
	if got := extractTicker("apple MSFT"); got != "MSFT" {
		t.Errorf("expected embedded symbol to win, got %q", got)
	}
}
