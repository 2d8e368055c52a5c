package research

import (
	"regexp"
	"strings"
)

// companyTickers maps well-known company names to their ticker symbols.
var companyTickers = map[string]string{
	"apple":            "AAPL",
	"microsoft":        "MSFT",
	"google":           "GOOGL",
	"alphabet":         "GOOGL",
	"amazon":           "AMZN",
	"tesla":            "TSLA",
	"meta":             "META",
	"facebook":         "META",
	"nvidia":           "NVDA",
	"netflix":          "NFLX",
	"oracle":           "ORCL",
	"ibm":              "IBM",
	"intel":            "INTC",
	"amd":              "AMD",
	"salesforce":       "CRM",
	"adobe":            "ADBE",
	"cisco":            "CSCO",
	"jpmorgan":         "JPM",
	"bank of america":  "BAC",
	"goldman sachs":    "GS",
	"morgan stanley":   "MS",
	"walmart":          "WMT",
	"target":           "TGT",
	"costco":           "COST",
	"starbucks":        "SBUX",
	"mcdonalds":        "MCD",
	"coca cola":        "KO",
	"pepsi":            "PEP",
	"disney":           "DIS",
	"boeing":           "BA",
	"general electric": "GE",
	"ford":             "F",
	"general motors":   "GM",
}

var embeddedTickerPattern = regexp.MustCompile(`\b([A-Z]{2,5})\b`)

// extractTicker finds a ticker symbol for a free-text company name: an
// embedded 2-5 letter uppercase token wins, otherwise the static table is
// searched by case-insensitive substring match.
func extractTicker(companyName string) string {
	if match := embeddedTickerPattern.FindStringSubmatch(companyName); match != nil {
		return match[1]
	}

	normalized := strings.ToLower(strings.TrimSpace(companyName))
	for name, ticker := range companyTickers {
		if strings.Contains(normalized, name) {
			return ticker
		}
	}

	return ""
}
