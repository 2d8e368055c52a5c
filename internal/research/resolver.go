// Package research maps free-text company names to structured research
// documents, preferring live financial data and degrading to deterministic
// synthetic profiles.
package research

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// ErrNotFound is returned when the input is too short to guess at and no
// ticker or table entry matched. Every longer input produces some profile.
var ErrNotFound = errors.New("research: company not found")

// Resolver turns a company-name query into a CompanyData document.
type Resolver struct {
	client *SourceClient
	now    func() time.Time
}

// NewResolver creates a resolver backed by the given source client.
func NewResolver(client *SourceClient) *Resolver {
	return &Resolver{
		client: client,
		now:    time.Now,
	}
}

// Resolve produces a CompanyData record for the query.
//
// Live sources are tried first when a ticker can be determined; any source
// failure silently falls through. With no live data the static fallback table
// is consulted, and as a last resort a profile is synthesized from an
// industry template. Only degenerate input (two characters or fewer with no
// match) yields ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, query string) (domain.CompanyData, error) {
	name := strings.TrimSpace(query)

	if ticker := extractTicker(name); ticker != "" {
		if snap := r.client.FetchByTicker(ctx, ticker); snap != nil {
			slog.Info("resolved company from live data", "query", name, "ticker", ticker, "name", snap.Name)
			return buildCompanyData(snap, name, r.now()), nil
		}
		slog.Info("no live data for ticker, using fallback", "query", name, "ticker", ticker)
	}

	if company, ok := lookupKnownCompany(name); ok {
		return synthesizeProfile(company.displayName, company.ticker, company.industry, r.now()), nil
	}

	if len(name) > 2 {
		return synthesizeProfile(name, "N/A", guessIndustry(name), r.now()), nil
	}

	return domain.CompanyData{}, ErrNotFound
}

// SuggestedPrompts returns example queries shown to a user with an empty
// conversation.
func SuggestedPrompts() []string {
	return []string{
		"Research Apple Inc",
		"Analyze Microsoft's strategy",
		"Show me Tesla's financials",
		"Research Amazon AMZN",
	}
}
