package research

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// knownCompany is one precomputed fallback profile definition.
type knownCompany struct {
	displayName string
	ticker      string
	industry    string
}

// knownCompanies are matched by substring against the normalized query when
// every external source came up empty.
var knownCompanies = map[string]knownCompany{
	"tesla":     {"Tesla Inc.", "TSLA", "automotive"},
	"apple":     {"Apple Inc.", "AAPL", "technology"},
	"microsoft": {"Microsoft Corporation", "MSFT", "technology"},
	"google":    {"Alphabet Inc.", "GOOGL", "technology"},
	"alphabet":  {"Alphabet Inc.", "GOOGL", "technology"},
	"amazon":    {"Amazon.com Inc.", "AMZN", "e-commerce"},
	"meta":      {"Meta Platforms Inc.", "META", "technology"},
	"facebook":  {"Meta Platforms Inc.", "META", "technology"},
	"nvidia":    {"NVIDIA Corporation", "NVDA", "technology"},
	"netflix":   {"Netflix Inc.", "NFLX", "entertainment"},
}

// industryMetrics hold the templated financial figures per industry.
type industryMetrics struct {
	revenue    string
	margin     string
	investment string
}

var industryMetricsByName = map[string]industryMetrics{
	"technology": {
		revenue:    "15-25% YoY growth",
		margin:     "35-45% operating margin",
		investment: "R&D expenditure at 18-22% of revenue",
	},
	"automotive": {
		revenue:    "8-15% YoY growth",
		margin:     "8-12% operating margin",
		investment: "Capital expenditure focused on electrification and automation",
	},
	"e-commerce": {
		revenue:    "20-30% YoY growth",
		margin:     "5-10% operating margin",
		investment: "Heavy investment in logistics and fulfillment infrastructure",
	},
	"entertainment": {
		revenue:    "10-18% YoY growth",
		margin:     "18-25% operating margin",
		investment: "Content acquisition costs representing 60-70% of revenue",
	},
	"general": {
		revenue:    "10-15% YoY growth",
		margin:     "12-18% operating margin",
		investment: "Strategic capital allocation across growth initiatives",
	},
}

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9\s]`)

// lookupKnownCompany matches the query against the fallback table by
// substring in either direction ("tesla motors" hits "tesla"; "app" hits
// "apple").
func lookupKnownCompany(query string) (knownCompany, bool) {
	normalized := nonAlnumPattern.ReplaceAllString(strings.ToLower(query), "")
	normalized = strings.TrimSpace(normalized)
	// Too short for the reverse containment check to be meaningful.
	if len(normalized) <= 2 {
		return knownCompany{}, false
	}
	for key, company := range knownCompanies {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return company, true
		}
	}
	return knownCompany{}, false
}

// guessIndustry picks a profile template from keywords in the company name.
func guessIndustry(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "tech") || strings.Contains(lower, "soft") || strings.Contains(lower, "data") || strings.Contains(lower, "cloud"):
		return "technology"
	case strings.Contains(lower, "motor") || strings.Contains(lower, "auto"):
		return "automotive"
	case strings.Contains(lower, "commerce") || strings.Contains(lower, "retail") || strings.Contains(lower, "shop"):
		return "e-commerce"
	case strings.Contains(lower, "media") || strings.Contains(lower, "entertainment") || strings.Contains(lower, "studio"):
		return "entertainment"
	default:
		return "general"
	}
}

// synthesizeProfile generates a templated profile used when no live data is
// available. The current year and quarter are interpolated into the text.
func synthesizeProfile(name, ticker, industry string, now time.Time) domain.CompanyData {
	currentYear := now.Year()
	previousYear := currentYear - 1
	lastQuarter := fmt.Sprintf("Q%d %d", (int(now.Month())+2)/3, currentYear)

	metrics, ok := industryMetricsByName[industry]
	if !ok {
		metrics = industryMetricsByName["general"]
	}

	displayName := name
	if ticker != "" && ticker != "N/A" {
		displayName = fmt.Sprintf("%s (%s)", name, ticker)
	}

	return domain.CompanyData{
		Name: displayName,
		ExecutiveSummary: fmt.Sprintf(
			"%s has established itself as a prominent player in the %s sector, demonstrating resilient performance throughout %d and into %d. "+
				"The company has successfully navigated market complexities while maintaining operational excellence and strategic focus. "+
				"With a strong foundation in core competencies and a forward-looking innovation agenda, %s continues to deliver value to stakeholders while positioning for sustainable long-term growth. "+
				"The organization's leadership team has prioritized strategic investments that balance near-term profitability with future market opportunities.",
			name, industry, previousYear, currentYear, name),
		FinancialPerformance: fmt.Sprintf(
			"%s Financial Highlights:\n\n"+
				"• Revenue Performance: %s, driven by strong demand across key product lines and successful market expansion initiatives\n"+
				"• Profitability Metrics: %s, reflecting operational discipline and economies of scale\n"+
				"• Balance Sheet Strength: Robust cash position with minimal debt obligations, providing strategic flexibility for investments and capital returns\n"+
				"• Cash Flow Generation: Strong free cash flow conversion enabling continued investment in growth while maintaining healthy dividend policy\n"+
				"• %s\n"+
				"• Analyst consensus remains positive with price targets reflecting confidence in execution capabilities",
			lastQuarter, metrics.revenue, metrics.margin, metrics.investment),
		KeyDecisionMakers: []string{
			"Chief Executive Officer - Oversees overall strategy, shareholder relations, and long-term vision",
			"Chief Financial Officer - Manages financial planning, capital allocation, and investor communications",
			"Chief Operating Officer - Drives operational excellence, supply chain optimization, and process improvement",
			"Chief Technology Officer - Leads innovation roadmap, digital transformation, and technical architecture",
			"Chief Marketing Officer - Directs brand strategy, customer engagement, and market positioning",
			"VP of Corporate Development - Spearheads M&A activities, strategic partnerships, and business expansion",
		},
		StrategicGoals: []string{
			"Accelerate market penetration in high-growth segments while defending core market position",
			"Execute comprehensive digital transformation to enhance operational efficiency and customer experience",
			"Scale innovation pipeline through increased R&D investment and strategic technology partnerships",
			"Build sustainable competitive advantages through proprietary capabilities and ecosystem development",
			"Optimize customer lifetime value through enhanced retention programs and service excellence",
			"Pursue value-accretive acquisitions that complement core business and expand addressable market",
			"Strengthen organizational capabilities through talent development and culture transformation",
		},
		RisksOpportunities: domain.RisksOpportunities{
			Risks: []string{
				"Macroeconomic uncertainty and potential recession impacting consumer spending and business investment",
				"Intensifying competitive pressure from both established players and agile new entrants",
				"Regulatory landscape evolution requiring significant compliance investments and operational adjustments",
				"Supply chain vulnerabilities exposed by geopolitical tensions and trade policy changes",
				"Technology disruption risk requiring continuous innovation to maintain competitive relevance",
				"Cybersecurity threats and data privacy concerns demanding robust risk management frameworks",
				"Talent acquisition and retention challenges in competitive labor markets",
			},
			Opportunities: []string{
				"Expanding total addressable market driven by demographic shifts and evolving customer needs",
				"Geographic expansion into high-growth emerging markets with favorable economic trajectories",
				"Product portfolio diversification through organic development and strategic acquisitions",
				"Strategic alliance formation to access new capabilities, markets, and customer segments",
				"Digital transformation initiatives enabling new business models and revenue streams",
				"Market consolidation trends creating opportunities for accretive M&A transactions",
				"Sustainability initiatives differentiating brand and opening new market segments",
				"AI and automation adoption driving margin expansion and competitive positioning",
			},
		},
	}
}
