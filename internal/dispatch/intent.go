package dispatch

import "strings"

// Intent classifies one user utterance about a bound company.
type Intent string

const (
	IntentFinancial           Intent = "financial"
	IntentRisk                Intent = "risk"
	IntentOpportunity         Intent = "opportunity"
	IntentStrategy            Intent = "strategy"
	IntentLeadership          Intent = "leadership"
	IntentSummary             Intent = "summary"
	IntentComparison          Intent = "comparison"
	IntentGeneral             Intent = "general"
	IntentFinancialFollowup   Intent = "financial_followup"
	IntentRiskFollowup        Intent = "risk_followup"
	IntentOpportunityFollowup Intent = "opportunity_followup"
	IntentStrategyFollowup    Intent = "strategy_followup"
	IntentLeadershipFollowup  Intent = "leadership_followup"
)

// Keyword tables are static configuration, kept separate from the dispatch
// logic so tests can exercise classification directly.
var (
	financialKeywords = []string{
		"revenue", "financial", "earnings", "profit", "income", "sales",
		"revenue growth", "financial performance", "how much", "what is the revenue",
		"profitability", "money", "cash", "funding", "valuation", "market cap",
		"stock price", "dividend", "margin",
	}
	riskKeywords = []string{
		"risk", "challenge", "threat", "concern", "problem", "issue",
		"vulnerability", "weakness", "what are the risks", "challenges",
		"worries", "concerns", "threats", "downside", "negative",
	}
	opportunityKeywords = []string{
		"opportunit", "growth", "potential", "prospect", "advantage",
		"strength", "upside", "what are the opportunities", "growth potential",
		"positive", "strengths", "advantages",
	}
	strategyKeywords = []string{
		"strategy", "goal", "plan", "objective", "initiative", "direction",
		"vision", "roadmap", "strategic plan", "what is their strategy",
		"priorities", "focus", "approach", "plans",
	}
	leadershipKeywords = []string{
		"leader", "executive", "management", "ceo", "cfo", "cto",
		"decision maker", "who is", "leadership", "management team", "boss",
		"director", "vp", "vice president", "head of", "stakeholder",
	}
	summaryKeywords = []string{
		"summary", "overview", "tell me about", "explain", "describe",
		"what is", "who are", "general", "brief", "quick", "high level",
	}
	comparisonKeywords = []string{
		"compare", "vs", "versus", "difference", "better", "similar",
		"different", "against",
	}
	followUpKeywords = []string{
		"more", "also", "additionally", "what else", "anything else",
		"tell me more", "elaborate", "expand", "further", "continue", "go on",
	}
	researchKeywords = []string{
		"research", "analyze", "tell me about", "show me", "find", "look up",
		"search for", "information about", "data on", "details about",
		"what is", "who is", "tell me", "learn about", "get info",
	}
	companyIndicators = []string{
		"inc", "corp", "ltd", "llc", "company", "technologies", "systems",
	}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// detectIntent classifies a lowercased utterance in the context of the
// trailing agent messages (also lowercased). Follow-up variants win when a
// continuation keyword is present and the topic was already on the table.
func detectIntent(lowerQuery string, lastTopics []string) Intent {
	if containsAny(lowerQuery, followUpKeywords) {
		recent := strings.Join(lastTopics, " ")
		switch {
		case strings.Contains(recent, "risk") || strings.Contains(recent, "challenge"):
			return IntentRiskFollowup
		case strings.Contains(recent, "opportunit") || strings.Contains(recent, "growth"):
			return IntentOpportunityFollowup
		case strings.Contains(recent, "financial") || strings.Contains(recent, "revenue"):
			return IntentFinancialFollowup
		case strings.Contains(recent, "strategy") || strings.Contains(recent, "goal"):
			return IntentStrategyFollowup
		case strings.Contains(recent, "leader") || strings.Contains(recent, "executive"):
			return IntentLeadershipFollowup
		}
	}

	switch {
	case containsAny(lowerQuery, financialKeywords):
		return IntentFinancial
	case containsAny(lowerQuery, riskKeywords):
		return IntentRisk
	case containsAny(lowerQuery, opportunityKeywords):
		return IntentOpportunity
	case containsAny(lowerQuery, strategyKeywords):
		return IntentStrategy
	case containsAny(lowerQuery, leadershipKeywords):
		return IntentLeadership
	case containsAny(lowerQuery, comparisonKeywords):
		return IntentComparison
	case containsAny(lowerQuery, summaryKeywords):
		return IntentSummary
	default:
		return IntentGeneral
	}
}

// RouteKind says how the chat endpoint should handle an utterance before any
// company-specific intent is considered.
type RouteKind int

const (
	RouteFollowUp RouteKind = iota
	RouteResearch
	RouteComparison
)

// ClassifyUtterance picks the top-level route for an utterance. Comparison
// requires an already-bound company; research is keyword- or shape-based,
// with a long unpunctuated phrase treated as a probable company name when no
// company is bound yet.
func ClassifyUtterance(text string, hasCompany bool) RouteKind {
	lower := strings.ToLower(text)

	if hasCompany && (strings.Contains(lower, "compare") || strings.Contains(lower, "vs") || strings.Contains(lower, "versus")) {
		return RouteComparison
	}

	if containsAny(lower, researchKeywords) {
		return RouteResearch
	}
	if len(text) > 5 && containsAny(lower, companyIndicators) {
		return RouteResearch
	}
	if len(text) > 8 && !strings.Contains(lower, "?") && !hasCompany {
		return RouteResearch
	}

	return RouteFollowUp
}
