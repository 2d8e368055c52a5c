package dispatch

import (
	"fmt"
	"strings"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// followupSliceFrom is where the "additional items" templates start quoting
// lists, since the first items were already shown in the initial answer.
const followupSliceFrom = 3

var thinkingSteps = []string{
	"Searching financial reports and market data...",
	"Analyzing company fundamentals and performance...",
	"Gathering leadership information...",
	"Researching strategic initiatives...",
}

var greetings = []string{
	"Great!",
	"Perfect!",
	"Excellent!",
	"Alright,",
	"Got it!",
	"Understood!",
}

// numberedList renders items as "1. ...\n2. ...".
func numberedList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

// sliceFrom returns items from index start onward, or nil when exhausted.
func sliceFrom(items []string, start int) []string {
	if start >= len(items) {
		return nil
	}
	return items[start:]
}

// respondToIntent fills the response template for one classified intent,
// quoting the bound company's document fields.
func respondToIntent(intent Intent, data *domain.CompanyData, lastTopics []string) string {
	name := data.Name

	switch intent {
	case IntentFinancial:
		return fmt.Sprintf("Based on my research, here's the financial performance for %s:\n\n%s\n\nWould you like me to dive deeper into any specific financial metric, or would you prefer to explore other aspects of %s?",
			name, data.FinancialPerformance, name)

	case IntentRisk:
		return fmt.Sprintf("Here are the key risks and challenges facing %s:\n\n%s\n\nThese risks are important to consider when developing your account strategy. Would you like me to explore potential mitigation strategies, or discuss their growth opportunities?",
			name, numberedList(data.RisksOpportunities.Risks))

	case IntentOpportunity:
		return fmt.Sprintf("Great question! %s has several promising growth opportunities:\n\n%s\n\nThese opportunities could be valuable entry points for your account plan. Should we explore how to align your solutions with any of these areas?",
			name, numberedList(data.RisksOpportunities.Opportunities))

	case IntentStrategy:
		return fmt.Sprintf("Here are the strategic goals and initiatives for %s:\n\n%s\n\nUnderstanding their strategic direction is crucial for positioning your offerings. Would you like to explore how these goals relate to their financial performance or risk profile?",
			name, numberedList(data.StrategicGoals))

	case IntentLeadership:
		return fmt.Sprintf("Here are the key decision makers at %s:\n\n%s\n\nThese are the stakeholders you'll want to engage with. Would you like me to help identify which roles might be most relevant for your account strategy?",
			name, numberedList(data.KeyDecisionMakers))

	case IntentSummary:
		return fmt.Sprintf("Here's an executive summary for %s:\n\n%s\n\nThis gives you a high-level view. What aspect would you like to explore in more detail - their financials, strategy, leadership, or market position?",
			name, data.ExecutiveSummary)

	case IntentRiskFollowup:
		return fmt.Sprintf("Building on the risks we discussed, here are additional considerations for %s:\n\n%s\n\nIt's also worth noting that %s has several opportunities that could help mitigate these challenges. Would you like me to explore those?",
			name, numberedList(sliceFrom(data.RisksOpportunities.Risks, followupSliceFrom)), name)

	case IntentOpportunityFollowup:
		return fmt.Sprintf("Expanding on the opportunities, here are additional growth areas for %s:\n\n%s\n\nThese align well with their strategic goals. Should we discuss how their leadership team is positioned to execute on these opportunities?",
			name, numberedList(sliceFrom(data.RisksOpportunities.Opportunities, followupSliceFrom)))

	case IntentFinancialFollowup:
		return fmt.Sprintf("To add more context to the financial discussion, %s's financial performance reflects their strategic priorities. Their %s aligns with their focus on %s.\n\nWould you like to explore how their financial position impacts their risk profile or growth opportunities?",
			name, financialHighlight(data), firstGoalLower(data))

	case IntentStrategyFollowup:
		return fmt.Sprintf("To elaborate on their strategy, %s is also focused on:\n\n%s\n\nThese strategic goals are supported by their leadership team and financial resources. Would you like to explore how these initiatives relate to their market opportunities?",
			name, numberedList(sliceFrom(data.StrategicGoals, followupSliceFrom)))

	case IntentLeadershipFollowup:
		return fmt.Sprintf("Regarding their leadership structure, %s's decision-making framework involves multiple stakeholders. The %s plays a crucial role in %s.\n\nWould you like to understand how their organizational structure supports their strategic goals?",
			name, firstLeaderRole(data), firstGoalLower(data))

	case IntentComparison:
		return fmt.Sprintf("I'd be happy to help you compare %s with another company. To do that, please tell me which company you'd like to compare them with. For example, you could say \"Compare %s with Microsoft\" or \"Show me how %s compares to Apple\".",
			name, name, name)

	default:
		return respondGeneral(name, lastTopics)
	}
}

// respondGeneral offers a menu of the topics not yet covered by the trailing
// agent messages.
func respondGeneral(name string, lastTopics []string) string {
	discussed := func(words ...string) bool {
		for _, topic := range lastTopics {
			for _, w := range words {
				if strings.Contains(topic, w) {
					return true
				}
			}
		}
		return false
	}

	var suggestion strings.Builder
	if !discussed("financial", "revenue") {
		suggestion.WriteString("• Financial performance and revenue trends\n")
	}
	if !discussed("strategy", "goal") {
		suggestion.WriteString("• Strategic goals and initiatives\n")
	}
	if !discussed("risk", "challenge") {
		suggestion.WriteString("• Risks and challenges\n")
	}
	suggestion.WriteString("• Growth opportunities\n• Leadership and key decision makers\n• Executive summary")

	return fmt.Sprintf("I understand you're asking about %s. Let me help you explore what's most relevant. Based on our conversation, here are some areas we could dive into:\n\n%s\n\nWhat would you like to know more about? You can ask specific questions like \"What are their main risks?\" or \"Tell me about their financial performance.\"",
		name, suggestion.String())
}

// financialHighlight picks the first bullet from the performance section, or
// a generic phrase when the section is too short.
func financialHighlight(data *domain.CompanyData) string {
	lines := strings.Split(data.FinancialPerformance, "\n")
	if len(lines) > 2 && strings.TrimSpace(lines[2]) != "" {
		return strings.TrimPrefix(strings.TrimSpace(lines[2]), "• ")
	}
	return "strong revenue growth"
}

func firstGoalLower(data *domain.CompanyData) string {
	if len(data.StrategicGoals) > 0 {
		return strings.ToLower(data.StrategicGoals[0])
	}
	return "strategic initiatives"
}

func firstLeaderRole(data *domain.CompanyData) string {
	if len(data.KeyDecisionMakers) > 0 {
		role, _, _ := strings.Cut(data.KeyDecisionMakers[0], " - ")
		return role
	}
	return "executive team"
}
