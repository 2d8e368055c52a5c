// Package dispatch classifies user utterances and produces the assistant's
// responses, routing research requests to the resolver and follow-up
// questions to templated answers over the bound company document.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/research"
)

// contextWindow is how many trailing messages inform classification.
const contextWindow = 10

// HistoryRecorder saves a completed research result for later recall.
type HistoryRecorder interface {
	Record(ctx context.Context, userID, companyName string, data domain.CompanyData) error
}

// Service is the conversation dispatcher.
type Service struct {
	resolver *research.Resolver
	history  HistoryRecorder

	// sleep and greet are swapped out in tests.
	sleep func(ctx context.Context, d time.Duration)
	greet func() string
}

// NewService creates a dispatcher. history may be nil, in which case research
// results are not recorded.
func NewService(resolver *research.Resolver, history HistoryRecorder) *Service {
	return &Service{
		resolver: resolver,
		history:  history,
		sleep:    sleepContext,
		greet:    randomGreeting,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func randomGreeting() string {
	return greetings[rand.Intn(len(greetings))]
}

// SearchCompany runs a full research flow: progress status messages, then
// either a confirmation referencing the resolved company or guidance when
// nothing could be found. emit, when non-nil, receives each message as it is
// produced so transports can stream them.
func (s *Service) SearchCompany(ctx context.Context, userID, query string, emit func(domain.AgentMessage)) ([]domain.AgentMessage, *domain.CompanyData, error) {
	var messages []domain.AgentMessage
	push := func(msg domain.AgentMessage) {
		messages = append(messages, msg)
		if emit != nil {
			emit(msg)
		}
	}

	for _, step := range thinkingSteps {
		s.sleep(ctx, 800*time.Millisecond)
		push(domain.NewStatusMessage(step))
	}

	data, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		if !errors.Is(err, research.ErrNotFound) {
			slog.Error("research failed", "query", query, "error", err)
			push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
				"I encountered an issue while researching %q. This might be due to:\n• Company name not recognized\n• Limited public information available\n• Network connectivity issues\n\nPlease try again or search for a different company.", query)))
			return messages, nil, nil
		}
		push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
			"I searched multiple financial databases and news sources but couldn't find comprehensive data for %q. Please try:\n• Using the full legal company name\n• Including ticker symbol (e.g., \"Tesla TSLA\")\n• Checking spelling\n\nI can research any publicly traded company with available market data.", query)))
		return messages, nil, nil
	}

	if s.history != nil {
		if err := s.history.Record(ctx, userID, query, data); err != nil {
			slog.Warn("failed to record research history", "user_id", userID, "company", data.Name, "error", err)
		}
	}

	push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
		"%s I've completed comprehensive research on %s. I've gathered their financial performance, key decision makers, strategic goals, and identified both risks and opportunities.\n\nYou can now ask me specific questions about %s, such as:\n• \"What are their main risks?\"\n• \"Tell me about their financial performance\"\n• \"Who are the key decision makers?\"\n• \"What growth opportunities do they have?\"\n\nOr feel free to explore the Account Plan document on the right - you can edit any section as needed. What would you like to know more about?",
		s.greet(), data.Name, data.Name)))

	return messages, &data, nil
}

// CompareCompany resolves a second company for side-by-side review. The flow
// mirrors SearchCompany but the confirmation references both companies and
// the result is meant for the session's comparison slot, leaving the primary
// company untouched.
func (s *Service) CompareCompany(ctx context.Context, userID, primaryName, targetQuery string, emit func(domain.AgentMessage)) ([]domain.AgentMessage, *domain.CompanyData, error) {
	var messages []domain.AgentMessage
	push := func(msg domain.AgentMessage) {
		messages = append(messages, msg)
		if emit != nil {
			emit(msg)
		}
	}

	if targetQuery == "" {
		push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
			"Which company would you like to compare %s with? For example, say \"Compare with Microsoft\".", primaryName)))
		return messages, nil, nil
	}

	s.sleep(ctx, 800*time.Millisecond)
	push(domain.NewStatusMessage(fmt.Sprintf("Researching %s for comparison...", targetQuery)))

	data, err := s.resolver.Resolve(ctx, targetQuery)
	if err != nil {
		push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
			"I couldn't find enough data on %q to build a comparison. Please try the full company name or a ticker symbol.", targetQuery)))
		return messages, nil, nil
	}

	if s.history != nil {
		if err := s.history.Record(ctx, userID, targetQuery, data); err != nil {
			slog.Warn("failed to record research history", "user_id", userID, "company", data.Name, "error", err)
		}
	}

	push(domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
		"I've gathered research on %s. You can now review %s and %s side by side - financials, leadership, strategy, risks and opportunities. Ask me about either company, or say \"exit compare\" to return to the single-company view.",
		data.Name, primaryName, data.Name)))

	return messages, &data, nil
}

// pronounRewrites maps second-person references onto the bound company name.
// Multi-word phrases come first so "this company" is not half-rewritten.
var pronounRewrites = []struct {
	pattern    string
	possessive bool
}{
	{"this company", false},
	{"the company", false},
	{"they", false},
	{"their", true},
	{"them", false},
	{"its", true},
	{"it", false},
}

func rewritePronouns(lowerQuery, companyName string) string {
	lowerName := strings.ToLower(companyName)
	for _, rw := range pronounRewrites {
		replacement := lowerName
		if rw.possessive {
			replacement = lowerName + "'s"
		}
		re := regexp.MustCompile(`\b` + rw.pattern + `\b`)
		lowerQuery = re.ReplaceAllString(lowerQuery, replacement)
	}
	return lowerQuery
}

var companyMentionPattern = regexp.MustCompile(`(?i)(?:research|completed|about)\s+([A-Z][a-zA-Z\s]+(?:Inc\.?|Corp\.?|Ltd\.?|LLC)?)`)
var companySuffixPattern = regexp.MustCompile(`(?i)(inc|corp|ltd|llc|technologies|systems|group|holdings)`)

// HandleFollowUp answers a question in the context of the bound company and
// the trailing conversation. It is synchronous apart from a short artificial
// delay for perceived responsiveness.
func (s *Service) HandleFollowUp(ctx context.Context, query string, bound *domain.CompanyData, history []domain.AgentMessage) domain.AgentMessage {
	s.sleep(ctx, time.Duration(400+rand.Intn(400))*time.Millisecond)

	if bound == nil {
		return s.handleUnbound(query, history)
	}

	lowerQuery := rewritePronouns(strings.ToLower(query), bound.Name)
	lastTopics := trailingAgentContent(history)
	intent := detectIntent(lowerQuery, lastTopics)

	slog.Debug("classified follow-up", "intent", intent, "company", bound.Name)
	return domain.NewMessage(domain.RoleAgent, respondToIntent(intent, bound, lastTopics))
}

// handleUnbound covers questions asked before any company is bound: recover
// a previously discussed company, recognize a bare company name, or fall
// back to onboarding guidance.
func (s *Service) handleUnbound(query string, history []domain.AgentMessage) domain.AgentMessage {
	recent := trailingMessages(history, contextWindow)

	var mentioned string
	for i := len(recent) - 1; i >= 0; i-- {
		msg := recent[i]
		if msg.Role != domain.RoleAgent {
			continue
		}
		if match := companyMentionPattern.FindStringSubmatch(msg.Content); match != nil {
			mentioned = strings.TrimSpace(match[1])
			break
		}
	}

	if mentioned != "" {
		return domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
			"I see we were discussing %s earlier. Would you like me to research a specific company, or continue with %s? You can say something like 'Research Apple' or 'Tell me about Microsoft', or ask me a question about %s.",
			mentioned, mentioned, mentioned))
	}

	looksLikeCompanyName := len(query) > 3 &&
		(len(strings.Fields(query)) <= 3 || companySuffixPattern.MatchString(query))
	if looksLikeCompanyName {
		return domain.NewMessage(domain.RoleAgent, fmt.Sprintf(
			"It looks like you might be asking about %q. Would you like me to research this company? I can gather comprehensive information including financials, leadership, strategy, and market insights. Just confirm and I'll get started!", query))
	}

	return domain.NewMessage(domain.RoleAgent,
		"I'm here to help you research companies and build account plans. Try searching for any publicly traded company by name or ticker symbol! For example, you could say 'Research Tesla' or 'Analyze Apple Inc'. What company would you like to explore?")
}

// ExtractComparisonTarget strips the comparison phrasing from an utterance,
// leaving the name of the second company.
func ExtractComparisonTarget(text string) string {
	re := regexp.MustCompile(`(?i)\b(compare|vs|versus|with|to)\b`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

func trailingMessages(history []domain.AgentMessage, n int) []domain.AgentMessage {
	if n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}

// trailingAgentContent returns the lowercased content of the agent messages
// within the context window.
func trailingAgentContent(history []domain.AgentMessage) []string {
	var topics []string
	for _, msg := range trailingMessages(history, contextWindow) {
		if msg.Role == domain.RoleAgent {
			topics = append(topics, strings.ToLower(msg.Content))
		}
	}
	return topics
}
