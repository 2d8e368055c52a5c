package dispatch

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
	"github.com/Shashank29160/AccountGen/internal/research"
)

// recordedHistory captures Record calls.
type recordedHistory struct {
	names []string
}

func (r *recordedHistory) Record(_ context.Context, _, companyName string, _ domain.CompanyData) error {
	r.names = append(r.names, companyName)
	return nil
}

// testService builds a dispatcher with no delays, a fixed greeting, and all
// live sources unreachable.
func testService(t *testing.T, history HistoryRecorder) *Service {
	t.Helper()

	srv := httptest.NewServer(nil)
	srv.Close()

	cfg := research.DefaultSourceConfig()
	cfg.YahooBaseURL = srv.URL
	cfg.FMPBaseURL = srv.URL
	cfg.AlphaVantageBaseURL = srv.URL
	cfg.Timeout = time.Second

	s := NewService(research.NewResolver(research.NewSourceClient(cfg)), history)
	s.sleep = func(context.Context, time.Duration) {}
	s.greet = func() string { return "Great!" }
	return s
}

func TestSearchCompanyEmitsThinkingThenConfirmation(t *testing.T) {
	t.Parallel()

	history := &recordedHistory{}
	s := testService(t, history)

	var streamed []domain.AgentMessage
	msgs, data, err := s.SearchCompany(context.Background(), "user1", "Tesla", func(m domain.AgentMessage) {
		streamed = append(streamed, m)
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if data == nil {
		t.Fatal("expected company data")
	}
	if data.Name != "Tesla Inc. (TSLA)" {
		t.Errorf("unexpected company %q", data.Name)
	}

	if len(msgs) != len(thinkingSteps)+1 {
		t.Fatalf("expected %d messages, got %d", len(thinkingSteps)+1, len(msgs))
	}
	for i, step := range thinkingSteps {
		if msgs[i].Role != domain.RoleStatus || msgs[i].Content != step {
			t.Errorf("message %d is not thinking step %q: %+v", i, step, msgs[i])
		}
	}
	final := msgs[len(msgs)-1]
	if final.Role != domain.RoleAgent {
		t.Errorf("final message role %q", final.Role)
	}
	if !strings.Contains(final.Content, "completed comprehensive research on Tesla Inc. (TSLA)") {
		t.Errorf("confirmation missing company name:\n%s", final.Content)
	}
	if !strings.HasPrefix(final.Content, "Great!") {
		t.Errorf("confirmation missing greeting:\n%s", final.Content)
	}

	if len(streamed) != len(msgs) {
		t.Errorf("emit saw %d messages, returned %d", len(streamed), len(msgs))
	}
	if len(history.names) != 1 {
		t.Errorf("expected one history record, got %v", history.names)
	}
}

func TestSearchCompanyNotFound(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	msgs, data, err := s.SearchCompany(context.Background(), "user1", "xy", nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if data != nil {
		t.Errorf("expected no data for degenerate input, got %+v", data)
	}
	final := msgs[len(msgs)-1]
	if !strings.Contains(final.Content, "couldn't find comprehensive data") {
		t.Errorf("unexpected not-found message:\n%s", final.Content)
	}
}

func TestHandleFollowUpRewritesPronouns(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	bound := &domain.CompanyData{
		Name: "Acme Corp",
		RisksOpportunities: domain.RisksOpportunities{
			Risks: []string{"Risk one"},
		},
	}

	reply := s.HandleFollowUp(context.Background(), "what risks do they face", bound, nil)
	if reply.Role != domain.RoleAgent {
		t.Errorf("unexpected role %q", reply.Role)
	}
	if !strings.Contains(reply.Content, "Risk one") {
		t.Errorf("risk question did not surface risks:\n%s", reply.Content)
	}
}

func TestHandleFollowUpUnboundRecoversMentionedCompany(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	history := []domain.AgentMessage{
		domain.NewMessage(domain.RoleAgent, "Great! I've completed comprehensive research on Tesla Inc."),
	}

	reply := s.HandleFollowUp(context.Background(), "what now", nil, history)
	if !strings.Contains(reply.Content, "Tesla Inc") {
		t.Errorf("expected recovery to mention prior company:\n%s", reply.Content)
	}
}

func TestHandleFollowUpUnboundBareName(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	reply := s.HandleFollowUp(context.Background(), "Globex", nil, nil)
	if !strings.Contains(reply.Content, "Globex") {
		t.Errorf("expected bare-name confirmation:\n%s", reply.Content)
	}
	if !strings.Contains(reply.Content, "research this company") {
		t.Errorf("expected research offer:\n%s", reply.Content)
	}
}

func TestHandleFollowUpUnboundOnboarding(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	reply := s.HandleFollowUp(context.Background(), "how does all of this work exactly?", nil, nil)
	if !strings.Contains(reply.Content, "help you research companies") {
		t.Errorf("expected onboarding guidance:\n%s", reply.Content)
	}
}

func TestRewritePronouns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"what are their risks", "what are acme corp's risks"},
		{"do they have debt", "do acme corp have debt"},
		{"tell me about this company", "tell me about acme corp"},
		{"its strategy", "acme corp's strategy"},
	}
	for _, tc := range tests {
		if got := rewritePronouns(tc.in, "Acme Corp"); got != tc.want {
			t.Errorf("rewritePronouns(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractComparisonTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"compare with Microsoft", "Microsoft"},
		{"vs Apple", "Apple"},
		{"how does it stack up versus   Netflix", "how does it stack up    Netflix"},
	}
	for _, tc := range tests {
		if got := ExtractComparisonTarget(tc.in); got != tc.want {
			t.Errorf("ExtractComparisonTarget(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompareCompanyKeepsPrimaryOutOfScope(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	msgs, data, err := s.CompareCompany(context.Background(), "user1", "Acme Corp", "Microsoft", nil)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if data == nil {
		t.Fatal("expected comparison data")
	}
	if data.Name != "Microsoft Corporation (MSFT)" {
		t.Errorf("unexpected comparison company %q", data.Name)
	}
	final := msgs[len(msgs)-1]
	if !strings.Contains(final.Content, "Acme Corp") || !strings.Contains(final.Content, "Microsoft Corporation (MSFT)") {
		t.Errorf("comparison confirmation should reference both companies:\n%s", final.Content)
	}
}

func TestCompareCompanyEmptyTarget(t *testing.T) {
	t.Parallel()

	s := testService(t, nil)
	msgs, data, err := s.CompareCompany(context.Background(), "user1", "Acme Corp", "", nil)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if data != nil {
		t.Errorf("expected no data without a target")
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "Which company") {
		t.Errorf("expected a prompt for the target:\n%+v", msgs)
	}
}
