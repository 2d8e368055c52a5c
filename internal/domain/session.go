package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the title a session carries until one is derived.
const DefaultSessionTitle = "New Chat"

// ChatSession is one conversation thread. At most one company is bound as the
// primary research subject; a second one may be held while comparing.
type ChatSession struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Messages           []AgentMessage `json:"messages"`
	CompanyData        *CompanyData   `json:"companyData"`
	CompareCompanyData *CompanyData   `json:"compareCompanyData,omitempty"`
	CompareMode        bool           `json:"compareMode,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// NewChatSession creates an empty session with both timestamps set to now.
func NewChatSession(now time.Time) *ChatSession {
	return &ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultSessionTitle,
		Messages:  []AgentMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle fills in the session title once there is something to name it
// after. A session keeps its default title until an agent message signals a
// completed research run and a company is bound, after which the company name
// wins; any session with messages at least gets a date-stamped placeholder.
func (s *ChatSession) DeriveTitle() {
	if s.Title != "" && s.Title != DefaultSessionTitle {
		return
	}
	if s.CompanyData != nil && s.hasCompletedResearch() {
		s.Title = s.CompanyData.Name
		return
	}
	if len(s.Messages) > 0 {
		s.Title = "Chat " + s.CreatedAt.Format("1/2/2006")
	}
}

func (s *ChatSession) hasCompletedResearch() bool {
	for _, msg := range s.Messages {
		if msg.Role == RoleAgent && strings.Contains(strings.ToLower(msg.Content), "completed") {
			return true
		}
	}
	return false
}

// RecentMessages returns the last n messages in chronological order.
func (s *ChatSession) RecentMessages(n int) []AgentMessage {
	if n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// CompanyHistory is a stored snapshot of one research result, independent of
// any session.
type CompanyHistory struct {
	ID          string      `json:"id"`
	CompanyName string      `json:"companyName"`
	CompanyData CompanyData `json:"companyData"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewCompanyHistory creates a history entry for a research result.
func NewCompanyHistory(companyName string, data CompanyData, now time.Time) CompanyHistory {
	return CompanyHistory{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		CompanyData: data,
		Timestamp:   now,
	}
}
