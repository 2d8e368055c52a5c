package store

import (
	"context"
	"time"

	"github.com/Shashank29160/AccountGen/internal/domain"
)

// Recorder adapts a Repository to the dispatcher's history sink. Entries are
// keyed by the resolved company name when available, falling back to the
// user's raw query.
type Recorder struct {
	Repo Repository
}

func (r Recorder) Record(ctx context.Context, userID, companyName string, data domain.CompanyData) error {
	name := data.Name
	if name == "" {
		name = companyName
	}
	return r.Repo.AppendHistory(ctx, userID, domain.NewCompanyHistory(name, data, time.Now()))
}
