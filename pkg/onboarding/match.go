package onboarding

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// Match is the result of looking up the user behind a guest record.
// Matching is a heuristic on the email local part, so it can come back
// empty or with several candidates.
type Match struct {
	User       *User  `json:"user,omitempty"`
	Candidates int    `json:"candidates"`
	Expected   string `json:"expected_email"`
}

// Found reports whether a user was selected.
func (m Match) Found() bool { return m.User != nil }

// Ambiguous reports whether more than one candidate matched.
func (m Match) Ambiguous() bool { return m.Candidates > 1 }

// UserFinder returns users whose email contains localPart, ordered by
// email. Implemented by the data fetcher.
type UserFinder interface {
	FindUsers(ctx context.Context, tenantID, localPart string) ([]User, error)
}

// ImportRow is one line of the import file for users that still need an
// account.
type ImportRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// MatchUsers looks up the user for every record. Lookup failures never
// abort: the record counts as unmatched and is logged. Unmatched records
// produce import rows. With several candidates the first one by email
// order is taken and the match is flagged ambiguous.
func MatchUsers(ctx context.Context, finder UserFinder, tenant Tenant, records []Record, logger *log.Logger) (map[string]Match, []ImportRow, error) {
	matches := make(map[string]Match, len(records))
	var rows []ImportRow

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if _, seen := matches[r.Name]; seen {
			continue
		}

		first, last := ParseName(r.Name)
		expected := ExpectedEmail(first, last, tenant.Domain)
		local, _, _ := strings.Cut(expected, "@")

		m := Match{Expected: expected}
		var users []User
		var err error
		if local != "" {
			users, err = finder.FindUsers(ctx, tenant.ID, local)
		}
		switch {
		case err != nil:
			logger.Warn("user lookup failed", "record", r.Name, "err", err)
		case len(users) > 0:
			u := users[0]
			m.User = &u
			m.Candidates = len(users)
		}
		matches[r.Name] = m

		switch {
		case m.Ambiguous():
			logger.Warn("several users match, using the first", "record", r.Name, "email", m.User.Email, "candidates", m.Candidates)
		case m.Found():
			logger.Debug("user matched", "record", r.Name, "email", m.User.Email)
		default:
			logger.Warn("no user found", "record", r.Name, "expected", expected)
			rows = append(rows, ImportRow{FirstName: first, LastName: last, Email: expected})
		}
	}
	return matches, rows, nil
}
