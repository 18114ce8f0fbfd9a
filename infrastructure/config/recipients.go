package config

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"drive-share/domain/notification"
)

// RecipientLookup resolves address book entries from config
type RecipientLookup struct {
	config *Config
}

// NewRecipientLookup creates a new recipient lookup from config
func NewRecipientLookup(cfg *Config) *RecipientLookup {
	return &RecipientLookup{config: cfg}
}

// LookupRecipient finds recipients matching the query (first name, last name, full name, or key)
// Returns all matches - caller should handle ambiguity
func (r *RecipientLookup) LookupRecipient(query string) ([]notification.Recipient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, notification.ErrRecipientNotFound
	}

	var matches []notification.Recipient

	for key, rc := range r.config.Email.Recipients {
		keyLower := strings.ToLower(key)
		nameLower := strings.ToLower(rc.Name)
		nameParts := strings.Fields(nameLower)

		var firstName, lastName string
		if len(nameParts) > 0 {
			firstName = nameParts[0]
		}
		if len(nameParts) > 1 {
			lastName = nameParts[len(nameParts)-1]
		}

		if keyLower == query || firstName == query || lastName == query || nameLower == query {
			matches = append(matches, notification.Recipient{
				Name:    rc.Name,
				Address: rc.Address,
			})
		}
	}

	if len(matches) == 0 {
		return nil, notification.ErrRecipientNotFound
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// Resolve turns a command line recipient into one address.
// Anything that parses as an email address is used as is; otherwise the
// query must match exactly one address book entry.
func (r *RecipientLookup) Resolve(query string) (notification.Recipient, error) {
	query = strings.TrimSpace(query)
	if strings.Contains(query, "@") {
		if _, err := mail.ParseAddress(query); err != nil {
			return notification.Recipient{}, fmt.Errorf("%w: %q", notification.ErrInvalidRecipient, query)
		}
		return notification.Recipient{Address: query}, nil
	}

	matches, err := r.LookupRecipient(query)
	if err != nil {
		return notification.Recipient{}, fmt.Errorf("recipient %q: %w", query, err)
	}

	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return notification.Recipient{}, fmt.Errorf("%w: %q matches %s - use last name to disambiguate",
			notification.ErrAmbiguousRecipient, query, strings.Join(names, ", "))
	}

	return matches[0], nil
}
