package config

import (
	"errors"
	"testing"

	"drive-share/domain/notification"
)

func TestRecipientLookup_LookupRecipient(t *testing.T) {
	cfg := &Config{
		Email: EmailConfig{
			Recipients: map[string]RecipientConfig{
				"jonathan": {Name: "Jonathan White", Address: "jonathan@example.com"},
				"jane":     {Name: "Jane Doe", Address: "jane@example.com"},
				"john":     {Name: "John Smith", Address: "john@example.com"},
			},
		},
	}
	lookup := NewRecipientLookup(cfg)

	tests := []struct {
		name      string
		query     string
		wantName  string
		wantAddr  string
		wantErr   error
		wantCount int
	}{
		{
			name:      "lookup by key",
			query:     "jonathan",
			wantName:  "Jonathan White",
			wantAddr:  "jonathan@example.com",
			wantCount: 1,
		},
		{
			name:      "lookup by first name",
			query:     "Jane",
			wantName:  "Jane Doe",
			wantAddr:  "jane@example.com",
			wantCount: 1,
		},
		{
			name:      "lookup by last name",
			query:     "Smith",
			wantName:  "John Smith",
			wantAddr:  "john@example.com",
			wantCount: 1,
		},
		{
			name:      "lookup by full name",
			query:     "Jonathan White",
			wantName:  "Jonathan White",
			wantAddr:  "jonathan@example.com",
			wantCount: 1,
		},
		{
			name:      "case insensitive",
			query:     "JANE",
			wantName:  "Jane Doe",
			wantAddr:  "jane@example.com",
			wantCount: 1,
		},
		{
			name:    "not found",
			query:   "unknown",
			wantErr: notification.ErrRecipientNotFound,
		},
		{
			name:    "empty query",
			query:   "",
			wantErr: notification.ErrRecipientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := lookup.LookupRecipient(tt.query)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LookupRecipient() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LookupRecipient() error = %v", err)
			}

			if len(matches) != tt.wantCount {
				t.Errorf("LookupRecipient() got %d matches, want %d", len(matches), tt.wantCount)
			}

			if tt.wantCount > 0 {
				if matches[0].Name != tt.wantName {
					t.Errorf("LookupRecipient() name = %q, want %q", matches[0].Name, tt.wantName)
				}
				if matches[0].Address != tt.wantAddr {
					t.Errorf("LookupRecipient() address = %q, want %q", matches[0].Address, tt.wantAddr)
				}
			}
		})
	}
}

func TestRecipientLookup_Resolve(t *testing.T) {
	cfg := &Config{
		Email: EmailConfig{
			Recipients: map[string]RecipientConfig{
				"jane1": {Name: "Jane Doe", Address: "jane1@example.com"},
				"jane2": {Name: "Jane Smith", Address: "jane2@example.com"},
				"bob":   {Name: "Bob Stone", Address: "bob@example.com"},
			},
		},
	}
	lookup := NewRecipientLookup(cfg)

	tests := []struct {
		name     string
		query    string
		wantAddr string
		wantErr  error
	}{
		{name: "literal address", query: "someone@example.org", wantAddr: "someone@example.org"},
		{name: "address with spaces", query: "  someone@example.org ", wantAddr: "someone@example.org"},
		{name: "nickname", query: "bob", wantAddr: "bob@example.com"},
		{name: "last name disambiguates", query: "smith", wantAddr: "jane2@example.com"},
		{name: "ambiguous first name", query: "jane", wantErr: notification.ErrAmbiguousRecipient},
		{name: "unknown", query: "alice", wantErr: notification.ErrRecipientNotFound},
		{name: "malformed address", query: "bob@", wantErr: notification.ErrInvalidRecipient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookup.Resolve(tt.query)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Address != tt.wantAddr {
				t.Errorf("Resolve() address = %q, want %q", got.Address, tt.wantAddr)
			}
		})
	}
}

func TestRecipientLookup_AmbiguousRecipient(t *testing.T) {
	cfg := &Config{
		Email: EmailConfig{
			Recipients: map[string]RecipientConfig{
				"jane1": {Name: "Jane Doe", Address: "jane1@example.com"},
				"jane2": {Name: "Jane Smith", Address: "jane2@example.com"},
			},
		},
	}
	lookup := NewRecipientLookup(cfg)

	// Single lookup returns all matches, ordered by name
	matches, err := lookup.LookupRecipient("jane")
	if err != nil {
		t.Fatalf("LookupRecipient() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("LookupRecipient() should return 2 matches for ambiguous query, got %d", len(matches))
	}
	if matches[0].Name != "Jane Doe" || matches[1].Name != "Jane Smith" {
		t.Errorf("LookupRecipient() matches not sorted by name: %+v", matches)
	}
}
