package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestAddressBook(t *testing.T) (*AddressBook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Email.Recipients = map[string]RecipientConfig{
		"jane": {Name: "Jane Doe", Address: "jane@example.com"},
	}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return NewAddressBook(cfg, path), path
}

func TestAddressBook_Add(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		rname   string
		email   string
		wantErr error
	}{
		{name: "adds new recipient", key: "Bob", rname: "Bob Stone", email: "bob@example.com"},
		{name: "trims input", key: " BOB ", rname: " Bob Stone ", email: " bob@example.com "},
		{name: "duplicate key", key: "JANE", rname: "Jane Roe", email: "roe@example.com", wantErr: ErrDuplicateKey},
		{name: "host without domain", key: "carl", rname: "Carl", email: "carl@localhost", wantErr: ErrInvalidEmail},
		{name: "display name form", key: "carl", rname: "Carl", email: "Carl <carl@example.com>", wantErr: ErrInvalidEmail},
		{name: "not an address", key: "carl", rname: "Carl", email: "carl", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, path := newTestAddressBook(t)

			err := b.Add(tt.key, tt.rname, tt.email)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}

			reloaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			rc, ok := reloaded.Email.Recipients["bob"]
			if !ok || rc.Name != "Bob Stone" || rc.Address != "bob@example.com" {
				t.Errorf("recipient not persisted, got %+v", reloaded.Email.Recipients)
			}
		})
	}
}

func TestAddressBook_Add_RequiresKeyAndName(t *testing.T) {
	b, _ := newTestAddressBook(t)

	if err := b.Add("", "Bob", "bob@example.com"); err == nil {
		t.Error("Add() with empty key should fail")
	}
	if err := b.Add("bob", " ", "bob@example.com"); err == nil {
		t.Error("Add() with empty name should fail")
	}
}

func TestAddressBook_UpdateAndRemove(t *testing.T) {
	b, path := newTestAddressBook(t)

	if err := b.Update("JANE", "", "jane.doe@example.com"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := b.Get("jane")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Jane Doe" || got.Address != "jane.doe@example.com" {
		t.Errorf("Get() = %+v, want name kept and address updated", got)
	}

	if err := b.Update("jane", "", "bad@"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Update() with bad address error = %v, want ErrInvalidEmail", err)
	}
	if err := b.Update("nobody", "Nobody", ""); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("Update() of unknown key error = %v, want ErrRecipientNotFound", err)
	}

	if err := b.Remove("jane"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := b.Get("jane"); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("Get() after remove error = %v, want ErrRecipientNotFound", err)
	}
	if err := b.Remove("jane"); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("second Remove() error = %v, want ErrRecipientNotFound", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(reloaded.Email.Recipients) != 0 {
		t.Errorf("expected no recipients on disk, got %+v", reloaded.Email.Recipients)
	}
}

func TestAddressBook_Entries(t *testing.T) {
	b, _ := newTestAddressBook(t)
	if err := b.Add("adam", "Adam Ant", "adam@example.com"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	list := b.Entries()
	if len(list) != 2 || list[0].Key != "adam" || list[1].Key != "jane" {
		t.Errorf("Entries() = %+v, want adam then jane", list)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "jane@example.com", want: "jane@example.com"},
		{in: "  jane@example.com ", want: "jane@example.com"},
		{in: "", wantErr: true},
		{in: "@example.com", wantErr: true},
		{in: "jane@example", wantErr: true},
		{in: "jane@.com", wantErr: true},
		{in: "jane@example.", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAddress(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAddress(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
