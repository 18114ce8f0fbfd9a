package config

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrDuplicateKey      = errors.New("key already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// Entry is one named address book recipient
type Entry struct {
	Key     string
	Name    string
	Address string
}

// AddressBook edits the recipients section of the config file. Every
// successful change is written back to path.
type AddressBook struct {
	cfg  *Config
	path string
}

func NewAddressBook(cfg *Config, path string) *AddressBook {
	return &AddressBook{cfg: cfg, path: path}
}

// Add stores a new entry. Keys are case-insensitive.
func (b *AddressBook) Add(key, name, address string) error {
	key = normalizeKey(key)
	name = strings.TrimSpace(name)

	if key == "" {
		return fmt.Errorf("recipient key is required")
	}
	if name == "" {
		return fmt.Errorf("recipient name is required")
	}
	address, err := parseAddress(address)
	if err != nil {
		return err
	}
	if _, exists := b.cfg.Email.Recipients[key]; exists {
		return fmt.Errorf("%w: recipient %q", ErrDuplicateKey, key)
	}

	return b.save(func(recipients map[string]RecipientConfig) {
		recipients[key] = RecipientConfig{Name: name, Address: address}
	})
}

// Entries returns every entry ordered by key
func (b *AddressBook) Entries() []Entry {
	entries := make([]Entry, 0, len(b.cfg.Email.Recipients))
	for key, rc := range b.cfg.Email.Recipients {
		entries = append(entries, Entry{Key: key, Name: rc.Name, Address: rc.Address})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

func (b *AddressBook) Get(key string) (Entry, error) {
	key = normalizeKey(key)
	rc, ok := b.cfg.Email.Recipients[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
	}
	return Entry{Key: key, Name: rc.Name, Address: rc.Address}, nil
}

func (b *AddressBook) Remove(key string) error {
	entry, err := b.Get(key)
	if err != nil {
		return err
	}
	return b.save(func(recipients map[string]RecipientConfig) {
		delete(recipients, entry.Key)
	})
}

// Update replaces the non-empty fields of an existing entry
func (b *AddressBook) Update(key, name, address string) error {
	entry, err := b.Get(key)
	if err != nil {
		return err
	}

	if name = strings.TrimSpace(name); name != "" {
		entry.Name = name
	}
	if strings.TrimSpace(address) != "" {
		if entry.Address, err = parseAddress(address); err != nil {
			return err
		}
	}

	return b.save(func(recipients map[string]RecipientConfig) {
		recipients[entry.Key] = RecipientConfig{Name: entry.Name, Address: entry.Address}
	})
}

func (b *AddressBook) save(change func(map[string]RecipientConfig)) error {
	if b.cfg.Email.Recipients == nil {
		b.cfg.Email.Recipients = make(map[string]RecipientConfig)
	}
	change(b.cfg.Email.Recipients)
	return Save(b.cfg, b.path)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// parseAddress accepts a bare address whose domain has at least one dot
func parseAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	parsed, err := mail.ParseAddress(s)
	if err != nil || parsed.Address != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}

	domain := s[strings.LastIndex(s, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return s, nil
}

// SuggestAddCommand returns the command line that adds a missing recipient
func SuggestAddCommand(key string) string {
	return fmt.Sprintf(`drive-share recipients add --key %s --name "Recipient Name" --email "email@example.com"`, key)
}
