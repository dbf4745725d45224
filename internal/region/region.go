// Package region maps a staff email domain to the voivodeship and locality of the reporting office.
package region

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is stored on items whose region cannot be resolved.
const Unknown = "Unknown"

//go:embed regions.yaml
var defaultTable []byte

// Entry is one row of the mapping table.
type Entry struct {
	Domain   string `yaml:"domain"`
	Region   string `yaml:"region"`
	Locality string `yaml:"locality"`
}

// Location is the resolved region and locality for a domain.
type Location struct {
	Region   string
	Locality string
}

// Resolver resolves email domains against an ordered, read-only table.
type Resolver struct {
	entries []Entry
	exact   map[string]Location
}

// NewResolver returns a Resolver over entries. Order matters for suffix matching.
func NewResolver(entries []Entry) *Resolver {
	r := &Resolver{
		entries: make([]Entry, 0, len(entries)),
		exact:   make(map[string]Location, len(entries)),
	}
	for _, e := range entries {
		e.Domain = strings.ToLower(strings.TrimSpace(e.Domain))
		if e.Domain == "" {
			continue
		}
		r.entries = append(r.entries, e)
		if _, dup := r.exact[e.Domain]; !dup {
			r.exact[e.Domain] = Location{Region: e.Region, Locality: e.Locality}
		}
	}
	return r
}

// Default returns a Resolver over the embedded table.
func Default() *Resolver {
	entries, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("region: embedded table: %v", err))
	}
	return NewResolver(entries)
}

// Load returns a Resolver over the YAML table at path, or the embedded table when path is empty.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("region: read %s: %w", path, err)
	}
	entries, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("region: %s: %w", path, err)
	}
	return NewResolver(entries), nil
}

// Parse decodes a YAML list of entries.
func Parse(raw []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Domain) == "" {
			return nil, fmt.Errorf("entry %d: %w", i, errors.New("domain is required"))
		}
	}
	return entries, nil
}

// Domain returns the lower-cased part of email after the last "@", or the whole string when there is none.
func Domain(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return email
}

// Resolve returns the location for email's domain. An exact domain match takes precedence;
// otherwise the first entry, in table order, whose domain is a suffix of the email domain wins.
// ok is false when nothing matches.
func (r *Resolver) Resolve(email string) (loc Location, ok bool) {
	domain := Domain(email)
	if loc, ok := r.exact[domain]; ok {
		return loc, true
	}
	for _, e := range r.entries {
		if strings.HasSuffix(domain, e.Domain) {
			return Location{Region: e.Region, Locality: e.Locality}, true
		}
	}
	return Location{}, false
}

// RegionOrUnknown returns the resolved region for email, or Unknown.
func (r *Resolver) RegionOrUnknown(email string) string {
	if loc, ok := r.Resolve(email); ok && loc.Region != "" {
		return loc.Region
	}
	return Unknown
}
