// Package teams maps each provider's team tokens onto canonical franchise
// keys using an explicit, versioned table. There is no fuzzy matching: a
// token missing from the table is an UnknownTeam.
package teams

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"ScheduleSync/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed mlb.yaml
var defaultTable []byte

// tableFile on-disk layout: canonical key -> provider -> tokens
type tableFile struct {
	Version string                         `yaml:"version"`
	Teams   map[string]map[string][]string `yaml:"teams"`
}

// Resolver immutable after construction; safe for concurrent use.
type Resolver struct {
	version string
	byProv  map[model.ProviderTag]map[string]model.CanonicalTeam
}

// LoadDefault the embedded MLB table
func LoadDefault() (*Resolver, error) {
	return Parse(defaultTable)
}

// Load reads the table at path, or the embedded table when path is empty.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return LoadDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team table: %w", err)
	}
	return Parse(data)
}

// Parse builds a Resolver from YAML, rejecting tables where one token of a
// provider points at two different teams.
func Parse(data []byte) (*Resolver, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse team table: %w", err)
	}
	if len(tf.Teams) == 0 {
		return nil, fmt.Errorf("team table has no teams")
	}

	r := &Resolver{
		version: tf.Version,
		byProv:  make(map[model.ProviderTag]map[string]model.CanonicalTeam),
	}
	// sorted so that a conflict is reported the same way every time
	keys := make([]string, 0, len(tf.Teams))
	for k := range tf.Teams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key != strings.ToLower(key) || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("canonical key %q must be non-empty lowercase", key)
		}
		team := model.CanonicalTeam(key)
		for prov, tokens := range tf.Teams[key] {
			tag := model.ProviderTag(prov)
			m, ok := r.byProv[tag]
			if !ok {
				m = make(map[string]model.CanonicalTeam)
				r.byProv[tag] = m
			}
			for _, tok := range tokens {
				norm := normalizeToken(tok)
				if norm == "" {
					return nil, fmt.Errorf("empty token for %s/%s", key, prov)
				}
				if prev, dup := m[norm]; dup && prev != team {
					return nil, fmt.Errorf("token %q of %s maps to both %s and %s", tok, prov, prev, team)
				}
				m[norm] = team
			}
		}
	}
	return r, nil
}

// New builds a Resolver straight from provider -> token -> team, mainly for tests.
func New(table map[model.ProviderTag]map[string]model.CanonicalTeam) *Resolver {
	r := &Resolver{byProv: make(map[model.ProviderTag]map[string]model.CanonicalTeam)}
	for prov, tokens := range table {
		m := make(map[string]model.CanonicalTeam, len(tokens))
		for tok, team := range tokens {
			m[normalizeToken(tok)] = team
		}
		r.byProv[prov] = m
	}
	return r
}

// Resolve returns the canonical team for a provider token or *model.UnknownTeam.
func (r *Resolver) Resolve(provider model.ProviderTag, token string) (model.CanonicalTeam, error) {
	if m, ok := r.byProv[provider]; ok {
		if team, ok := m[normalizeToken(token)]; ok {
			return team, nil
		}
	}
	return "", &model.UnknownTeam{Provider: provider, Token: token}
}

// Version table version string, empty when unset
func (r *Resolver) Version() string { return r.version }

// Providers lists providers present in the table, sorted.
func (r *Resolver) Providers() []model.ProviderTag {
	out := make([]model.ProviderTag, 0, len(r.byProv))
	for p := range r.byProv {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
