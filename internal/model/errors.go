package model

import "fmt"

// FetchError an upstream source could not deliver its records. Fatal for a run.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PublishError the artifact was computed but could not be stored. Fatal for a run.
type PublishError struct {
	Name string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Name, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// MalformedTimestamp a provider timestamp cannot be resolved to an absolute instant.
type MalformedTimestamp struct {
	Value  string
	Zone   string
	Reason string
}

func (e *MalformedTimestamp) Error() string {
	if e.Zone == "" {
		return fmt.Sprintf("malformed timestamp %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed timestamp %q (zone %q): %s", e.Value, e.Zone, e.Reason)
}

// UnknownTeam no mapping exists for a provider's team token.
type UnknownTeam struct {
	Provider ProviderTag
	Token    string
}

func (e *UnknownTeam) Error() string {
	return fmt.Sprintf("unknown team %q for provider %s", e.Token, e.Provider)
}
