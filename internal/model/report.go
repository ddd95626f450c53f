package model

// IssueKind classifies a per-record problem. None of them abort a run.
type IssueKind string

const (
	IssueUnknownTeam        IssueKind = "unknown_team"
	IssueMalformedTimestamp IssueKind = "malformed_timestamp"
	IssueAmbiguousMatch     IssueKind = "ambiguous_match"
	IssueDuplicateRecord    IssueKind = "duplicate_record"
)

// Issue a per-record diagnostic collected during a run
type Issue struct {
	Kind     IssueKind   `json:"kind"`
	Provider ProviderTag `json:"provider"`
	RecordID string      `json:"record_id"`
	Detail   string      `json:"detail"`
}

// RunReport counts and identifiers surfaced alongside the artifact
type RunReport struct {
	Games            int               `json:"games"`
	Markets          int               `json:"markets"`
	Matched          int               `json:"matched"`
	Unmatched        int               `json:"unmatched"`
	UnmatchedMarkets int               `json:"unmatched_markets"`
	Excluded         int               `json:"excluded"`
	Counts           map[IssueKind]int `json:"counts"`
	Issues           []Issue           `json:"issues"`
}

// NewRunReport returns a report with initialized collections so it always
// encodes as objects/arrays rather than null.
func NewRunReport() *RunReport {
	return &RunReport{
		Counts: make(map[IssueKind]int),
		Issues: []Issue{},
	}
}

// Add records issues and bumps their per-kind counters.
func (r *RunReport) Add(issues ...Issue) {
	for _, is := range issues {
		r.Issues = append(r.Issues, is)
		r.Counts[is.Kind]++
	}
}

// Ack acknowledgement returned by a publisher
type Ack struct {
	Backend  string `json:"backend"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Version  string `json:"version,omitempty"` // ETag / checksum
}
