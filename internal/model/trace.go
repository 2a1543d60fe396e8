package model

import (
	"time"

	"github.com/google/uuid"
)

// TraceEntry is one append-only log record in a run trace.
type TraceEntry struct {
	Action string            `json:"action"`
	Detail map[string]string `json:"detail,omitempty"`
	At     time.Time         `json:"at"`
}

// RunTrace records everything a single run did: queries issued, sources
// fetched, fallback decisions, raw model responses. It is owned by the
// orchestrator for the duration of the run and handed out as a copy.
type RunTrace struct {
	RunID         string       `json:"run_id"`
	ProfileURL    string       `json:"profile_url"`
	PromptVersion string       `json:"prompt_version,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	Entries       []TraceEntry `json:"entries"`
}

// NewRunTrace creates a trace for one profile run.
func NewRunTrace(profileURL string) *RunTrace {
	return &RunTrace{
		RunID:      uuid.New().String(),
		ProfileURL: profileURL,
		StartedAt:  time.Now().UTC(),
	}
}

// Append records an action with optional key/value detail pairs. Keys and
// values alternate; a trailing key without a value is dropped.
func (t *RunTrace) Append(action string, kv ...string) {
	e := TraceEntry{Action: action, At: time.Now().UTC()}
	if len(kv) >= 2 {
		e.Detail = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			e.Detail[kv[i]] = kv[i+1]
		}
	}
	t.Entries = append(t.Entries, e)
}

// Snapshot returns a read-only copy of the trace for callers. The entries
// slice is copied so later appends do not leak into the snapshot.
func (t *RunTrace) Snapshot() RunTrace {
	out := *t
	out.Entries = make([]TraceEntry, len(t.Entries))
	copy(out.Entries, t.Entries)
	return out
}
