package models

import "encoding/json"

// RecordKind discriminates the two stored schedule shapes.
type RecordKind string

const (
	KindLegacy  RecordKind = "legacy"
	KindCurrent RecordKind = "current"
)

// LegacyRecord is the v1 single-entry schedule shape: name doubles as title
// and sole assignee, start/end live at the top level.
type LegacyRecord struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Tasks   string `json:"tasks,omitempty"`
	Date    string `json:"date,omitempty"`
	Version string `json:"version,omitempty"`
}

// Record is the tagged union of the two shapes a stored row can take. Reading
// classifies each row exactly once; downstream code switches on Kind instead
// of probing for field presence.
type Record struct {
	Kind     RecordKind
	Legacy   *LegacyRecord
	Schedule *Schedule
}

// IsLegacyJSON reports whether a raw stored row is in the v1 shape: it lacks a
// version field, carries version "1.0", or has a name but no entries array.
func IsLegacyJSON(data []byte) bool {
	var probe struct {
		Version *string         `json:"version"`
		Name    *string         `json:"name"`
		Entries json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	if probe.Version == nil || *probe.Version == "1.0" {
		return true
	}
	return probe.Name != nil && probe.Entries == nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	if IsLegacyJSON(data) {
		legacy := &LegacyRecord{}
		if err := json.Unmarshal(data, legacy); err != nil {
			return err
		}
		*r = Record{Kind: KindLegacy, Legacy: legacy}
		return nil
	}
	schedule := &Schedule{}
	if err := json.Unmarshal(data, schedule); err != nil {
		return err
	}
	*r = Record{Kind: KindCurrent, Schedule: schedule}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Kind == KindLegacy && r.Legacy != nil {
		return json.Marshal(r.Legacy)
	}
	return json.Marshal(r.Schedule)
}

// RecordID returns the stable identifier of either shape.
func (r Record) RecordID() string {
	switch r.Kind {
	case KindLegacy:
		if r.Legacy != nil {
			return r.Legacy.ID
		}
	case KindCurrent:
		if r.Schedule != nil {
			return r.Schedule.ID
		}
	}
	return ""
}

// Clone deep-copies the record.
func (r Record) Clone() Record {
	out := Record{Kind: r.Kind}
	if r.Legacy != nil {
		legacy := *r.Legacy
		out.Legacy = &legacy
	}
	if r.Schedule != nil {
		schedule := r.Schedule.Clone()
		out.Schedule = &schedule
	}
	return out
}
