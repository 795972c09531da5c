package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Evaluation is the rubric feedback emitted by the model. It is kept as raw
// JSON and passed through untouched.
type Evaluation = datatypes.JSON

// EvaluationRecord is a single entry in the evaluation history.
type EvaluationRecord struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	Timestamp  time.Time  `gorm:"not null;index" json:"timestamp"`
	Model      string     `gorm:"size:128" json:"model"`
	Pseudocode string     `gorm:"type:text" json:"pseudocode"`
	Evaluation Evaluation `json:"evaluation"`

	// stored holds the JSON line a record was decoded from; it is written back
	// verbatim so entries from older writers keep their shape.
	stored json.RawMessage
}

// TableName pins the table used by the SQL history store.
func (EvaluationRecord) TableName() string {
	return "evaluation_records"
}

type evaluationRecordJSON struct {
	Timestamp  time.Time  `json:"timestamp"`
	Model      string     `json:"model"`
	Pseudocode string     `json:"pseudocode"`
	Evaluation Evaluation `json:"evaluation"`
}

// MarshalJSON returns the stored document when the record was read from JSON.
func (r EvaluationRecord) MarshalJSON() ([]byte, error) {
	if len(r.stored) > 0 {
		return r.stored, nil
	}
	return json.Marshal(evaluationRecordJSON{
		Timestamp:  r.Timestamp,
		Model:      r.Model,
		Pseudocode: r.Pseudocode,
		Evaluation: r.Evaluation,
	})
}

// UnmarshalJSON accepts any well-formed JSON value. Known fields are filled in
// on a best effort basis; fields that do not fit leave their zero value.
func (r *EvaluationRecord) UnmarshalJSON(data []byte) error {
	r.stored = append(json.RawMessage(nil), data...)

	var fields struct {
		Timestamp  string          `json:"timestamp"`
		Model      string          `json:"model"`
		Pseudocode string          `json:"pseudocode"`
		Evaluation json.RawMessage `json:"evaluation"`
	}
	// Type mismatches still populate the fields that decoded.
	_ = json.Unmarshal(data, &fields)

	r.Timestamp = parseTimestamp(fields.Timestamp)
	r.Model = fields.Model
	r.Pseudocode = fields.Pseudocode
	r.Evaluation = nil
	if len(fields.Evaluation) > 0 {
		r.Evaluation = Evaluation(append([]byte(nil), fields.Evaluation...))
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp reads ISO-8601 timestamps with or without a UTC offset. Values
// without an offset are taken as local time.
func parseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
