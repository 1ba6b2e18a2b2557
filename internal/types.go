package internal

import "fmt"

type Record map[string]string

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type RecordSet struct {
	Columns []string
	Records []Record
}

func (s RecordSet) Len() int {
	return len(s.Records)
}

func (s RecordSet) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (s RecordSet) Column(name string) []string {
	out := make([]string, 0, len(s.Records))
	for _, rec := range s.Records {
		out = append(out, rec[name])
	}
	return out
}

// Clone deep-copies the header and every record.
func (s RecordSet) Clone() RecordSet {
	out := RecordSet{
		Columns: append([]string(nil), s.Columns...),
		Records: make([]Record, 0, len(s.Records)),
	}
	for _, rec := range s.Records {
		out.Records = append(out.Records, rec.Clone())
	}
	return out
}

// WithRecords keeps the header and swaps the rows.
func (s RecordSet) WithRecords(records []Record) RecordSet {
	return RecordSet{Columns: append([]string(nil), s.Columns...), Records: records}
}

// MissingColumnError means the pipeline was configured against the wrong schema.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

type AliasEntry struct {
	Alias     string
	Canonical string
}

type RunRecord struct {
	ID        int
	TraceID   string
	Command   string
	Status    string
	Timings   map[string]float64
	Counts    map[string]int
	CreatedAt string
}
