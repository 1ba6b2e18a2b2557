package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fatecdata/internal"
	"fatecdata/internal/alias"
	"fatecdata/internal/tabular"
)

type AliasService struct {
	ledger           Ledger
	logger           *zap.Logger
	suggestThreshold float64
}

func NewAliasService(ledger Ledger, logger *zap.Logger, suggestThreshold float64) *AliasService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AliasService{ledger: ledger, logger: logger, suggestThreshold: suggestThreshold}
}

type TemplateRequest struct {
	Input  string
	Column string
	Output string
	Read   tabular.Options
}

type TemplateResult struct {
	TraceID string
	Rows    int
	Entries []internal.AliasEntry
}

// Template writes the identity dictionary for the distinct labels of a column.
func (s *AliasService) Template(req TemplateRequest) (res TemplateResult, err error) {
	r := startRun(s.ledger, s.logger, "alias:template")
	res.TraceID = r.traceID
	defer func() { r.finish(statusFor(len(res.Entries)), err) }()

	t := time.Now()
	set, err := tabular.Read(req.Input, req.Read)
	if err != nil {
		return res, err
	}
	t = r.step("read", t)

	entries, err := alias.DeriveTemplate(set, req.Column)
	if err != nil {
		return res, err
	}
	if err := tabular.Write(req.Output, alias.TemplateSet(entries), tabular.WriteOptions{}); err != nil {
		return res, err
	}
	r.step("write", t)

	res.Rows = set.Len()
	res.Entries = entries
	r.count("rows", set.Len())
	r.count("entries", len(entries))
	return res, nil
}

// ColumnMap binds a target column to its dictionary file.
type ColumnMap struct {
	Column     string
	Dictionary string
}

// ParseColumnMap reads the CLI form "Column=path/to/dict.csv".
func ParseColumnMap(input string) (ColumnMap, error) {
	column, path, ok := strings.Cut(input, "=")
	column, path = strings.TrimSpace(column), strings.TrimSpace(path)
	if !ok || column == "" || path == "" {
		return ColumnMap{}, fmt.Errorf("invalid map %q, want Column=dictionary.csv", input)
	}
	return ColumnMap{Column: column, Dictionary: path}, nil
}

type ApplyRequest struct {
	Input            string
	Output           string
	Maps             []ColumnMap
	RejectDuplicates bool
	Suggest          bool
	Read             tabular.Options
	Write            tabular.WriteOptions
}

type ColumnReport struct {
	Column      string
	Entries     int
	Skipped     int
	Duplicates  []alias.Duplicate
	Unmapped    []alias.UnmappedLabel
	Suggestions []alias.Suggestion
}

type ApplyResult struct {
	TraceID string
	Rows    int
	Columns []ColumnReport
}

// Apply resolves every mapped column in order and writes the result.
func (s *AliasService) Apply(req ApplyRequest) (res ApplyResult, err error) {
	r := startRun(s.ledger, s.logger, "alias:apply")
	res.TraceID = r.traceID
	defer func() { r.finish(statusFor(res.Rows), err) }()

	if len(req.Maps) == 0 {
		return res, fmt.Errorf("no column dictionaries given")
	}

	t := time.Now()
	set, err := tabular.Read(req.Input, req.Read)
	if err != nil {
		return res, err
	}
	t = r.step("read", t)

	var opts []alias.Option
	if req.RejectDuplicates {
		opts = append(opts, alias.WithDuplicatePolicy(alias.RejectDuplicates))
	}

	duplicates, unmapped := 0, 0
	for _, cm := range req.Maps {
		dict, err := tabular.Read(cm.Dictionary, tabular.Options{})
		if err != nil {
			return res, err
		}
		m, err := alias.BuildMapping(dict, opts...)
		if err != nil {
			return res, fmt.Errorf("dictionary %s: %w", cm.Dictionary, err)
		}

		report := ColumnReport{Column: cm.Column, Entries: m.Len(), Skipped: m.Skipped, Duplicates: m.Duplicates}
		report.Unmapped, err = alias.Unmapped(set, cm.Column, m)
		if err != nil {
			return res, err
		}
		if req.Suggest {
			report.Suggestions = alias.Suggest(report.Unmapped, m, s.suggestThreshold)
		}

		set, err = alias.Apply(set, cm.Column, m)
		if err != nil {
			return res, err
		}

		for _, d := range m.Duplicates {
			r.logger.Warn("alias redefined",
				zap.String("column", cm.Column),
				zap.String("alias", d.Key),
				zap.String("previous", d.Previous),
				zap.String("canonical", d.Canonical),
				zap.Int("row", d.Row))
		}
		if m.Skipped > 0 {
			r.logger.Warn("blank dictionary rows skipped", zap.String("column", cm.Column), zap.Int("rows", m.Skipped))
		}
		duplicates += len(m.Duplicates)
		unmapped += len(report.Unmapped)
		res.Columns = append(res.Columns, report)
	}
	t = r.step("apply", t)

	if err := tabular.Write(req.Output, set, req.Write); err != nil {
		return res, err
	}
	r.step("write", t)

	res.Rows = set.Len()
	r.count("rows", set.Len())
	r.count("columns", len(req.Maps))
	r.count("duplicates", duplicates)
	r.count("unmapped", unmapped)
	return res, nil
}
