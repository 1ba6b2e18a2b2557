package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"fatecdata/internal"
)

func ReadCSV(r io.Reader, opts Options) (internal.RecordSet, error) {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return internal.RecordSet{}, err
	}
	br := bufio.NewReader(decoded)

	delim := opts.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = sniffDelimiter(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return internal.RecordSet{}, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

func WriteCSV(w io.Writer, set internal.RecordSet, opts WriteOptions) error {
	if opts.BOM {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}
	if err := cw.Write(set.Columns); err != nil {
		return err
	}
	for _, rec := range set.Records {
		if err := cw.Write(toRow(set, rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decode(r io.Reader, label string) (io.Reader, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas outside quotes, ',' otherwise.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	commas, semis := 0, 0
	quoted := false
	for _, b := range head {
		switch b {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				commas++
			}
		case ';':
			if !quoted {
				semis++
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}
