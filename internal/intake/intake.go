// Package intake decodes batches of raw service requests from CSV or JSON
// Lines files.
package intake

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/triage-cli/internal/model"
)

const maxLineBytes = 1 << 20

// Record is one raw, unvalidated request row.
type Record struct {
	RequestID    string `csv:"request_id,omitempty" json:"request_id"`
	EmployeeName string `csv:"employee_name,omitempty" json:"employee_name"`
	Department   string `csv:"department,omitempty" json:"department"`
	Urgency      string `csv:"urgency" json:"urgency"`
	Message      string `csv:"message" json:"message"`

	// Line is the 1-based source line for JSON Lines, or the 1-based row
	// (header included) for CSV.
	Line int `csv:"-" json:"-"`
}

// UrgencyValue returns the record urgency, lowercased and trimmed.
func (r Record) UrgencyValue() model.Urgency {
	return model.Urgency(strings.ToLower(strings.TrimSpace(r.Urgency)))
}

// ReadFile decodes a .csv file, or a .jsonl / .ndjson file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "intake: open file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".jsonl", ".ndjson":
		return ReadJSONL(f)
	default:
		return nil, eris.Errorf("intake: unsupported file extension %q (want .csv, .jsonl or .ndjson)", filepath.Ext(path))
	}
}

// ReadCSV decodes records from CSV with a header row. The message and
// urgency columns are required; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("intake: csv has no header row")
		}
		return nil, eris.Wrap(err, "intake: read csv header")
	}

	for _, col := range []string{"message", "urgency"} {
		if !slices.Contains(dec.Header(), col) {
			return nil, eris.Errorf("intake: missing required column %q", col)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "intake: decode csv line %d", line)
		}
		rec.Line = line
		records = append(records, rec)
	}
	return records, nil
}

// ReadJSONL decodes one JSON object per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, eris.Wrapf(err, "intake: decode jsonl line %d", line)
		}
		rec.Line = line
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "intake: scan jsonl")
	}
	return records, nil
}
