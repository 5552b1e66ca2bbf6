package memory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"lodging_query/internal/domain"
)

// LoadReport summarizes what a load kept and what it threw away.
type LoadReport struct {
	Lines   int               // data lines read, header excluded
	Loaded  int               // records kept
	Skipped []domain.RowError // rows with too few fields
	Dropped int               // rows with a blank municipality
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Store, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a ';'-delimited source. The first line is a header. Rows with
// fewer than domain.FieldCount fields are skipped, rows with a blank
// municipality are dropped; both are logged and neither aborts the load.
func Load(r io.Reader) (*Store, LoadReport, error) {
	var (
		rep     LoadReport
		records []domain.Record
	)
	br := bufio.NewReader(r)
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, rep, fmt.Errorf("read line %d: %w", lineNum+1, err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		line = strings.TrimRight(line, "\r\n")

		if lineNum > 1 {
			rep.Lines++
			if rec, ok := parseRow(lineNum, line, &rep); ok {
				records = append(records, rec)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	rep.Loaded = len(records)
	if rep.Dropped > 0 {
		log.Warn().Int("dropped", rep.Dropped).Msg("rows without municipality dropped")
	}
	return newStore(records), rep, nil
}

func parseRow(lineNum int, line string, rep *LoadReport) (domain.Record, bool) {
	fields := splitLine(line)
	if len(fields) < domain.FieldCount {
		re := domain.RowError{Line: lineNum, Fields: len(fields)}
		rep.Skipped = append(rep.Skipped, re)
		log.Warn().Int("line", re.Line).Int("fields", re.Fields).Msg(re.Error())
		return domain.Record{}, false
	}
	fields = fields[:domain.FieldCount]
	if fields[0] == "" {
		rep.Dropped++
		log.Debug().Int("line", lineNum).Msg("row without municipality")
		return domain.Record{}, false
	}
	for i, f := range fields {
		if f == "" {
			fields[i] = domain.Missing
		}
	}
	return domain.NewRecord(fields), true
}
