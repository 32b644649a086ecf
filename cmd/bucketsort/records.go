package main

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/notorious-go/sorting/bucketsort"
)

// maxLineSize bounds the length of a single input record.
const maxLineSize = 1 << 20

// A record is one input line together with its parsed key.
type record struct {
	text string
	line int
	key  int64
}

func (r record) sortKey() int64 { return r.key }

// readRecords parses the lines of r into records, taking the key from the
// given 1-based field. Blank lines are skipped.
func readRecords(r io.Reader, field int, delimiter string) ([]record, error) {
	var records []record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		var fields []string
		if delimiter == "" {
			fields = strings.Fields(text)
		} else {
			fields = strings.Split(text, delimiter)
		}
		if field > len(fields) {
			return nil, errors.Errorf("line %d: no field %d in %d field(s)", line, field, len(fields))
		}
		key, err := strconv.ParseInt(strings.TrimSpace(fields[field-1]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: key", line)
		}
		records = append(records, record{text: text, line: line, key: key})
	}
	return records, errors.WithStack(scanner.Err())
}

// sortRecords sorts records stably by key, either over the configured range
// or over the whole domain of the configured key type.
func sortRecords(records []record, cfg Config, logger *slog.Logger) ([]record, error) {
	switch cfg.KeyType {
	case "":
		return sortRange(records, *cfg.Min, *cfg.Max, cfg.MaxBuckets, logger)
	case "int8":
		return sortDomain[int8](records, cfg.MaxBuckets, logger)
	case "uint8":
		return sortDomain[uint8](records, cfg.MaxBuckets, logger)
	case "int16":
		return sortDomain[int16](records, cfg.MaxBuckets, logger)
	case "uint16":
		return sortDomain[uint16](records, cfg.MaxBuckets, logger)
	case "int32":
		return sortDomain[int32](records, cfg.MaxBuckets, logger)
	case "uint32":
		return sortDomain[uint32](records, cfg.MaxBuckets, logger)
	case "int64":
		return sortDomain[int64](records, cfg.MaxBuckets, logger)
	}
	return nil, errors.Errorf("unknown key type %s", cfg.KeyType)
}

func sortRange(records []record, lo, hi int64, maxBuckets int, logger *slog.Logger) ([]record, error) {
	// An inverted range is left for the sort to report.
	if lo <= hi {
		if err := checkBuckets(uint64(hi)-uint64(lo), maxBuckets, logger); err != nil {
			return nil, errors.Wrapf(err, "key range [%d, %d]", lo, hi)
		}
	}
	sorted, err := bucketsort.SortByKey(records, record.sortKey, lo, hi)
	return sorted, atLine(err, records)
}

func sortDomain[K bucketsort.Bounded](records []record, maxBuckets int, logger *slog.Logger) ([]record, error) {
	lo, hi := bucketsort.Bounds[K]()
	if err := checkBuckets(uint64(hi)-uint64(lo), maxBuckets, logger); err != nil {
		return nil, errors.Wrapf(err, "key type %T", lo)
	}
	// Converting a key that does not fit K would silently wrap it around.
	for _, r := range records {
		if r.key < int64(lo) || r.key > int64(hi) {
			return nil, errors.Errorf("line %d: key %d does not fit in %T", r.line, r.key, lo)
		}
	}
	sorted, err := bucketsort.SortAllByKey(records, func(r record) K { return K(r.key) })
	return sorted, atLine(err, records)
}

// atLine prefixes a sort error about a single record with the record's line.
func atLine(err error, records []record) error {
	var serr *bucketsort.Error
	if errors.As(err, &serr) && serr.Index >= 0 {
		return errors.Wrapf(err, "line %d", records[serr.Index].line)
	}
	return err
}

// checkBuckets refuses key spans whose histogram would exceed maxBuckets.
func checkBuckets(span uint64, maxBuckets int, logger *slog.Logger) error {
	if span > uint64(maxBuckets)-2 {
		return errors.Errorf("needs more than %s buckets; narrow the range or raise --max-buckets",
			humanize.Comma(int64(maxBuckets)))
	}
	buckets := span + 2
	logger.Debug("allocating histogram",
		"buckets", humanize.Comma(int64(buckets)),
		"size", humanize.IBytes(buckets*uint64(unsafe.Sizeof(int(0)))))
	return nil
}
