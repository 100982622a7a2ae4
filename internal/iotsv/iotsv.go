// Package iotsv streams tab-separated files as header-keyed records.
//
// The first non-empty line is the header. Every later line is zipped with
// the header by position: missing trailing fields become empty strings and
// extra fields are dropped. Whitespace-only lines are skipped. Quotes have no
// special meaning, GBIF backbone files contain unbalanced quotes in names.
package iotsv

import (
	"bufio"
	"io"
	"iter"
	"os"
	"slices"
	"strings"
)

// MaxLineSize is the default limit of a single line in bytes.
const MaxLineSize = 1 << 20

// Record is one data line keyed by the header fields.
type Record map[string]string

// Reader streams records of a TSV file. Each call to Records opens the file
// anew, so a Reader can be iterated several times.
type Reader struct {
	path    string
	maxLine int
}

// Option configures a Reader.
type Option func(*Reader)

// OptMaxLineSize changes the line size limit.
func OptMaxLineSize(i int) Option {
	return func(r *Reader) {
		if i > 0 {
			r.maxLine = i
		}
	}
}

// New creates a Reader for a file at path.
func New(path string, opts ...Option) *Reader {
	res := &Reader{path: path, maxLine: MaxLineSize}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Path returns the path of the file.
func (r *Reader) Path() string {
	return r.path
}

// Records returns a lazy sequence of records. When the file cannot be
// opened or read, the sequence yields a single error and stops. The file
// is closed when the sequence ends, including an early break by the
// consumer.
func (r *Reader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(r.path)
		if err != nil {
			yield(nil, OpenError(r.path, err))
			return
		}
		defer f.Close()

		sc := r.scanner(f)

		var header []string
		var lineNum int
		for sc.Scan() {
			lineNum++
			line := strings.TrimSuffix(sc.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}

			fields := strings.Split(line, "\t")
			if header == nil {
				header = trimHeader(fields)
				continue
			}

			if !yield(zip(header, fields), nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield(nil, ParseError(r.path, lineNum+1, err))
		}
	}
}

// Header reads the header of the file.
func (r *Reader) Header() ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, OpenError(r.path, err)
	}
	defer f.Close()

	sc := r.scanner(f)
	var lineNum int
	for sc.Scan() {
		lineNum++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return trimHeader(strings.Split(line, "\t")), nil
	}
	if err := sc.Err(); err != nil {
		return nil, ParseError(r.path, lineNum+1, err)
	}
	return nil, nil
}

// MissingColumns returns the columns absent from the header of the file.
func (r *Reader) MissingColumns(cols ...string) ([]string, error) {
	header, err := r.Header()
	if err != nil {
		return nil, err
	}
	var res []string
	for _, v := range cols {
		if !slices.Contains(header, v) {
			res = append(res, v)
		}
	}
	return res, nil
}

// scanner creates a line scanner. The initial buffer never exceeds the line
// limit, bufio treats the larger of the two as the limit.
func (r *Reader) scanner(f io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, min(64*1024, r.maxLine)), r.maxLine)
	return sc
}

func trimHeader(fields []string) []string {
	res := make([]string, len(fields))
	for i, v := range fields {
		v = strings.TrimSpace(v)
		res[i] = strings.TrimPrefix(v, "\ufeff")
	}
	return res
}

func zip(header, fields []string) Record {
	res := make(Record, len(header))
	for i, k := range header {
		if i < len(fields) {
			res[k] = fields[i]
		} else {
			res[k] = ""
		}
	}
	return res
}
