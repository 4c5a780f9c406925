// Package loader reads chart input from JSON, CSV and TSV files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coredds/mintwaterfall/internal/data"
)

// Format is an input file format.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ErrUnknownFormat is returned for unsupported file formats.
var ErrUnknownFormat = errors.New("loader: unknown format")

// Stdin is the path that selects standard input.
const Stdin = "-"

// DetectFormat guesses a format from a file extension. Unknown extensions
// and stdin are treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, FormatJSON, FormatCSV, FormatTSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// LoadFile reads items from path, or from stdin when path is "-".
func LoadFile(path string, format Format, cfg data.TransformConfig) ([]data.ChartDataItem, error) {
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	if path == Stdin {
		return Decode(os.Stdin, format, cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := Decode(f, format, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Decode reads items in format from r.
func Decode(r io.Reader, format Format, cfg data.TransformConfig) ([]data.ChartDataItem, error) {
	switch format {
	case FormatJSON, FormatAuto:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data.DecodeJSON(b, cfg)
	case FormatCSV:
		return decodeDelimited(r, ',', cfg)
	case FormatTSV:
		return decodeDelimited(r, '\t', cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadRecords parses delimited text with a header row into records keyed
// by trimmed header names. Empty cells are omitted from the record.
func ReadRecords(r io.Reader, comma rune) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	var records []map[string]any
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		rec := make(map[string]any, len(headers))
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			if val = strings.TrimSpace(val); val != "" {
				rec[headers[i]] = val
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeDelimited(r io.Reader, comma rune, cfg data.TransformConfig) ([]data.ChartDataItem, error) {
	records, err := ReadRecords(r, comma)
	if err != nil {
		return nil, err
	}
	// Every cell is text, so numeric parsing is always on.
	cfg.ParseNumbers = true
	return data.TransformRecords(records, cfg)
}
