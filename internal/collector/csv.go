package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SMASentinel/internal/model"
)

// timestampLayouts are tried in order; zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// CSVFetcher reads a timestamp,price CSV file.
type CSVFetcher struct {
	Path string
}

// NewCSVFetcher creates a fetcher for the given file.
func NewCSVFetcher(path string) *CSVFetcher {
	return &CSVFetcher{Path: path}
}

func (f *CSVFetcher) Name() string { return "csv:" + f.Path }

// FetchSamples opens the file and parses every row.
func (f *CSVFetcher) FetchSamples() ([]model.Sample, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.FileNotFoundError{Path: f.Path}
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()
	return ParseCSV(file)
}

// ParseCSV reads a header with timestamp and price columns followed by data rows
// in strictly ascending time order.
func ParseCSV(r io.Reader) ([]model.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &model.CSVParseError{Row: 0, Reason: "missing header"}
	}
	if err != nil {
		return nil, &model.CSVParseError{Row: 0, Reason: err.Error()}
	}
	tsCol, priceCol, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var samples []model.Sample
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &model.CSVParseError{Row: row, Reason: err.Error()}
		}
		if len(record) != len(header) {
			return nil, &model.CSVParseError{
				Row:    row,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			}
		}

		s, err := parseRecord(row, record[tsCol], record[priceCol])
		if err != nil {
			return nil, err
		}
		if n := len(samples); n > 0 && !s.Time.After(samples[n-1].Time) {
			return nil, &model.CSVParseError{
				Row:    row,
				Reason: fmt.Sprintf("timestamp %s is not after previous row", s.Time.Format(time.RFC3339)),
			}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func mapColumns(header []string) (tsCol, priceCol int, err error) {
	tsCol, priceCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "timestamp":
			tsCol = i
		case "price":
			priceCol = i
		}
	}
	if tsCol < 0 || priceCol < 0 {
		return 0, 0, &model.CSVParseError{
			Row:    0,
			Reason: fmt.Sprintf("header must contain timestamp and price, got %q", strings.Join(header, ",")),
		}
	}
	return tsCol, priceCol, nil
}

func parseRecord(row int, rawTS, rawPrice string) (model.Sample, error) {
	ts, ok := parseTimestamp(strings.TrimSpace(rawTS))
	if !ok {
		return model.Sample{}, &model.MalformedTimestampError{Row: row, Value: rawTS}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rawPrice))
	if err != nil {
		return model.Sample{}, &model.NonNumericPriceError{Row: row, Value: rawPrice}
	}
	return model.Sample{Time: ts, Price: price.InexactFloat64()}, nil
}

func parseTimestamp(v string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
