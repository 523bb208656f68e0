package model

import (
	"errors"
	"fmt"
)

// FileNotFoundError is returned when the input file does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// CSVParseError reports a structural problem with a CSV row.
// Row is the 1-based data row; row 0 is the header.
type CSVParseError struct {
	Row    int
	Reason string
}

func (e *CSVParseError) Error() string {
	return fmt.Sprintf("csv row %d: %s", e.Row, e.Reason)
}

// InsufficientDataError reports that fewer samples were available than required.
type InsufficientDataError struct {
	Required int
	Found    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d samples, got %d", e.Required, e.Found)
}

// MalformedTimestampError reports a timestamp that is not valid ISO-8601.
type MalformedTimestampError struct {
	Row   int
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("csv row %d: malformed timestamp %q", e.Row, e.Value)
}

// NonNumericPriceError reports a price field that is not a decimal number.
type NonNumericPriceError struct {
	Row   int
	Value string
}

func (e *NonNumericPriceError) Error() string {
	return fmt.Sprintf("csv row %d: non-numeric price %q", e.Row, e.Value)
}

// ErrorKind names the category of err for exit codes and metrics labels.
func ErrorKind(err error) string {
	var (
		notFound  *FileNotFoundError
		parse     *CSVParseError
		short     *InsufficientDataError
		timestamp *MalformedTimestampError
		price     *NonNumericPriceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return "file_not_found"
	case errors.As(err, &parse):
		return "csv_parse"
	case errors.As(err, &short):
		return "insufficient_data"
	case errors.As(err, &timestamp):
		return "malformed_timestamp"
	case errors.As(err, &price):
		return "non_numeric_price"
	default:
		return "other"
	}
}
