package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors wrapped by CatalogLoadError and RowParseWarning.
var (
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrUnsupportedDataset = errors.New("unsupported dataset format")
	ErrNoNameColumn       = errors.New("no recognizable part name column")
	ErrMissingName        = errors.New("row has no part name")
)

// CatalogLoadError reports a dataset that could not be located, read or
// mapped onto its family schema. It is fatal to the load.
type CatalogLoadError struct {
	Dataset string
	Err     error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("catalog: load %q: %v", e.Dataset, e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }

// RowParseWarning records a single row field that could not be normalized.
// The row is kept with the field marked missing (or defaulted), unless the
// field is the part name, in which case the row is dropped.
type RowParseWarning struct {
	Row   int
	Field string
	Raw   string
	Err   error
}

func (w RowParseWarning) Error() string {
	return fmt.Sprintf("row %d: %s %q: %v", w.Row, w.Field, w.Raw, w.Err)
}

func (w RowParseWarning) Unwrap() error { return w.Err }

// MarshalJSON flattens the cause into a message string.
func (w RowParseWarning) MarshalJSON() ([]byte, error) {
	msg := ""
	if w.Err != nil {
		msg = w.Err.Error()
	}
	return json.Marshal(struct {
		Row     int    `json:"row"`
		Field   string `json:"field"`
		Raw     string `json:"raw"`
		Message string `json:"message"`
	}{w.Row, w.Field, w.Raw, msg})
}
