package fixedwidth

import "fmt"

// Field-level decode error codes. These are recoverable data errors,
// collected per line rather than aborting a file.
const (
	CodeFixedMismatch = "FIELD_FIXED_MISMATCH"
	CodeNotNumeric    = "FIELD_NOT_NUMERIC"
	CodeBadDate       = "FIELD_BAD_DATE"
	CodeNotBlank      = "FIELD_NOT_BLANK"
	CodeLineLength    = "LINE_LENGTH_MISMATCH"
)

// CodeTruncation flags a lossy encode of an oversized alphanumeric value.
const CodeTruncation = "TRUNCATION"

// FieldError describes one failed field check, tagged with the field name
// and its byte offset in the line.
type FieldError struct {
	Field  string `json:"field"`
	Offset int    `json:"offset"`
	Code   string `json:"code"`
	Value  string `json:"value"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: field %s at offset %d (value %q)", e.Code, e.Field, e.Offset, e.Value)
}

// Warning is a non-fatal encode diagnostic.
type Warning struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Value string `json:"value"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: field %s (value %q)", w.Code, w.Field, w.Value)
}
