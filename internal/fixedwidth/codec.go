package fixedwidth

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record holds the raw fixed-width substrings of one line, keyed by field
// name. Values keep their original padding so that re-encoding a decoded
// record reproduces the input bytes.
type Record map[string]string

// Trimmed returns the value of name with surrounding spaces stripped.
func (r Record) Trimmed(name string) string {
	return strings.TrimSpace(r[name])
}

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	dateRe   = regexp.MustCompile(`^[0-9]{8}$`)
)

const dateLayout = "20060102"

// DecodeLine splits line along spec and checks every field against its kind.
// All field errors are collected; a line with errors still returns the raw
// record so callers can report the offending values.
func DecodeLine(spec *Spec, line string) (Record, []FieldError) {
	if len(line) != spec.LineLength {
		return nil, []FieldError{{
			Field:  "line",
			Offset: 0,
			Code:   CodeLineLength,
			Value:  fmt.Sprintf("length %d, want %d", len(line), spec.LineLength),
		}}
	}

	rec := make(Record, len(spec.Fields))
	var errs []FieldError
	for _, f := range spec.Fields {
		raw := line[f.Offset : f.Offset+f.Length]
		rec[f.Name] = raw

		if f.Fixed != "" {
			if raw != f.Fixed {
				errs = append(errs, FieldError{Field: f.Name, Offset: f.Offset, Code: CodeFixedMismatch, Value: raw})
			}
			continue
		}

		switch f.Kind {
		case KindNumeric:
			if !digitsRe.MatchString(raw) {
				errs = append(errs, FieldError{Field: f.Name, Offset: f.Offset, Code: CodeNotNumeric, Value: raw})
			}
		case KindDate:
			if !dateRe.MatchString(raw) {
				errs = append(errs, FieldError{Field: f.Name, Offset: f.Offset, Code: CodeBadDate, Value: raw})
				continue
			}
			if _, err := time.Parse(dateLayout, raw); err != nil {
				errs = append(errs, FieldError{Field: f.Name, Offset: f.Offset, Code: CodeBadDate, Value: raw})
			}
		case KindBlank:
			if strings.Trim(raw, " ") != "" {
				errs = append(errs, FieldError{Field: f.Name, Offset: f.Offset, Code: CodeNotBlank, Value: raw})
			}
		}
	}
	return rec, errs
}

// EncodeLine renders rec into one line along spec. Numeric values are
// zero-left-padded, alphanumeric values space-right-padded (truncated with a
// warning when oversized), blank fields written as spaces and fixed fields
// verbatim. A numeric or date value that cannot fit its field is an error,
// never silently truncated.
func EncodeLine(spec *Spec, rec Record) (string, []Warning, error) {
	buf := make([]byte, spec.LineLength)
	var warns []Warning

	for _, f := range spec.Fields {
		var out string
		switch {
		case f.Fixed != "":
			out = f.Fixed
		case f.Kind == KindBlank:
			out = strings.Repeat(" ", f.Length)
		case f.Kind == KindNumeric:
			v := strings.TrimSpace(rec[f.Name])
			if v == "" {
				v = "0"
			}
			if !digitsRe.MatchString(v) {
				return "", warns, fmt.Errorf("encode %s: value %q is not numeric", f.Name, v)
			}
			if len(v) > f.Length {
				return "", warns, fmt.Errorf("encode %s: value %q exceeds %d digits", f.Name, v, f.Length)
			}
			out = padLeft(v, f.Length, '0')
		case f.Kind == KindDate:
			v := strings.TrimSpace(rec[f.Name])
			if !dateRe.MatchString(v) {
				return "", warns, fmt.Errorf("encode %s: value %q is not a YYYYMMDD date", f.Name, v)
			}
			if _, err := time.Parse(dateLayout, v); err != nil {
				return "", warns, fmt.Errorf("encode %s: %w", f.Name, err)
			}
			out = v
		default: // KindAlpha
			v := strings.TrimRight(rec[f.Name], " ")
			if len(v) > f.Length {
				warns = append(warns, Warning{Field: f.Name, Code: CodeTruncation, Value: v})
				v = v[:f.Length]
			}
			out = padRight(v, f.Length, ' ')
		}
		copy(buf[f.Offset:], out)
	}
	return string(buf), warns, nil
}

// ParseAmount converts a raw numeric amount field (integer hundredths) into
// a 2-decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if !digitsRe.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("amount %q is not numeric", raw)
	}
	cents, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return cents.Shift(-2), nil
}

// FormatAmount renders a 2-decimal amount as integer hundredths, zero-padded
// to width digits.
func FormatAmount(amount decimal.Decimal, width int) (string, error) {
	if amount.IsNegative() {
		return "", fmt.Errorf("amount %s is negative", amount)
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return "", fmt.Errorf("amount %s has more than 2 decimals", amount)
	}
	s := cents.Truncate(0).String()
	if len(s) > width {
		return "", fmt.Errorf("amount %s exceeds %d digits", amount, width)
	}
	return padLeft(s, width, '0'), nil
}

// ParseDate parses a YYYYMMDD field value.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}

// FormatDate renders t as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func padLeft(s string, length int, pad byte) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(pad), length-len(s)) + s
}

func padRight(s string, length int, pad byte) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(string(pad), length-len(s))
}
