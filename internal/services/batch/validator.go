// Package batch implements the wire-transfer batch pipeline: inbound file
// validation, the batch/transfer state machine and outbound file generation.
package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"virement-batch-backend/internal/fixedwidth"

	"github.com/shopspring/decimal"
)

// ErrEmptyFile rejects an upload containing no records at all. Files with
// bad lines are not rejected wholesale; their errors are collected instead.
var ErrEmptyFile = errors.New("file contains no records")

// Post-decode line error codes, on top of the codec's field codes.
const (
	CodeAmountNotPositive = "AMOUNT_NOT_POSITIVE"
	CodeDuplicateRef      = "DUPLICATE_REFERENCE"
)

// LineError carries every field error found on one line of an uploaded
// file. Line numbers are 1-based positions in the original file.
type LineError struct {
	Line   int                     `json:"line"`
	Fields []fixedwidth.FieldError `json:"fields"`
}

// DecodedTransfer is the typed result of decoding one valid line.
type DecodedTransfer struct {
	Line            int
	Amount          decimal.Decimal
	Reference       string
	Motive          string
	BeneficiaryRIB  string
	BeneficiaryName string
	SenderRIB       string
	SenderName      string
	OperationDate   time.Time
	Record          fixedwidth.Record
}

// FileValidation is the complete diagnosis of one uploaded file: every line
// that decodes cleanly and every error found, side by side.
type FileValidation struct {
	Transfers []DecodedTransfer `json:"transfers"`
	Errors    []LineError       `json:"errors"`
}

// Valid reports whether the file decoded without a single error.
func (v *FileValidation) Valid() bool { return len(v.Errors) == 0 }

// Validator decodes uploaded payment files and re-checks generated ones. It
// is pure over byte buffers; persistence happens elsewhere.
type Validator struct {
	spec *fixedwidth.Spec
}

func NewValidator() *Validator {
	return &Validator{spec: fixedwidth.PaymentSpec()}
}

// ValidateFile splits content into lines, skips blank ones and decodes each
// record, collecting all per-line errors instead of stopping at the first.
// Only a file with no records at all fails as a whole.
func (v *Validator) ValidateFile(content []byte) (*FileValidation, error) {
	result := &FileValidation{}
	seenRefs := make(map[string]int)

	lines := strings.Split(string(content), "\n")
	records := 0
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records++
		lineNo := i + 1

		rec, fieldErrs := fixedwidth.DecodeLine(v.spec, line)
		if len(fieldErrs) > 0 {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Fields: fieldErrs})
			continue
		}

		transfer, errs := v.buildTransfer(lineNo, rec, seenRefs)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, LineError{Line: lineNo, Fields: errs})
			continue
		}
		result.Transfers = append(result.Transfers, transfer)
	}

	if records == 0 {
		return nil, ErrEmptyFile
	}
	return result, nil
}

func (v *Validator) buildTransfer(lineNo int, rec fixedwidth.Record, seenRefs map[string]int) (DecodedTransfer, []fixedwidth.FieldError) {
	var errs []fixedwidth.FieldError

	amountField, _ := v.spec.Field(fixedwidth.FieldAmount)
	amount, err := fixedwidth.ParseAmount(rec[fixedwidth.FieldAmount])
	if err != nil || !amount.IsPositive() {
		errs = append(errs, fixedwidth.FieldError{
			Field:  fixedwidth.FieldAmount,
			Offset: amountField.Offset,
			Code:   CodeAmountNotPositive,
			Value:  rec[fixedwidth.FieldAmount],
		})
	}

	refField, _ := v.spec.Field(fixedwidth.FieldDossierRef)
	reference := rec.Trimmed(fixedwidth.FieldDossierRef)
	if first, dup := seenRefs[reference]; dup {
		errs = append(errs, fixedwidth.FieldError{
			Field:  fixedwidth.FieldDossierRef,
			Offset: refField.Offset,
			Code:   CodeDuplicateRef,
			Value:  fmt.Sprintf("%s (first seen on line %d)", reference, first),
		})
	} else {
		seenRefs[reference] = lineNo
	}

	opDate, _ := fixedwidth.ParseDate(rec[fixedwidth.FieldOperationDate])

	if len(errs) > 0 {
		return DecodedTransfer{}, errs
	}
	return DecodedTransfer{
		Line:            lineNo,
		Amount:          amount,
		Reference:       reference,
		Motive:          rec.Trimmed(fixedwidth.FieldOperationMotive),
		BeneficiaryRIB:  rec.Trimmed(fixedwidth.FieldBeneficiaryRIB),
		BeneficiaryName: rec.Trimmed(fixedwidth.FieldBeneficiaryName),
		SenderRIB:       rec.Trimmed(fixedwidth.FieldSenderAccount),
		SenderName:      rec.Trimmed(fixedwidth.FieldSenderName),
		OperationDate:   opDate,
		Record:          rec,
	}, nil
}

// SelfCheckError reports that freshly generated output failed its own
// validation. This is an encoder defect, never a data-entry problem, and
// must stop the release pipeline.
type SelfCheckError struct {
	Errors []LineError
	cause  error
}

func (e *SelfCheckError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("generated file failed self-check: %v", e.cause)
	}
	return fmt.Sprintf("generated file failed self-check: %d line(s) rejected by own decoder", len(e.Errors))
}

func (e *SelfCheckError) Unwrap() error { return e.cause }

// SelfCheck re-runs inbound validation over generated content. Any error
// here indicates encoder/decoder drift.
func (v *Validator) SelfCheck(content []byte) error {
	result, err := v.ValidateFile(content)
	if err != nil {
		return &SelfCheckError{cause: err}
	}
	if !result.Valid() {
		return &SelfCheckError{Errors: result.Errors}
	}
	return nil
}
