// Package fixedwidth implements the positional payment-record layout shared
// with the banking partner: a declarative field table plus a two-way codec
// over 280-character lines.
package fixedwidth

import "fmt"

// Kind is the value discipline of one field.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindDate    Kind = "date" // YYYYMMDD, valid calendar date
	KindAlpha   Kind = "alphanumeric"
	KindBlank   Kind = "blank"
)

// Field describes one positional field of a record line.
type Field struct {
	Name   string
	Offset int
	Length int
	Kind   Kind
	// Fixed, when set, is the exact value the field must carry.
	Fixed string
}

// Spec is an ordered, contiguous field table covering a whole line. It is
// the single source of truth for both decode and encode.
type Spec struct {
	LineLength int
	Fields     []Field
}

// Validate checks that the fields are contiguous, non-overlapping and cover
// exactly LineLength bytes. A violation is a configuration error, not a data
// error.
func (s *Spec) Validate() error {
	offset := 0
	for _, f := range s.Fields {
		if f.Offset != offset {
			return fmt.Errorf("field %s: offset %d, want %d (fields must be contiguous)", f.Name, f.Offset, offset)
		}
		if f.Length <= 0 {
			return fmt.Errorf("field %s: non-positive length %d", f.Name, f.Length)
		}
		if f.Fixed != "" && len(f.Fixed) != f.Length {
			return fmt.Errorf("field %s: fixed value %q does not fill length %d", f.Name, f.Fixed, f.Length)
		}
		offset += f.Length
	}
	if offset != s.LineLength {
		return fmt.Errorf("fields cover %d bytes, want %d", offset, s.LineLength)
	}
	return nil
}

// Field returns the descriptor for name.
func (s *Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Field names of the payment record layout.
const (
	FieldDirection       = "direction"
	FieldValueCode       = "value_code"
	FieldSenderNature    = "sender_nature"
	FieldSenderCode      = "sender_code"
	FieldRegionalCenter  = "regional_center"
	FieldOperationDate   = "operation_date"
	FieldBatchNumber     = "batch_number"
	FieldRecordCode      = "record_code"
	FieldCurrencyCode    = "currency_code"
	FieldRank            = "rank"
	FieldAmount          = "amount"
	FieldTransferNumber  = "transfer_number"
	FieldSenderAccount   = "sender_account"
	FieldSenderName      = "sender_name"
	FieldDestInstitution = "destination_institution"
	FieldDestCenter      = "destination_center"
	FieldBeneficiaryRIB  = "beneficiary_account"
	FieldBeneficiaryName = "beneficiary_name"
	FieldDossierRef      = "dossier_reference"
	FieldComplementCode  = "complement_code"
	FieldComplementCount = "complement_count"
	FieldOperationMotive = "operation_motive"
	FieldClearingDate    = "clearing_date"
	FieldRejectionMotive = "rejection_motive"
	FieldSenderSituation = "sender_situation"
	FieldAccountType     = "account_type"
	FieldAccountNature   = "account_nature"
	FieldChangeDossier   = "change_dossier"
	FieldFreeZone        = "free_zone"
)

var paymentSpec = &Spec{
	LineLength: 280,
	Fields: []Field{
		{Name: FieldDirection, Offset: 0, Length: 1, Kind: KindNumeric, Fixed: "1"},
		{Name: FieldValueCode, Offset: 1, Length: 2, Kind: KindNumeric, Fixed: "10"},
		{Name: FieldSenderNature, Offset: 3, Length: 1, Kind: KindNumeric},
		{Name: FieldSenderCode, Offset: 4, Length: 2, Kind: KindNumeric},
		{Name: FieldRegionalCenter, Offset: 6, Length: 3, Kind: KindBlank},
		{Name: FieldOperationDate, Offset: 9, Length: 8, Kind: KindDate},
		{Name: FieldBatchNumber, Offset: 17, Length: 4, Kind: KindNumeric},
		{Name: FieldRecordCode, Offset: 21, Length: 2, Kind: KindNumeric, Fixed: "21"},
		{Name: FieldCurrencyCode, Offset: 23, Length: 3, Kind: KindAlpha, Fixed: "788"},
		{Name: FieldRank, Offset: 26, Length: 2, Kind: KindNumeric, Fixed: "00"},
		{Name: FieldAmount, Offset: 28, Length: 15, Kind: KindNumeric},
		{Name: FieldTransferNumber, Offset: 43, Length: 7, Kind: KindNumeric},
		{Name: FieldSenderAccount, Offset: 50, Length: 20, Kind: KindNumeric},
		{Name: FieldSenderName, Offset: 70, Length: 30, Kind: KindAlpha},
		{Name: FieldDestInstitution, Offset: 100, Length: 2, Kind: KindNumeric},
		{Name: FieldDestCenter, Offset: 102, Length: 3, Kind: KindBlank},
		{Name: FieldBeneficiaryRIB, Offset: 105, Length: 20, Kind: KindNumeric},
		{Name: FieldBeneficiaryName, Offset: 125, Length: 30, Kind: KindAlpha},
		{Name: FieldDossierRef, Offset: 155, Length: 20, Kind: KindAlpha},
		{Name: FieldComplementCode, Offset: 175, Length: 1, Kind: KindNumeric},
		{Name: FieldComplementCount, Offset: 176, Length: 2, Kind: KindNumeric},
		{Name: FieldOperationMotive, Offset: 178, Length: 45, Kind: KindAlpha},
		{Name: FieldClearingDate, Offset: 223, Length: 8, Kind: KindDate},
		{Name: FieldRejectionMotive, Offset: 231, Length: 8, Kind: KindNumeric},
		{Name: FieldSenderSituation, Offset: 239, Length: 1, Kind: KindNumeric},
		{Name: FieldAccountType, Offset: 240, Length: 1, Kind: KindNumeric},
		{Name: FieldAccountNature, Offset: 241, Length: 1, Kind: KindAlpha},
		{Name: FieldChangeDossier, Offset: 242, Length: 1, Kind: KindAlpha},
		{Name: FieldFreeZone, Offset: 243, Length: 37, Kind: KindBlank},
	},
}

func init() {
	if err := paymentSpec.Validate(); err != nil {
		panic("fixedwidth: invalid payment spec: " + err.Error())
	}
}

// PaymentSpec returns the 280-byte layout of one bank payment record.
func PaymentSpec() *Spec { return paymentSpec }
