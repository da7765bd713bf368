package batch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"virement-batch-backend/internal/fixedwidth"
	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"

	"github.com/google/uuid"
)

// Defaults for the bank-protocol fields that are not carried per transfer.
const (
	senderNature    = "1"
	complementCode  = "0"
	complementCount = "00"
	rejectionNone   = "00000000"
	senderSituation = "1"
	accountType     = "1"
	accountNature   = "C"
	changeDossier   = "N"
)

// Generator renders the authoritative output file for an approved batch and
// self-checks it before exposure.
type Generator struct {
	batches   *repository.BatchRepository
	validator *Validator
	spec      *fixedwidth.Spec
}

func NewGenerator(batches *repository.BatchRepository, validator *Validator) *Generator {
	return &Generator{
		batches:   batches,
		validator: validator,
		spec:      fixedwidth.PaymentSpec(),
	}
}

// GenerateFile encodes every transfer of the batch, in stored order, into
// one 280-byte line each, joined by a single newline with no trailing blank
// line. The result passes through the validator's self-check; malformed
// output is never exposed.
func (g *Generator) GenerateFile(batchID uuid.UUID) ([]byte, []fixedwidth.Warning, error) {
	batch, err := g.batches.GetByID(batchID)
	if err != nil {
		return nil, nil, err
	}
	if len(batch.Transfers) == 0 {
		return nil, nil, fmt.Errorf("batch %s has no transfers", batchID)
	}

	opDate := fixedwidth.FormatDate(time.Now())
	lines := make([]string, 0, len(batch.Transfers))
	var warnings []fixedwidth.Warning

	for i, t := range batch.Transfers {
		rec, err := g.buildRecord(batch, &batch.Transfers[i], i+1, opDate)
		if err != nil {
			return nil, nil, fmt.Errorf("transfer %s: %w", t.Reference, err)
		}
		line, warns, err := fixedwidth.EncodeLine(g.spec, rec)
		if err != nil {
			return nil, nil, fmt.Errorf("transfer %s: %w", t.Reference, err)
		}
		warnings = append(warnings, warns...)
		lines = append(lines, line)
	}

	content := []byte(strings.Join(lines, "\n"))
	if err := g.validator.SelfCheck(content); err != nil {
		return nil, nil, err
	}
	return content, warnings, nil
}

func (g *Generator) buildRecord(batch *models.Batch, t *models.Transfer, seq int, opDate string) (fixedwidth.Record, error) {
	amount, err := fixedwidth.FormatAmount(t.Amount, 15)
	if err != nil {
		return nil, err
	}
	motive := t.Motive
	if motive == "" {
		motive = "VIREMENT " + batch.Society.Name
	}
	return fixedwidth.Record{
		fixedwidth.FieldSenderNature:    senderNature,
		fixedwidth.FieldSenderCode:      bankCode(batch.Donneur.RIB),
		fixedwidth.FieldOperationDate:   opDate,
		fixedwidth.FieldBatchNumber:     strconv.Itoa(batch.Number),
		fixedwidth.FieldAmount:          amount,
		fixedwidth.FieldTransferNumber:  strconv.Itoa(seq),
		fixedwidth.FieldSenderAccount:   batch.Donneur.RIB,
		fixedwidth.FieldSenderName:      batch.Donneur.Name,
		fixedwidth.FieldDestInstitution: bankCode(t.Member.RIB),
		fixedwidth.FieldBeneficiaryRIB:  t.Member.RIB,
		fixedwidth.FieldBeneficiaryName: t.Member.Name,
		fixedwidth.FieldDossierRef:      t.Reference,
		fixedwidth.FieldComplementCode:  complementCode,
		fixedwidth.FieldComplementCount: complementCount,
		fixedwidth.FieldOperationMotive: motive,
		fixedwidth.FieldClearingDate:    opDate,
		fixedwidth.FieldRejectionMotive: rejectionNone,
		fixedwidth.FieldSenderSituation: senderSituation,
		fixedwidth.FieldAccountType:     accountType,
		fixedwidth.FieldAccountNature:   accountNature,
		fixedwidth.FieldChangeDossier:   changeDossier,
	}, nil
}

// bankCode extracts the 2-digit institution code leading a RIB.
func bankCode(rib string) string {
	if len(rib) >= 2 {
		return rib[:2]
	}
	return "00"
}
