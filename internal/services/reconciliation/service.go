// Package reconciliation matches settled local transfers against an
// external ledger of payments. It reports partitions; it never mutates
// transfer status, which stays with the batch state machine.
package reconciliation

import (
	"time"

	"virement-batch-backend/internal/models"
	"virement-batch-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amountTolerance is the maximum accepted gap between a local amount and an
// external settlement amount.
var amountTolerance = decimal.NewFromInt(1)

// LocalTransfer is the local side of a match.
type LocalTransfer struct {
	ID        uuid.UUID       `json:"id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
}

// ExternalPayment is one settled payment reported by the banking partner.
type ExternalPayment struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
}

// Pair is one matched local/external couple.
type Pair struct {
	Local    LocalTransfer   `json:"local"`
	External ExternalPayment `json:"external"`
}

// Report partitions both sides after one reconciliation pass. Unmatched
// entries are results, not failures.
type Report struct {
	Matched           []Pair            `json:"matched"`
	UnmatchedLocal    []LocalTransfer   `json:"unmatched_local"`
	UnmatchedExternal []ExternalPayment `json:"unmatched_external"`
}

type Service struct {
	transfers *repository.TransferRepository
}

func NewService(transfers *repository.TransferRepository) *Service {
	return &Service{transfers: transfers}
}

// Reconcile runs a single greedy first-fit pass: externals are scanned in
// the order given and each one consumes at most one local transfer (and
// vice versa). When several externals could match the same local transfer,
// the first encountered wins; the tie-break is deterministic but arbitrary,
// not a business rule.
func (s *Service) Reconcile(local []LocalTransfer, external []ExternalPayment) Report {
	report := Report{
		Matched:           []Pair{},
		UnmatchedLocal:    []LocalTransfer{},
		UnmatchedExternal: []ExternalPayment{},
	}
	used := make([]bool, len(local))

	for _, ext := range external {
		matched := false
		for i, loc := range local {
			if used[i] {
				continue
			}
			if matches(loc, ext) {
				used[i] = true
				report.Matched = append(report.Matched, Pair{Local: loc, External: ext})
				matched = true
				break
			}
		}
		if !matched {
			report.UnmatchedExternal = append(report.UnmatchedExternal, ext)
		}
	}

	for i, loc := range local {
		if !used[i] {
			report.UnmatchedLocal = append(report.UnmatchedLocal, loc)
		}
	}
	return report
}

// ReconcileSettled loads the settled local transfers and reconciles them
// against the given external payments.
func (s *Service) ReconcileSettled(external []ExternalPayment) (Report, error) {
	settled, err := s.transfers.FindByStatus(models.TransferSettled)
	if err != nil {
		return Report{}, err
	}
	local := make([]LocalTransfer, len(settled))
	for i, t := range settled {
		created := t.CreatedAt
		local[i] = LocalTransfer{
			ID:        t.ID,
			Reference: t.Reference,
			Amount:    t.Amount,
			Date:      &created,
		}
	}
	return s.Reconcile(local, external), nil
}

// matches checks reference equality, amount within tolerance and, when both
// sides carry one, calendar-day date equality.
func matches(loc LocalTransfer, ext ExternalPayment) bool {
	if loc.Reference != ext.Reference {
		return false
	}
	if loc.Amount.Sub(ext.Amount).Abs().GreaterThan(amountTolerance) {
		return false
	}
	if loc.Date != nil && ext.Date != nil && !sameDay(*loc.Date, *ext.Date) {
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
