package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// GeneratePDF renders the companion bordereau: batch header, one row per
// transfer in stored order, and a total line.
func (g *Generator) GeneratePDF(batchID uuid.UUID) ([]byte, error) {
	batch, err := g.batches.GetByID(batchID)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "BORDEREAU DE VIREMENTS", props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(6,
		text.NewCol(6, "Société : "+batch.Society.Name, props.Text{Size: 9}),
		text.NewCol(6, fmt.Sprintf("Bordereau N° %d", batch.Number), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(6, "Donneur d'ordre : "+batch.Donneur.Name, props.Text{Size: 9}),
		text.NewCol(6, "Date : "+time.Now().Format("02/01/2006"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6, text.NewCol(12, "Compte émetteur : "+batch.Donneur.RIB, props.Text{Size: 9}))

	m.AddRow(8,
		text.NewCol(1, "N°", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, "Bénéficiaire", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, "RIB", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Référence", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Montant", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	total := decimal.Zero
	for i, t := range batch.Transfers {
		total = total.Add(t.Amount)
		m.AddRow(6,
			text.NewCol(1, fmt.Sprintf("%d", i+1), props.Text{Size: 8}),
			text.NewCol(3, t.Member.Name, props.Text{Size: 8}),
			text.NewCol(4, t.Member.RIB, props.Text{Size: 8}),
			text.NewCol(2, t.Reference, props.Text{Size: 8}),
			text.NewCol(2, t.Amount.StringFixed(2), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(8,
		text.NewCol(10, fmt.Sprintf("Total (%d virements)", len(batch.Transfers)), props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
		text.NewCol(2, total.StringFixed(2), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
