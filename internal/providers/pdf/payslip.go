package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.OrgName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(10,
		text.NewCol(12, "Payslip "+data.Month, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(data.EmployeeName, props.Text{Style: fontstyle.Bold}),
			text.New("Employee no: "+data.EmployeeCode, props.Text{Top: 5}),
			text.New("Role: "+data.Role, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Generated: "+data.GeneratedAt, props.Text{Align: align.Right}),
		),
	)

	m.AddRow(8,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "Base salary", props.Text{Size: 9}),
		text.NewCol(4, data.BaseSalary, props.Text{Size: 9, Align: align.Right}),
	)
	for _, line := range data.Lines {
		label := line.Label
		if line.Kind != "" {
			label += " (" + line.Kind + ")"
		}
		m.AddRow(8,
			text.NewCol(8, label, props.Text{Size: 9}),
			text.NewCol(4, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		text.NewCol(8, "Gross pay", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, data.GrossPay, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "PAYE deduction", props.Text{Size: 9}),
		text.NewCol(4, data.PayeDeduction, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "Employee EPF", props.Text{Size: 9}),
		text.NewCol(4, data.EmployeeEPF, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(8, "Net pay", props.Text{Size: 11, Style: fontstyle.Bold}),
		text.NewCol(4, data.NetPay, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)

	// Employer contributions are informational, not part of net pay.
	m.AddRow(8,
		text.NewCol(8, "Employer EPF contribution", props.Text{Size: 8}),
		text.NewCol(4, data.EmployerEPF, props.Text{Size: 8, Align: align.Right}),
	)
	m.AddRow(8,
		text.NewCol(8, "Employer ETF contribution", props.Text{Size: 8}),
		text.NewCol(4, data.EmployerETF, props.Text{Size: 8, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
