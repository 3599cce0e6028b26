package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/freelancetax/taxdesk/pkg/dateutil"
)

// CSVSummarizer writes one section,item,value row per figure in the report.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	rows := [][]string{{"Section", "Item", "Value"}}

	if s := r.Summary; s != nil {
		rows = append(rows,
			[]string{"summary", "fiscal_year", s.FiscalYear},
			[]string{"summary", "record_count", intToString(s.RecordCount)},
			[]string{"summary", "total_income", s.TotalIncome.StringFixed(2)},
			[]string{"summary", "gst_income", s.GSTIncome.StringFixed(2)},
			[]string{"summary", "income_tax", s.IncomeTax.StringFixed(2)},
			[]string{"summary", "effective_rate", s.EffectiveRate.StringFixed(4)},
			[]string{"summary", "tds_collected", s.TDSCollected.StringFixed(2)},
			[]string{"summary", "final_tax_payable", s.FinalTaxPayable.StringFixed(2)},
			[]string{"summary", "gst_required", boolToString(s.GSTRequired)},
			[]string{"summary", "advance_tax_due", s.AdvanceTaxDue.StringFixed(2)},
			[]string{"summary", "next_advance_tax_due", s.NextAdvanceTaxDue},
		)
	}
	if p := r.Deductions; p != nil {
		for _, d := range p.Deductions {
			rows = append(rows, []string{"deduction", d.Description, d.Amount.StringFixed(2)})
		}
		rows = append(rows,
			[]string{"deduction", "total_deductions", p.TotalDeductions.StringFixed(2)},
			[]string{"deduction", "taxable_income", p.TaxableIncome.StringFixed(2)},
			[]string{"deduction", "possible_savings", p.PossibleSavings.StringFixed(2)},
		)
	}
	if g := r.Regimes; g != nil {
		rows = append(rows,
			[]string{"regime", "new_regime_tax", g.NewRegimeTax.StringFixed(2)},
			[]string{"regime", "old_regime_tax", g.OldRegimeTax.StringFixed(2)},
			[]string{"regime", "recommended", g.Recommended},
			[]string{"regime", "savings", g.Savings.StringFixed(2)},
		)
	}
	if a := r.AdvanceTax; a != nil {
		rows = append(rows,
			[]string{"advance_tax", "percentage_due", a.PercentageDue.StringFixed(2)},
			[]string{"advance_tax", "amount_due", a.AmountDue.StringFixed(2)},
			[]string{"advance_tax", "next_due_date", a.NextDueDate},
		)
	}
	for _, in := range r.Installments {
		rows = append(rows, []string{"installment", dateutil.FormatDueDate(in.DueDate), in.CumulativePercentage.StringFixed(2)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
