package calculation

import (
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/freelancetax/taxdesk/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ComputeTaxSummary derives the tax position of user from records. Every record
// is validated before any arithmetic runs; the first invalid one fails the
// whole summary.
func (ce *CalculationEngine) ComputeTaxSummary(user domain.User, records []domain.IncomeRecord, today time.Time) (domain.TaxSummary, error) {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return domain.TaxSummary{}, err
		}
		if user.ID != "" && records[i].UserID != user.ID {
			return domain.TaxSummary{}, domain.NewValidationError("user_id", "record %s belongs to %s, not %s",
				records[i].ID, records[i].UserID, user.ID)
		}
	}

	var total, gstIncome, tds decimal.Decimal
	for _, rec := range records {
		total = total.Add(rec.Amount)
		if rec.GSTApplicable {
			gstIncome = gstIncome.Add(rec.Amount)
		}
		if rec.TDSDeducted {
			tds = tds.Add(ce.TaxCalc.ApplyTDS(rec.Amount))
		}
	}

	incomeTax := ce.TaxCalc.CalculateIncomeTax(total)
	payable := money.ClampZero(incomeTax.Sub(tds))
	advance := ce.Scheduler.AdvanceTaxDue(today, payable)

	effective := decimal.Zero
	if total.IsPositive() {
		effective = incomeTax.Div(total).Round(4)
	}

	summary := domain.TaxSummary{
		UserID:            user.ID,
		FiscalYear:        dateutil.FiscalYearLabel(today),
		RecordCount:       len(records),
		TotalIncome:       total,
		GSTIncome:         gstIncome,
		TDSCollected:      tds,
		IncomeTax:         incomeTax,
		EffectiveRate:     effective,
		FinalTaxPayable:   payable,
		GSTRequired:       ce.TaxCalc.CheckGSTThreshold(total),
		AdvanceTaxDue:     advance.AmountDue,
		NextAdvanceTaxDue: advance.NextDueDate,
	}
	ce.Logger.Debugf("tax summary for %s: income=%s tax=%s tds=%s payable=%s",
		user.ID, total.String(), incomeTax.String(), tds.String(), payable.String())
	return summary, nil
}

// fiscalYearRecords keeps the records dated inside the fiscal year containing today.
func fiscalYearRecords(records []domain.IncomeRecord, today time.Time) []domain.IncomeRecord {
	out := make([]domain.IncomeRecord, 0, len(records))
	for _, rec := range records {
		if dateutil.InFiscalYear(rec.Date, today) {
			out = append(out, rec)
		}
	}
	return out
}
