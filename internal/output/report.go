package output

import (
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
)

// Report bundles the figures a user asks for in one run. Sections left nil are omitted.
type Report struct {
	GeneratedAt  time.Time                `yaml:"generated_at" json:"generated_at"`
	UserID       string                   `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	Summary      *domain.TaxSummary       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Deductions   *domain.DeductionPlan    `yaml:"deductions,omitempty" json:"deductions,omitempty"`
	Regimes      *domain.RegimeComparison `yaml:"regimes,omitempty" json:"regimes,omitempty"`
	AdvanceTax   *domain.AdvanceTaxDue    `yaml:"advance_tax,omitempty" json:"advance_tax,omitempty"`
	Installments []domain.Installment     `yaml:"installments,omitempty" json:"installments,omitempty"`
}

// Empty reports whether no section was filled in.
func (r *Report) Empty() bool {
	return r.Summary == nil && r.Deductions == nil && r.Regimes == nil && r.AdvanceTax == nil && len(r.Installments) == 0
}
