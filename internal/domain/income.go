package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// IncomeRecord is one payment received from a client.
type IncomeRecord struct {
	ID            string          `yaml:"id" json:"id"`
	UserID        string          `yaml:"user_id" json:"user_id" validate:"required"`
	ClientName    string          `yaml:"client_name" json:"client_name" validate:"required,min=2,max=100"`
	Amount        decimal.Decimal `yaml:"amount" json:"amount" validate:"gt=0"`
	Date          time.Time       `yaml:"date" json:"date"`
	TDSDeducted   bool            `yaml:"tds_deducted" json:"tds_deducted"`
	GSTApplicable bool            `yaml:"gst_applicable" json:"gst_applicable"`
	Notes         string          `yaml:"notes,omitempty" json:"notes,omitempty" validate:"max=500"`
}

// BankDetails holds the payee account rendered on invoices.
type BankDetails struct {
	AccountNumber string `yaml:"account_number" json:"account_number"`
	IFSCCode      string `yaml:"ifsc_code" json:"ifsc_code" validate:"omitempty,ifsc"`
	BankName      string `yaml:"bank_name" json:"bank_name"`
	UPIID         string `yaml:"upi_id" json:"upi_id"`
}

// Expense is one itemised business expense on a user profile.
type Expense struct {
	Category    string          `yaml:"category" json:"category" validate:"required"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        time.Time       `yaml:"date" json:"date"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// User is a freelancer profile.
type User struct {
	ID            string                     `yaml:"id" json:"id" validate:"required"`
	Name          string                     `yaml:"name" json:"name" validate:"required,max=100"`
	Email         string                     `yaml:"email" json:"email" validate:"required,email"`
	PANNumber     string                     `yaml:"pan_number,omitempty" json:"pan_number,omitempty" validate:"omitempty,pan"`
	GSTRegistered bool                       `yaml:"gst_registered" json:"gst_registered"`
	BankDetails   BankDetails                `yaml:"bank_details" json:"bank_details"`
	Expenses      []Expense                  `yaml:"expenses,omitempty" json:"expenses,omitempty" validate:"dive"`
	Deductions    map[string]decimal.Decimal `yaml:"deductions,omitempty" json:"deductions,omitempty"`
}

// ExpenseEntry is one category total fed to the deduction planner.
type ExpenseEntry struct {
	Category string          `yaml:"category" json:"category"`
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
}

// ExpenseMap maps expense category to amount while keeping insertion order,
// which decides the order of the business-expense deduction lines.
type ExpenseMap []ExpenseEntry

// Set adds amount to category, appending the category if it is new.
func (m *ExpenseMap) Set(category string, amount decimal.Decimal) {
	for i := range *m {
		if (*m)[i].Category == category {
			(*m)[i].Amount = (*m)[i].Amount.Add(amount)
			return
		}
	}
	*m = append(*m, ExpenseEntry{Category: category, Amount: amount})
}

// UnmarshalYAML accepts either a mapping (category: amount) or a list of
// {category, amount} entries. Mapping order is preserved.
func (m *ExpenseMap) UnmarshalYAML(value *yaml.Node) error {
	out := ExpenseMap{}
	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			amount, err := decimal.NewFromString(val.Value)
			if err != nil {
				return fmt.Errorf("expense %q: invalid amount %q: %w", key.Value, val.Value, err)
			}
			out.Set(key.Value, amount)
		}
	case yaml.SequenceNode:
		var entries []ExpenseEntry
		if err := value.Decode(&entries); err != nil {
			return err
		}
		for _, e := range entries {
			out.Set(e.Category, e.Amount)
		}
	default:
		return fmt.Errorf("expenses must be a mapping or a list, got %s", value.Tag)
	}
	*m = out
	return nil
}

// MarshalYAML writes the map back as an ordered mapping.
func (m ExpenseMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m {
		tag := "!!int"
		if !e.Amount.IsInteger() {
			tag = "!!float"
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Category},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: e.Amount.String()},
		)
	}
	return node, nil
}

// ExpenseMapFromExpenses totals itemised expenses by category in first-seen order.
func ExpenseMapFromExpenses(expenses []Expense) ExpenseMap {
	m := ExpenseMap{}
	for _, e := range expenses {
		m.Set(e.Category, e.Amount)
	}
	return m
}

// Ledger is the on-disk set of users and their income records.
type Ledger struct {
	Users   []User         `yaml:"users" json:"users"`
	Incomes []IncomeRecord `yaml:"incomes" json:"incomes"`
}
