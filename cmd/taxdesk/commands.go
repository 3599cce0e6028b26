package main

import (
	"fmt"
	"strings"

	"github.com/freelancetax/taxdesk/internal/config"
	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/freelancetax/taxdesk/internal/output"
	"github.com/freelancetax/taxdesk/internal/store"
	"github.com/freelancetax/taxdesk/pkg/dateutil"
	money "github.com/freelancetax/taxdesk/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Tax summary for the user's income in the current fiscal year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			today, err := a.today()
			if err != nil {
				return err
			}
			s, err := a.engine.TaxSummaryForUser(cmd.Context(), a.userID, today)
			if err != nil {
				return err
			}
			return a.emitReport(cmd, &output.Report{GeneratedAt: a.engine.Now(), UserID: a.userID, Summary: &s})
		},
	}
}

func (a *app) deductionsCmd() *cobra.Command {
	var income string
	var expenses []string
	cmd := &cobra.Command{
		Use:   "deductions",
		Short: "Suggest deductions for an income, or for the user's recorded income and expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var plan domain.DeductionPlan
			if income != "" {
				amount, err := parseAmount("income", income)
				if err != nil {
					return err
				}
				em, err := parseExpenses(expenses)
				if err != nil {
					return err
				}
				if plan, err = a.engine.ComputeDeductionPlan(amount, em); err != nil {
					return err
				}
			} else {
				if err := a.requireUser(); err != nil {
					return err
				}
				today, err := a.today()
				if err != nil {
					return err
				}
				if plan, err = a.engine.DeductionPlanForUser(cmd.Context(), a.userID, today); err != nil {
					return err
				}
			}
			return a.emitReport(cmd, &output.Report{GeneratedAt: a.engine.Now(), UserID: a.userID, Deductions: &plan})
		},
	}
	cmd.Flags().StringVar(&income, "income", "", "gross income to plan for instead of the user's records")
	cmd.Flags().StringArrayVar(&expenses, "expense", nil, "business expense as category=amount (repeatable, order kept)")
	return cmd
}

func (a *app) advanceTaxCmd() *cobra.Command {
	var tax string
	cmd := &cobra.Command{
		Use:   "advance-tax",
		Short: "Advance tax due by the next checkpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today, err := a.today()
			if err != nil {
				return err
			}
			estimated, err := a.estimatedTax(cmd, tax)
			if err != nil {
				return err
			}
			due, err := a.engine.ComputeAdvanceTaxDue(today, estimated)
			if err != nil {
				return err
			}
			return a.emitReport(cmd, &output.Report{GeneratedAt: a.engine.Now(), UserID: a.userID, AdvanceTax: &due})
		},
	}
	cmd.Flags().StringVar(&tax, "tax", "", "estimated annual tax (default: the user's final tax payable)")
	return cmd
}

// estimatedTax uses --tax when given, else the user's final tax payable.
func (a *app) estimatedTax(cmd *cobra.Command, flag string) (decimal.Decimal, error) {
	if flag != "" {
		return parseAmount("tax", flag)
	}
	if err := a.requireUser(); err != nil {
		return decimal.Zero, fmt.Errorf("pass --tax or --user: %w", err)
	}
	today, err := a.today()
	if err != nil {
		return decimal.Zero, err
	}
	s, err := a.engine.TaxSummaryForUser(cmd.Context(), a.userID, today)
	if err != nil {
		return decimal.Zero, err
	}
	return s.FinalTaxPayable, nil
}

func (a *app) nextDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-due",
		Short: "Print the next advance-tax due date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today, err := a.today()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.engine.NextDueDateLabel(today))
			return nil
		},
	}
}

func (a *app) regimesCmd() *cobra.Command {
	var income string
	cmd := &cobra.Command{
		Use:   "regimes",
		Short: "Compare new-regime tax with the old-regime approximation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var amount decimal.Decimal
			var err error
			if income != "" {
				amount, err = parseAmount("income", income)
			} else {
				amount, err = a.userIncome(cmd)
			}
			if err != nil {
				return err
			}
			cmp, err := a.engine.CompareRegimes(amount)
			if err != nil {
				return err
			}
			return a.emitReport(cmd, &output.Report{GeneratedAt: a.engine.Now(), UserID: a.userID, Regimes: &cmp})
		},
	}
	cmd.Flags().StringVar(&income, "income", "", "income to compare (default: the user's fiscal-year income)")
	return cmd
}

func (a *app) userIncome(cmd *cobra.Command) (decimal.Decimal, error) {
	if err := a.requireUser(); err != nil {
		return decimal.Zero, fmt.Errorf("pass --income or --user: %w", err)
	}
	today, err := a.today()
	if err != nil {
		return decimal.Zero, err
	}
	s, err := a.engine.TaxSummaryForUser(cmd.Context(), a.userID, today)
	if err != nil {
		return decimal.Zero, err
	}
	return s.TotalIncome, nil
}

func (a *app) installmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "installments",
		Short: "List the advance-tax checkpoints of the current fiscal year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today, err := a.today()
			if err != nil {
				return err
			}
			list := a.engine.Scheduler.Installments(dateutil.FiscalYearStart(today), today.Location())
			return a.emitReport(cmd, &output.Report{GeneratedAt: a.engine.Now(), Installments: list})
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Full report: summary, deductions, regimes and the advance-tax calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			today, err := a.today()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.engine.TaxSummaryForUser(ctx, a.userID, today)
			if err != nil {
				return err
			}
			plan, err := a.engine.DeductionPlanForUser(ctx, a.userID, today)
			if err != nil {
				return err
			}
			cmp, err := a.engine.CompareRegimes(s.TotalIncome)
			if err != nil {
				return err
			}
			return a.emitReport(cmd, &output.Report{
				GeneratedAt:  a.engine.Now(),
				UserID:       a.userID,
				Summary:      &s,
				Deductions:   &plan,
				Regimes:      &cmp,
				Installments: a.engine.Scheduler.Installments(dateutil.FiscalYearStart(today), today.Location()),
			})
		},
	}
}

func (a *app) invoiceCmd() *cobra.Command {
	var incomeID, client, amount string
	var gst, tds bool
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Preview or render an invoice for a stored income record or ad-hoc figures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in domain.InvoiceInput
			if incomeID != "" {
				if err := a.requireUser(); err != nil {
					return err
				}
				var err error
				if in, err = a.engine.InvoiceForIncome(cmd.Context(), a.userID, incomeID); err != nil {
					return err
				}
			} else {
				value, err := parseAmount("amount", amount)
				if err != nil {
					return err
				}
				in = domain.InvoiceInput{ClientName: client, Amount: value, GSTApplicable: gst, TDS: tds}
				if a.userID != "" {
					u, err := a.store.GetUser(cmd.Context(), a.userID)
					if err != nil {
						return err
					}
					in.BankDetails = u.BankDetails
				}
			}
			return a.emitInvoice(cmd, in)
		},
	}
	f := cmd.Flags()
	f.StringVar(&incomeID, "income-id", "", "stored income record to invoice (needs --user)")
	f.StringVar(&client, "client", "", "client name for an ad-hoc invoice")
	f.StringVar(&amount, "amount", "", "basic amount for an ad-hoc invoice")
	f.BoolVar(&gst, "gst", false, "charge GST")
	f.BoolVar(&tds, "tds", false, "client withholds TDS")
	return cmd
}

// emitInvoice renders through the engine so preview and document share one computation.
// The PDF written to disk is the one the engine rendered.
func (a *app) emitInvoice(cmd *cobra.Command, in domain.InvoiceInput) error {
	name := a.format
	if name == "" {
		name = a.settings.InvoiceFormat
	}
	f, err := output.GetFormatterByName(name)
	if err != nil {
		return err
	}

	if f.Name() == "pdf" {
		doc, data, err := a.engine.RenderInvoice(in)
		if err != nil {
			return err
		}
		path, err := output.WriteInvoiceBytes(&doc, f.Extension(), data, a.outputDir())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s written to %s (total %s)\n",
			doc.InvoiceNumber, path, output.FormatRupees(doc.TotalAmount))
		return nil
	}

	doc, err := a.engine.PreviewInvoice(in)
	if err != nil {
		return err
	}
	if a.outDir != "" {
		path, err := output.WriteInvoice(f, &doc, a.outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s written to %s\n", doc.InvoiceNumber, path)
		return nil
	}
	data, err := f.Format(&doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (a *app) outputDir() string {
	if a.outDir != "" {
		return a.outDir
	}
	return a.settings.OutputDir
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load the --ledger users and income records into the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.ledgerPath == "" {
				return fmt.Errorf("--ledger is required")
			}
			if a.settings.DatabaseURL == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No TAXDESK_DATABASE_URL set; the ledger was loaded into memory only.")
				return nil
			}
			ledger, err := config.NewInputParser().LoadFromFile(a.ledgerPath)
			if err != nil {
				return err
			}
			if err := store.Seed(cmd.Context(), a.store, ledger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users and %d income records\n", len(ledger.Users), len(ledger.Incomes))
			return nil
		},
	}
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	m, err := money.NewMoneyFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "%q is not a number", s)
	}
	return m.Decimal, nil
}

// parseExpenses reads category=amount pairs, keeping their order.
func parseExpenses(pairs []string) (domain.ExpenseMap, error) {
	var em domain.ExpenseMap
	for _, p := range pairs {
		category, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(category) == "" {
			return nil, domain.NewValidationError("expense", "%q must be category=amount", p)
		}
		amount, err := parseAmount("expense", value)
		if err != nil {
			return nil, err
		}
		em.Set(strings.TrimSpace(category), amount)
	}
	return em, nil
}
