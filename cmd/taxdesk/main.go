// Command taxdesk computes Indian freelancer tax figures and renders invoices
// from a YAML ledger or a PostgreSQL record store.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/freelancetax/taxdesk/internal/calculation"
	"github.com/freelancetax/taxdesk/internal/config"
	"github.com/freelancetax/taxdesk/internal/output"
	"github.com/freelancetax/taxdesk/internal/store"
	"github.com/spf13/cobra"
)

// app carries the flags and collaborators shared by every subcommand.
type app struct {
	ledgerPath string
	envFile    string
	userID     string
	date       string
	format     string
	outDir     string
	verbose    bool

	settings config.Settings
	store    store.Store
	engine   *calculation.CalculationEngine
	logger   *calculation.StdLogger
}

func main() {
	a := &app{}
	err := a.rootCmd().Execute()
	if cerr := a.teardown(); cerr != nil && err == nil {
		err = cerr
		fmt.Fprintln(os.Stderr, "Error:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taxdesk",
		Short:         "Freelancer income tax, deduction and invoice calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.ledgerPath, "ledger", "l", "", "YAML ledger of users and income records")
	pf.StringVar(&a.envFile, "env", ".env", "dotenv file with TAXDESK_* settings")
	pf.StringVarP(&a.userID, "user", "u", "", "user id to report on")
	pf.StringVarP(&a.date, "date", "d", "", "reference date YYYY-MM-DD (default today)")
	pf.StringVarP(&a.format, "format", "f", "", fmt.Sprintf("output format; reports: %s; invoices: %s",
		strings.Join(output.AvailableReportFormatterNames(), ", "),
		strings.Join(output.AvailableFormatterNames(), ", ")))
	pf.StringVarP(&a.outDir, "out", "o", "", "write output files into this directory instead of stdout")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log calculation details")

	root.AddCommand(
		a.summaryCmd(),
		a.deductionsCmd(),
		a.advanceTaxCmd(),
		a.nextDueCmd(),
		a.regimesCmd(),
		a.installmentsCmd(),
		a.reportCmd(),
		a.invoiceCmd(),
		a.importCmd(),
	)
	return root
}

// setup loads settings, opens the record store and builds the engine.
func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	settings, err := config.LoadSettings(a.envFile)
	if err != nil {
		return err
	}
	a.settings = settings
	if a.outDir == "" && settings.OutputDir != "." {
		a.outDir = settings.OutputDir
	}

	a.logger = calculation.NewStdLogger(log.New(os.Stderr, "taxdesk: ", log.LstdFlags), a.verbose)

	if settings.DatabaseURL != "" {
		gs, err := store.OpenGormStore(settings.DatabaseURL)
		if err != nil {
			return err
		}
		a.store = gs
		a.logger.Debugf("using PostgreSQL store")
	} else {
		ms := store.NewMemoryStore()
		if a.ledgerPath != "" {
			ledger, err := config.NewInputParser().LoadFromFile(a.ledgerPath)
			if err != nil {
				return err
			}
			if err := store.Seed(ctx, ms, ledger); err != nil {
				return err
			}
		}
		a.store = ms
		a.logger.Debugf("using %s", ms)
	}

	a.engine = calculation.NewCalculationEngineWithStore(a.store, output.PDFInvoiceFormatter{})
	a.engine.SetLogger(a.logger)
	return nil
}

// teardown closes the record store when it holds a connection. It is safe to
// call more than once.
func (a *app) teardown() error {
	c, ok := a.store.(io.Closer)
	if !ok {
		return nil
	}
	a.store = nil
	return c.Close()
}

// today resolves --date, defaulting to the current day.
func (a *app) today() (time.Time, error) {
	if a.date == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", a.date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", a.date, err)
	}
	return t, nil
}

func (a *app) requireUser() error {
	if a.userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

// emitReport writes r with the selected report formatter to stdout or --out.
func (a *app) emitReport(cmd *cobra.Command, r *output.Report) error {
	if r.Empty() {
		return fmt.Errorf("nothing to report for user %q", a.userID)
	}
	name := a.format
	if name == "" {
		name = "console"
	}
	f, err := output.GetReportFormatterByName(name)
	if err != nil {
		return err
	}
	if a.outDir != "" {
		path, err := output.WriteReport(f, r, a.outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
