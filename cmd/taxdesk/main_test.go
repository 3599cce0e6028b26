package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freelancetax/taxdesk/internal/calculation"
	"github.com/freelancetax/taxdesk/internal/config"
	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/freelancetax/taxdesk/internal/output"
	"github.com/freelancetax/taxdesk/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = "../../testdata/ledger.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TAXDESK_DATABASE_URL", "")
	t.Setenv("TAXDESK_OUTPUT_DIR", "")
	t.Setenv("TAXDESK_INVOICE_FORMAT", "")

	root := (&app{}).rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "--ledger", ledger, "--user", "priya", "--date", "2026-10-18", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX SUMMARY (FY 2026-27, 2 records)")
	assert.Contains(t, out, "Rs. 4,50,000")
	assert.Contains(t, out, "December 15, 2026")
}

func TestNextDueCommand(t *testing.T) {
	out, err := run(t, "--date", "2026-07-10", "next-due")
	require.NoError(t, err)
	assert.Equal(t, "September 15, 2026", strings.TrimSpace(out))
}

func TestDeductionsCommandWithFlags(t *testing.T) {
	out, err := run(t, "--format", "csv", "deductions", "--income", "450000",
		"--expense", "laptop=40000", "--expense", "internet=12,000")
	require.NoError(t, err)
	assert.Contains(t, out, "deduction,total_deductions,274500.00")
	assert.Contains(t, out, "deduction,Business expense: internet,12000.00")
}

func TestRegimesCommand(t *testing.T) {
	out, err := run(t, "--format", "json", "regimes", "--income", "800000")
	require.NoError(t, err)
	assert.Contains(t, out, `"recommended": "New Regime"`)
	assert.Contains(t, out, `"savings": "20000"`)
}

func TestInvoiceCommandPDF(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--ledger", ledger, "--user", "priya", "--out", dir, "invoice", "--income-id", "inc-001")
	require.NoError(t, err)
	assert.Contains(t, out, "Rs. 54,000")

	files, err := filepath.Glob(filepath.Join(dir, "invoice_INV-*.pdf"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInvoiceCommandPreview(t *testing.T) {
	out, err := run(t, "--format", "json", "invoice", "--client", "Acme Studios", "--amount", "50000", "--gst", "--tds")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_amount": "54000"`)
}

func TestInvoiceCommandRejectsBadInput(t *testing.T) {
	_, err := run(t, "--format", "json", "invoice", "--client", "A", "--amount", "50000")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = run(t, "--ledger", ledger, "--user", "priya", "invoice", "--income-id", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseExpenses(t *testing.T) {
	em, err := parseExpenses([]string{"laptop=40000", " internet = 6000", "internet=6000"})
	require.NoError(t, err)
	require.Len(t, em, 2)
	assert.Equal(t, "internet", em[1].Category)
	assert.True(t, decimal.NewFromInt(12000).Equal(em[1].Amount))

	_, err = parseExpenses([]string{"laptop"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = parseExpenses([]string{"laptop=abc"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// countingRenderer returns fixed bytes and counts how often it ran.
type countingRenderer struct {
	calls int
	data  []byte
}

func (r *countingRenderer) Format(*domain.InvoiceDocument) ([]byte, error) {
	r.calls++
	return r.data, nil
}

func TestEmitInvoiceWritesEngineBytes(t *testing.T) {
	dir := t.TempDir()
	renderer := &countingRenderer{data: []byte("%PDF-1.3 rendered by engine")}
	a := &app{outDir: dir, settings: config.Settings{InvoiceFormat: "pdf"}}
	a.engine = calculation.NewCalculationEngineWithStore(store.NewMemoryStore(), renderer)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	err := a.emitInvoice(cmd, domain.InvoiceInput{ClientName: "Acme Studios", Amount: decimal.NewFromInt(50000)})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "invoice_INV-*.pdf"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, renderer.data, data)
	assert.Equal(t, 1, renderer.calls, "invoice is rendered once")
}

func TestEmitReportRejectsEmptyReport(t *testing.T) {
	a := &app{userID: "priya"}
	err := a.emitReport(&cobra.Command{}, &output.Report{})
	assert.ErrorContains(t, err, "nothing to report")
}

// closingStore records Close calls on top of the in-memory store.
type closingStore struct {
	*store.MemoryStore
	closed int
}

func (c *closingStore) Close() error {
	c.closed++
	return nil
}

func TestTeardownClosesStoreOnce(t *testing.T) {
	cs := &closingStore{MemoryStore: store.NewMemoryStore()}
	a := &app{store: cs}

	require.NoError(t, a.teardown())
	require.NoError(t, a.teardown())
	assert.Equal(t, 1, cs.closed)
	assert.Nil(t, a.store)

	mem := &app{store: store.NewMemoryStore()}
	assert.NoError(t, mem.teardown())
}
