package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter is registered under a name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter renders an invoice document. Implementations should be pure
// (no side effects besides deterministic formatting).
type Formatter interface {
	Format(doc *domain.InvoiceDocument) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension used when the output is written to disk.
	Extension() string
}

// ReportFormatter renders a tax report.
type ReportFormatter interface {
	Format(report *Report) ([]byte, error)
	Name() string
	Extension() string
}

// builtInFormatters stores available invoice formatters.
var builtInFormatters = []Formatter{
	PDFInvoiceFormatter{},
	JSONInvoiceFormatter{},
	ConsoleInvoiceFormatter{},
}

// builtInReportFormatters stores available report formatters.
var builtInReportFormatters = []ReportFormatter{
	ConsoleFormatter{},
	JSONFormatter{},
	CSVSummarizer{},
	YAMLFormatter{},
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"txt":          "console",
	"preview":      "json",
	"json-pretty":  "json",
	"document":     "pdf",
	"yml":          "yaml",
	"csv-summary":  "csv",
	"console-lite": "console",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// GetFormatterByName fetches a registered invoice formatter.
func GetFormatterByName(name string) (Formatter, error) {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f, nil
		}
	}
	return nil, unsupported(name, formatterNames(builtInFormatters))
}

// GetReportFormatterByName fetches a registered report formatter.
func GetReportFormatterByName(name string) (ReportFormatter, error) {
	n := NormalizeFormatName(name)
	for _, f := range builtInReportFormatters {
		if f.Name() == n {
			return f, nil
		}
	}
	return nil, unsupported(name, AvailableReportFormatterNames())
}

// AvailableFormatterNames returns the canonical invoice formatter names.
func AvailableFormatterNames() []string {
	return formatterNames(builtInFormatters)
}

// AvailableReportFormatterNames returns the canonical report formatter names.
func AvailableReportFormatterNames() []string {
	names := make([]string, 0, len(builtInReportFormatters))
	for _, f := range builtInReportFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatterNames(fs []Formatter) []string {
	names := make([]string, 0, len(fs))
	for _, f := range fs {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

func unsupported(name string, names []string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(names, ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// WriteInvoice runs f on doc and writes invoice_<number>.<ext> into dir.
func WriteInvoice(f Formatter, doc *domain.InvoiceDocument, dir string) (string, error) {
	data, err := f.Format(doc)
	if err != nil {
		return "", err
	}
	return WriteInvoiceBytes(doc, f.Extension(), data, dir)
}

// WriteInvoiceBytes writes an already rendered invoice as invoice_<number>.<ext> into dir.
func WriteInvoiceBytes(doc *domain.InvoiceDocument, ext string, data []byte, dir string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: invoice %s has no content", domain.ErrRendering, doc.InvoiceNumber)
	}
	return writeFile(dir, fmt.Sprintf("invoice_%s.%s", doc.InvoiceNumber, ext), data)
}

// WriteReport runs f on report and writes a timestamped tax_report file into dir.
func WriteReport(f ReportFormatter, report *Report, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	stamp := report.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return writeFile(dir, fmt.Sprintf("tax_report_%s.%s", stamp.Format("20060102_150405"), f.Extension()), data)
}

func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
