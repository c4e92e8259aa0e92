package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
	"posrecon-backend/internal/recon"
	"posrecon-backend/internal/spreadsheet"
)

// NewRootCmd builds the reconctl command tree. Every command works on local
// files only and never talks to the report store.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconctl",
		Short:         "Offline POS reconciliation tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logger.InitializeWithWriter(cmd.ErrOrStderr(), level, "text")
		},
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringP("out", "o", "", "Write the table to this .xlsx file instead of printing JSON")
	root.PersistentFlags().String("pos", "", "POS ID recorded on the output")
	root.PersistentFlags().String("name", "", "Agent name recorded on an .xlsx export")

	root.AddCommand(newNormalizeCmd(), newSummaryCmd(), newCashbookCmd())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// batchArg is a METHOD=FILE argument.
type batchArg struct {
	method domain.PaymentMethod
	path   string
}

func parseBatchArgs(args []string) ([]batchArg, error) {
	out := make([]batchArg, 0, len(args))
	for _, a := range args {
		method, path, ok := strings.Cut(a, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("expected METHOD=FILE, got %q", a)
		}
		m := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(method)))
		if !m.IsValid() {
			return nil, fmt.Errorf("unknown payment method %q", method)
		}
		out = append(out, batchArg{method: m, path: path})
	}
	return out, nil
}

// loadBatch reads a spreadsheet into a batch of the given method.
func loadBatch(method domain.PaymentMethod, path, currency, posID string) (domain.PaymentBatch, error) {
	b := domain.PaymentBatch{Method: method, Currency: currency}
	raws, err := spreadsheet.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := recon.ImportRows(&b, raws, posID); err != nil {
		return b, fmt.Errorf("%s: %w", path, err)
	}
	recon.RecomputeBatch(&b)
	return b, nil
}

func loadBatches(args []string, currency, posID string) ([]domain.PaymentBatch, error) {
	parsed, err := parseBatchArgs(args)
	if err != nil {
		return nil, err
	}
	batches := make([]domain.PaymentBatch, 0, len(parsed))
	for _, a := range parsed {
		b, err := loadBatch(a.method, a.path, currency, posID)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// emit prints the table as JSON, or writes it as a workbook when --out is
// set.
func emit(cmd *cobra.Command, rep domain.Report) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return printJSON(cmd.OutOrStdout(), rep.TableData)
	}

	rep.PosID, _ = cmd.Flags().GetString("pos")
	rep.Name, _ = cmd.Flags().GetString("name")
	rep.Date = time.Now().UTC().Format("2006-01-02")

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := spreadsheet.WriteReport(f, &rep); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rep.TableData), out)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
