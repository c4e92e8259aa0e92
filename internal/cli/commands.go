package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/recon"
)

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Normalize a payment spreadsheet into the batch table format",
		Long: `Read an .xlsx, .xls or .csv export and map it onto the row shape of the
chosen payment method. Balances and converted amounts are recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: runNormalize,
	}
	cmd.Flags().StringP("method", "m", "", "Payment method (bank, ecocash, cash, pds)")
	cmd.Flags().String("currency", domain.CurrencyUSD, "Currency for rows that carry none")
	cmd.Flags().String("bank", "", "Bank name, required for the bank method")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	currency, _ := cmd.Flags().GetString("currency")
	bank, _ := cmd.Flags().GetString("bank")
	posID, _ := cmd.Flags().GetString("pos")

	m := domain.PaymentMethod(strings.ToLower(method))
	if !m.IsValid() {
		return fmt.Errorf("unknown payment method %q", method)
	}
	if m == domain.PaymentMethodBank && !domain.IsKnownBank(bank) {
		return fmt.Errorf("--bank must name a known bank for the bank method")
	}

	b, err := loadBatch(m, args[0], strings.ToUpper(currency), posID)
	if err != nil {
		return err
	}
	rep := domain.Report{
		Source:        domain.ReportSourcePayments,
		PaymentMethod: m,
		TableData:     recon.BatchTable(b, posID),
	}
	if m == domain.PaymentMethodBank {
		rep.Bank = bank
	}
	return emit(cmd, rep)
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary METHOD=FILE...",
		Short: "Total one or more payment files by date",
		Example: `  reconctl summary cash=cash.csv bank=statement.xlsx
  reconctl summary ecocash=ecocash.xls -o summary.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSummary,
	}
	cmd.Flags().String("currency", domain.CurrencyUSD, "Currency for rows that carry none")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	currency, _ := cmd.Flags().GetString("currency")
	posID, _ := cmd.Flags().GetString("pos")

	batches, err := loadBatches(args, strings.ToUpper(currency), posID)
	if err != nil {
		return err
	}
	return emit(cmd, domain.Report{
		Source:        domain.ReportSourcePayments,
		PaymentMethod: domain.PaymentMethodSummary,
		TableData:     recon.SummaryTable(recon.Summarize(batches)),
	})
}

func newCashbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashbook METHOD=FILE...",
		Short: "Build cashbook rows from payment files",
		Long: `Total the payment files by date, seed one cashbook row per day and apply
the given inputs to every row before deriving commission and remittances.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCashbook,
	}
	cmd.Flags().String("currency", domain.CurrencyUSD, "Currency for rows that carry none")
	cmd.Flags().String("commission-pct", "", "Commission percentage")
	cmd.Flags().String("zinara", "", "ZINARA amount")
	cmd.Flags().String("ppa-gross", "", "PPA gross amount")
	cmd.Flags().String("ppa-pct", "", "PPA commission percentage")
	cmd.Flags().String("expenses", "", "Approved expenses")
	return cmd
}

func runCashbook(cmd *cobra.Command, args []string) error {
	currency, _ := cmd.Flags().GetString("currency")
	posID, _ := cmd.Flags().GetString("pos")

	batches, err := loadBatches(args, strings.ToUpper(currency), posID)
	if err != nil {
		return err
	}

	var patch recon.CashbookPatch
	for flag, dst := range map[string]**string{
		"commission-pct": &patch.CommissionPct,
		"zinara":         &patch.Zinara,
		"ppa-gross":      &patch.PpaGross,
		"ppa-pct":        &patch.PpaPct,
		"expenses":       &patch.ApprovedExpenses,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			*dst = &v
		}
	}

	rows := recon.SeedCashbook(recon.Summarize(batches), nil)
	for _, r := range rows {
		if _, err := recon.UpdateCashbookRow(rows, r.Date, patch); err != nil {
			return err
		}
	}
	return emit(cmd, domain.Report{
		Source:    domain.ReportSourceCashbook,
		TableData: recon.CashbookTable(rows),
	})
}
