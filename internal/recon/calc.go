package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"posrecon-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount reads a user-entered number. Blank or non-numeric text is zero;
// thousands separators are ignored.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Balance is credit minus debit, rounded to cents.
func Balance(credit, debit string) decimal.Decimal {
	return Round2(ParseAmount(credit).Sub(ParseAmount(debit)))
}

// Converted multiplies the basis amount by the conversion rate.
func Converted(basis, rate string) decimal.Decimal {
	return Round2(ParseAmount(basis).Mul(ParseAmount(rate)))
}

func RecomputeCashRow(r *domain.CashRow) {
	r.Converted = Converted(r.Amount, r.Rate)
}

func RecomputeStatementRow(r *domain.StatementRow) {
	r.Balance = Balance(r.Credit, r.Debit)
	r.Converted = Converted(r.Credit, r.Rate)
}

// RecomputeBatch refreshes every derived field of the batch's rows.
func RecomputeBatch(b *domain.PaymentBatch) {
	for i := range b.CashRows {
		RecomputeCashRow(&b.CashRows[i])
	}
	for i := range b.StatementRows {
		RecomputeStatementRow(&b.StatementRows[i])
	}
}

func RecomputeTransaction(tx *domain.Transaction) {
	tx.Amount = Round2(tx.Amount)
	tx.Converted = Round2(tx.Amount.Mul(tx.Rate))
}

// DeriveCashbook computes the six derived cashbook fields. Every output is
// rounded to cents before it feeds the next step.
func DeriveCashbook(grossPremium, cancellation decimal.Decimal, in domain.CashbookInputs) domain.CashbookDerived {
	var d domain.CashbookDerived

	d.ActualGross = Round2(grossPremium.Sub(cancellation))
	d.Commission = Round2(d.ActualGross.Mul(ParseAmount(in.CommissionPct)).Div(hundred))
	d.NetPremium = Round2(d.ActualGross.Sub(d.Commission))

	ppaGross := ParseAmount(in.PpaGross)
	d.PpaCommission = Round2(ppaGross.Mul(ParseAmount(in.PpaPct)).Div(hundred))
	d.NetPpa = Round2(ppaGross.Sub(d.PpaCommission))

	d.Remittances = Round2(d.NetPremium.
		Add(ParseAmount(in.Zinara)).
		Add(d.NetPpa).
		Sub(ParseAmount(in.ApprovedExpenses)))

	return d
}

func RecomputeCashbookRow(r *domain.CashbookRow) {
	r.CashbookDerived = DeriveCashbook(r.GrossPremium, r.Cancellation, r.CashbookInputs)
}
