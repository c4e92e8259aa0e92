package domain

import "time"

// Workspace is everything an agent has in progress for one POS ID. It is
// saved as a single snapshot after every mutation.
type Workspace struct {
	PosID     string         `json:"posId"`
	AgentName string         `json:"agentName,omitempty"`
	Draft     Draft          `json:"draft"`
	Batches   []PaymentBatch `json:"batches"`
	Ledger    Ledger         `json:"ledger"`
	Cashbook  []CashbookRow  `json:"cashbook"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func NewWorkspace(posID string) *Workspace {
	return &Workspace{
		PosID: posID,
		Draft: Draft{
			PaymentBatch: PaymentBatch{Currency: CurrencyUSD},
			Step:         DraftStepChoose,
		},
		Ledger: Ledger{Mode: LedgerModeUnreconciled},
	}
}
