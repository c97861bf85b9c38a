package views

import (
	"sharelend/core"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	*core.AccountHealth
	Status string `json:"status"`
}

// AccountView account view of a health summary
func AccountView(h *core.AccountHealth) Account {
	status := "healthy"
	if h.CanBeLiquidated {
		status = "liquidatable"
	}

	return Account{AccountHealth: h, Status: status}
}

// MaxWithdraw max withdraw view
type MaxWithdraw struct {
	Account solana.PublicKey `json:"account"`
	Bank    solana.PublicKey `json:"bank"`
	Label   string           `json:"label"`
	Amount  decimal.Decimal  `json:"amount"`
}
