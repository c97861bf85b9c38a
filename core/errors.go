package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000

	// ErrBankNotFound no bank in group
	ErrBankNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidMarginRequirementType unknown margin requirement type
	ErrInvalidMarginRequirementType ErrorCode = 100102
	// ErrInvalidPriceBias unknown price bias
	ErrInvalidPriceBias ErrorCode = 100103
	// ErrPriceNotFound no price reading for an oracle
	ErrPriceNotFound ErrorCode = 100104
	// ErrAccountNotFound no account
	ErrAccountNotFound ErrorCode = 100105
	// ErrGroupMismatch account belongs to another group
	ErrGroupMismatch ErrorCode = 100106
	// ErrTooManyBalances more balances than slots
	ErrTooManyBalances ErrorCode = 100107
	// ErrInvalidBankConfig bank weights or rates out of range
	ErrInvalidBankConfig ErrorCode = 100108
	// ErrSnapshotNotReady no snapshot loaded yet
	ErrSnapshotNotReady ErrorCode = 100109
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                      "unknown",
	ErrBankNotFound:                 "bank not found",
	ErrInvalidAmount:                "invalid amount",
	ErrInvalidMarginRequirementType: "invalid margin requirement type",
	ErrInvalidPriceBias:             "invalid price bias",
	ErrPriceNotFound:                "price not found",
	ErrAccountNotFound:              "account not found",
	ErrGroupMismatch:                "group mismatch",
	ErrTooManyBalances:              "too many balances",
	ErrInvalidBankConfig:            "invalid bank config",
	ErrSnapshotNotReady:             "snapshot not ready",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return e.String()
}
