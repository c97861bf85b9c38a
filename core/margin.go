package core

import "github.com/pkg/errors"

// MarginRequirementType which weights a valuation uses
type MarginRequirementType int

const (
	// MarginRequirementInit opening new positions
	MarginRequirementInit MarginRequirementType = iota
	// MarginRequirementMaint liquidation threshold
	MarginRequirementMaint
	// MarginRequirementEquity unweighted
	MarginRequirementEquity
)

func (t MarginRequirementType) String() string {
	switch t {
	case MarginRequirementInit:
		return "init"
	case MarginRequirementMaint:
		return "maint"
	case MarginRequirementEquity:
		return "equity"
	default:
		return "unknown"
	}
}

// ParseMarginRequirementType parse init, maint or equity
func ParseMarginRequirementType(s string) (MarginRequirementType, error) {
	for _, t := range []MarginRequirementType{MarginRequirementInit, MarginRequirementMaint, MarginRequirementEquity} {
		if t.String() == s {
			return t, nil
		}
	}

	return 0, errors.Wrapf(ErrInvalidMarginRequirementType, "parse %q", s)
}
