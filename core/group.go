package core

import (
	"sort"

	"github.com/gagliardetto/solana-go"
)

// Group banks sharing one risk domain
type Group struct {
	Address solana.PublicKey
	Admin   solana.PublicKey

	banks map[string]*Bank
}

// NewGroup new group
func NewGroup(address, admin solana.PublicKey, banks []*Bank) *Group {
	g := &Group{
		Address: address,
		Admin:   admin,
		banks:   make(map[string]*Bank, len(banks)),
	}

	for _, b := range banks {
		g.banks[b.Address.String()] = b
	}

	return g
}

// GetBankByPk bank by address, nil when absent
func (g *Group) GetBankByPk(pk solana.PublicKey) *Bank {
	return g.banks[pk.String()]
}

// GetBankByLabel bank by label, nil when absent
func (g *Group) GetBankByLabel(label string) *Bank {
	for _, b := range g.banks {
		if b.Label == label {
			return b
		}
	}

	return nil
}

// Banks all banks ordered by label
func (g *Group) Banks() []*Bank {
	banks := make([]*Bank, 0, len(g.banks))
	for _, b := range g.banks {
		banks = append(banks, b)
	}

	sort.Slice(banks, func(i, j int) bool {
		if banks[i].Label == banks[j].Label {
			return banks[i].Address.String() < banks[j].Address.String()
		}
		return banks[i].Label < banks[j].Label
	})

	return banks
}

// Len number of banks
func (g *Group) Len() int {
	return len(g.banks)
}

// Lookup bank by base58 address or label, nil when absent
func (g *Group) Lookup(key string) *Bank {
	if pk, err := solana.PublicKeyFromBase58(key); err == nil {
		if b := g.GetBankByPk(pk); b != nil {
			return b
		}
	}

	return g.GetBankByLabel(key)
}
