package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupLookup(t *testing.T) {
	usdc := newTestBank(usdcBank, defaultSpec("USDC", usdcOracle), "1", "0")
	sol := newTestBank(solBank, defaultSpec("SOL", solOracle), "20", "0")
	group := testGroupOf(usdc, sol)

	assert.Equal(t, 2, group.Len())
	assert.Same(t, usdc, group.GetBankByPk(usdcBank))
	assert.Same(t, sol, group.GetBankByLabel("SOL"))
	assert.Nil(t, group.GetBankByPk(ethBank))
	assert.Nil(t, group.GetBankByLabel("ETH"))

	banks := group.Banks()
	if assert.Len(t, banks, 2) {
		assert.Equal(t, "SOL", banks[0].Label)
		assert.Equal(t, "USDC", banks[1].Label)
	}
}

func TestGroupLookupByKey(t *testing.T) {
	usdc := newTestBank(usdcBank, defaultSpec("USDC", usdcOracle), "1", "0")
	group := testGroupOf(usdc)

	assert.Same(t, usdc, group.Lookup(usdcBank.String()))
	assert.Same(t, usdc, group.Lookup("USDC"))
	assert.Nil(t, group.Lookup(solBank.String()))
	assert.Nil(t, group.Lookup("SOL"))
}
