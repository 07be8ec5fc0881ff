package banks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SupportedBins(t *testing.T) {
	cases := []struct {
		bin       string
		bankCode  string
		shortName string
	}{
		{"970422", "mbbank", "MB BANK"},
		{"970457", "wooribank", "Wooribank"},
		{"970454", "banvietbank", "Viet Capital Bank"},
		{"970415", "vietinbank", "VietinBank"},
	}

	for _, c := range cases {
		bank, ok := Resolve(c.bin)
		require.True(t, ok, "bin %s should resolve", c.bin)
		assert.Equal(t, c.bankCode, bank.BankCode)
		assert.Equal(t, c.shortName, bank.ShortName)
		assert.Equal(t, c.bin, bank.Bin)
	}
}

func TestResolve_UnknownBin(t *testing.T) {
	bank, ok := Resolve("999999")
	assert.False(t, ok)
	assert.Nil(t, bank)
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0].BankCode = "mutated"

	second := All()
	assert.Equal(t, "mbbank", second[0].BankCode)
	assert.Len(t, second, 4)
}
