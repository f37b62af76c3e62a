package labels

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestKnownAddressResolves(t *testing.T) {
	name, ok := Label(common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"))
	require.True(t, ok)
	require.Equal(t, "WETH", name)
}

func TestUnknownAddressIsAbsent(t *testing.T) {
	_, ok := Label(common.HexToAddress("0x0000000000000000000000000000000000dEaD"))
	require.False(t, ok)
}

func TestRegistryMeetsFloor(t *testing.T) {
	require.GreaterOrEqual(t, Count(), 45)
}
