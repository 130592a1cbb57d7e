package domain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardIndex(t *testing.T) {
	tests := []struct {
		name          string
		tokenID       *big.Int
		expectedIndex int
		expectedOK    bool
	}{
		{
			name:          "first card",
			tokenID:       big.NewInt(1),
			expectedIndex: 0,
			expectedOK:    true,
		},
		{
			name:          "fifth card",
			tokenID:       big.NewInt(5),
			expectedIndex: 4,
			expectedOK:    true,
		},
		{
			name:       "token zero has no catalog position",
			tokenID:    big.NewInt(0),
			expectedOK: false,
		},
		{
			name:       "nil token",
			tokenID:    nil,
			expectedOK: false,
		},
		{
			name:       "token larger than int64",
			tokenID:    new(big.Int).Lsh(big.NewInt(1), 80),
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := CardIndex(tt.tokenID)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedIndex, index)
			}
		})
	}
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{name: "simple", input: "5", expected: "5"},
		{name: "surrounding spaces", input: " 42 ", expected: "42"},
		{name: "leading zeros", input: "007", expected: "7"},
		{name: "uint256 max", input: "115792089237316195423570985008687907853269984665640564039457584007913129639935", expected: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{name: "empty", input: "", expectError: true},
		{name: "negative", input: "-1", expectError: true},
		{name: "hex", input: "0x10", expectError: true},
		{name: "letters", input: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenID, err := ParseTokenID(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTokenID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokenID.String())
		})
	}
}

func TestTransferEvent_IsMint(t *testing.T) {
	assert.True(t, TransferEvent{From: ETHEREUM_ZERO_ADDRESS}.IsMint())
	assert.True(t, TransferEvent{From: ""}.IsMint())
	assert.False(t, TransferEvent{From: "0x1111111111111111111111111111111111111111"}.IsMint())
}

func TestItemKey(t *testing.T) {
	contract := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	a := Item{SourceAddress: contract, TokenID: big.NewInt(7)}
	b := Item{SourceAddress: contract, TokenID: big.NewInt(7), Owner: "0x222"}
	c := Item{SourceAddress: common.HexToAddress("0xbb"), TokenID: big.NewInt(7)}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, contract.Hex()+":7", a.Key().String())
}

func TestBoosterName(t *testing.T) {
	assert.Equal(t, "Booster #7", BoosterName(big.NewInt(7)))
	assert.Equal(t, "Booster #0", BoosterName(nil))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xbee", NormalizeAddress(" 0xBEE "))
	assert.Equal(t,
		"0x5fbdb2315678afecb367f032d93f642f64180aa3",
		AddressKey(common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")),
	)
	assert.Equal(t, []string{"0xabc", "0xdef"}, NormalizeAddresses([]string{"0xABC", "0xDeF"}))
}
