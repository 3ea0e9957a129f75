package domain

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbstain(t *testing.T) {
	o := Abstain("Not all prices available: %d missing", 2)
	assert.False(t, o.CanExec)
	assert.Equal(t, "Not all prices available: 2 missing", o.Message)
}

func TestOutcomeJSON(t *testing.T) {
	o := Outcome{
		CanExec: true,
		CallData: []CallData{{
			To:    common.HexToAddress("0xff1a0f4744e8582DF1aE09D5611b887B6a12925C"),
			Data:  []byte{0xde, 0xad},
			Value: big.NewInt(7),
		}},
	}

	raw, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"canExec": true,
		"callData": [{"to":"0xff1a0f4744e8582df1ae09d5611b887b6a12925c","data":"0xdead","value":7}]
	}`, string(raw))
}
