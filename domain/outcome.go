// Package domain defines the result of a keeper invocation
package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallData is a transaction the keeper wants executed
type CallData struct {
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *big.Int       `json:"value"`
}

// Outcome is the result of one invocation. CanExec is false when the keeper
// abstains, in which case Message explains why.
type Outcome struct {
	CanExec  bool       `json:"canExec"`
	Message  string     `json:"message,omitempty"`
	CallData []CallData `json:"callData,omitempty"`
	TxHash   string     `json:"txHash,omitempty"`
}

// Abstain returns an outcome that performs no action
func Abstain(format string, args ...interface{}) Outcome {
	return Outcome{CanExec: false, Message: fmt.Sprintf(format, args...)}
}

// Update is everything needed to submit an updatePriceFeedsIfNecessary transaction
type Update struct {
	Data         [][]byte
	IDs          []string
	PublishTimes []uint64
	Fee          *big.Int
}
