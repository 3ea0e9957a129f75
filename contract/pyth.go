// Package contract provides the Go binding of the Pyth oracle contract
package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PythStructsPrice is the PythStructs.Price tuple
type PythStructsPrice struct {
	Price       int64
	Conf        uint64
	Expo        int32
	PublishTime *big.Int
}

// PythMetaData contains the subset of the IPyth ABI used by the keeper
var PythMetaData = &bind.MetaData{
	ABI: `[
{"inputs":[{"internalType":"bytes32","name":"id","type":"bytes32"}],"name":"getPriceUnsafe","outputs":[{"components":[{"internalType":"int64","name":"price","type":"int64"},{"internalType":"uint64","name":"conf","type":"uint64"},{"internalType":"int32","name":"expo","type":"int32"},{"internalType":"uint256","name":"publishTime","type":"uint256"}],"internalType":"struct PythStructs.Price","name":"price","type":"tuple"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"bytes[]","name":"updateData","type":"bytes[]"}],"name":"getUpdateFee","outputs":[{"internalType":"uint256","name":"feeAmount","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"bytes[]","name":"updateData","type":"bytes[]"},{"internalType":"bytes32[]","name":"priceIds","type":"bytes32[]"},{"internalType":"uint64[]","name":"publishTimes","type":"uint64[]"}],"name":"updatePriceFeedsIfNecessary","outputs":[],"stateMutability":"payable","type":"function"}
]`,
}

// Pyth is a Go binding around the Pyth contract
type Pyth struct {
	PythCaller     // Read-only binding to the contract
	PythTransactor // Write-only binding to the contract
}

// PythCaller is a read-only binding around the Pyth contract
type PythCaller struct {
	contract *bind.BoundContract
}

// PythTransactor is a write-only binding around the Pyth contract
type PythTransactor struct {
	contract *bind.BoundContract
}

// NewPyth creates a new instance of Pyth, bound to a specific deployed contract
func NewPyth(address common.Address, backend bind.ContractBackend) (*Pyth, error) {
	parsed, err := PythMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(address, *parsed, backend, backend, backend)

	return &Pyth{
		PythCaller:     PythCaller{contract: contract},
		PythTransactor: PythTransactor{contract: contract},
	}, nil
}

// GetPriceUnsafe is a free data retrieval call binding the contract method getPriceUnsafe
//
// Solidity: function getPriceUnsafe(bytes32 id) view returns((int64,uint64,int32,uint256) price)
func (c *PythCaller) GetPriceUnsafe(opts *bind.CallOpts, id [32]byte) (PythStructsPrice, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getPriceUnsafe", id); err != nil {
		return PythStructsPrice{}, err
	}

	return *abi.ConvertType(out[0], new(PythStructsPrice)).(*PythStructsPrice), nil
}

// GetUpdateFee is a free data retrieval call binding the contract method getUpdateFee
//
// Solidity: function getUpdateFee(bytes[] updateData) view returns(uint256 feeAmount)
func (c *PythCaller) GetUpdateFee(opts *bind.CallOpts, updateData [][]byte) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getUpdateFee", updateData); err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// UpdatePriceFeedsIfNecessary is a paid mutator transaction binding the contract method updatePriceFeedsIfNecessary
//
// Solidity: function updatePriceFeedsIfNecessary(bytes[] updateData, bytes32[] priceIds, uint64[] publishTimes) payable returns()
func (t *PythTransactor) UpdatePriceFeedsIfNecessary(opts *bind.TransactOpts, updateData [][]byte, priceIds [][32]byte, publishTimes []uint64) (*types.Transaction, error) {
	return t.contract.Transact(opts, "updatePriceFeedsIfNecessary", updateData, priceIds, publishTimes)
}

// PackUpdatePriceFeedsIfNecessary returns the call data of updatePriceFeedsIfNecessary
func PackUpdatePriceFeedsIfNecessary(updateData [][]byte, priceIds [][32]byte, publishTimes []uint64) ([]byte, error) {
	parsed, err := PythMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	return parsed.Pack("updatePriceFeedsIfNecessary", updateData, priceIds, publishTimes)
}
