package framework

import (
	"context"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxOpts are the per-transaction knobs of SendTransaction.
type TxOpts struct {
	// Value is the wei attached to the call.
	Value *big.Int
	// GasLimit skips estimation when set.
	GasLimit uint64
	// AllowRevert submits the transaction even if it is expected to revert.
	// Estimation is skipped and the default gas limit is used when GasLimit is zero.
	AllowRevert bool
}

// Contract is a deployed contract bound to a sender.
type Contract struct {
	addr  common.Address
	abi   *abi.ABI
	fr    *Framework
	key   *PrivKey
	bound *bind.BoundContract
}

func (c *Contract) Address() common.Address {
	return c.addr
}

func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

// Sender is the account transactions are signed with.
func (c *Contract) Sender() common.Address {
	return c.key.Address()
}

// Ref returns the same contract driven by another account.
func (c *Contract) Ref(key *PrivKey) *Contract {
	ref := *c
	ref.key = key
	return &ref
}

// Call runs a read-only method against the latest block. Reverts are
// reported as ErrCallReverted.
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	args, err := c.coerce(method, args)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx, From: c.key.Address()}
	if err := c.bound.Call(opts, &out, method, args...); err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrCallReverted, method, err)
		}
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

// SendTransaction submits a state changing call and waits for one confirmation.
// A reverted receipt is returned together with an ErrTransactionReverted error,
// and so is a revert found while estimating gas.
func (c *Contract) SendTransaction(ctx context.Context, method string, txOpts TxOpts, args ...interface{}) (*types.Receipt, error) {
	args, err := c.coerce(method, args)
	if err != nil {
		return nil, err
	}
	opts, err := c.fr.transactOpts(ctx, c.key, txOpts)
	if err != nil {
		return nil, err
	}
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransactionReverted, method, err)
		}
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	log := c.fr.log.WithField("method", method).WithField("tx", tx.Hash().Hex())
	log.Debug("transaction sent")
	receipt, err := c.fr.waitMined(ctx, tx)
	if err != nil {
		log.WithError(err).Warn("transaction failed")
		return receipt, fmt.Errorf("send %s: %w", method, err)
	}
	log.WithField("block", receipt.BlockNumber).WithField("gasUsed", receipt.GasUsed).Debug("transaction mined")
	return receipt, nil
}

func (c *Contract) coerce(method string, args []interface{}) ([]interface{}, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not found in abi of %s", method, c.addr.Hex())
	}
	return coerceArgs(m, args)
}

// coerceArgs converts plain Go integers to the exact types the ABI encoder
// expects for each scalar integer input (uint8, uint64, *big.Int, ...).
func coerceArgs(method abi.Method, args []interface{}) ([]interface{}, error) {
	if len(args) != len(method.Inputs) {
		return args, nil
	}
	out := make([]interface{}, len(args))
	for i, arg := range args {
		typ := method.Inputs[i].Type
		if typ.T != abi.UintTy && typ.T != abi.IntTy {
			out[i] = arg
			continue
		}
		v, ok := toBig(arg)
		if !ok {
			out[i] = arg
			continue
		}
		if typ.T == abi.UintTy && (v.Sign() < 0 || v.BitLen() > typ.Size) {
			return nil, fmt.Errorf("argument %d (%s) out of range for %s", i, v, typ)
		}
		goType := typ.GetType()
		if goType.Kind() == reflect.Ptr {
			out[i] = v
			continue
		}
		target := reflect.New(goType).Elem()
		switch typ.T {
		case abi.UintTy:
			target.SetUint(v.Uint64())
		case abi.IntTy:
			if !v.IsInt64() || target.OverflowInt(v.Int64()) {
				return nil, fmt.Errorf("argument %d (%s) out of range for %s", i, v, typ)
			}
			target.SetInt(v.Int64())
		}
		out[i] = target.Interface()
	}
	return out, nil
}

func toBig(arg interface{}) (*big.Int, bool) {
	if v, ok := arg.(*big.Int); ok {
		return v, v != nil
	}
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}
