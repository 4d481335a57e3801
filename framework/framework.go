package framework

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

// DefaultGasLimit is used for transactions sent without gas estimation.
const DefaultGasLimit = 10_000_000

var (
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrCallReverted        = errors.New("call reverted")
	errNoBytecode          = errors.New("artifact has no bytecode to deploy")
)

// revertErrorCode is the JSON-RPC code geth uses for reverts carrying a reason.
const revertErrorCode = 3

// isRevert reports whether err is the EVM refusing the call, as opposed to
// the node or the connection failing.
func isRevert(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), vm.ErrExecutionReverted.Error())
}

// Framework deploys and drives contracts on a chain with a default signer.
type Framework struct {
	chain        Chain
	key          *PrivKey
	chainID      *big.Int
	artifactsDir string
	gasLimit     uint64
	log          *logrus.Entry
}

type Option func(*Framework)

func WithArtifactsDir(dir string) Option {
	return func(fr *Framework) { fr.artifactsDir = dir }
}

func WithDefaultGasLimit(gas uint64) Option {
	return func(fr *Framework) { fr.gasLimit = gas }
}

func WithLogger(log *logrus.Entry) Option {
	return func(fr *Framework) { fr.log = log }
}

func New(ctx context.Context, chain Chain, key *PrivKey, opts ...Option) (*Framework, error) {
	fr := &Framework{
		chain:        chain,
		key:          key,
		artifactsDir: DefaultArtifactsDir,
		gasLimit:     DefaultGasLimit,
		log:          logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(fr)
	}

	chainID, err := chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	fr.chainID = chainID
	return fr, nil
}

func (fr *Framework) Chain() Chain {
	return fr.chain
}

func (fr *Framework) Key() *PrivKey {
	return fr.key
}

func (fr *Framework) Address() common.Address {
	return fr.key.Address()
}

func (fr *Framework) ChainID() *big.Int {
	return new(big.Int).Set(fr.chainID)
}

func (fr *Framework) ArtifactsDir() string {
	return fr.artifactsDir
}

func (fr *Framework) Close() {
	fr.chain.Close()
}

func (fr *Framework) ReadArtifact(name string) (*Artifact, error) {
	return ReadArtifact(fr.artifactsDir, name)
}

// DeployContract deploys the named artifact from the framework account and
// waits for one confirmation.
func (fr *Framework) DeployContract(ctx context.Context, name string, args ...interface{}) (*Contract, error) {
	artifact, err := fr.ReadArtifact(name)
	if err != nil {
		return nil, err
	}
	if len(artifact.Code) == 0 {
		return nil, fmt.Errorf("%w: %s", errNoBytecode, artifact.Name)
	}

	args, err = coerceArgs(artifact.Abi.Constructor, args)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", artifact.Name, err)
	}
	opts, err := fr.transactOpts(ctx, fr.key, TxOpts{})
	if err != nil {
		return nil, err
	}
	_, tx, _, err := bind.DeployContract(opts, *artifact.Abi, artifact.Code, fr.chain, args...)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", artifact.Name, err)
	}

	receipt, err := fr.waitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", artifact.Name, err)
	}
	code, err := fr.chain.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("deploy %s: %w", artifact.Name, bind.ErrNoCodeAfterDeploy)
	}

	fr.log.WithField("contract", artifact.Name).WithField("address", receipt.ContractAddress.Hex()).
		WithField("gasUsed", receipt.GasUsed).Debug("contract deployed")
	return fr.ContractAt(receipt.ContractAddress, artifact.Abi), nil
}

// ContractAt binds an already deployed contract to the framework account.
func (fr *Framework) ContractAt(addr common.Address, contractAbi *abi.ABI) *Contract {
	return &Contract{
		addr:  addr,
		abi:   contractAbi,
		fr:    fr,
		key:   fr.key,
		bound: bind.NewBoundContract(addr, *contractAbi, fr.chain, fr.chain, fr.chain),
	}
}

// ContractAtArtifact binds addr using the ABI of the named artifact.
func (fr *Framework) ContractAtArtifact(addr common.Address, name string) (*Contract, error) {
	contractAbi, err := GetABI(fr.artifactsDir, name)
	if err != nil {
		return nil, err
	}
	return fr.ContractAt(addr, contractAbi), nil
}

// FundAccount transfers amount wei from the framework account.
func (fr *Framework) FundAccount(ctx context.Context, to common.Address, amount *big.Int) error {
	opts, err := fr.transactOpts(ctx, fr.key, TxOpts{Value: amount})
	if err != nil {
		return err
	}
	tx, err := bind.NewBoundContract(to, abi.ABI{}, fr.chain, fr.chain, fr.chain).Transfer(opts)
	if err != nil {
		return fmt.Errorf("fund %s: %w", to.Hex(), err)
	}
	if _, err := fr.waitMined(ctx, tx); err != nil {
		return fmt.Errorf("fund %s: %w", to.Hex(), err)
	}
	return nil
}

func (fr *Framework) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return fr.chain.BalanceAt(ctx, addr, nil)
}

// ChainTime is the timestamp of the latest block.
func (fr *Framework) ChainTime(ctx context.Context) (time.Time, error) {
	header, err := fr.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

func (fr *Framework) AdvanceTime(ctx context.Context, d time.Duration) error {
	return fr.chain.AdvanceTime(ctx, d)
}

func (fr *Framework) transactOpts(ctx context.Context, key *PrivKey, txOpts TxOpts) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key.Priv, fr.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Value = txOpts.Value
	opts.GasLimit = txOpts.GasLimit
	if txOpts.AllowRevert && opts.GasLimit == 0 {
		opts.GasLimit = fr.gasLimit
	}
	return opts, nil
}

// waitMined waits for one confirmation of tx and fails on a reverted receipt.
func (fr *Framework) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := fr.chain.Mine(ctx); err != nil {
		return nil, err
	}
	receipt, err := bind.WaitMined(ctx, fr.chain, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, tx.Hash().Hex())
	}
	return receipt, nil
}
