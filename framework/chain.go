package framework

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	dialRetryBase = 500 * time.Millisecond
	dialRetryMax  = 5
)

var (
	ErrTimeTravelUnsupported = errors.New("chain clock can only be moved on local networks")
	errNodeConnection        = errors.New("failed to connect to node")
)

// Backend is the client surface contracts are deployed and driven through.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Chain is a Backend whose blocks and clock the framework can drive.
type Chain interface {
	Backend
	// Mine is called once a transaction has been submitted.
	Mine(ctx context.Context) error
	AdvanceTime(ctx context.Context, d time.Duration) error
	Close()
}

type rpcChain struct {
	*ethclient.Client
	network string
}

// DialChain connects to a node over JSON-RPC, retrying until it answers.
func DialChain(ctx context.Context, log *logrus.Entry, network, url string) (Chain, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		log.WithError(err).Error("failed to dial node")
		return nil, errNodeConnection
	}
	client := ethclient.NewClient(rpcClient)

	backoff := retry.NewExponential(dialRetryBase)
	var chainID *big.Int
	err = retry.Do(ctx, retry.WithMaxRetries(dialRetryMax, backoff), func(ctx context.Context) error {
		id, err := client.ChainID(ctx)
		if err != nil {
			log.WithError(err).WithField("rpc", url).Warn("node not ready")
			return retry.RetryableError(err)
		}
		chainID = id
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", errNodeConnection, url, err)
	}

	log.WithField("network", network).WithField("rpc", url).WithField("chainId", chainID).Info("Connected")
	return &rpcChain{Client: client, network: network}, nil
}

// Mine is a no-op: dev nodes automine and live nodes mine on their own.
func (c *rpcChain) Mine(context.Context) error {
	return nil
}

func (c *rpcChain) AdvanceTime(ctx context.Context, d time.Duration) error {
	if !IsLocal(c.network) {
		return fmt.Errorf("%w: %s", ErrTimeTravelUnsupported, c.network)
	}
	if err := c.Client.Client().CallContext(ctx, nil, "evm_increaseTime", int64(d/time.Second)); err != nil {
		return fmt.Errorf("evm_increaseTime: %w", err)
	}
	if err := c.Client.Client().CallContext(ctx, nil, "evm_mine"); err != nil {
		return fmt.Errorf("evm_mine: %w", err)
	}
	return nil
}

// SimulatedChain is an in-process chain with the development accounts
// funded in genesis. Every submitted transaction is mined immediately.
type SimulatedChain struct {
	simulated.Client
	backend *simulated.Backend
}

// NewSimulatedChain starts a simulated chain; extra addresses are funded too.
func NewSimulatedChain(funded ...common.Address) *SimulatedChain {
	balance := new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

	alloc := types.GenesisAlloc{}
	for _, hex := range DevAccountKeys {
		alloc[NewPrivKeyFromHex(hex).Address()] = types.Account{Balance: balance}
	}
	for _, addr := range funded {
		alloc[addr] = types.Account{Balance: balance}
	}

	backend := simulated.NewBackend(alloc)
	return &SimulatedChain{
		Client:  backend.Client(),
		backend: backend,
	}
}

func (c *SimulatedChain) Mine(context.Context) error {
	c.backend.Commit()
	return nil
}

// AdvanceTime seals an empty block d later than the current head.
func (c *SimulatedChain) AdvanceTime(_ context.Context, d time.Duration) error {
	return c.backend.AdjustTime(d)
}

func (c *SimulatedChain) Close() {
	_ = c.backend.Close()
}
