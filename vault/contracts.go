package vault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/conviction-labs/vault-scripts/framework"
)

// Artifact names under the artifacts directory.
const (
	ConvictionBadgeArtifact = "ConvictionBadge"
	VaultFactoryArtifact    = "VaultFactory"
	TimeLockedVaultArtifact = "TimeLockedVault"
	MergeBadgesArtifact     = "MergeBadges"
	TestCollectibleArtifact = "TestCollectible"
)

var errUnexpectedOutput = errors.New("unexpected call output")

// TokenInfo is what a badge remembers about the lock that minted it.
type TokenInfo struct {
	LockedTokenID      *big.Int
	LockedTokenAddress common.Address
	LockPeriod         *big.Int
}

// UserInfo lists the NFTs a user currently has locked in a vault.
type UserInfo struct {
	Contracts []common.Address
	TokenIDs  []*big.Int
	UnlockAt  []*big.Int
}

// EXPData is the experience a user earned for locking an NFT and its collection.
type EXPData struct {
	NFT        *big.Int
	Collection *big.Int
}

type Badge interface {
	Address() common.Address
	TokenCounter(ctx context.Context) (*big.Int, error)
	SetVFContractFirstTime(ctx context.Context, factory common.Address) error
	VFContract(ctx context.Context) (common.Address, error)
	IsTimeLockedVault(ctx context.Context, vault common.Address) (bool, error)
	MergeContract(ctx context.Context) (common.Address, error)
	OwnerOf(ctx context.Context, id *big.Int) (common.Address, error)
	SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error
	TokenInfo(ctx context.Context, id *big.Int) (TokenInfo, error)
}

type Factory interface {
	Address() common.Address
	CreateNewVault(ctx context.Context, authorizedOnly bool, name string, gasLimit uint64) error
	LatestVault(ctx context.Context) (common.Address, error)
	BasicEXPData(ctx context.Context, user, nft common.Address, id *big.Int) (EXPData, error)
}

type Vault interface {
	Address() common.Address
	DepositAndLockNFT(ctx context.Context, nft common.Address, id *big.Int, period LockPeriod, mint bool, fee *big.Int, gasLimit uint64) error
	Withdraw(ctx context.Context, nft common.Address, id *big.Int) error
	UserInfo(ctx context.Context, user common.Address) (UserInfo, error)
	Balance(ctx context.Context) (*big.Int, error)
	AuthorizeToUse(ctx context.Context, users []common.Address) error
	RemoveAuthorization(ctx context.Context, users []common.Address) error
	Name(ctx context.Context) (string, error)
	Owner(ctx context.Context) (common.Address, error)
	// As returns the same vault sending from key.
	As(key *framework.PrivKey) Vault
}

type Merger interface {
	Address() common.Address
	MergeBadges(ctx context.Context, ids []*big.Int, value *big.Int, gasLimit uint64) error
}

type Collectible interface {
	Address() common.Address
	CreateCollectible(ctx context.Context) error
	TokenCounter(ctx context.Context) (*big.Int, error)
	Approve(ctx context.Context, to common.Address, id *big.Int) error
	GetApproved(ctx context.Context, id *big.Int) (common.Address, error)
	OwnerOf(ctx context.Context, id *big.Int) (common.Address, error)
	As(key *framework.PrivKey) Collectible
}

// Chain deploys and attaches to the contracts of the system.
type Chain interface {
	Clock
	DeployConvictionBadge(ctx context.Context, name, symbol string, uris []string) (Badge, error)
	DeployVaultFactory(ctx context.Context, feeRecipient, badge common.Address, mintFee *big.Int) (Factory, error)
	DeployTestCollectible(ctx context.Context) (Collectible, error)
	Vault(addr common.Address) (Vault, error)
	Merger(addr common.Address) (Merger, error)
}

func one[T any](out []interface{}, method string) (T, error) {
	var zero T
	if len(out) == 0 {
		return zero, fmt.Errorf("%w: %s returned nothing", errUnexpectedOutput, method)
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", errUnexpectedOutput, method, out[0])
	}
	return v, nil
}

// asBig accepts any unsigned integer output, enums come back as uint8.
func asBig(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	}
	return nil, false
}

func unixTime(v *big.Int) time.Time {
	if v == nil || !v.IsInt64() {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}
