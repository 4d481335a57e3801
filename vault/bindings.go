package vault

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/conviction-labs/vault-scripts/framework"
)

var (
	_ Chain       = (*FrameworkChain)(nil)
	_ Badge       = (*ConvictionBadge)(nil)
	_ Factory     = (*VaultFactory)(nil)
	_ Vault       = (*TimeLockedVault)(nil)
	_ Merger      = (*MergeBadges)(nil)
	_ Collectible = (*TestCollectible)(nil)
)

// FrameworkChain is the Chain backed by real contracts.
type FrameworkChain struct {
	fr *framework.Framework
}

func NewFrameworkChain(fr *framework.Framework) *FrameworkChain {
	return &FrameworkChain{fr: fr}
}

func (c *FrameworkChain) ChainTime(ctx context.Context) (time.Time, error) {
	return c.fr.ChainTime(ctx)
}

func (c *FrameworkChain) AdvanceTime(ctx context.Context, d time.Duration) error {
	return c.fr.AdvanceTime(ctx, d)
}

func (c *FrameworkChain) DeployConvictionBadge(ctx context.Context, name, symbol string, uris []string) (Badge, error) {
	contract, err := c.fr.DeployContract(ctx, ConvictionBadgeArtifact, name, symbol, uris)
	if err != nil {
		return nil, err
	}
	return NewConvictionBadge(contract), nil
}

func (c *FrameworkChain) DeployVaultFactory(ctx context.Context, feeRecipient, badge common.Address, mintFee *big.Int) (Factory, error) {
	contract, err := c.fr.DeployContract(ctx, VaultFactoryArtifact, feeRecipient, badge, mintFee)
	if err != nil {
		return nil, err
	}
	return NewVaultFactory(contract), nil
}

func (c *FrameworkChain) DeployTestCollectible(ctx context.Context) (Collectible, error) {
	contract, err := c.fr.DeployContract(ctx, TestCollectibleArtifact)
	if err != nil {
		return nil, err
	}
	return NewTestCollectible(contract), nil
}

func (c *FrameworkChain) Vault(addr common.Address) (Vault, error) {
	contract, err := c.fr.ContractAtArtifact(addr, TimeLockedVaultArtifact)
	if err != nil {
		return nil, err
	}
	return NewTimeLockedVault(contract), nil
}

func (c *FrameworkChain) Merger(addr common.Address) (Merger, error) {
	contract, err := c.fr.ContractAtArtifact(addr, MergeBadgesArtifact)
	if err != nil {
		return nil, err
	}
	return NewMergeBadges(contract), nil
}

func send(ctx context.Context, c *framework.Contract, method string, opts framework.TxOpts, args ...interface{}) error {
	_, err := c.SendTransaction(ctx, method, opts, args...)
	return err
}

func callAddress(ctx context.Context, c *framework.Contract, method string, args ...interface{}) (common.Address, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return one[common.Address](out, method)
}

func callBig(ctx context.Context, c *framework.Contract, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", errUnexpectedOutput, method)
	}
	n, ok := asBig(out[0])
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T", errUnexpectedOutput, method, out[0])
	}
	return n, nil
}

// ConvictionBadge is the ERC-721 minted to depositors.
type ConvictionBadge struct {
	c *framework.Contract
}

func NewConvictionBadge(c *framework.Contract) *ConvictionBadge {
	return &ConvictionBadge{c: c}
}

func (b *ConvictionBadge) Address() common.Address {
	return b.c.Address()
}

func (b *ConvictionBadge) TokenCounter(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, b.c, "tokenCounter")
}

// SetVFContractFirstTime registers the vault factory; the badge accepts it once.
func (b *ConvictionBadge) SetVFContractFirstTime(ctx context.Context, factory common.Address) error {
	return send(ctx, b.c, "setVFContractFirstTime", framework.TxOpts{}, factory)
}

func (b *ConvictionBadge) VFContract(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, b.c, "getVFcontract")
}

func (b *ConvictionBadge) IsTimeLockedVault(ctx context.Context, vault common.Address) (bool, error) {
	out, err := b.c.Call(ctx, "TimeLockedVaults", vault)
	if err != nil {
		return false, err
	}
	return one[bool](out, "TimeLockedVaults")
}

func (b *ConvictionBadge) MergeContract(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, b.c, "getMergeContract")
}

func (b *ConvictionBadge) OwnerOf(ctx context.Context, id *big.Int) (common.Address, error) {
	return callAddress(ctx, b.c, "ownerOf", id)
}

func (b *ConvictionBadge) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	return send(ctx, b.c, "setApprovalForAll", framework.TxOpts{}, operator, approved)
}

func (b *ConvictionBadge) TokenInfo(ctx context.Context, id *big.Int) (TokenInfo, error) {
	var (
		info TokenInfo
		err  error
	)
	if info.LockedTokenID, err = callBig(ctx, b.c, "getTokenInfoLTI", id); err != nil {
		return info, err
	}
	if info.LockedTokenAddress, err = callAddress(ctx, b.c, "getTokenInfoLTA", id); err != nil {
		return info, err
	}
	if info.LockPeriod, err = callBig(ctx, b.c, "getTokenInfoLoP", id); err != nil {
		return info, err
	}
	return info, nil
}

// VaultFactory creates TimeLockedVaults and keeps experience points.
type VaultFactory struct {
	c *framework.Contract
}

func NewVaultFactory(c *framework.Contract) *VaultFactory {
	return &VaultFactory{c: c}
}

func (f *VaultFactory) Address() common.Address {
	return f.c.Address()
}

func (f *VaultFactory) CreateNewVault(ctx context.Context, authorizedOnly bool, name string, gasLimit uint64) error {
	return send(ctx, f.c, "createNewVault", framework.TxOpts{GasLimit: gasLimit}, authorizedOnly, name)
}

func (f *VaultFactory) LatestVault(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, f.c, "getLatestVault")
}

func (f *VaultFactory) BasicEXPData(ctx context.Context, user, nft common.Address, id *big.Int) (EXPData, error) {
	out, err := f.c.Call(ctx, "getBasicEXPData", user, nft, id)
	if err != nil {
		return EXPData{}, err
	}
	if len(out) != 2 {
		return EXPData{}, fmt.Errorf("%w: getBasicEXPData returned %d values", errUnexpectedOutput, len(out))
	}
	forNFT, ok1 := asBig(out[0])
	forCollection, ok2 := asBig(out[1])
	if !ok1 || !ok2 {
		return EXPData{}, fmt.Errorf("%w: getBasicEXPData returned %T, %T", errUnexpectedOutput, out[0], out[1])
	}
	return EXPData{NFT: forNFT, Collection: forCollection}, nil
}

// TimeLockedVault custodies NFTs until their lock period has elapsed.
type TimeLockedVault struct {
	c *framework.Contract
}

func NewTimeLockedVault(c *framework.Contract) *TimeLockedVault {
	return &TimeLockedVault{c: c}
}

func (v *TimeLockedVault) Address() common.Address {
	return v.c.Address()
}

// DepositAndLockNFT is sent with AllowRevert so a refused lock is mined and
// surfaces as a reverted receipt.
func (v *TimeLockedVault) DepositAndLockNFT(ctx context.Context, nft common.Address, id *big.Int, period LockPeriod, mint bool, fee *big.Int, gasLimit uint64) error {
	opts := framework.TxOpts{Value: fee, GasLimit: gasLimit, AllowRevert: true}
	return send(ctx, v.c, "DepositAndLockNFT", opts, nft, id, uint8(period), mint)
}

func (v *TimeLockedVault) Withdraw(ctx context.Context, nft common.Address, id *big.Int) error {
	return send(ctx, v.c, "withdraw", framework.TxOpts{}, nft, id)
}

func (v *TimeLockedVault) UserInfo(ctx context.Context, user common.Address) (UserInfo, error) {
	out, err := v.c.Call(ctx, "getUserInfo", user)
	if err != nil {
		return UserInfo{}, err
	}
	if len(out) != 3 {
		return UserInfo{}, fmt.Errorf("%w: getUserInfo returned %d values", errUnexpectedOutput, len(out))
	}
	contracts, ok1 := out[0].([]common.Address)
	ids, ok2 := out[1].([]*big.Int)
	unlockAt, ok3 := out[2].([]*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return UserInfo{}, fmt.Errorf("%w: getUserInfo returned %T, %T, %T", errUnexpectedOutput, out[0], out[1], out[2])
	}
	return UserInfo{Contracts: contracts, TokenIDs: ids, UnlockAt: unlockAt}, nil
}

func (v *TimeLockedVault) Balance(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, v.c, "returnBalance")
}

func (v *TimeLockedVault) AuthorizeToUse(ctx context.Context, users []common.Address) error {
	return send(ctx, v.c, "authorizeToUse", framework.TxOpts{}, users)
}

func (v *TimeLockedVault) RemoveAuthorization(ctx context.Context, users []common.Address) error {
	return send(ctx, v.c, "removeAuthorization", framework.TxOpts{}, users)
}

func (v *TimeLockedVault) Name(ctx context.Context) (string, error) {
	out, err := v.c.Call(ctx, "vaultName")
	if err != nil {
		return "", err
	}
	return one[string](out, "vaultName")
}

func (v *TimeLockedVault) Owner(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, v.c, "owner")
}

func (v *TimeLockedVault) As(key *framework.PrivKey) Vault {
	return NewTimeLockedVault(v.c.Ref(key))
}

// MergeBadges burns badges into a single new one.
type MergeBadges struct {
	c *framework.Contract
}

func NewMergeBadges(c *framework.Contract) *MergeBadges {
	return &MergeBadges{c: c}
}

func (m *MergeBadges) Address() common.Address {
	return m.c.Address()
}

func (m *MergeBadges) MergeBadges(ctx context.Context, ids []*big.Int, value *big.Int, gasLimit uint64) error {
	return send(ctx, m.c, "mergeBadges", framework.TxOpts{Value: value, GasLimit: gasLimit}, ids)
}

// TestCollectible is the throwaway ERC-721 locked during the scenario.
type TestCollectible struct {
	c *framework.Contract
}

func NewTestCollectible(c *framework.Contract) *TestCollectible {
	return &TestCollectible{c: c}
}

func (t *TestCollectible) Address() common.Address {
	return t.c.Address()
}

func (t *TestCollectible) CreateCollectible(ctx context.Context) error {
	return send(ctx, t.c, "createCollectible", framework.TxOpts{})
}

func (t *TestCollectible) TokenCounter(ctx context.Context) (*big.Int, error) {
	return callBig(ctx, t.c, "tokenCounter")
}

func (t *TestCollectible) Approve(ctx context.Context, to common.Address, id *big.Int) error {
	return send(ctx, t.c, "approve", framework.TxOpts{}, to, id)
}

func (t *TestCollectible) GetApproved(ctx context.Context, id *big.Int) (common.Address, error) {
	return callAddress(ctx, t.c, "getApproved", id)
}

func (t *TestCollectible) OwnerOf(ctx context.Context, id *big.Int) (common.Address, error) {
	return callAddress(ctx, t.c, "ownerOf", id)
}

func (t *TestCollectible) As(key *framework.PrivKey) Collectible {
	return NewTestCollectible(t.c.Ref(key))
}
