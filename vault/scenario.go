package vault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/conviction-labs/vault-scripts/deployments"
	"github.com/conviction-labs/vault-scripts/framework"
)

const (
	DefaultBadgeName   = "Conviction"
	DefaultBadgeSymbol = "CNV"
	DefaultVaultName   = "TrialVault"
	DefaultGasLimit    = 10_000_000
)

var (
	// DefaultMintBadgeFee is 0.005 ether.
	DefaultMintBadgeFee = big.NewInt(5_000_000_000_000_000)
	// DefaultMergeFee is the value attached to mergeBadges.
	DefaultMergeFee = big.NewInt(10_000_000)

	DefaultBadgeURIs = []string{
		"https://ipfs.io/ipfs/QmPcsgSK17uPmLU83gEQvHpaUvfgktrqkJ16KRrwGu4MRa?filename=vault-one-month.png",
		"https://ipfs.io/ipfs/QmYZkoq5k9ZaPibGKA5XkYZ74FD3rKafQeLbgFsH2n6BnA?filename=vault-three-months.png",
		"https://ipfs.io/ipfs/QmdJNGUHECbMVSJXcGR5Df22FZaTtKEQpChgdLvVR52wnX?filename=vault-six-months.png",
		"https://ipfs.io/ipfs/QmVhKBQRtmfY2Cwzd9cAhz6o4CFjmu7zVxdFzhUuPb4guQ?filename=vault-one-year.png",
	}
)

var (
	errBadgeCounterNotZero = errors.New("fresh conviction badge has a non-zero token counter")
	errVaultNotCreated     = errors.New("vault factory returned no vault")
	errNFTNotInCustody     = errors.New("locked NFT is not held by the vault")
	errNFTNotReturned      = errors.New("withdrawn NFT was not returned to the account")
	errMergeOutcome        = errors.New("unexpected merge outcome")
	errNotApproved         = errors.New("vault is not approved for the NFT")
	errRevertExpected      = errors.New("vault accepted a transaction it should refuse")
	errVaultState          = errors.New("unexpected vault state")
)

// Params configures a scenario run.
type Params struct {
	Network     string
	ChainID     uint64
	IsLocal     bool
	LockPeriod  LockPeriod
	MintFee     *big.Int
	MergeFee    *big.Int
	GasLimit    uint64
	BadgeName   string
	BadgeSymbol string
	BadgeURIs   []string
	VaultName   string
}

func DefaultParams() Params {
	return Params{
		Network:     "development",
		IsLocal:     true,
		LockPeriod:  SixMonths,
		MintFee:     new(big.Int).Set(DefaultMintBadgeFee),
		MergeFee:    new(big.Int).Set(DefaultMergeFee),
		GasLimit:    DefaultGasLimit,
		BadgeName:   DefaultBadgeName,
		BadgeSymbol: DefaultBadgeSymbol,
		BadgeURIs:   append([]string(nil), DefaultBadgeURIs...),
		VaultName:   DefaultVaultName,
	}
}

// Scenario drives the contracts through their lifecycle from one account.
type Scenario struct {
	chain   Chain
	account common.Address
	params  Params
	log     *logrus.Entry
}

func NewScenario(chain Chain, account common.Address, params Params, log *logrus.Entry) *Scenario {
	return &Scenario{
		chain:   chain,
		account: account,
		params:  params,
		log:     log.WithField("account", account.Hex()),
	}
}

// DeployConvictionBadge deploys the badge and returns it with its first token id.
func (s *Scenario) DeployConvictionBadge(ctx context.Context) (Badge, *big.Int, error) {
	badge, err := s.chain.DeployConvictionBadge(ctx, s.params.BadgeName, s.params.BadgeSymbol, s.params.BadgeURIs)
	if err != nil {
		return nil, nil, err
	}
	s.log.WithField("address", badge.Address().Hex()).Info("Latest Conviction Badge deployed")

	badgeID, err := badge.TokenCounter(ctx)
	if err != nil {
		return nil, nil, err
	}
	if badgeID.Sign() != 0 {
		return nil, nil, fmt.Errorf("%w: %s", errBadgeCounterNotZero, badgeID)
	}
	return badge, badgeID, nil
}

// DeployVaultFactory deploys the factory and registers it with the badge.
func (s *Scenario) DeployVaultFactory(ctx context.Context, badge Badge) (Factory, error) {
	factory, err := s.chain.DeployVaultFactory(ctx, s.account, badge.Address(), s.params.MintFee)
	if err != nil {
		return nil, err
	}
	log := s.log.WithField("factory", factory.Address().Hex())
	log.Info("VaultFactory deployed")

	before, err := badge.VFContract(ctx)
	if err != nil {
		return nil, err
	}
	log.WithField("vf", before.Hex()).Info("VF of conviction before")

	if err := badge.SetVFContractFirstTime(ctx, factory.Address()); err != nil {
		return nil, err
	}

	after, err := badge.VFContract(ctx)
	if err != nil {
		return nil, err
	}
	log.WithField("vf", after.Hex()).Info("VF of conviction after")
	return factory, nil
}

// CreateVault creates a vault restricted to authorized users and returns it.
func (s *Scenario) CreateVault(ctx context.Context, factory Factory) (Vault, error) {
	if err := factory.CreateNewVault(ctx, true, s.params.VaultName, s.params.GasLimit); err != nil {
		return nil, err
	}
	addr, err := factory.LatestVault(ctx)
	if err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		return nil, errVaultNotCreated
	}
	s.log.WithField("vault", addr.Hex()).Info("Latest time locked vault created")
	return s.chain.Vault(addr)
}

// MintTrialNFT deploys a TestCollectible and mints one token to the account.
func (s *Scenario) MintTrialNFT(ctx context.Context) (Collectible, *big.Int, error) {
	nft, err := s.chain.DeployTestCollectible(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := nft.CreateCollectible(ctx); err != nil {
		return nil, nil, err
	}
	counter, err := nft.TokenCounter(ctx)
	if err != nil {
		return nil, nil, err
	}
	tokenID := new(big.Int).Sub(counter, big.NewInt(1))
	s.log.WithField("nft", nft.Address().Hex()).WithField("tokenId", tokenID).Info("Trial NFT minted")
	return nft, tokenID, nil
}

// InitiateTimeLock approves the vault and locks the NFT for the configured period.
func (s *Scenario) InitiateTimeLock(ctx context.Context, vault Vault, nft Collectible, tokenID *big.Int, mint bool) error {
	if err := nft.Approve(ctx, vault.Address(), tokenID); err != nil {
		return err
	}
	approved, err := nft.GetApproved(ctx, tokenID)
	if err != nil {
		return err
	}
	if approved != vault.Address() {
		return fmt.Errorf("%w: approved is %s", errNotApproved, approved.Hex())
	}
	if err := s.logVaultBalance(ctx, vault, "Balance of the contract before locking"); err != nil {
		return err
	}
	if err := s.logUserInfo(ctx, vault); err != nil {
		return err
	}

	s.log.WithField("period", s.params.LockPeriod).WithField("mint", mint).Info("Initiating the time lock")
	if err := vault.DepositAndLockNFT(ctx, nft.Address(), tokenID, s.params.LockPeriod, mint, s.params.MintFee, s.params.GasLimit); err != nil {
		return err
	}

	owner, err := nft.OwnerOf(ctx, tokenID)
	if err != nil {
		return err
	}
	if owner != vault.Address() {
		return fmt.Errorf("%w: owner is %s", errNFTNotInCustody, owner.Hex())
	}
	if err := s.logUserInfo(ctx, vault); err != nil {
		return err
	}
	return s.logVaultBalance(ctx, vault, "Balance of the contract after locking")
}

// FastForward moves a local chain past the lock period; live chains are left alone.
func (s *Scenario) FastForward(ctx context.Context) error {
	if !s.params.IsLocal {
		s.log.WithField("network", s.params.Network).Info("Live network, not fast forwarding")
		return nil
	}
	s.log.WithField("period", s.params.LockPeriod).Info("Fast forwarding the chain")
	before, after, err := FastForward(ctx, s.chain, s.params.LockPeriod)
	if err != nil {
		return err
	}
	s.log.WithField("before", before).WithField("after", after).Info("Chain time moved")
	return nil
}

// Withdraw takes the NFT back out of the vault.
func (s *Scenario) Withdraw(ctx context.Context, vault Vault, nft Collectible, tokenID *big.Int) error {
	s.log.WithField("tokenId", tokenID).Info("Withdrawing NFT")
	if err := vault.Withdraw(ctx, nft.Address(), tokenID); err != nil {
		return err
	}
	owner, err := nft.OwnerOf(ctx, tokenID)
	if err != nil {
		return err
	}
	if owner != s.account {
		return fmt.Errorf("%w: owner is %s", errNFTNotReturned, owner.Hex())
	}
	return s.logUserInfo(ctx, vault)
}

// MergeConvictions merges the two badges starting at firstID and returns the
// merge contract address and the id of the newly minted badge.
func (s *Scenario) MergeConvictions(ctx context.Context, badge Badge, firstID *big.Int) (common.Address, *big.Int, error) {
	mergeAddr, err := badge.MergeContract(ctx)
	if err != nil {
		return common.Address{}, nil, err
	}
	merger, err := s.chain.Merger(mergeAddr)
	if err != nil {
		return common.Address{}, nil, err
	}
	ids := []*big.Int{new(big.Int).Set(firstID), new(big.Int).Add(firstID, big.NewInt(1))}

	if err := s.logOwners(ctx, badge, ids, "Owners of the badges before merging"); err != nil {
		return common.Address{}, nil, err
	}
	if err := badge.SetApprovalForAll(ctx, mergeAddr, true); err != nil {
		return common.Address{}, nil, err
	}
	info, err := badge.TokenInfo(ctx, ids[0])
	if err != nil {
		return common.Address{}, nil, err
	}
	s.log.WithField("lockedTokenId", info.LockedTokenID).
		WithField("lockedTokenAddress", info.LockedTokenAddress.Hex()).
		WithField("lockPeriod", info.LockPeriod).
		WithField("merge", mergeAddr.Hex()).
		Info("Merging badges")

	if err := merger.MergeBadges(ctx, ids, s.params.MergeFee, s.params.GasLimit); err != nil {
		return common.Address{}, nil, err
	}

	entry := s.log
	for _, id := range ids {
		owner, err := badge.OwnerOf(ctx, id)
		if errors.Is(err, framework.ErrCallReverted) {
			// ownerOf reverts for burned tokens.
			entry = entry.WithField("owner"+id.String(), "burned")
			continue
		}
		if err != nil {
			return common.Address{}, nil, err
		}
		if owner == s.account {
			return common.Address{}, nil, fmt.Errorf("%w: badge %s still owned by the account", errMergeOutcome, id)
		}
		entry = entry.WithField("owner"+id.String(), owner.Hex())
	}
	entry.Info("Owners of the badges after merging")

	counter, err := badge.TokenCounter(ctx)
	if err != nil {
		return common.Address{}, nil, err
	}
	expected := new(big.Int).Add(firstID, big.NewInt(3))
	if counter.Cmp(expected) != 0 {
		return common.Address{}, nil, fmt.Errorf("%w: token counter is %s, want %s", errMergeOutcome, counter, expected)
	}
	merged := new(big.Int).Sub(counter, big.NewInt(1))
	owner, err := badge.OwnerOf(ctx, merged)
	if err != nil {
		return common.Address{}, nil, err
	}
	if owner != s.account {
		return common.Address{}, nil, fmt.Errorf("%w: new badge %s owned by %s", errMergeOutcome, merged, owner.Hex())
	}
	s.log.WithField("badgeId", merged).WithField("owner", owner.Hex()).Info("Owner of the new badge")
	return mergeAddr, merged, nil
}

// FullScaleDeploy runs deploy, mint, lock, fast forward, withdraw twice and
// merges the two badges earned.
func (s *Scenario) FullScaleDeploy(ctx context.Context) (*deployments.Record, error) {
	rec := s.newRecord()

	badge, badgeID, err := s.DeployConvictionBadge(ctx)
	if err != nil {
		return nil, err
	}
	rec.ConvictionBadge, rec.BadgeID = badge.Address(), badgeID

	factory, err := s.DeployVaultFactory(ctx, badge)
	if err != nil {
		return nil, err
	}
	rec.VaultFactory = factory.Address()

	vault, err := s.CreateVault(ctx, factory)
	if err != nil {
		return nil, err
	}
	rec.Vault = vault.Address()

	nft, tokenID, err := s.MintTrialNFT(ctx)
	if err != nil {
		return nil, err
	}
	rec.TestCollectible, rec.NFTTokenID = nft.Address(), tokenID

	registered, err := badge.IsTimeLockedVault(ctx, vault.Address())
	if err != nil {
		return nil, err
	}
	s.log.WithField("registered", registered).Info("Latest vault included in Conviction Badge")

	// Two lock cycles earn the two badges that get merged.
	for round := 1; round <= 2; round++ {
		s.log.WithField("round", round).Info("Lock cycle")
		if err := s.InitiateTimeLock(ctx, vault, nft, tokenID, true); err != nil {
			return nil, err
		}
		if err := s.FastForward(ctx); err != nil {
			return nil, err
		}
		if err := s.Withdraw(ctx, vault, nft, tokenID); err != nil {
			return nil, err
		}
	}

	rec.MergeBadges, rec.MergedBadgeID, err = s.MergeConvictions(ctx, badge, badgeID)
	if err != nil {
		return nil, err
	}

	s.logRecord(rec)
	return rec, nil
}

// HardhatDeploy deploys the contracts and locks a freshly minted NFT once.
func (s *Scenario) HardhatDeploy(ctx context.Context) (*deployments.Record, error) {
	rec := s.newRecord()

	badge, badgeID, err := s.DeployConvictionBadge(ctx)
	if err != nil {
		return nil, err
	}
	rec.ConvictionBadge, rec.BadgeID = badge.Address(), badgeID

	factory, err := s.DeployVaultFactory(ctx, badge)
	if err != nil {
		return nil, err
	}
	rec.VaultFactory = factory.Address()

	vault, err := s.CreateVault(ctx, factory)
	if err != nil {
		return nil, err
	}
	rec.Vault = vault.Address()

	nft, tokenID, err := s.MintTrialNFT(ctx)
	if err != nil {
		return nil, err
	}
	rec.TestCollectible, rec.NFTTokenID = nft.Address(), tokenID

	if err := s.InitiateTimeLock(ctx, vault, nft, tokenID, true); err != nil {
		return nil, err
	}

	if rec.MergeBadges, err = badge.MergeContract(ctx); err != nil {
		return nil, err
	}
	s.logRecord(rec)
	return rec, nil
}

// VaultInteractions exercises the access rules of an authorized-only vault
// with a second account. The other account is refused until the owner
// authorizes it, authorization can only be removed by the owner and never
// from a user with a lock, and a deposit without the mint fee is refused.
// extra accounts are authorized and removed again.
func (s *Scenario) VaultInteractions(ctx context.Context, other *framework.PrivKey, extra []common.Address) (*deployments.Record, error) {
	rec := s.newRecord()

	badge, badgeID, err := s.DeployConvictionBadge(ctx)
	if err != nil {
		return nil, err
	}
	rec.ConvictionBadge, rec.BadgeID = badge.Address(), badgeID

	factory, err := s.DeployVaultFactory(ctx, badge)
	if err != nil {
		return nil, err
	}
	rec.VaultFactory = factory.Address()

	vault, err := s.CreateVault(ctx, factory)
	if err != nil {
		return nil, err
	}
	rec.Vault = vault.Address()
	if err := s.checkVaultIdentity(ctx, vault); err != nil {
		return nil, err
	}

	nft, tokenID, err := s.MintTrialNFT(ctx)
	if err != nil {
		return nil, err
	}
	rec.TestCollectible, rec.NFTTokenID = nft.Address(), tokenID

	if err := s.InitiateTimeLock(ctx, vault, nft, tokenID, true); err != nil {
		return nil, err
	}
	if err := s.checkLocks(ctx, vault, s.account, 1); err != nil {
		return nil, err
	}
	if err := s.checkEXP(ctx, factory, s.account, nft.Address(), tokenID, true); err != nil {
		return nil, err
	}

	user := other.Address()
	log := s.log.WithField("user", user.Hex())
	otherVault, otherNFT := vault.As(other), nft.As(other)
	otherID, err := s.mintAndApprove(ctx, otherNFT, vault)
	if err != nil {
		return nil, err
	}

	before, err := vault.Balance(ctx)
	if err != nil {
		return nil, err
	}
	err = otherVault.DepositAndLockNFT(ctx, nft.Address(), otherID, s.params.LockPeriod, true, s.params.MintFee, s.params.GasLimit)
	if err := expectRevert("deposit by an unauthorized user", err); err != nil {
		return nil, err
	}
	log.Info("Deposit by unauthorized user refused")
	if err := s.checkBalance(ctx, vault, before, false); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, nft, otherID, user); err != nil {
		return nil, err
	}
	if err := s.checkLocks(ctx, vault, user, 0); err != nil {
		return nil, err
	}
	if err := s.checkEXP(ctx, factory, user, nft.Address(), otherID, false); err != nil {
		return nil, err
	}

	if err := vault.AuthorizeToUse(ctx, []common.Address{user}); err != nil {
		return nil, err
	}
	log.Info("User authorized")
	if err := otherVault.DepositAndLockNFT(ctx, nft.Address(), otherID, s.params.LockPeriod, true, s.params.MintFee, s.params.GasLimit); err != nil {
		return nil, err
	}
	log.WithField("tokenId", otherID).Info("Authorized user deposited")
	if err := s.checkBalance(ctx, vault, before, true); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, nft, otherID, vault.Address()); err != nil {
		return nil, err
	}
	if err := s.checkLocks(ctx, vault, user, 1); err != nil {
		return nil, err
	}
	if err := s.checkEXP(ctx, factory, user, nft.Address(), otherID, true); err != nil {
		return nil, err
	}

	if err := s.removeAuthorizations(ctx, vault, otherVault, user, extra); err != nil {
		return nil, err
	}

	feeless, err := s.mintAndApprove(ctx, otherNFT, vault)
	if err != nil {
		return nil, err
	}
	err = otherVault.DepositAndLockNFT(ctx, nft.Address(), feeless, s.params.LockPeriod, true, new(big.Int), s.params.GasLimit)
	if err := expectRevert("deposit without the mint fee", err); err != nil {
		return nil, err
	}
	log.Info("Deposit without the mint fee refused")
	if err := s.checkLocks(ctx, vault, user, 1); err != nil {
		return nil, err
	}

	s.logRecord(rec)
	return rec, nil
}

func (s *Scenario) removeAuthorizations(ctx context.Context, vault, otherVault Vault, user common.Address, extra []common.Address) error {
	if len(extra) > 0 {
		if err := vault.AuthorizeToUse(ctx, extra); err != nil {
			return err
		}
		err := otherVault.RemoveAuthorization(ctx, extra[:1])
		if err := expectRevert("authorization removed by a non owner", err); err != nil {
			return err
		}
	}

	err := vault.RemoveAuthorization(ctx, []common.Address{user})
	if err := expectRevert("authorization removed from a user with a lock", err); err != nil {
		return err
	}
	if len(extra) == 0 {
		return nil
	}
	err = vault.RemoveAuthorization(ctx, append([]common.Address{user}, extra[0]))
	if err := expectRevert("authorization removed from a batch with a locked user", err); err != nil {
		return err
	}
	if err := vault.RemoveAuthorization(ctx, extra); err != nil {
		return err
	}
	s.log.WithField("users", len(extra)).Info("Authorization removed")
	return nil
}

// expectRevert turns an accepted transaction into an error. Failures other
// than a revert are returned as they are.
func expectRevert(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", errRevertExpected, what)
	}
	if !errors.Is(err, framework.ErrTransactionReverted) {
		return err
	}
	return nil
}

func (s *Scenario) mintAndApprove(ctx context.Context, nft Collectible, vault Vault) (*big.Int, error) {
	if err := nft.CreateCollectible(ctx); err != nil {
		return nil, err
	}
	counter, err := nft.TokenCounter(ctx)
	if err != nil {
		return nil, err
	}
	id := new(big.Int).Sub(counter, big.NewInt(1))
	if err := nft.Approve(ctx, vault.Address(), id); err != nil {
		return nil, err
	}
	approved, err := nft.GetApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	if approved != vault.Address() {
		return nil, fmt.Errorf("%w: approved is %s", errNotApproved, approved.Hex())
	}
	return id, nil
}

func (s *Scenario) checkVaultIdentity(ctx context.Context, vault Vault) error {
	name, err := vault.Name(ctx)
	if err != nil {
		return err
	}
	if name != s.params.VaultName {
		return fmt.Errorf("%w: vault name %q, want %q", errVaultState, name, s.params.VaultName)
	}
	owner, err := vault.Owner(ctx)
	if err != nil {
		return err
	}
	if owner != s.account {
		return fmt.Errorf("%w: vault owner %s", errVaultState, owner.Hex())
	}
	s.log.WithField("name", name).WithField("owner", owner.Hex()).Info("Vault created")
	return nil
}

func (s *Scenario) checkBalance(ctx context.Context, vault Vault, before *big.Int, grown bool) error {
	balance, err := vault.Balance(ctx)
	if err != nil {
		return err
	}
	if cmp := balance.Cmp(before); (grown && cmp <= 0) || (!grown && cmp != 0) {
		return fmt.Errorf("%w: balance %s, was %s", errVaultState, balance, before)
	}
	return nil
}

func (s *Scenario) checkOwner(ctx context.Context, nft Collectible, id *big.Int, want common.Address) error {
	owner, err := nft.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != want {
		return fmt.Errorf("%w: token %s owned by %s, want %s", errVaultState, id, owner.Hex(), want.Hex())
	}
	return nil
}

func (s *Scenario) checkLocks(ctx context.Context, vault Vault, user common.Address, want int) error {
	info, err := vault.UserInfo(ctx, user)
	if err != nil {
		return err
	}
	if len(info.Contracts) != want || len(info.TokenIDs) != want || len(info.UnlockAt) != want {
		return fmt.Errorf("%w: %s has %d locks, want %d", errVaultState, user.Hex(), len(info.Contracts), want)
	}
	for _, at := range info.UnlockAt {
		if at.Sign() <= 0 {
			return fmt.Errorf("%w: lock of %s has no unlock time", errVaultState, user.Hex())
		}
	}
	return nil
}

func (s *Scenario) checkEXP(ctx context.Context, factory Factory, user, nft common.Address, id *big.Int, earned bool) error {
	exp, err := factory.BasicEXPData(ctx, user, nft, id)
	if err != nil {
		return err
	}
	s.log.WithField("user", user.Hex()).WithField("nft", exp.NFT).WithField("collection", exp.Collection).Info("Experience")
	if earned != (exp.NFT.Sign() > 0) || earned != (exp.Collection.Sign() > 0) {
		return fmt.Errorf("%w: experience %s/%s for %s", errVaultState, exp.NFT, exp.Collection, user.Hex())
	}
	return nil
}

func (s *Scenario) newRecord() *deployments.Record {
	return &deployments.Record{
		Network:    s.params.Network,
		ChainID:    s.params.ChainID,
		Account:    s.account,
		DeployedAt: time.Now().UTC(),
	}
}

func (s *Scenario) logVaultBalance(ctx context.Context, vault Vault, msg string) error {
	balance, err := vault.Balance(ctx)
	if err != nil {
		return err
	}
	s.log.WithField("balance", balance).Info(msg)
	return nil
}

func (s *Scenario) logUserInfo(ctx context.Context, vault Vault) error {
	info, err := vault.UserInfo(ctx, s.account)
	if err != nil {
		return err
	}
	for i, nft := range info.Contracts {
		entry := s.log.WithField("nft", nft.Hex())
		if i < len(info.TokenIDs) {
			entry = entry.WithField("tokenId", info.TokenIDs[i])
		}
		if i < len(info.UnlockAt) {
			entry = entry.WithField("unlockAt", unixTime(info.UnlockAt[i]))
		}
		entry.Info("Locked in vault")
	}
	if len(info.Contracts) == 0 {
		s.log.Info("Nothing locked in vault")
	}
	return nil
}

func (s *Scenario) logOwners(ctx context.Context, badge Badge, ids []*big.Int, msg string) error {
	entry := s.log
	for _, id := range ids {
		owner, err := badge.OwnerOf(ctx, id)
		if err != nil {
			return err
		}
		entry = entry.WithField("owner"+id.String(), owner.Hex())
	}
	entry.Info(msg)
	return nil
}

func (s *Scenario) logRecord(rec *deployments.Record) {
	s.log.WithFields(logrus.Fields{
		"convictionBadge": rec.ConvictionBadge.Hex(),
		"mergeBadges":     rec.MergeBadges.Hex(),
		"vaultFactory":    rec.VaultFactory.Hex(),
		"vault":           rec.Vault.Hex(),
		"testCollectible": rec.TestCollectible.Hex(),
	}).Info("Here is the address list")
}
