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

// Contract refusals carry the same sentinels the framework reports for reverts.
var (
	errFakeNotOwner      = reverted("caller is not the token owner")
	errFakeNotApproved   = reverted("caller is not approved for the token")
	errFakeUnknownToken  = fmt.Errorf("%w: ERC721: invalid token ID", framework.ErrCallReverted)
	errFakeStillLocked   = reverted("NFT is still locked")
	errFakeNotLocked     = reverted("NFT is not locked in this vault")
	errFakeWrongFee      = reverted("You should pay the exact mint fee.")
	errFakeUnauthorized  = reverted("You are not authorized to do this!")
	errFakeNotVaultOwner = reverted("You are not the owner. Can't perform this function!")
	errFakeAlreadyIn     = reverted("Already in. Can't remove now.")
	errFakeVFAlreadySet  = reverted("vault factory already set")
	errFakeUnknownVault  = errors.New("no vault at address")
	errFakeUnknownMerger = errors.New("no merge contract at address")
)

func reverted(reason string) error {
	return fmt.Errorf("%w: execution reverted: %s", framework.ErrTransactionReverted, reason)
}

// fakeChain keeps the contract system in memory. Everything is sent by holder
// unless a handle was switched with As.
type fakeChain struct {
	holder     common.Address
	now        time.Time
	next       byte
	advanceErr error

	initialBadgeCounter int64
	burnOnMerge         bool
	afterMerge          func()
	// openVaults ignores the authorized-only flag of new vaults.
	openVaults bool

	badge   *fakeBadge
	merger  *fakeMerger
	nfts    map[common.Address]*fakeCollectible
	vaults  map[common.Address]*fakeVault
	advance []time.Duration
}

var _ Chain = (*fakeChain)(nil)

func newFakeChain(holder common.Address) *fakeChain {
	return &fakeChain{
		holder: holder,
		now:    time.Unix(1_700_000_000, 0).UTC(),
		nfts:   make(map[common.Address]*fakeCollectible),
		vaults: make(map[common.Address]*fakeVault),
	}
}

func (c *fakeChain) newAddress() common.Address {
	c.next++
	return common.BytesToAddress([]byte{0xc0, 0xde, c.next})
}

func (c *fakeChain) ChainTime(context.Context) (time.Time, error) {
	return c.now, nil
}

func (c *fakeChain) AdvanceTime(_ context.Context, d time.Duration) error {
	if c.advanceErr != nil {
		return c.advanceErr
	}
	c.advance = append(c.advance, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeChain) DeployConvictionBadge(_ context.Context, name, symbol string, uris []string) (Badge, error) {
	c.badge = &fakeBadge{
		chain:     c,
		addr:      c.newAddress(),
		name:      name,
		symbol:    symbol,
		uris:      uris,
		counter:   c.initialBadgeCounter,
		owners:    make(map[int64]common.Address),
		info:      make(map[int64]TokenInfo),
		operators: make(map[common.Address]bool),
		vaults:    make(map[common.Address]bool),
	}
	c.merger = &fakeMerger{chain: c, addr: c.newAddress(), burn: c.burnOnMerge, afterMerge: c.afterMerge}
	return c.badge, nil
}

func (c *fakeChain) DeployVaultFactory(_ context.Context, feeRecipient, badge common.Address, mintFee *big.Int) (Factory, error) {
	if c.badge == nil || c.badge.addr != badge {
		return nil, fmt.Errorf("unknown badge %s", badge.Hex())
	}
	return &fakeFactory{
		chain:        c,
		addr:         c.newAddress(),
		feeRecipient: feeRecipient,
		fee:          new(big.Int).Set(mintFee),
		exp:          make(map[string]int64),
	}, nil
}

func (c *fakeChain) DeployTestCollectible(context.Context) (Collectible, error) {
	nft := &fakeCollectible{
		chain:    c,
		addr:     c.newAddress(),
		counter:  new(int64),
		owners:   make(map[int64]common.Address),
		approved: make(map[int64]common.Address),
	}
	c.nfts[nft.addr] = nft
	return nft, nil
}

func (c *fakeChain) Vault(addr common.Address) (Vault, error) {
	v, ok := c.vaults[addr]
	if !ok {
		return nil, fmt.Errorf("%w %s", errFakeUnknownVault, addr.Hex())
	}
	return v, nil
}

func (c *fakeChain) Merger(addr common.Address) (Merger, error) {
	if c.merger == nil || c.merger.addr != addr {
		return nil, fmt.Errorf("%w %s", errFakeUnknownMerger, addr.Hex())
	}
	return c.merger, nil
}

type fakeBadge struct {
	chain  *fakeChain
	addr   common.Address
	name   string
	symbol string
	uris   []string

	counter   int64
	owners    map[int64]common.Address
	info      map[int64]TokenInfo
	operators map[common.Address]bool
	vaults    map[common.Address]bool
	vf        common.Address
	ownerErr  error
}

func (b *fakeBadge) Address() common.Address { return b.addr }

func (b *fakeBadge) TokenCounter(context.Context) (*big.Int, error) {
	return big.NewInt(b.counter), nil
}

func (b *fakeBadge) SetVFContractFirstTime(_ context.Context, factory common.Address) error {
	if b.vf != (common.Address{}) {
		return errFakeVFAlreadySet
	}
	b.vf = factory
	return nil
}

func (b *fakeBadge) VFContract(context.Context) (common.Address, error) {
	return b.vf, nil
}

func (b *fakeBadge) IsTimeLockedVault(_ context.Context, vault common.Address) (bool, error) {
	return b.vaults[vault], nil
}

func (b *fakeBadge) MergeContract(context.Context) (common.Address, error) {
	return b.chain.merger.addr, nil
}

func (b *fakeBadge) OwnerOf(_ context.Context, id *big.Int) (common.Address, error) {
	if b.ownerErr != nil {
		return common.Address{}, b.ownerErr
	}
	owner, ok := b.owners[id.Int64()]
	if !ok {
		return common.Address{}, errFakeUnknownToken
	}
	return owner, nil
}

func (b *fakeBadge) SetApprovalForAll(_ context.Context, operator common.Address, approved bool) error {
	b.operators[operator] = approved
	return nil
}

func (b *fakeBadge) TokenInfo(_ context.Context, id *big.Int) (TokenInfo, error) {
	info, ok := b.info[id.Int64()]
	if !ok {
		return TokenInfo{}, errFakeUnknownToken
	}
	return info, nil
}

func (b *fakeBadge) mint(to common.Address, info TokenInfo) {
	b.owners[b.counter] = to
	b.info[b.counter] = info
	b.counter++
}

type fakeFactory struct {
	chain        *fakeChain
	addr         common.Address
	feeRecipient common.Address
	fee          *big.Int
	latest       common.Address
	exp          map[string]int64
}

func (f *fakeFactory) Address() common.Address { return f.addr }

func (f *fakeFactory) CreateNewVault(_ context.Context, authorizedOnly bool, name string, _ uint64) error {
	v := &fakeVault{
		chain:          f.chain,
		factory:        f,
		addr:           f.chain.newAddress(),
		owner:          f.chain.holder,
		name:           name,
		authorizedOnly: authorizedOnly && !f.chain.openVaults,
		authorized:     make(map[common.Address]bool),
		locks:          make(map[string]fakeLock),
		balance:        new(big.Int),
	}
	f.chain.vaults[v.addr] = v
	f.chain.badge.vaults[v.addr] = true
	f.latest = v.addr
	return nil
}

func (f *fakeFactory) LatestVault(context.Context) (common.Address, error) {
	return f.latest, nil
}

func (f *fakeFactory) BasicEXPData(_ context.Context, user, nft common.Address, id *big.Int) (EXPData, error) {
	return EXPData{
		NFT:        big.NewInt(f.exp[user.Hex()+nft.Hex()+id.String()]),
		Collection: big.NewInt(f.exp[user.Hex()+nft.Hex()]),
	}, nil
}

func (f *fakeFactory) earn(user, nft common.Address, id *big.Int, days int64) {
	f.exp[user.Hex()+nft.Hex()+id.String()] += days
	f.exp[user.Hex()+nft.Hex()] += days
}

type fakeLock struct {
	user  common.Address
	nft   common.Address
	id    *big.Int
	until time.Time
}

type fakeVault struct {
	chain          *fakeChain
	sender         common.Address
	factory        *fakeFactory
	addr           common.Address
	owner          common.Address
	name           string
	authorizedOnly bool
	authorized     map[common.Address]bool
	locks          map[string]fakeLock
	balance        *big.Int
}

func lockKey(nft common.Address, id *big.Int) string {
	return nft.Hex() + "/" + id.String()
}

func (v *fakeVault) Address() common.Address { return v.addr }

func (v *fakeVault) As(key *framework.PrivKey) Vault {
	ref := *v
	ref.sender = key.Address()
	return &ref
}

func (v *fakeVault) from() common.Address {
	if v.sender != (common.Address{}) {
		return v.sender
	}
	return v.chain.holder
}

func (v *fakeVault) DepositAndLockNFT(ctx context.Context, nftAddr common.Address, id *big.Int, period LockPeriod, mint bool, fee *big.Int, _ uint64) error {
	sender := v.from()
	if v.authorizedOnly && sender != v.owner && !v.authorized[sender] {
		return errFakeUnauthorized
	}
	if mint && fee.Cmp(v.factory.fee) != 0 {
		return errFakeWrongFee
	}
	nft, ok := v.chain.nfts[nftAddr]
	if !ok {
		return fmt.Errorf("no collectible at %s", nftAddr.Hex())
	}
	if err := nft.transferFrom(v.addr, sender, v.addr, id); err != nil {
		return err
	}
	v.locks[lockKey(nftAddr, id)] = fakeLock{
		user:  sender,
		nft:   nftAddr,
		id:    new(big.Int).Set(id),
		until: v.chain.now.Add(period.Duration()),
	}
	v.factory.earn(sender, nftAddr, id, int64(period.Duration()/(24*time.Hour)))
	if mint {
		v.balance.Add(v.balance, fee)
		v.chain.badge.mint(sender, TokenInfo{
			LockedTokenID:      new(big.Int).Set(id),
			LockedTokenAddress: nftAddr,
			LockPeriod:         big.NewInt(int64(period)),
		})
	}
	return nil
}

func (v *fakeVault) Withdraw(_ context.Context, nftAddr common.Address, id *big.Int) error {
	key := lockKey(nftAddr, id)
	l, ok := v.locks[key]
	if !ok || l.user != v.from() {
		return errFakeNotLocked
	}
	if v.chain.now.Before(l.until) {
		return errFakeStillLocked
	}
	if err := v.chain.nfts[nftAddr].transferFrom(v.addr, v.addr, l.user, id); err != nil {
		return err
	}
	delete(v.locks, key)
	return nil
}

func (v *fakeVault) UserInfo(_ context.Context, user common.Address) (UserInfo, error) {
	var info UserInfo
	for _, l := range v.locks {
		if l.user != user {
			continue
		}
		info.Contracts = append(info.Contracts, l.nft)
		info.TokenIDs = append(info.TokenIDs, l.id)
		info.UnlockAt = append(info.UnlockAt, big.NewInt(l.until.Unix()))
	}
	return info, nil
}

func (v *fakeVault) Balance(context.Context) (*big.Int, error) {
	return new(big.Int).Set(v.balance), nil
}

func (v *fakeVault) AuthorizeToUse(_ context.Context, users []common.Address) error {
	if v.from() != v.owner {
		return errFakeNotVaultOwner
	}
	for _, u := range users {
		v.authorized[u] = true
	}
	return nil
}

// RemoveAuthorization is all or nothing like a reverted transaction.
func (v *fakeVault) RemoveAuthorization(_ context.Context, users []common.Address) error {
	if v.from() != v.owner {
		return errFakeNotVaultOwner
	}
	for _, u := range users {
		for _, l := range v.locks {
			if l.user == u {
				return errFakeAlreadyIn
			}
		}
	}
	for _, u := range users {
		delete(v.authorized, u)
	}
	return nil
}

func (v *fakeVault) Name(context.Context) (string, error) { return v.name, nil }

func (v *fakeVault) Owner(context.Context) (common.Address, error) { return v.owner, nil }

type fakeMerger struct {
	chain *fakeChain
	addr  common.Address
	paid  *big.Int
	// burn deletes the inputs instead of keeping them.
	burn       bool
	afterMerge func()
}

func (m *fakeMerger) Address() common.Address { return m.addr }

func (m *fakeMerger) MergeBadges(_ context.Context, ids []*big.Int, value *big.Int, _ uint64) error {
	badge := m.chain.badge
	sender := m.chain.holder
	if !badge.operators[m.addr] {
		return errFakeNotApproved
	}
	for _, id := range ids {
		if badge.owners[id.Int64()] != sender {
			return errFakeNotOwner
		}
	}
	first := badge.info[ids[0].Int64()]
	for _, id := range ids {
		if m.burn {
			delete(badge.owners, id.Int64())
			continue
		}
		badge.owners[id.Int64()] = m.addr
	}
	badge.mint(sender, first)
	m.paid = new(big.Int).Set(value)
	if m.afterMerge != nil {
		m.afterMerge()
	}
	return nil
}

type fakeCollectible struct {
	chain    *fakeChain
	sender   common.Address
	addr     common.Address
	counter  *int64
	owners   map[int64]common.Address
	approved map[int64]common.Address
}

func (n *fakeCollectible) Address() common.Address { return n.addr }

func (n *fakeCollectible) As(key *framework.PrivKey) Collectible {
	ref := *n
	ref.sender = key.Address()
	return &ref
}

func (n *fakeCollectible) from() common.Address {
	if n.sender != (common.Address{}) {
		return n.sender
	}
	return n.chain.holder
}

func (n *fakeCollectible) CreateCollectible(context.Context) error {
	n.owners[*n.counter] = n.from()
	*n.counter++
	return nil
}

func (n *fakeCollectible) TokenCounter(context.Context) (*big.Int, error) {
	return big.NewInt(*n.counter), nil
}

func (n *fakeCollectible) Approve(_ context.Context, to common.Address, id *big.Int) error {
	if n.owners[id.Int64()] != n.from() {
		return errFakeNotOwner
	}
	n.approved[id.Int64()] = to
	return nil
}

func (n *fakeCollectible) GetApproved(_ context.Context, id *big.Int) (common.Address, error) {
	if _, ok := n.owners[id.Int64()]; !ok {
		return common.Address{}, errFakeUnknownToken
	}
	return n.approved[id.Int64()], nil
}

func (n *fakeCollectible) OwnerOf(_ context.Context, id *big.Int) (common.Address, error) {
	owner, ok := n.owners[id.Int64()]
	if !ok {
		return common.Address{}, errFakeUnknownToken
	}
	return owner, nil
}

func (n *fakeCollectible) transferFrom(operator, from, to common.Address, id *big.Int) error {
	owner, ok := n.owners[id.Int64()]
	if !ok {
		return errFakeUnknownToken
	}
	if owner != from {
		return errFakeNotOwner
	}
	if operator != owner && n.approved[id.Int64()] != operator {
		return errFakeNotApproved
	}
	n.owners[id.Int64()] = to
	delete(n.approved, id.Int64())
	return nil
}
