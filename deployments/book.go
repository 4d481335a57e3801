package deployments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultDir mirrors Brownie's build/deployments.
const DefaultDir = "build/deployments"

var ErrNoDeployment = errors.New("no deployment recorded")

// Record holds the addresses and ids produced by one run.
type Record struct {
	Network         string         `json:"network"`
	ChainID         uint64         `json:"chainId"`
	Account         common.Address `json:"account"`
	ConvictionBadge common.Address `json:"convictionBadge"`
	MergeBadges     common.Address `json:"mergeBadges"`
	VaultFactory    common.Address `json:"vaultFactory"`
	Vault           common.Address `json:"timeLockedVault"`
	TestCollectible common.Address `json:"testCollectible"`
	BadgeID         *big.Int       `json:"badgeId,omitempty"`
	NFTTokenID      *big.Int       `json:"nftTokenId,omitempty"`
	MergedBadgeID   *big.Int       `json:"mergedBadgeId,omitempty"`
	DeployedAt      time.Time      `json:"deployedAt"`
}

// Book stores the latest Record per chain as <dir>/<chainId>.json.
type Book struct {
	dir string
}

func NewBook(dir string) *Book {
	return &Book{dir: dir}
}

func (b *Book) path(chainID uint64) string {
	return filepath.Join(b.dir, strconv.FormatUint(chainID, 10)+".json")
}

func (b *Book) Save(rec *Record) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	path := b.path(rec.ChainID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (b *Book) Load(chainID uint64) (*Record, error) {
	data, err := os.ReadFile(b.path(chainID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for chain %d", ErrNoDeployment, chainID)
		}
		return nil, err
	}
	rec := &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode deployment of chain %d: %w", chainID, err)
	}
	return rec, nil
}
