package framework

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// DevAccountKeys are the prefunded accounts of hardhat, anvil and the
// simulated chain, derived from the "test test ... junk" mnemonic.
var DevAccountKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba",
	"92db14e403b83dfe3df233f83dfa3a0d7096f21ca9b0d6d6b8d88b2b4ec1564e",
	"4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356",
	"dbda1821b80551c9d65939329250298aa3472ba22feea921c0cf5d620ea67b97",
	"2a871d0798f97d79848a013d4936a73bf4cc922c825d33c1cf7073dff6d7409c",
}

var (
	errDevAccountRange        = errors.New("development account index out of range")
	errDevAccountsUnavailable = errors.New("development accounts exist only on local networks")
	errMissingFromKey         = errors.New("no private key configured for live network (wallets.from_key)")
)

// DevAccount returns the i-th prefunded development account.
func DevAccount(i int) (*PrivKey, error) {
	if i < 0 || i >= len(DevAccountKeys) {
		return nil, fmt.Errorf("%w: %d", errDevAccountRange, i)
	}
	return NewPrivKeyFromHex(DevAccountKeys[i]), nil
}

// AccountOptions selects the signing account for a run.
type AccountOptions struct {
	Network string

	// Index picks a development account; nil means unset.
	Index *int
	// ID names an encrypted keystore file <KeystoreDir>/<ID>.json.
	ID          string
	KeystoreDir string
	Password    string

	// FromKey is the hex private key used on live networks.
	FromKey string
}

// GetAccount resolves the signing account: explicit index, then keystore
// id, then development account 0 on local networks, then FromKey.
func GetAccount(opts AccountOptions) (*PrivKey, error) {
	if opts.Index != nil {
		if !IsLocal(opts.Network) {
			return nil, fmt.Errorf("%w: %s", errDevAccountsUnavailable, opts.Network)
		}
		return DevAccount(*opts.Index)
	}
	if opts.ID != "" {
		return LoadKeystore(opts.KeystoreDir, opts.ID, opts.Password)
	}
	if IsLocal(opts.Network) {
		return DevAccount(0)
	}
	if opts.FromKey == "" {
		return nil, errMissingFromKey
	}
	return ParsePrivKey(opts.FromKey)
}

// LoadKeystore decrypts the key stored as <dir>/<id>.json.
func LoadKeystore(dir, id, password string) (*PrivKey, error) {
	path := filepath.Join(dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore %s: %w", path, err)
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %s: %w", path, err)
	}
	return &PrivKey{Priv: key.PrivateKey}, nil
}
