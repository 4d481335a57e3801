package config

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/conviction-labs/vault-scripts/deployments"
	"github.com/conviction-labs/vault-scripts/framework"
	"github.com/conviction-labs/vault-scripts/vault"
)

const (
	DefaultFile = "vault-config.yaml"
	EnvPrefix   = "VAULT"

	defaultKeystoreDir = "keystore"
)

var (
	errNoNetwork    = errors.New("network is not set")
	errNoRPC        = errors.New("no rpc configured for network")
	errBadFee       = errors.New("invalid wei amount")
	errBadGasLimit  = errors.New("gas_limit must be positive")
	errNoBadgeURIs  = errors.New("badge.uris needs one uri per lock period")
	errBadLogLevel  = errors.New("invalid log_level")
	errNoListenAddr = errors.New("listen_addr is not set")
)

// Config is the run configuration read from vault-config.yaml and VAULT_* env.
type Config struct {
	v *viper.Viper
}

// New returns a Config holding only defaults and environment overrides.
func New() *Config {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", framework.NetworkDevelopment)
	v.SetDefault("wallets.from_key", "${PRIVATE_KEY}")
	v.SetDefault("keystore_dir", defaultKeystoreDir)
	v.SetDefault("keystore_password", "")
	v.SetDefault("artifacts_dir", framework.DefaultArtifactsDir)
	v.SetDefault("deployments_dir", deployments.DefaultDir)
	v.SetDefault("gas_limit", vault.DefaultGasLimit)
	v.SetDefault("mint_badge_fee", vault.DefaultMintBadgeFee.String())
	v.SetDefault("merge_fee", vault.DefaultMergeFee.String())
	v.SetDefault("lock_period", int(vault.SixMonths))
	v.SetDefault("badge.name", vault.DefaultBadgeName)
	v.SetDefault("badge.symbol", vault.DefaultBadgeSymbol)
	v.SetDefault("badge.uris", vault.DefaultBadgeURIs)
	v.SetDefault("vault_name", vault.DefaultVaultName)
	v.SetDefault("listen_addr", deployments.DefaultListenAddr)
	v.SetDefault("log_level", logrus.InfoLevel.String())
	return &Config{v: v}
}

// Load reads path on top of the defaults. A missing file is only an error
// when the path was given explicitly.
func Load(path string) (*Config, error) {
	c := New()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return c, nil
}

// Set overrides a key, used for command line flags.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// SetDefault replaces a built-in default; the file and environment still win.
func (c *Config) SetDefault(key string, value interface{}) {
	c.v.SetDefault(key, value)
}

func (c *Config) Network() string {
	return c.v.GetString("network")
}

// RPCURL is networks.<network>.rpc, or the well known port of a local network.
func (c *Config) RPCURL() string {
	if url := c.v.GetString("networks." + c.Network() + ".rpc"); url != "" {
		return os.ExpandEnv(url)
	}
	url, _ := framework.DefaultRPC(c.Network())
	return url
}

// FromKey is wallets.from_key with ${VAR} references expanded.
func (c *Config) FromKey() string {
	return os.ExpandEnv(c.v.GetString("wallets.from_key"))
}

func (c *Config) ArtifactsDir() string {
	return c.v.GetString("artifacts_dir")
}

func (c *Config) DeploymentsDir() string {
	return c.v.GetString("deployments_dir")
}

func (c *Config) GasLimit() uint64 {
	return c.v.GetUint64("gas_limit")
}

func (c *Config) ListenAddr() string {
	return c.v.GetString("listen_addr")
}

func (c *Config) MintBadgeFee() (*big.Int, error) {
	return c.wei("mint_badge_fee")
}

func (c *Config) MergeFee() (*big.Int, error) {
	return c.wei("merge_fee")
}

func (c *Config) wei(key string) (*big.Int, error) {
	raw := c.v.GetString(key)
	amount, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %w", errBadFee, key, raw, err)
	}
	return amount.ToBig(), nil
}

func (c *Config) LockPeriod() (vault.LockPeriod, error) {
	raw := c.v.Get("lock_period")
	period, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: lock_period=%v", vault.ErrInvalidLockPeriod, raw)
	}
	return vault.ParseLockPeriod(period)
}

func (c *Config) LogLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.v.GetString("log_level"))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadLogLevel, err)
	}
	return level, nil
}

// AccountOptions selects the signer; index and id come from the command line.
func (c *Config) AccountOptions(index *int, id string) framework.AccountOptions {
	return framework.AccountOptions{
		Network:     c.Network(),
		Index:       index,
		ID:          id,
		KeystoreDir: c.v.GetString("keystore_dir"),
		Password:    os.ExpandEnv(c.v.GetString("keystore_password")),
		FromKey:     c.FromKey(),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	network := c.Network()
	if network == "" {
		result = multierror.Append(result, errNoNetwork)
	} else if network != framework.NetworkSimulated && c.RPCURL() == "" {
		result = multierror.Append(result, fmt.Errorf("%w %q (networks.%s.rpc)", errNoRPC, network, network))
	}
	if c.GasLimit() == 0 {
		result = multierror.Append(result, errBadGasLimit)
	}
	if _, err := c.MintBadgeFee(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.MergeFee(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.LockPeriod(); err != nil {
		result = multierror.Append(result, err)
	}
	if uris := c.v.GetStringSlice("badge.uris"); len(uris) != len(vault.DefaultBadgeURIs) {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", errNoBadgeURIs, len(uris)))
	}
	if _, err := c.LogLevel(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.ListenAddr() == "" {
		result = multierror.Append(result, errNoListenAddr)
	}
	return result.ErrorOrNil()
}

// Params builds the scenario parameters for a connected chain.
func (c *Config) Params(chainID uint64) (vault.Params, error) {
	if err := c.Validate(); err != nil {
		return vault.Params{}, err
	}
	// validated above
	mintFee, _ := c.MintBadgeFee()
	mergeFee, _ := c.MergeFee()
	period, _ := c.LockPeriod()

	return vault.Params{
		Network:     c.Network(),
		ChainID:     chainID,
		IsLocal:     framework.IsLocal(c.Network()),
		LockPeriod:  period,
		MintFee:     mintFee,
		MergeFee:    mergeFee,
		GasLimit:    c.GasLimit(),
		BadgeName:   c.v.GetString("badge.name"),
		BadgeSymbol: c.v.GetString("badge.symbol"),
		BadgeURIs:   c.v.GetStringSlice("badge.uris"),
		VaultName:   c.v.GetString("vault_name"),
	}, nil
}

// NewLogger builds the logrus entry programs log through.
func (c *Config) NewLogger() (*logrus.Entry, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	return logrus.NewEntry(logger), nil
}

// Dial connects to the configured network and returns a framework signing
// with the selected account. The simulated network runs in process.
func (c *Config) Dial(ctx context.Context, log *logrus.Entry, index *int, id string) (*framework.Framework, error) {
	key, err := framework.GetAccount(c.AccountOptions(index, id))
	if err != nil {
		return nil, err
	}

	var chain framework.Chain
	if c.Network() == framework.NetworkSimulated {
		chain = framework.NewSimulatedChain(key.Address())
		log.WithField("network", c.Network()).Info("Started in-process chain")
	} else {
		chain, err = framework.DialChain(ctx, log, c.Network(), c.RPCURL())
		if err != nil {
			return nil, err
		}
	}

	fr, err := framework.New(ctx, chain, key,
		framework.WithArtifactsDir(c.ArtifactsDir()),
		framework.WithDefaultGasLimit(c.GasLimit()),
		framework.WithLogger(log),
	)
	if err != nil {
		chain.Close()
		return nil, err
	}
	log.WithField("account", key.Address().Hex()).Info("Using account")
	return fr, nil
}
