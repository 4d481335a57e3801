package framework

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type PrivKey struct {
	Priv *ecdsa.PrivateKey
}

func (p *PrivKey) Address() common.Address {
	return crypto.PubkeyToAddress(p.Priv.PublicKey)
}

func (p *PrivKey) MarshalPrivKey() []byte {
	return crypto.FromECDSA(p.Priv)
}

// ParsePrivKey decodes a hex encoded secp256k1 key, with or without 0x prefix.
func ParsePrivKey(hex string) (*PrivKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &PrivKey{Priv: key}, nil
}

// NewPrivKeyFromHex is ParsePrivKey for compile-time constants; it panics on bad input.
func NewPrivKeyFromHex(hex string) *PrivKey {
	key, err := ParsePrivKey(hex)
	if err != nil {
		panic(err)
	}
	return key
}

func GeneratePrivKey() *PrivKey {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &PrivKey{Priv: key}
}
