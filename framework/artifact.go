package framework

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultArtifactsDir is where Brownie writes compiled contracts.
const DefaultArtifactsDir = "build/contracts"

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	errArtifactNoABI    = errors.New("artifact has no abi")
)

// Artifact is a compiled contract: its interface description and creation code.
type Artifact struct {
	Name   string
	Abi    *abi.ABI
	RawAbi json.RawMessage
	Code   []byte
}

type artifactObj struct {
	Abi      json.RawMessage `json:"abi"`
	Bytecode bytecode        `json:"bytecode"`
}

// bytecode accepts both the plain hex string written by Brownie and Hardhat
// and the {"object": "0x.."} form written by Foundry.
type bytecode []byte

func (b *bytecode) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var hex string
	if data[0] == '{' {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		hex = obj.Object
	} else if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	*b = common.FromHex(hex)
	return nil
}

// ArtifactPath resolves a contract name ("ConvictionBadge") or a relative
// artifact path ("Vault.sol/TimeLockedVault.json") inside dir.
func ArtifactPath(dir, name string) string {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(dir, name)
}

// ReadArtifact loads a compiled contract artifact from dir.
func ReadArtifact(dir, name string) (*Artifact, error) {
	path := ArtifactPath(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, err
	}

	var obj artifactObj
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	if len(obj.Abi) == 0 {
		return nil, fmt.Errorf("%w: %s", errArtifactNoABI, path)
	}
	parsed, err := abi.JSON(bytes.NewReader(obj.Abi))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", path, err)
	}

	return &Artifact{
		Name:   strings.TrimSuffix(filepath.Base(path), ".json"),
		Abi:    &parsed,
		RawAbi: obj.Abi,
		Code:   obj.Bytecode,
	}, nil
}

// GetABI returns only the interface description of a compiled contract.
func GetABI(dir, name string) (*abi.ABI, error) {
	artifact, err := ReadArtifact(dir, name)
	if err != nil {
		return nil, err
	}
	return artifact.Abi, nil
}
