package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Runtime returns the word 42 for every call.
	answerCode = "0x600a600c600039600a6000f3602a60805260206080f3"
	// Runtime reverts every call.
	reverterCode = "0x6005600c60003960056000f360006000fd"
)

func newTestFramework(t *testing.T) (*Framework, *SimulatedChain) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Answer.json", `{"abi":`+counterABI+`,"bytecode":"`+answerCode+`"}`)
	writeFile(t, dir, "Reverter.json", `{"abi":`+counterABI+`,"bytecode":"`+reverterCode+`"}`)
	writeFile(t, dir, "Interface.json", `{"abi":`+counterABI+`}`)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	chain := NewSimulatedChain()
	t.Cleanup(chain.Close)

	key, err := DevAccount(0)
	require.NoError(t, err)
	fr, err := New(context.Background(), chain, key,
		WithArtifactsDir(dir),
		WithDefaultGasLimit(1_000_000),
		WithLogger(logrus.NewEntry(logger)),
	)
	require.NoError(t, err)
	return fr, chain
}

func TestDeployContractAndCall(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	contract, err := fr.DeployContract(ctx, "Answer")
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, contract.Address())
	assert.Equal(t, devAccount0, contract.Sender())

	out, err := contract.Call(ctx, "tokenCounter")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, big.NewInt(42), out[0])

	receipt, err := contract.SendTransaction(ctx, "setPeriod", TxOpts{}, 2)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	// Same contract from a reference by address.
	again, err := fr.ContractAtArtifact(contract.Address(), "Interface")
	require.NoError(t, err)
	out, err = again.Call(ctx, "tokenCounter")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), out[0])
}

func TestDeployContractErrors(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	_, err := fr.DeployContract(ctx, "Missing")
	require.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = fr.DeployContract(ctx, "Interface")
	require.ErrorIs(t, err, errNoBytecode)
}

func TestSendTransactionRevert(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	contract, err := fr.DeployContract(ctx, "Reverter")
	require.NoError(t, err)

	_, err = contract.Call(ctx, "tokenCounter")
	require.ErrorIs(t, err, ErrCallReverted)

	// Estimation refuses a call that is going to revert, nothing is mined.
	head, err := fr.Chain().(*SimulatedChain).BlockNumber(ctx)
	require.NoError(t, err)
	receipt, err := contract.SendTransaction(ctx, "setPeriod", TxOpts{}, 1)
	require.ErrorIs(t, err, ErrTransactionReverted)
	assert.Nil(t, receipt)
	after, err := fr.Chain().(*SimulatedChain).BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, head, after)

	// With AllowRevert the transaction is mined and the receipt reports the failure.
	receipt, err = contract.SendTransaction(ctx, "setPeriod", TxOpts{AllowRevert: true}, 1)
	require.ErrorIs(t, err, ErrTransactionReverted)
	require.NotNil(t, receipt)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, uint64(1_000_000), receiptGasLimit(t, fr, receipt))
}

type codedError struct{ code int }

func (e codedError) Error() string  { return "execution reverted: You are not authorized to do this!" }
func (e codedError) ErrorCode() int { return e.code }

func TestIsRevert(t *testing.T) {
	assert.True(t, isRevert(codedError{code: revertErrorCode}))
	assert.True(t, isRevert(fmt.Errorf("failed to estimate gas needed: %w", errors.New("execution reverted"))))
	assert.False(t, isRevert(nil))
	assert.False(t, isRevert(context.DeadlineExceeded))
	assert.False(t, isRevert(errors.New("connection refused")))
}

func receiptGasLimit(t *testing.T, fr *Framework, receipt *types.Receipt) uint64 {
	t.Helper()
	tx, _, err := fr.Chain().(*SimulatedChain).TransactionByHash(context.Background(), receipt.TxHash)
	require.NoError(t, err)
	return tx.Gas()
}

func TestSendTransactionArgumentChecks(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	contract, err := fr.DeployContract(ctx, "Answer")
	require.NoError(t, err)

	_, err = contract.SendTransaction(ctx, "setPeriod", TxOpts{}, 256)
	require.Error(t, err)

	_, err = contract.SendTransaction(ctx, "unknownMethod", TxOpts{})
	require.Error(t, err)
}

func TestRefUsesAnotherSender(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	contract, err := fr.DeployContract(ctx, "Answer")
	require.NoError(t, err)

	other := GeneratePrivKey()
	require.NoError(t, fr.FundAccount(ctx, other.Address(), big.NewInt(1e18)))

	ref := contract.Ref(other)
	assert.Equal(t, contract.Address(), ref.Address())
	assert.Equal(t, other.Address(), ref.Sender())
	assert.Equal(t, devAccount0, contract.Sender())

	receipt, err := ref.SendTransaction(ctx, "setPeriod", TxOpts{}, uint8(3))
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	tx, _, err := fr.Chain().(*SimulatedChain).TransactionByHash(ctx, receipt.TxHash)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(fr.ChainID()), tx)
	require.NoError(t, err)
	assert.Equal(t, other.Address(), sender)
}

func TestFundAccountAndBalance(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	recipient := GeneratePrivKey().Address()
	balance, err := fr.Balance(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())

	amount := big.NewInt(100000000000000000)
	require.NoError(t, fr.FundAccount(ctx, recipient, amount))

	balance, err = fr.Balance(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, amount, balance)
}

func TestAdvanceTime(t *testing.T) {
	ctx := context.Background()
	fr, _ := newTestFramework(t)

	before, err := fr.ChainTime(ctx)
	require.NoError(t, err)

	require.NoError(t, fr.AdvanceTime(ctx, 30*24*time.Hour))

	after, err := fr.ChainTime(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after.Sub(before), 30*24*time.Hour)
}

func TestCoerceArgs(t *testing.T) {
	parsed, err := GetABI(writeABI(t), "Coerce")
	require.NoError(t, err)
	method := parsed.Methods["lock"]

	out, err := coerceArgs(method, []interface{}{common.Address{1}, 7, 2, true})
	require.NoError(t, err)
	assert.Equal(t, common.Address{1}, out[0])
	assert.Equal(t, big.NewInt(7), out[1])
	assert.Equal(t, uint8(2), out[2])
	assert.Equal(t, true, out[3])

	// the encoder would wrap these into a valid looking word
	_, err = coerceArgs(method, []interface{}{common.Address{1}, -1, 2, true})
	require.Error(t, err)
	_, err = coerceArgs(method, []interface{}{common.Address{1}, big.NewInt(-1), 2, true})
	require.Error(t, err)
	_, err = coerceArgs(method, []interface{}{common.Address{1}, new(big.Int).Lsh(big.NewInt(1), 256), 2, true})
	require.Error(t, err)

	_, err = coerceArgs(method, []interface{}{common.Address{1}, 7, 300, true})
	require.Error(t, err)

	// Argument count mismatches are left to the encoder to report.
	out, err = coerceArgs(method, []interface{}{1})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1}, out)
}

func writeABI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Coerce.json", `{"abi":[{"type":"function","name":"lock","inputs":[
		{"name":"nft","type":"address"},
		{"name":"id","type":"uint256"},
		{"name":"period","type":"uint8"},
		{"name":"mint","type":"bool"}
	],"outputs":[],"stateMutability":"payable"}]}`)
	return dir
}
