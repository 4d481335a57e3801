package framework

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

var errUnknownEvent = errors.New("log does not match any event in the abi")

// Event is a decoded contract log.
type Event struct {
	Name        string
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	Fields      map[string]interface{}
}

// DecodeEvent matches a log against the events of contractAbi.
func DecodeEvent(contractAbi *abi.ABI, l types.Log) (*Event, error) {
	if len(l.Topics) == 0 {
		return nil, errUnknownEvent
	}
	ev, err := contractAbi.EventByID(l.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: topic %s", errUnknownEvent, l.Topics[0].Hex())
	}

	fields := make(map[string]interface{})
	if err := ev.Inputs.UnpackIntoMap(fields, l.Data); err != nil {
		return nil, fmt.Errorf("unpack %s: %w", ev.Name, err)
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, l.Topics[1:]); err != nil {
		return nil, fmt.Errorf("unpack %s topics: %w", ev.Name, err)
	}

	return &Event{
		Name:        ev.Name,
		Address:     l.Address,
		TxHash:      l.TxHash,
		BlockNumber: l.BlockNumber,
		Fields:      fields,
	}, nil
}

// EventListener streams the decoded events of one contract.
type EventListener struct {
	backend      Backend
	log          *logrus.Entry
	contractAddr common.Address
	contractAbi  *abi.ABI
}

func NewEventListener(log *logrus.Entry, backend Backend, contractAddr common.Address, contractAbi *abi.ABI) *EventListener {
	return &EventListener{
		backend:      backend,
		log:          log.WithField("contract", contractAddr.Hex()),
		contractAddr: contractAddr,
		contractAbi:  contractAbi,
	}
}

// Listen calls handle for every event until ctx is done or the
// subscription fails. Logs that do not decode are skipped.
func (el *EventListener) Listen(ctx context.Context, handle func(*Event)) error {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{el.contractAddr},
	}
	logs := make(chan types.Log)
	sub, err := el.backend.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("create logs filter: %w", err)
	}
	defer sub.Unsubscribe()
	el.log.Info("Listening to events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return fmt.Errorf("subscription: %w", err)
		case vLog := <-logs:
			event, err := DecodeEvent(el.contractAbi, vLog)
			if err != nil {
				el.log.WithError(err).Warn("Failed to unpack event")
				continue
			}
			handle(event)
		}
	}
}
