package contract

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrUnknownEvent = errors.New("contract: unknown event")

// Event is a decoded log
type Event struct {
	Name    string
	Address common.Address
	Fields  map[string]interface{}
	Log     types.Log
}

// EventDecoder decodes logs against every event of a set of ABIs
type EventDecoder struct {
	events map[common.Hash]abi.Event
}

// NewEventDecoder indexes the events of the given ABIs by topic
func NewEventDecoder(tables ...*abi.ABI) *EventDecoder {
	d := &EventDecoder{events: make(map[common.Hash]abi.Event)}
	for _, t := range tables {
		for _, ev := range t.Events {
			d.events[ev.ID] = ev
		}
	}
	return d
}

// Decode identifies a log by its first topic and unpacks its fields
func (d *EventDecoder) Decode(log types.Log) (*Event, error) {
	if len(log.Topics) == 0 {
		return nil, ErrUnknownEvent
	}
	ev, ok := d.events[log.Topics[0]]
	if !ok || ev.Anonymous {
		return nil, fmt.Errorf("%w: topic %s", ErrUnknownEvent, log.Topics[0].Hex())
	}

	fields := make(map[string]interface{}, len(ev.Inputs))
	if err := ev.Inputs.NonIndexed().UnpackIntoMap(fields, log.Data); err != nil {
		return nil, fmt.Errorf("unpack %s data: %w", ev.Name, err)
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(log.Topics)-1 != len(indexed) {
		return nil, fmt.Errorf("unpack %s topics: got %d, want %d", ev.Name, len(log.Topics)-1, len(indexed))
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("unpack %s topics: %w", ev.Name, err)
	}

	return &Event{
		Name:    ev.Name,
		Address: log.Address,
		Fields:  fields,
		Log:     log,
	}, nil
}

// FilterQuery builds a log filter for one event emitted by the contract.
// Nil block bounds leave the range open.
func (c *Contract) FilterQuery(event string, fromBlock, toBlock *big.Int) (ethereum.FilterQuery, error) {
	ev, ok := c.abi.Events[event]
	if !ok {
		return ethereum.FilterQuery{}, fmt.Errorf("contract: event %q not found", event)
	}
	return ethereum.FilterQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: []common.Address{c.address},
		Topics:    [][]common.Hash{{ev.ID}},
	}, nil
}
