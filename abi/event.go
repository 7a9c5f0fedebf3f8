// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/thor"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 thor.Bytes32
	event              *ethabi.Event
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event *ethabi.Event) *Event {
	return &Event{
		thor.Bytes32(event.ID),
		event,
		event.Inputs.NonIndexed(),
	}
}

// ID returns event id, which is the first topic of emitted logs.
func (e *Event) ID() thor.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Anonymous returns if the event is anonymous.
func (e *Event) Anonymous() bool {
	return e.event.Anonymous
}

// IndexedNames returns names of indexed inputs, in topic order.
func (e *Event) IndexedNames() []string {
	var names []string
	for _, arg := range e.event.Inputs {
		if arg.Indexed {
			names = append(names, arg.Name)
		}
	}
	return names
}

// Encode encodes non-indexed args into event data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	data, err := packArgs(e.argsWithoutIndexed, args)
	if err != nil {
		return nil, errors.Wrapf(err, "encode event %s", e.event.Name)
	}
	return data, nil
}

// Decode decodes event data into v, which must be a struct pointer
// whose fields are named after the non-indexed inputs.
func (e *Event) Decode(data []byte, v any) error {
	return unpackInto(e.argsWithoutIndexed, v, data)
}

// DecodeToMap decodes event data into a map keyed by input name.
func (e *Event) DecodeToMap(data []byte) (map[string]any, error) {
	m := make(map[string]any)
	if err := e.argsWithoutIndexed.UnpackIntoMap(m, data); err != nil {
		return nil, err
	}
	for k, v := range m {
		m[k] = fromEthValue(v)
	}
	return m, nil
}

// AddressTopic converts an address into an indexed topic.
func AddressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

// Uint64Topic converts an integer into an indexed topic.
func Uint64Topic(v uint64) thor.Bytes32 {
	return thor.Uint64ToBytes32(v)
}

// BigTopic converts a non-negative big integer into an indexed topic.
func BigTopic(v *big.Int) thor.Bytes32 {
	return thor.BytesToBytes32(v.Bytes())
}

// toEthValue converts thor types into the go-ethereum types expected by typ.
// A uint64 is widened when typ is a wider integer.
func toEthValue(typ ethabi.Type, v any) any {
	switch t := v.(type) {
	case thor.Address:
		return common.Address(t)
	case []thor.Address:
		out := make([]common.Address, len(t))
		for i, a := range t {
			out[i] = common.Address(a)
		}
		return out
	case thor.Bytes32:
		return [32]byte(t)
	case uint64:
		if (typ.T == ethabi.UintTy || typ.T == ethabi.IntTy) && typ.Size > 64 {
			return new(big.Int).SetUint64(t)
		}
	}
	return v
}

func packArgs(args ethabi.Arguments, values []any) ([]byte, error) {
	if len(values) != len(args) {
		return nil, errors.Errorf("argument count mismatch: got %d for %d", len(values), len(args))
	}
	converted := make([]any, len(values))
	for i, v := range values {
		converted[i] = toEthValue(args[i].Type, v)
	}
	return args.Pack(converted...)
}

func unpackInto(args ethabi.Arguments, v any, data []byte) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, values)
}
