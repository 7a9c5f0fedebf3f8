// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/thor"
)

// ABI holds information about methods and events of a contract.
type ABI struct {
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	methods      map[MethodID]*Method
	events       map[thor.Bytes32]*Event
}

// New create an ABI instance from json data.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		methods:      make(map[MethodID]*Method),
		events:       make(map[thor.Bytes32]*Event),
	}
	for name := range parsed.Methods {
		ethMethod := parsed.Methods[name]
		method := newMethod(&ethMethod)
		abi.nameToMethod[name] = method
		abi.methods[method.id] = method
	}
	for name := range parsed.Events {
		ethEvent := parsed.Events[name]
		event := newEvent(&ethEvent)
		abi.nameToEvent[name] = event
		abi.events[event.id] = event
	}
	return abi, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByInput find the method for the given input data.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.Errorf("method %x not found", id[:])
	}
	return m, nil
}

// Methods returns all methods, in no particular order.
func (a *ABI) Methods() []*Method {
	methods := make([]*Method, 0, len(a.methods))
	for _, m := range a.methods {
		methods = append(methods, m)
	}
	return methods
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id thor.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// Events returns all events, in no particular order.
func (a *ABI) Events() []*Event {
	events := make([]*Event, 0, len(a.events))
	for _, e := range a.events {
		events = append(events, e)
	}
	return events
}

// MustEventByName is like EventByName but panics if the event is not declared.
func (a *ABI) MustEventByName(name string) *Event {
	e, found := a.nameToEvent[name]
	if !found {
		panic("abi: event not found: " + name)
	}
	return e
}
