// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/thor"
)

// MethodID method id.
type MethodID [4]byte

// Method see abi.Method in go-ethereum.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

func newMethod(method *ethabi.Method) *Method {
	var id MethodID
	copy(id[:], method.ID)
	return &Method{id, method}
}

// ID returns method id.
func (m *Method) ID() MethodID {
	return m.id
}

// Name returns method name.
func (m *Method) Name() string {
	return m.method.Name
}

// Const returns if the method does not modify state.
func (m *Method) Const() bool {
	return m.method.IsConstant()
}

// Sig returns the canonical signature, e.g. "claim(address)".
func (m *Method) Sig() string {
	return m.method.Sig
}

// NumInputs returns the number of input arguments.
func (m *Method) NumInputs() int {
	return len(m.method.Inputs)
}

// EncodeInput encode args to data, and the data is prefixed with method id.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	data, err := packArgs(m.method.Inputs, args)
	if err != nil {
		return nil, errors.Wrapf(err, "encode input of %s", m.method.Name)
	}
	return append(m.id[:], data...), nil
}

// DecodeInput decode input data into v, a struct pointer whose fields are
// named after the inputs.
func (m *Method) DecodeInput(input []byte, v any) error {
	if !bytes.HasPrefix(input, m.id[:]) {
		return errors.New("input has incorrect prefix")
	}
	return unpackInto(m.method.Inputs, v, input[4:])
}

// DecodeInputValues decode input data into a slice of values in argument order.
func (m *Method) DecodeInputValues(input []byte) ([]any, error) {
	if !bytes.HasPrefix(input, m.id[:]) {
		return nil, errors.New("input has incorrect prefix")
	}
	values, err := m.method.Inputs.UnpackValues(input[4:])
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		values[i] = fromEthValue(v)
	}
	return values, nil
}

// EncodeOutput encode output args to data.
func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	data, err := packArgs(m.method.Outputs, args)
	if err != nil {
		return nil, errors.Wrapf(err, "encode output of %s", m.method.Name)
	}
	return data, nil
}

// DecodeOutput decode output data.
func (m *Method) DecodeOutput(output []byte, v any) error {
	if len(output)%32 != 0 {
		return errors.New("output has incorrect length")
	}
	return unpackInto(m.method.Outputs, v, output)
}

// DecodeOutputToMap decodes output data into a map keyed by output name.
func (m *Method) DecodeOutputToMap(output []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := m.method.Outputs.UnpackIntoMap(out, output); err != nil {
		return nil, err
	}
	for k, v := range out {
		out[k] = fromEthValue(v)
	}
	return out, nil
}

// ExtractMethodID extract method id from input data.
func ExtractMethodID(input []byte) (id MethodID, err error) {
	if len(input) < len(id) {
		err = errors.New("input data too short")
		return
	}
	copy(id[:], input)
	return
}

func fromEthValue(v any) any {
	switch t := v.(type) {
	case common.Address:
		return thor.Address(t)
	case []common.Address:
		out := make([]thor.Address, len(t))
		for i, a := range t {
			out[i] = thor.Address(a)
		}
		return out
	}
	return v
}
