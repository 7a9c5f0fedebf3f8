// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"strconv"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/thor"
)

// EncodeInputStrings parses textual args by the input types and encodes them.
// Integers are decimal or 0x prefixed hex, arrays are comma separated.
func (m *Method) EncodeInputStrings(args []string) ([]byte, error) {
	if len(args) != len(m.method.Inputs) {
		return nil, errors.Errorf("%s expects %d args, got %d", m.method.Sig, len(m.method.Inputs), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		v, err := parseValue(m.method.Inputs[i].Type, arg)
		if err != nil {
			return nil, errors.WithMessagef(err, "arg %s", m.method.Inputs[i].Name)
		}
		values[i] = v
	}
	return m.EncodeInput(values...)
}

func parseValue(typ ethabi.Type, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch typ.T {
	case ethabi.AddressTy:
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		return *addr, nil
	case ethabi.StringTy:
		return s, nil
	case ethabi.BoolTy:
		return strconv.ParseBool(s)
	case ethabi.UintTy:
		switch {
		case typ.Size == 8:
			v, err := strconv.ParseUint(s, 0, 8)
			return uint8(v), err
		case typ.Size <= 64:
			v, ok := math.ParseUint64(s)
			if !ok {
				return nil, errors.Errorf("invalid uint64 %q", s)
			}
			return v, nil
		}
		v, ok := math.ParseBig256(s)
		if !ok {
			return nil, errors.Errorf("invalid uint256 %q", s)
		}
		return v, nil
	case ethabi.IntTy:
		neg := strings.HasPrefix(s, "-")
		v, ok := math.ParseBig256(strings.TrimPrefix(s, "-"))
		if !ok {
			return nil, errors.Errorf("invalid int %q", s)
		}
		if neg {
			v = new(big.Int).Neg(v)
		}
		return v, nil
	case ethabi.SliceTy:
		if typ.Elem.T != ethabi.AddressTy {
			return nil, errors.Errorf("unsupported array of %s", typ.Elem.String())
		}
		var addrs []thor.Address
		for part := range strings.SplitSeq(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			addr, err := thor.ParseAddress(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, *addr)
		}
		return addrs, nil
	}
	return nil, errors.Errorf("unsupported type %s", typ.String())
}
