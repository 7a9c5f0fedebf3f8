// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind classifies why a contract call was reverted.
type Kind uint8

const (
	// Auth caller is not the admin, future admin or controller where required.
	Auth Kind = iota + 1
	// Precondition the call violates an operation guard.
	Precondition
	// Arithmetic checked add, sub, mul or div failed.
	Arithmetic
	// External a call into a collaborator contract failed.
	External
	// State the contract is killed or a re-entrancy flag is held.
	State
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case Precondition:
		return "precondition"
	case Arithmetic:
		return "arithmetic"
	case External:
		return "external"
	case State:
		return "state"
	}
	return "unknown"
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func NewAuth(message string) *ErrRevert         { return New(Auth, message) }
func NewPrecondition(message string) *ErrRevert { return New(Precondition, message) }
func NewArithmetic(message string) *ErrRevert   { return New(Arithmetic, message) }
func NewExternal(message string) *ErrRevert     { return New(External, message) }
func NewState(message string) *ErrRevert        { return New(State, message) }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is reports two reverts equal when kind and message match.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.message == e.message
}

// Bytes encodes the message as solidity Error(string) revert data.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 0, 4+32+32+padded)
	encoded = append(encoded, selector...)

	// offset of the string, always 0x20
	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], uint64(len(msgBytes)))
	encoded = append(encoded, length...)

	data := make([]byte, padded)
	copy(data, msgBytes)
	return append(encoded, data...)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}

// KindOf returns the kind of a revert error, or zero if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) && ve != nil {
		return ve.kind
	}
	return 0
}
