// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package script executes a timed list of contract calls against a repository.
package script

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/thor"
)

// Call is one invocation of a builtin contract method. Args are parsed by
// the abi types of the method.
type Call struct {
	Time         uint64       `yaml:"time"`
	Block        uint32       `yaml:"block"`
	Caller       thor.Address `yaml:"caller"`
	Contract     string       `yaml:"contract"`
	Method       string       `yaml:"method"`
	Args         []string     `yaml:"args"`
	ExpectRevert bool         `yaml:"expectRevert"`
}

// Script is an ordered list of calls.
type Script struct {
	Calls []*Call `yaml:"calls"`
}

// Load reads a script from a yaml file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return Parse(data)
}

// Parse decodes a yaml script and checks every call against the contract abis.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that calls resolve to known methods and never go back in time.
func (s *Script) Validate() error {
	var last *Call
	for i, c := range s.Calls {
		if _, err := c.input(); err != nil {
			return errors.WithMessagef(err, "call #%d", i)
		}
		if last != nil {
			if c.Time < last.Time {
				return errors.Errorf("call #%d: time %d is before %d", i, c.Time, last.Time)
			}
			if c.Block != 0 && c.Block < last.Block {
				return errors.Errorf("call #%d: block %d is before %d", i, c.Block, last.Block)
			}
		}
		last = c
	}
	return nil
}

func (c *Call) contract() (*builtin.Contract, error) {
	contract, ok := builtin.ByName(c.Contract)
	if !ok {
		return nil, errors.Errorf("unknown contract %q", c.Contract)
	}
	return contract, nil
}

func (c *Call) input() ([]byte, error) {
	contract, err := c.contract()
	if err != nil {
		return nil, err
	}
	m, ok := contract.ABI.MethodByName(c.Method)
	if !ok {
		return nil, errors.Errorf("%s: unknown method %q", c.Contract, c.Method)
	}
	return m.EncodeInputStrings(c.Args)
}

// blocks groups the calls into blocks. A call without a block number joins
// the previous block when its time is unchanged, otherwise it opens the next one.
// NumBlocks returns the number of blocks the script makes on top of head.
func (s *Script) NumBlocks(head uint32) int {
	return len(s.blocks(head))
}

func (s *Script) blocks(head uint32) []*block {
	var (
		blocks []*block
		cur    *block
	)
	for _, c := range s.Calls {
		num := c.Block
		if num == 0 {
			switch {
			case cur != nil && cur.time == c.Time:
				num = cur.number
			case cur != nil:
				num = cur.number + 1
			default:
				num = head + 1
			}
		}
		if cur == nil || cur.number != num || cur.time != c.Time {
			cur = &block{number: num, time: c.Time}
			blocks = append(blocks, cur)
		}
		cur.calls = append(cur.calls, c)
	}
	return blocks
}

type block struct {
	number uint32
	time   uint64
	calls  []*Call
}
