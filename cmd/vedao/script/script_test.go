// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/genesis"
	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/thor"
)

const (
	week0      = 2500 * thor.Week
	launchTime = week0 + 3600
)

func newRepo(t *testing.T) (*chain.Repository, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo, err := chain.NewRepository(db)
	require.NoError(t, err)

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	_, _, err = genesis.NewDevnet(launchTime).Builder().Build(repo)
	require.NoError(t, err)
	return repo, logDB
}

func TestParse(t *testing.T) {
	alice := genesis.DevAccounts()[0].Address
	s, err := Parse([]byte(fmt.Sprintf(`
calls:
  - time: 100
    caller: %v
    contract: Token
    method: transfer
    args: ["%v", "1000"]
  - time: 100
    contract: VotingEscrow
    method: checkpoint
  - time: 200
    block: 7
    contract: GaugeController
    method: checkpoint
    expectRevert: true
`, alice, alice)))
	require.NoError(t, err)
	require.Len(t, s.Calls, 3)
	assert.Equal(t, alice, s.Calls[0].Caller)
	assert.True(t, s.Calls[2].ExpectRevert)

	blocks := s.blocks(3)
	require.Len(t, blocks, 2)
	assert.Equal(t, 2, s.NumBlocks(3))
	assert.Equal(t, uint32(4), blocks[0].number)
	assert.Len(t, blocks[0].calls, 2)
	assert.Equal(t, uint32(7), blocks[1].number)
	assert.Equal(t, uint64(200), blocks[1].time)

	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{"unknown contract", "calls: [{time: 1, contract: Energy, method: transfer}]", `call #0: unknown contract "Energy"`},
		{"unknown method", "calls: [{time: 1, contract: Token, method: burn}]", `call #0: Token: unknown method "burn"`},
		{"arg count", "calls: [{time: 1, contract: Token, method: balanceOf}]", "call #0: balanceOf(address) expects 1 args, got 0"},
		{"time rewind", "calls: [{time: 2, contract: VotingEscrow, method: checkpoint}, {time: 1, contract: VotingEscrow, method: checkpoint}]", "call #1: time 1 is before 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestRun(t *testing.T) {
	repo, logDB := newRepo(t)
	alice := genesis.DevAccounts()[0].Address
	bob := genesis.DevAccounts()[1].Address
	gauge := thor.BytesToAddress([]byte("gauge"))

	s, err := Parse([]byte(fmt.Sprintf(`
calls:
  - {time: %[1]d, caller: "%[2]v", contract: Token, method: approve, args: ["%[3]v", "1000000000000000000000"]}
  - {time: %[1]d, caller: "%[2]v", contract: VotingEscrow, method: create_lock, args: ["1000000000000000000000", "%[4]d"]}
  - {time: %[5]d, caller: "%[2]v", contract: VotingEscrow, method: create_lock, args: ["1", "%[4]d"], expectRevert: true}
  - {time: %[5]d, caller: "%[2]v", contract: GaugeController, method: add_gauge, args: ["%[6]v", "0", "0"]}
  - {time: %[7]d, block: 5, caller: "%[2]v", contract: GaugeController, method: vote_for_gauge_weights, args: ["%[6]v", "10000"]}
`, launchTime+10, alice, builtin.VotingEscrow.Address, week0+104*thor.Week, launchTime+20, gauge, launchTime+30)))
	require.NoError(t, err)

	genesisHead := repo.Head()
	var committed []uint32
	stats, err := NewRunner(repo, logDB, 0).
		WithProgress(func(number uint32) { committed = append(committed, number) }).
		Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Blocks)
	require.Len(t, committed, 3)
	assert.Equal(t, uint32(5), committed[2])
	assert.Equal(t, 5, stats.Calls)
	assert.Equal(t, 1, stats.Reverted)
	assert.Positive(t, stats.GasUsed)
	assert.Equal(t, chain.Head{Number: 5, Time: launchTime + 30, Invocations: genesisHead.Invocations + 5}, repo.Head())

	deposit := builtin.VotingEscrow.ABI.MustEventByName("Deposit").ID()
	events, err := logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &builtin.VotingEscrow.Address, Topics: [5]*thor.Bytes32{&deposit}}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint32(1), events[0].BlockNumber)

	// an unexpected revert discards its block
	s, err = Parse([]byte(fmt.Sprintf(`
calls:
  - {time: %[1]d, caller: "%[2]v", contract: Token, method: transfer, args: ["%[2]v", "1"]}
  - {time: %[1]d, caller: "%[3]v", contract: Token, method: transfer, args: ["%[2]v", "1"]}
`, launchTime+40, bob, gauge)))
	require.NoError(t, err)
	_, err = NewRunner(repo, logDB, 0).Run(context.Background(), s)
	assert.ErrorContains(t, err, "block #6: Token.transfer reverted")
	assert.Equal(t, uint32(5), repo.Head().Number)

	newest, ok, err := logDB.NewestBlock()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), newest)
}

func TestRunCanceled(t *testing.T) {
	repo, _ := newRepo(t)
	s, err := Parse([]byte(fmt.Sprintf("calls: [{time: %d, contract: VotingEscrow, method: checkpoint}]", launchTime+10)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(repo, nil, 0).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), repo.Head().Number)
}
