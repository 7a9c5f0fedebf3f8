// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
)

const hour uint64 = 3600

func (h *harness) escrowView() *escrow.VotingEscrow {
	env := h.env(thor.Address{}, veAddr)
	return escrow.New(veAddr, env, func(addr thor.Address) escrow.Token { return &tokenCaller{env, addr} })
}

func (h *harness) lastEvent(event *abi.Event) *tx.Event {
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Topics[0] == event.ID() {
			return h.events[i]
		}
	}
	h.t.Fatalf("no %s event", event.Name())
	return nil
}

func assertBig(t *testing.T, expected, actual *big.Int, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, 0, expected.Cmp(actual), append([]any{"expected %v, got %v", expected, actual}, msgAndArgs...)...)
}

func TestInitialize(t *testing.T) {
	h := newHarness(t)
	fd := h.view()

	start, err := fd.StartTime()
	require.NoError(t, err)
	assert.Equal(t, W0, start)
	cursor, err := fd.TimeCursor()
	require.NoError(t, err)
	assert.Equal(t, W0, cursor)
	last, err := fd.LastTokenTime()
	require.NoError(t, err)
	assert.Equal(t, W0, last)

	tok, err := fd.Token()
	require.NoError(t, err)
	assert.Equal(t, feeAddr, tok)
	ve, err := fd.VotingEscrow()
	require.NoError(t, err)
	assert.Equal(t, veAddr, ve)
	a, err := fd.Admin()
	require.NoError(t, err)
	assert.Equal(t, admin, a)
	ret, err := fd.EmergencyReturn()
	require.NoError(t, err)
	assert.Equal(t, emergency, ret)

	allowed, err := fd.CanCheckpointToken()
	require.NoError(t, err)
	assert.False(t, allowed)
	killed, err := fd.IsKilled()
	require.NoError(t, err)
	assert.False(t, killed)

	err = h.call(admin, func(fd *FeeDistributor) error {
		return fd.Initialize(veAddr, W0, feeAddr, admin, emergency)
	})
	assert.ErrorIs(t, err, errAlreadyInitialized)

	other := thor.BytesToAddress([]byte("FeeDistributor2"))
	env := h.env(admin, other)
	fd2 := New(other, env, Resolvers{})
	err = h.run(env, func() error { return fd2.Initialize(veAddr, W0, thor.Address{}, admin, emergency) })
	assert.ErrorIs(t, err, errZeroAddress)

	require.NoError(t, h.run(env, func() error { return fd2.Initialize(veAddr, W1+3*thor.Day, feeAddr, admin, emergency) }))
	start, err = fd2.StartTime()
	require.NoError(t, err)
	assert.Equal(t, W1, start)
}

func TestWeeklyClaim(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(1), W0+52*thor.Week)

	// nothing received during W0
	h.at(W1)
	require.NoError(t, h.checkpointToken(admin))

	h.at(W1 + 3*thor.Day)
	h.fund(e18(1))
	h.at(W2)
	require.NoError(t, h.checkpointToken(admin))

	fd := h.view()
	tokens, err := fd.TokensPerWeek(W0)
	require.NoError(t, err)
	assert.Zero(t, tokens.Sign())
	tokens, err = fd.TokensPerWeek(W1)
	require.NoError(t, err)
	assertBig(t, e18(1), tokens)

	h.at(W2 + hour)
	amount, err := h.claim(alice, alice)
	require.NoError(t, err)
	assertBig(t, e18(1), amount)
	assertBig(t, e18(1), h.balance(feeAddr, alice))

	fd = h.view()
	cursor, err := fd.TimeCursorOf(alice)
	require.NoError(t, err)
	assert.Equal(t, W2, cursor)
	epoch, err := fd.UserEpochOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), epoch)

	supply, err := fd.VeSupply(W1)
	require.NoError(t, err)
	power, err := h.escrowView().BalanceOf(alice, W1)
	require.NoError(t, err)
	assertBig(t, power, supply)

	last, err := fd.TokenLastBalance()
	require.NoError(t, err)
	assert.Zero(t, last.Sign())

	ev := h.lastEvent(claimedEvent)
	require.Len(t, ev.Topics, 2)
	assert.Equal(t, abi.AddressTopic(alice), ev.Topics[1])
	var claimed struct {
		Amount     *big.Int
		ClaimEpoch *big.Int
		MaxEpoch   *big.Int
	}
	require.NoError(t, claimedEvent.Decode(ev.Data, &claimed))
	assertBig(t, e18(1), claimed.Amount)
	assert.Equal(t, int64(1), claimed.ClaimEpoch.Int64())
	assert.Equal(t, int64(1), claimed.MaxEpoch.Int64())

	// nothing more to claim this week
	h.at(W2 + 2*hour)
	amount, err = h.claim(alice, alice)
	require.NoError(t, err)
	assert.Zero(t, amount.Sign())
	assertBig(t, e18(1), h.balance(feeAddr, alice))
}

// proportional sets up alice and bob with 3:1 constant shares and 4e18 fees in W1.
func proportional(t *testing.T) *harness {
	h := newHarness(t)
	h.lock(alice, lockAmount(3), W0+52*thor.Week)
	h.lock(bob, lockAmount(1), W0+52*thor.Week)

	h.at(W1)
	require.NoError(t, h.checkpointToken(admin))
	h.fund(e18(4))
	h.at(W2)
	require.NoError(t, h.checkpointToken(admin))
	h.at(W2 + hour)
	return h
}

func TestProportionalClaim(t *testing.T) {
	h := proportional(t)

	amount, err := h.claim(alice, alice)
	require.NoError(t, err)
	assertBig(t, e18(3), amount)

	// zero address claims for the caller
	amount, err = h.claim(bob, thor.Address{})
	require.NoError(t, err)
	assertBig(t, e18(1), amount)

	assertBig(t, e18(3), h.balance(feeAddr, alice))
	assertBig(t, e18(1), h.balance(feeAddr, bob))

	fd := h.view()
	supply, err := fd.VeSupply(W1)
	require.NoError(t, err)
	a, err := fd.VeForAt(alice, W1)
	require.NoError(t, err)
	b, err := fd.VeForAt(bob, W1)
	require.NoError(t, err)
	assertBig(t, supply, new(big.Int).Add(a, b))

	last, err := fd.TokenLastBalance()
	require.NoError(t, err)
	assert.Zero(t, last.Sign())
}

func TestClaimMany(t *testing.T) {
	h := proportional(t)

	var total *big.Int
	require.NoError(t, h.call(carol, func(fd *FeeDistributor) (err error) {
		total, err = fd.ClaimMany([]thor.Address{alice, bob, {}, carol})
		return
	}))
	assertBig(t, e18(4), total)
	assertBig(t, e18(3), h.balance(feeAddr, alice))
	assertBig(t, e18(1), h.balance(feeAddr, bob))

	// carol comes after the zero address
	cursor, err := h.view().TimeCursorOf(carol)
	require.NoError(t, err)
	assert.Zero(t, cursor)

	receivers := make([]thor.Address, MaxReceivers+1)
	err = h.call(carol, func(fd *FeeDistributor) error {
		_, err := fd.ClaimMany(receivers)
		return err
	})
	assert.ErrorIs(t, err, errTooManyReceivers)
}

func TestClaimLateLocker(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(1), W0+52*thor.Week)

	h.at(W1)
	require.NoError(t, h.checkpointToken(admin))
	h.fund(e18(2))

	// bob only counts from the next week start
	h.at(W1 + thor.Day)
	h.lock(bob, lockAmount(1), W0+52*thor.Week)

	h.at(W2)
	require.NoError(t, h.checkpointToken(admin))
	h.fund(e18(2))
	h.at(W3)
	require.NoError(t, h.checkpointToken(admin))

	h.at(W3 + hour)
	amount, err := h.claim(alice, alice)
	require.NoError(t, err)
	assertBig(t, e18(3), amount)

	amount, err = h.claim(bob, bob)
	require.NoError(t, err)
	assertBig(t, e18(1), amount)

	for _, user := range []thor.Address{alice, bob} {
		cursor, err := h.view().TimeCursorOf(user)
		require.NoError(t, err)
		assert.Equal(t, W3, cursor)
	}
}

func TestClaimNoLock(t *testing.T) {
	h := proportional(t)

	amount, err := h.claim(carol, carol)
	require.NoError(t, err)
	assert.Zero(t, amount.Sign())

	cursor, err := h.view().TimeCursorOf(carol)
	require.NoError(t, err)
	assert.Zero(t, cursor)
}

func TestClaimWeekCap(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(1), W0+100*thor.Week)

	h.at(W0 + 60*thor.Week)
	require.NoError(t, h.checkpointToken(admin))
	h.at(W0 + 60*thor.Week + hour)

	_, err := h.claim(alice, alice)
	require.NoError(t, err)
	// one iteration moves to the first user epoch
	cursor, err := h.view().TimeCursorOf(alice)
	require.NoError(t, err)
	assert.Equal(t, W0+49*thor.Week, cursor)

	_, err = h.claim(alice, alice)
	require.NoError(t, err)
	cursor, err = h.view().TimeCursorOf(alice)
	require.NoError(t, err)
	assert.Equal(t, W0+60*thor.Week, cursor)
}

func TestTokenCheckpointSplit(t *testing.T) {
	h := newHarness(t)

	h.at(W1 + thor.Week/2)
	require.NoError(t, h.checkpointToken(admin))
	h.fund(e18(7))
	h.at(W2 + thor.Week/2)
	require.NoError(t, h.checkpointToken(admin))

	half := new(big.Int).Div(e18(7), big.NewInt(2))
	fd := h.view()
	for _, week := range []uint64{W1, W2} {
		tokens, err := fd.TokensPerWeek(week)
		require.NoError(t, err)
		assertBig(t, half, tokens, "week %d", week)
	}
	last, err := fd.LastTokenTime()
	require.NoError(t, err)
	assert.Equal(t, W2+thor.Week/2, last)
	balance, err := fd.TokenLastBalance()
	require.NoError(t, err)
	assertBig(t, e18(7), balance)

	var ev struct {
		Time   *big.Int
		Tokens *big.Int
	}
	require.NoError(t, checkpointTokenEvent.Decode(h.lastEvent(checkpointTokenEvent).Data, &ev))
	assert.Equal(t, W2+thor.Week/2, ev.Time.Uint64())
	assertBig(t, e18(7), ev.Tokens)

	// the rest of W2 gets the next delivery
	h.fund(e18(1))
	h.at(W3)
	require.NoError(t, h.checkpointToken(admin))
	fd = h.view()
	tokens, err := fd.TokensPerWeek(W2)
	require.NoError(t, err)
	assertBig(t, new(big.Int).Add(half, e18(1)), tokens)
	received, err := fd.TotalReceived()
	require.NoError(t, err)
	assertBig(t, e18(8), received)
}

func TestCheckpointTokenPermission(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.checkpointToken(bob), errCheckpointDenied)
	err := h.call(bob, func(fd *FeeDistributor) error { return fd.ToggleAllowCheckpointToken() })
	assert.ErrorIs(t, err, errNotAdmin)

	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error { return fd.ToggleAllowCheckpointToken() }))
	allowed, err := h.view().CanCheckpointToken()
	require.NoError(t, err)
	assert.True(t, allowed)

	// once a day
	assert.ErrorIs(t, h.checkpointToken(bob), errCheckpointDenied)
	h.at(W0 + thor.Day)
	assert.ErrorIs(t, h.checkpointToken(bob), errCheckpointDenied)
	h.at(W0 + thor.Day + 1)
	require.NoError(t, h.checkpointToken(bob))
	last, err := h.view().LastTokenTime()
	require.NoError(t, err)
	assert.Equal(t, W0+thor.Day+1, last)

	assert.ErrorIs(t, h.checkpointToken(bob), errCheckpointDenied)
	require.NoError(t, h.checkpointToken(admin))
}

func TestCheckpointTotalSupply(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(2), W0+100*thor.Week)

	h.at(W2 + hour)
	require.NoError(t, h.call(carol, func(fd *FeeDistributor) error { return fd.CheckpointTotalSupply() }))
	fd := h.view()
	cursor, err := fd.TimeCursor()
	require.NoError(t, err)
	assert.Equal(t, W3, cursor)

	supply, err := fd.VeSupply(W1)
	require.NoError(t, err)
	expected, err := h.escrowView().TotalSupply(W1)
	require.NoError(t, err)
	assert.Positive(t, supply.Sign())
	assertBig(t, expected, supply)

	// at most 20 weeks per call
	h.at(W2 + 30*thor.Week)
	require.NoError(t, h.call(carol, func(fd *FeeDistributor) error { return fd.CheckpointTotalSupply() }))
	cursor, err = h.view().TimeCursor()
	require.NoError(t, err)
	assert.Equal(t, W3+20*thor.Week, cursor)

	require.NoError(t, h.call(carol, func(fd *FeeDistributor) error { return fd.CheckpointTotalSupply() }))
	cursor, err = h.view().TimeCursor()
	require.NoError(t, err)
	assert.Equal(t, W2+31*thor.Week, cursor)
}

func TestVeForAt(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(1), W0+52*thor.Week)
	h.at(W2)

	fd := h.view()
	power, err := fd.VeForAt(alice, W0-1)
	require.NoError(t, err)
	assert.Zero(t, power.Sign())

	power, err = fd.VeForAt(alice, W1)
	require.NoError(t, err)
	expected := new(big.Int).Mul(big.NewInt(1e10), new(big.Int).SetUint64(51*thor.Week))
	assertBig(t, expected, power)

	power, err = fd.VeForAt(carol, W1)
	require.NoError(t, err)
	assert.Zero(t, power.Sign())
}

func TestBurn(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.tokenCall(feeAddr, admin, func(tok *token.Token) error { return tok.Mint(alice, e18(5)) }))
	require.NoError(t, h.tokenCall(feeAddr, alice, func(tok *token.Token) error { return tok.Approve(fdAddr, e18(5)) }))

	err := h.call(alice, func(fd *FeeDistributor) error { return fd.Burn(tokenAddr) })
	assert.ErrorIs(t, err, errWrongCoin)

	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error { return fd.ToggleAllowCheckpointToken() }))
	h.at(W0 + 2*thor.Day)
	require.NoError(t, h.call(alice, func(fd *FeeDistributor) error { return fd.Burn(feeAddr) }))
	assert.Zero(t, h.balance(feeAddr, alice).Sign())
	assertBig(t, e18(5), h.balance(feeAddr, fdAddr))

	// the burn triggered a token checkpoint
	fd := h.view()
	last, err := fd.LastTokenTime()
	require.NoError(t, err)
	assert.Equal(t, W0+2*thor.Day, last)
	balance, err := fd.TokenLastBalance()
	require.NoError(t, err)
	assertBig(t, e18(5), balance)

	require.NoError(t, h.call(bob, func(fd *FeeDistributor) error { return fd.Burn(feeAddr) }))
}

func TestKillMe(t *testing.T) {
	h := newHarness(t)
	h.lock(alice, lockAmount(1), W0+52*thor.Week)
	h.fund(e18(2))

	err := h.call(bob, func(fd *FeeDistributor) error { return fd.KillMe() })
	assert.ErrorIs(t, err, errNotAdmin)

	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error { return fd.KillMe() }))
	killed, err := h.view().IsKilled()
	require.NoError(t, err)
	assert.True(t, killed)
	assertBig(t, e18(2), h.balance(feeAddr, emergency))
	assert.Zero(t, h.balance(feeAddr, fdAddr).Sign())

	h.at(W1)
	ops := map[string]func(fd *FeeDistributor) error{
		"claim": func(fd *FeeDistributor) error {
			_, err := fd.Claim(alice)
			return err
		},
		"claim many": func(fd *FeeDistributor) error {
			_, err := fd.ClaimMany([]thor.Address{alice})
			return err
		},
		"checkpoint token":        func(fd *FeeDistributor) error { return fd.CheckpointToken() },
		"checkpoint total supply": func(fd *FeeDistributor) error { return fd.CheckpointTotalSupply() },
		"burn":                    func(fd *FeeDistributor) error { return fd.Burn(feeAddr) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := h.call(admin, op)
			assert.ErrorIs(t, err, errKilled)
			assert.Equal(t, reverts.State, reverts.KindOf(err))
		})
	}
}

func TestRecoverBalance(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.tokenCall(tokenAddr, alice, func(tok *token.Token) error { return tok.Transfer(fdAddr, e18(10)) }))

	err := h.call(bob, func(fd *FeeDistributor) error { return fd.RecoverBalance(tokenAddr) })
	assert.ErrorIs(t, err, errNotAdmin)
	err = h.call(admin, func(fd *FeeDistributor) error { return fd.RecoverBalance(feeAddr) })
	assert.ErrorIs(t, err, errFeeCoin)

	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error { return fd.RecoverBalance(tokenAddr) }))
	assertBig(t, e18(10), h.balance(tokenAddr, emergency))
	assert.Zero(t, h.balance(tokenAddr, fdAddr).Sign())
}

func TestAdminHandover(t *testing.T) {
	h := newHarness(t)

	err := h.call(bob, func(fd *FeeDistributor) error { return fd.CommitAdmin(bob) })
	assert.ErrorIs(t, err, errNotAdmin)
	err = h.call(bob, func(fd *FeeDistributor) error { return fd.ApplyAdmin() })
	assert.ErrorIs(t, err, errAdminNotSet)

	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error { return fd.CommitAdmin(bob) }))
	future, err := h.view().FutureAdmin()
	require.NoError(t, err)
	assert.Equal(t, bob, future)

	for _, caller := range []thor.Address{alice, admin} {
		err = h.call(caller, func(fd *FeeDistributor) error { return fd.ApplyAdmin() })
		assert.ErrorIs(t, err, errNotFutureAdmin)
		assert.Equal(t, reverts.Auth, reverts.KindOf(err))
	}

	require.NoError(t, h.call(bob, func(fd *FeeDistributor) error { return fd.ApplyAdmin() }))
	a, err := h.view().Admin()
	require.NoError(t, err)
	assert.Equal(t, bob, a)
}

func TestClaimReentrancy(t *testing.T) {
	h := proportional(t)

	env := h.env(alice, fdAddr)
	fd := h.distributor(env)
	err := h.run(env, func() error {
		release, err := env.Lock()
		if err != nil {
			return err
		}
		defer release()
		_, err = fd.Claim(alice)
		return err
	})
	assert.Equal(t, reverts.State, reverts.KindOf(err))
	assert.Zero(t, h.balance(feeAddr, alice).Sign())
}
