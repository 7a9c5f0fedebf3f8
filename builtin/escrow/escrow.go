// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow implements the VotingEscrow contract: base tokens locked for
// up to four years yield a voting power that decays linearly to zero at the
// unlock time.
package escrow

import (
	"math/big"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/gen"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

var logger = log.WithContext("pkg", "escrow")

var (
	escrowABI            = gen.MustParse("VotingEscrow")
	commitOwnershipEvent = escrowABI.MustEventByName("CommitOwnership")
	applyOwnershipEvent  = escrowABI.MustEventByName("ApplyOwnership")
	depositEvent         = escrowABI.MustEventByName("Deposit")
	withdrawEvent        = escrowABI.MustEventByName("Withdraw")
	supplyEvent          = escrowABI.MustEventByName("Supply")
)

var (
	errNotAdmin             = reverts.NewAuth("admin only")
	errNotController        = reverts.NewAuth("controller only")
	errZeroAddress          = reverts.NewPrecondition("zero address")
	errZeroValue            = reverts.NewPrecondition("need non-zero value")
	errNoLock               = reverts.NewPrecondition("no existing lock found")
	errExpiredLock          = reverts.NewPrecondition("cannot add to expired lock, withdraw")
	errWithdrawFirst        = reverts.NewPrecondition("withdraw old tokens first")
	errLockInPast           = reverts.NewPrecondition("can only lock until time in the future")
	errLockTooLong          = reverts.NewPrecondition("voting lock can be 4 years max")
	errLockExpired          = reverts.NewPrecondition("lock expired")
	errNothingLocked        = reverts.NewPrecondition("nothing is locked")
	errOnlyIncreaseDuration = reverts.NewPrecondition("can only increase lock duration")
	errLockNotExpired       = reverts.NewPrecondition("the lock didn't expire")
	errFutureBlock          = reverts.NewPrecondition("invalid block number")
	errAlreadyInitialized   = reverts.NewPrecondition("already initialized")
)

const (
	// maxCheckpointWeeks bounds the weekly catch up of a single checkpoint.
	maxCheckpointWeeks = 255
	// maxSearchIterations bounds binary searches over point histories.
	maxSearchIterations = 128
)

var maxTime = safemath.Uint64(thor.MaxLockTime)

// Token is the base token consumed by the escrow.
type Token interface {
	Transfer(recipient thor.Address, amount *big.Int) error
	TransferFrom(owner, recipient thor.Address, amount *big.Int) error
	Decimals() (uint8, error)
}

// TokenResolver binds the token contract at addr, with the escrow as caller.
type TokenResolver func(addr thor.Address) Token

// VotingEscrow is the contract bound to one invocation environment.
type VotingEscrow struct {
	addr    thor.Address
	env     *xenv.Environment
	tokens  TokenResolver
	storage *storage
}

// New binds the escrow stored at addr to the environment.
func New(addr thor.Address, env *xenv.Environment, tokens TokenResolver) *VotingEscrow {
	return &VotingEscrow{
		addr:    addr,
		env:     env,
		tokens:  tokens,
		storage: newStorage(addr, env.State(), gascharger.New(env)),
	}
}

// Address returns the escrow contract address.
func (v *VotingEscrow) Address() thor.Address {
	return v.addr
}

// Initialize deploys the escrow for the base token. The caller becomes admin and controller.
func (v *VotingEscrow) Initialize(token thor.Address, name, symbol, version string) error {
	if token.IsZero() {
		return errZeroAddress
	}
	current, err := v.storage.token.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errAlreadyInitialized
	}

	admin := v.env.Caller()
	if err := v.storage.token.Set(token); err != nil {
		return err
	}
	if err := v.storage.admin.Set(admin); err != nil {
		return err
	}
	if err := v.storage.controller.Set(admin); err != nil {
		return err
	}
	if err := v.storage.transfersEnabled.Set(true); err != nil {
		return err
	}

	genesis := newPoint(v.env.Now(), uint64(v.env.BlockContext().Number))
	if err := v.storage.SetPoint(0, genesis); err != nil {
		return err
	}

	// uint8 decimals cannot exceed 255
	decimals, err := v.tokens(token).Decimals()
	if err != nil {
		return external(err)
	}
	if err := v.storage.decimals.Set(uint64(decimals)); err != nil {
		return err
	}
	if err := v.storage.name.Set(name); err != nil {
		return err
	}
	if err := v.storage.symbol.Set(symbol); err != nil {
		return err
	}
	return v.storage.version.Set(version)
}

// CommitTransferOwnership sets the future admin. Admin only.
func (v *VotingEscrow) CommitTransferOwnership(addr thor.Address) error {
	if err := v.onlyAdmin(); err != nil {
		return err
	}
	if err := v.storage.futureAdmin.Set(addr); err != nil {
		return err
	}
	v.env.Log(commitOwnershipEvent, v.addr, nil, addr)
	return nil
}

// ApplyTransferOwnership makes the future admin the admin. Admin only.
func (v *VotingEscrow) ApplyTransferOwnership() error {
	if err := v.onlyAdmin(); err != nil {
		return err
	}
	future, err := v.storage.futureAdmin.Get()
	if err != nil {
		return err
	}
	if future.IsZero() {
		return reverts.NewPrecondition("admin not set")
	}
	if err := v.storage.admin.Set(future); err != nil {
		return err
	}
	v.env.Log(applyOwnershipEvent, v.addr, nil, future)
	return nil
}

// ChangeController hands the controller role over. Controller only.
func (v *VotingEscrow) ChangeController(addr thor.Address) error {
	controller, err := v.storage.controller.Get()
	if err != nil {
		return err
	}
	if v.env.Caller() != controller {
		return errNotController
	}
	return v.storage.controller.Set(addr)
}

func (v *VotingEscrow) onlyAdmin() error {
	admin, err := v.storage.admin.Get()
	if err != nil {
		return err
	}
	if v.env.Caller() != admin {
		return errNotAdmin
	}
	return nil
}

// Checkpoint records global data to the checkpoint history.
func (v *VotingEscrow) Checkpoint() error {
	empty := &LockedBalance{Amount: new(big.Int)}
	return v.checkpoint(thor.Address{}, empty, empty)
}

// DepositFor adds value to the lock of addr, pulling the tokens from addr.
// Anyone can top up an existing lock, the unlock time is unchanged.
func (v *VotingEscrow) DepositFor(addr thor.Address, value *big.Int) error {
	release, err := v.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	locked, err := v.storage.GetLocked(addr)
	if err != nil {
		return err
	}
	if value.Sign() <= 0 {
		return errZeroValue
	}
	if locked.IsEmpty() {
		return errNoLock
	}
	if locked.End <= v.env.Now() {
		return errExpiredLock
	}
	return v.depositFor(addr, value, 0, locked, DepositFor)
}

// CreateLock locks value for the caller until unlockTime, rounded down to whole weeks.
func (v *VotingEscrow) CreateLock(value *big.Int, unlockTime uint64) error {
	release, err := v.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	caller := v.env.Caller()
	now := v.env.Now()
	unlockTime = thor.FloorWeek(unlockTime)

	locked, err := v.storage.GetLocked(caller)
	if err != nil {
		return err
	}
	if value.Sign() <= 0 {
		return errZeroValue
	}
	if !locked.IsEmpty() {
		return errWithdrawFirst
	}
	if unlockTime <= now {
		return errLockInPast
	}
	limit, err := safemath.AddUint64(now, thor.MaxLockTime)
	if err != nil {
		return err
	}
	if unlockTime > limit {
		return errLockTooLong
	}
	return v.depositFor(caller, value, unlockTime, locked, CreateLock)
}

// IncreaseAmount adds value to the caller's lock without changing the unlock time.
func (v *VotingEscrow) IncreaseAmount(value *big.Int) error {
	release, err := v.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	caller := v.env.Caller()
	locked, err := v.storage.GetLocked(caller)
	if err != nil {
		return err
	}
	if value.Sign() <= 0 {
		return errZeroValue
	}
	if locked.IsEmpty() {
		return errNoLock
	}
	if locked.End <= v.env.Now() {
		return errExpiredLock
	}
	return v.depositFor(caller, value, 0, locked, IncreaseLockAmount)
}

// IncreaseUnlockTime extends the caller's lock to unlockTime, rounded down to whole weeks.
func (v *VotingEscrow) IncreaseUnlockTime(unlockTime uint64) error {
	release, err := v.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	caller := v.env.Caller()
	now := v.env.Now()
	unlockTime = thor.FloorWeek(unlockTime)

	locked, err := v.storage.GetLocked(caller)
	if err != nil {
		return err
	}
	if locked.End <= now {
		return errLockExpired
	}
	if locked.IsEmpty() {
		return errNothingLocked
	}
	if unlockTime <= locked.End {
		return errOnlyIncreaseDuration
	}
	limit, err := safemath.AddUint64(now, thor.MaxLockTime)
	if err != nil {
		return err
	}
	if unlockTime > limit {
		return errLockTooLong
	}
	return v.depositFor(caller, new(big.Int), unlockTime, locked, IncreaseUnlockTime)
}

// Withdraw returns all tokens of the caller once the lock expired.
func (v *VotingEscrow) Withdraw() error {
	release, err := v.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	caller := v.env.Caller()
	now := v.env.Now()

	locked, err := v.storage.GetLocked(caller)
	if err != nil {
		return err
	}
	if now < locked.End {
		return errLockNotExpired
	}
	if locked.IsEmpty() {
		return errNothingLocked
	}
	value := new(big.Int).Set(locked.Amount)

	oldLocked := locked.Copy()
	newLocked := &LockedBalance{Amount: new(big.Int)}
	if err := v.storage.SetLocked(caller, newLocked); err != nil {
		return err
	}
	supplyBefore, err := v.storage.supply.Get()
	if err != nil {
		return err
	}
	supplyAfter, err := safemath.Sub(supplyBefore, value)
	if err != nil {
		return err
	}
	if err := v.storage.supply.Set(supplyAfter); err != nil {
		return err
	}

	if err := v.checkpoint(caller, oldLocked, newLocked); err != nil {
		return err
	}

	token, err := v.storage.token.Get()
	if err != nil {
		return err
	}
	if err := v.tokens(token).Transfer(caller, value); err != nil {
		return external(err)
	}

	v.env.Log(withdrawEvent, v.addr, []thor.Bytes32{abi.AddressTopic(caller)}, value, now)
	v.env.Log(supplyEvent, v.addr, nil, supplyBefore, supplyAfter)
	logger.Debug("withdraw", "provider", caller, "value", value)
	return nil
}

// depositFor deposits and locks tokens for addr. A zero unlockTime keeps the current end.
func (v *VotingEscrow) depositFor(addr thor.Address, value *big.Int, unlockTime uint64, locked *LockedBalance, kind DepositType) error {
	supplyBefore, err := v.storage.supply.Get()
	if err != nil {
		return err
	}
	supplyAfter, err := safemath.Add(supplyBefore, value)
	if err != nil {
		return err
	}
	if err := v.storage.supply.Set(supplyAfter); err != nil {
		return err
	}

	oldLocked := locked.Copy()
	newLocked := locked.Copy()
	if newLocked.Amount, err = safemath.AddInt128(newLocked.Amount, value); err != nil {
		return err
	}
	if unlockTime != 0 {
		newLocked.End = unlockTime
	}
	if err := v.storage.SetLocked(addr, newLocked); err != nil {
		return err
	}

	if err := v.checkpoint(addr, oldLocked, newLocked); err != nil {
		return err
	}

	if value.Sign() != 0 {
		token, err := v.storage.token.Get()
		if err != nil {
			return err
		}
		if err := v.tokens(token).TransferFrom(addr, v.addr, value); err != nil {
			return external(err)
		}
	}

	now := v.env.Now()
	v.env.Log(depositEvent, v.addr,
		[]thor.Bytes32{abi.AddressTopic(addr), abi.Uint64Topic(newLocked.End)},
		value, big.NewInt(int64(kind)), now)
	v.env.Log(supplyEvent, v.addr, nil, supplyBefore, supplyAfter)
	logger.Debug("deposit", "provider", addr, "value", value, "end", newLocked.End, "type", kind)
	return nil
}

// external maps a failed token call to an external revert.
func external(err error) error {
	if reverts.IsRevertErr(err) {
		return reverts.NewExternal("token call failed: " + err.Error())
	}
	return err
}
