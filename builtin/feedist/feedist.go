// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feedist implements the FeeDistributor contract. Fees in a single
// token are bucketed per week and claimed by vote-escrow holders in
// proportion to their voting power at the start of each week.
package feedist

import (
	"math/big"

	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/gen"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

var logger = log.WithContext("pkg", "feedist")

var (
	distributorABI       = gen.MustParse("FeeDistributor")
	commitAdminEvent     = distributorABI.MustEventByName("CommitAdmin")
	applyAdminEvent      = distributorABI.MustEventByName("ApplyAdmin")
	toggleAllowEvent     = distributorABI.MustEventByName("ToggleAllowCheckpointToken")
	checkpointTokenEvent = distributorABI.MustEventByName("CheckpointToken")
	claimedEvent         = distributorABI.MustEventByName("Claimed")
)

var (
	errNotAdmin           = reverts.NewAuth("admin only")
	errNotFutureAdmin     = reverts.NewAuth("future admin only")
	errCheckpointDenied   = reverts.NewAuth("token checkpoint not allowed")
	errZeroAddress        = reverts.NewPrecondition("zero address")
	errAlreadyInitialized = reverts.NewPrecondition("already initialized")
	errAdminNotSet        = reverts.NewPrecondition("admin not set")
	errWrongCoin          = reverts.NewPrecondition("wrong coin")
	errFeeCoin            = reverts.NewPrecondition("cannot recover the fee token")
	errTooManyReceivers   = reverts.NewPrecondition("too many receivers")
	errKilled             = reverts.NewState("killed")
)

const (
	// TokenCheckpointDeadline is the minimal interval between two permissionless token checkpoints.
	TokenCheckpointDeadline = thor.Day

	maxTokenWeeks  = 20
	maxSupplyWeeks = 20
	maxClaimWeeks  = 50
	// MaxReceivers bounds a batched claim.
	MaxReceivers        = 20
	maxSearchIterations = 128
)

// Escrow is the part of the VotingEscrow the distributor reads.
type Escrow interface {
	Checkpoint() error
	TotalSupply(t uint64) (*big.Int, error)
	UserPointEpoch(addr thor.Address) (uint64, error)
	UserPointHistory(addr thor.Address, epoch uint64) (*escrow.Point, error)
}

// Token is the fee token, or any coin held by the distributor.
type Token interface {
	Transfer(recipient thor.Address, amount *big.Int) error
	TransferFrom(owner, recipient thor.Address, amount *big.Int) error
	BalanceOf(owner thor.Address) (*big.Int, error)
}

// Resolvers binds the collaborators with the distributor as caller.
type Resolvers struct {
	Escrow func(addr thor.Address) Escrow
	Token  func(addr thor.Address) Token
}

// FeeDistributor is the contract bound to one invocation environment.
type FeeDistributor struct {
	addr      thor.Address
	env       *xenv.Environment
	resolvers Resolvers
	storage   *storage
}

// New binds the distributor stored at addr to the environment.
func New(addr thor.Address, env *xenv.Environment, resolvers Resolvers) *FeeDistributor {
	return &FeeDistributor{
		addr:      addr,
		env:       env,
		resolvers: resolvers,
		storage:   newStorage(addr, env.State(), gascharger.New(env)),
	}
}

// Address returns the distributor contract address.
func (f *FeeDistributor) Address() thor.Address {
	return f.addr
}

// Initialize deploys the distributor. Distribution starts at the week of startTime.
func (f *FeeDistributor) Initialize(votingEscrow thor.Address, startTime uint64, token, admin, emergencyReturn thor.Address) error {
	if votingEscrow.IsZero() || token.IsZero() || admin.IsZero() || emergencyReturn.IsZero() {
		return errZeroAddress
	}
	current, err := f.storage.votingEscrow.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errAlreadyInitialized
	}

	t := thor.FloorWeek(startTime)
	if err := f.storage.startTime.Set(t); err != nil {
		return err
	}
	if err := f.storage.lastTokenTime.Set(t); err != nil {
		return err
	}
	if err := f.storage.timeCursor.Set(t); err != nil {
		return err
	}
	if err := f.storage.votingEscrow.Set(votingEscrow); err != nil {
		return err
	}
	if err := f.storage.token.Set(token); err != nil {
		return err
	}
	if err := f.storage.admin.Set(admin); err != nil {
		return err
	}
	if err := f.storage.emergencyReturn.Set(emergencyReturn); err != nil {
		return err
	}
	return nil
}

func (f *FeeDistributor) onlyAdmin() error {
	admin, err := f.storage.admin.Get()
	if err != nil {
		return err
	}
	if f.env.Caller() != admin {
		return errNotAdmin
	}
	return nil
}

func (f *FeeDistributor) notKilled() error {
	killed, err := f.storage.isKilled.Get()
	if err != nil {
		return err
	}
	if killed {
		return errKilled
	}
	return nil
}

func (f *FeeDistributor) escrow() (Escrow, error) {
	addr, err := f.storage.votingEscrow.Get()
	if err != nil {
		return nil, err
	}
	return f.resolvers.Escrow(addr), nil
}

func (f *FeeDistributor) token() (Token, error) {
	addr, err := f.storage.token.Get()
	if err != nil {
		return nil, err
	}
	return f.resolvers.Token(addr), nil
}

// CommitAdmin sets the future admin. Admin only.
func (f *FeeDistributor) CommitAdmin(addr thor.Address) error {
	if err := f.onlyAdmin(); err != nil {
		return err
	}
	if err := f.storage.futureAdmin.Set(addr); err != nil {
		return err
	}
	f.env.Log(commitAdminEvent, f.addr, nil, addr)
	return nil
}

// ApplyAdmin is called by the future admin to take over.
func (f *FeeDistributor) ApplyAdmin() error {
	future, err := f.storage.futureAdmin.Get()
	if err != nil {
		return err
	}
	if future.IsZero() {
		return errAdminNotSet
	}
	if f.env.Caller() != future {
		return errNotFutureAdmin
	}
	if err := f.storage.admin.Set(future); err != nil {
		return err
	}
	f.env.Log(applyAdminEvent, f.addr, nil, future)
	return nil
}

// ToggleAllowCheckpointToken flips whether anyone may checkpoint the token. Admin only.
func (f *FeeDistributor) ToggleAllowCheckpointToken() error {
	if err := f.onlyAdmin(); err != nil {
		return err
	}
	flag, err := f.storage.canCheckpointToken.Get()
	if err != nil {
		return err
	}
	flag = !flag
	if err := f.storage.canCheckpointToken.Set(flag); err != nil {
		return err
	}
	f.env.Log(toggleAllowEvent, f.addr, nil, flag)
	return nil
}

// KillMe stops the distributor and sends its fee token balance to the emergency return address. Admin only.
func (f *FeeDistributor) KillMe() error {
	if err := f.onlyAdmin(); err != nil {
		return err
	}
	if err := f.storage.isKilled.Set(true); err != nil {
		return err
	}
	token, err := f.token()
	if err != nil {
		return err
	}
	if err := f.sweep(token); err != nil {
		return err
	}
	logger.Info("fee distributor killed", "addr", f.addr)
	return nil
}

// RecoverBalance sends the whole balance of a coin other than the fee token
// to the emergency return address. Admin only.
func (f *FeeDistributor) RecoverBalance(coin thor.Address) error {
	if err := f.onlyAdmin(); err != nil {
		return err
	}
	release, err := f.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	token, err := f.storage.token.Get()
	if err != nil {
		return err
	}
	if coin == token {
		return errFeeCoin
	}
	return f.sweep(f.resolvers.Token(coin))
}

func (f *FeeDistributor) sweep(coin Token) error {
	to, err := f.storage.emergencyReturn.Get()
	if err != nil {
		return err
	}
	amount, err := coin.BalanceOf(f.addr)
	if err != nil {
		return external(err)
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := coin.Transfer(to, amount); err != nil {
		return external(err)
	}
	return nil
}

// Burn pulls the caller's whole balance of the fee token into the distributor.
func (f *FeeDistributor) Burn(coin thor.Address) error {
	release, err := f.env.Lock()
	if err != nil {
		return err
	}
	defer release()

	tokenAddr, err := f.storage.token.Get()
	if err != nil {
		return err
	}
	if coin != tokenAddr {
		return errWrongCoin
	}
	if err := f.notKilled(); err != nil {
		return err
	}
	token := f.resolvers.Token(coin)
	caller := f.env.Caller()
	amount, err := token.BalanceOf(caller)
	if err != nil {
		return external(err)
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := token.TransferFrom(caller, f.addr, amount); err != nil {
		return external(err)
	}
	if _, err := f.checkpointTokenIfDue(); err != nil {
		return err
	}
	return nil
}

// external maps a failed collaborator call to an external revert.
func external(err error) error {
	if reverts.IsRevertErr(err) {
		return reverts.NewExternal("external call failed: " + err.Error())
	}
	return err
}
