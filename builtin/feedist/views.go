// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"

	"github.com/vechain/vedao/thor"
)

func (f *FeeDistributor) StartTime() (uint64, error)     { return f.storage.startTime.Get() }
func (f *FeeDistributor) TimeCursor() (uint64, error)    { return f.storage.timeCursor.Get() }
func (f *FeeDistributor) LastTokenTime() (uint64, error) { return f.storage.lastTokenTime.Get() }

func (f *FeeDistributor) TimeCursorOf(user thor.Address) (uint64, error) {
	return f.storage.timeCursorOf.Get(user)
}

func (f *FeeDistributor) UserEpochOf(user thor.Address) (uint64, error) {
	return f.storage.userEpochOf.Get(user)
}

// TokensPerWeek returns the fees attributed to the week starting at week.
func (f *FeeDistributor) TokensPerWeek(week uint64) (*big.Int, error) {
	return f.storage.GetTokensPerWeek(week)
}

// VeSupply returns the cached total voting power at the week start.
func (f *FeeDistributor) VeSupply(week uint64) (*big.Int, error) {
	return f.storage.GetVeSupply(week)
}

func (f *FeeDistributor) TotalReceived() (*big.Int, error) { return f.storage.totalReceived.Get() }
func (f *FeeDistributor) TokenLastBalance() (*big.Int, error) {
	return f.storage.tokenLastBalance.Get()
}

func (f *FeeDistributor) Admin() (thor.Address, error)       { return f.storage.admin.Get() }
func (f *FeeDistributor) FutureAdmin() (thor.Address, error) { return f.storage.futureAdmin.Get() }
func (f *FeeDistributor) EmergencyReturn() (thor.Address, error) {
	return f.storage.emergencyReturn.Get()
}
func (f *FeeDistributor) Token() (thor.Address, error)        { return f.storage.token.Get() }
func (f *FeeDistributor) VotingEscrow() (thor.Address, error) { return f.storage.votingEscrow.Get() }
func (f *FeeDistributor) CanCheckpointToken() (bool, error) {
	return f.storage.canCheckpointToken.Get()
}
func (f *FeeDistributor) IsKilled() (bool, error) { return f.storage.isKilled.Get() }
