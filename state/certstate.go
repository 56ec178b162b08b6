package state

import "github.com/conway-ledger/core/txs"

// DepositRecord remembers exactly what was deposited at registration
// time, so a later deregistration refunds that amount rather than
// whatever the current protocol parameter happens to be (spec.md §4.3:
// "refund exactly what was deposited at registration time").
type DepositRecord struct {
	Amount uint64
}

// DelegationState tracks stake-credential registrations, their deposits,
// and their pool/DRep delegation targets.
type DelegationState struct {
	// Deposits[cred] is present iff cred has a live registration; its
	// value is the amount that must be refunded on deregistration.
	Deposits map[txs.Credential]DepositRecord

	// PoolDelegations[cred] is the pool this credential currently
	// delegates its stake to, if any.
	PoolDelegations map[txs.Credential]txs.PoolId

	// DRepDelegations[cred] is the DRep this credential currently
	// delegates its vote to, if any.
	DRepDelegations map[txs.Credential]txs.DRep

	// Rewards[cred] is the accumulated, unwithdrawn rewards balance.
	Rewards map[txs.Credential]uint64
}

// NewDelegationState builds an empty DelegationState.
func NewDelegationState() *DelegationState {
	return &DelegationState{
		Deposits:        map[txs.Credential]DepositRecord{},
		PoolDelegations: map[txs.Credential]txs.PoolId{},
		DRepDelegations: map[txs.Credential]txs.DRep{},
		Rewards:         map[txs.Credential]uint64{},
	}
}

// IsRegistered reports whether cred has a live stake registration.
func (d *DelegationState) IsRegistered(cred txs.Credential) bool {
	_, ok := d.Deposits[cred]
	return ok
}

// PoolLifecycle distinguishes a pool's three possible states.
type PoolLifecycle uint8

const (
	PoolNotRegistered PoolLifecycle = iota
	PoolCurrent
	PoolRetiring
)

// PoolsState tracks pool registrations, including pending retirements.
type PoolsState struct {
	Pools    map[txs.PoolId]txs.PoolParams
	Deposits map[txs.PoolId]DepositRecord
	Retiring map[txs.PoolId]uint64 // pool id -> retirement epoch
}

// NewPoolsState builds an empty PoolsState.
func NewPoolsState() *PoolsState {
	return &PoolsState{
		Pools:    map[txs.PoolId]txs.PoolParams{},
		Deposits: map[txs.PoolId]DepositRecord{},
		Retiring: map[txs.PoolId]uint64{},
	}
}

// Lifecycle reports whether pool is unregistered, current, or retiring.
func (p *PoolsState) Lifecycle(pool txs.PoolId) PoolLifecycle {
	if _, retiring := p.Retiring[pool]; retiring {
		return PoolRetiring
	}
	if _, ok := p.Pools[pool]; ok {
		return PoolCurrent
	}
	return PoolNotRegistered
}

// VotingState tracks DRep registrations and deposits, and the
// constitutional committee's hot/cold key mapping.
type VotingState struct {
	DReps          map[txs.Credential]struct{}
	DRepDeposits   map[txs.Credential]DepositRecord
	CommitteeHotKeys map[txs.Credential]txs.Credential // cold -> hot
	ResignedCold   map[txs.Credential]struct{}

	// ProposalDeposits[actionID] records the deposit paid by each live
	// governance-action proposal, keyed by an opaque proposal index
	// since Conway identifies actions by (txID, index) rather than a
	// bare hash; the rule engine only needs the running total (see
	// txbalance), so the key type is left to the caller.
	ProposalDeposits map[uint64]DepositRecord
}

// NewVotingState builds an empty VotingState.
func NewVotingState() *VotingState {
	return &VotingState{
		DReps:            map[txs.Credential]struct{}{},
		DRepDeposits:     map[txs.Credential]DepositRecord{},
		CommitteeHotKeys: map[txs.Credential]txs.Credential{},
		ResignedCold:     map[txs.Credential]struct{}{},
		ProposalDeposits: map[uint64]DepositRecord{},
	}
}

// IsRegisteredDRep reports whether cred has a live DRep registration.
func (v *VotingState) IsRegisteredDRep(cred txs.Credential) bool {
	_, ok := v.DReps[cred]
	return ok
}

// CertState is the full certificate-related ledger state: delegation,
// pools, and voting, per spec.md §3.
type CertState struct {
	Delegation *DelegationState
	Pools      *PoolsState
	Voting     *VotingState
}

// NewCertState builds an empty CertState.
func NewCertState() *CertState {
	return &CertState{
		Delegation: NewDelegationState(),
		Pools:      NewPoolsState(),
		Voting:     NewVotingState(),
	}
}

// Clone returns a deep-enough independent copy for the orchestrator to
// mutate while producing State' without aliasing the caller's maps.
func (c *CertState) Clone() *CertState {
	clone := NewCertState()
	for k, v := range c.Delegation.Deposits {
		clone.Delegation.Deposits[k] = v
	}
	for k, v := range c.Delegation.PoolDelegations {
		clone.Delegation.PoolDelegations[k] = v
	}
	for k, v := range c.Delegation.DRepDelegations {
		clone.Delegation.DRepDelegations[k] = v
	}
	for k, v := range c.Delegation.Rewards {
		clone.Delegation.Rewards[k] = v
	}
	for k, v := range c.Pools.Pools {
		clone.Pools.Pools[k] = v
	}
	for k, v := range c.Pools.Deposits {
		clone.Pools.Deposits[k] = v
	}
	for k, v := range c.Pools.Retiring {
		clone.Pools.Retiring[k] = v
	}
	for k := range c.Voting.DReps {
		clone.Voting.DReps[k] = struct{}{}
	}
	for k, v := range c.Voting.DRepDeposits {
		clone.Voting.DRepDeposits[k] = v
	}
	for k, v := range c.Voting.CommitteeHotKeys {
		clone.Voting.CommitteeHotKeys[k] = v
	}
	for k := range c.Voting.ResignedCold {
		clone.Voting.ResignedCold[k] = struct{}{}
	}
	for k, v := range c.Voting.ProposalDeposits {
		clone.Voting.ProposalDeposits[k] = v
	}
	return clone
}

// State bundles everything the rule pipeline threads from one
// transaction's validation to the next: the UTXO ledger and the
// certificate-derived state.
type State struct {
	UTxO *UTxOState
	Cert *CertState
}

// NewState builds an empty State.
func NewState() *State {
	return &State{UTxO: NewUTxOState(), Cert: NewCertState()}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{UTxO: s.UTxO.Clone(), Cert: s.Cert.Clone()}
}
