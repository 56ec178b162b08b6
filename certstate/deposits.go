// Package certstate implements the deposit/refund accounting (spec.md
// §4.3) and the certificate-application mutator (spec.md §4.7) that
// together keep state.CertState consistent with a transaction's
// certificates and governance proposals.
package certstate

import (
	"errors"
	"fmt"

	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

// ErrDeregistrationNotRegistered is returned when a deregistration
// certificate names a credential with no recorded deposit, per spec.md
// §4.3 ("the rule signals a typed error at the witness/cert-validation
// stage, not here").
var ErrDeregistrationNotRegistered = errors.New("certstate: deregistration of unregistered credential")

// ErrPoolRetirementNotRegistered is the pool analogue of
// ErrDeregistrationNotRegistered.
var ErrPoolRetirementNotRegistered = errors.New("certstate: retirement of unregistered pool")

// ErrDRepUnregNotRegistered is the DRep analogue.
var ErrDRepUnregNotRegistered = errors.New("certstate: unregistration of unregistered DRep")

// ErrDelegationToUnregisteredPool is returned when a StakeDelegation (or
// StakeVoteDelegation) certificate targets a pool that is not currently
// registered.
var ErrDelegationToUnregisteredPool = errors.New("certstate: delegation to unregistered pool")

// Totals is the result of walking a transaction's certificates and
// proposals against the current CertState: how much new deposit is
// required, and how much is refunded for deregistrations, each split by
// kind for diagnostic purposes and summed for the balance/deposit
// mutators.
type Totals struct {
	NewDeposits   uint64
	Refunds       uint64
	ProposalDeposits uint64
}

// Net returns NewDeposits + ProposalDeposits - Refunds as a signed delta.
func (t Totals) Net() int64 {
	return int64(t.NewDeposits) + int64(t.ProposalDeposits) - int64(t.Refunds)
}

// ComputeTotals walks certs and proposals in order, computing the
// deposit/refund totals per spec.md §4.3. Certificates are applied
// against a *read-only* view of cert (registrations accumulate
// same-transaction so that, e.g., a stake-registration followed later in
// the same certificate list by a deregistration of that same credential
// nets out correctly — see SPEC_FULL.md's Open Question resolution: the
// Conway ledger threads CertState certificate-by-certificate within one
// transaction). ComputeTotals therefore takes a mutable scratch copy and
// does not return it; callers that need the post-application CertState
// should call Apply instead.
func ComputeTotals(p params.ProtocolParams, cert *state.CertState, certs []txs.Certificate, proposals []txs.ProposalProcedure) (Totals, error) {
	scratch := cert.Clone()
	var totals Totals

	for _, c := range certs {
		delta, err := applyOne(p, scratch, c)
		if err != nil {
			return Totals{}, err
		}
		if delta >= 0 {
			totals.NewDeposits += uint64(delta)
		} else {
			totals.Refunds += uint64(-delta)
		}
	}

	for _, prop := range proposals {
		totals.ProposalDeposits += prop.DepositAmount
	}

	return totals, nil
}

// applyOne mutates scratch in place for certificate c, returning the
// signed deposit delta (positive for a new deposit, negative for a
// refund, zero for certificates that carry no deposit).
func applyOne(p params.ProtocolParams, cert *state.CertState, c txs.Certificate) (int64, error) {
	switch c.Kind {
	case txs.CertStakeRegistration:
		deposit := c.Deposit
		if deposit == 0 {
			deposit = p.StakeAddressDeposit
		}
		cert.Delegation.Deposits[c.Credential] = state.DepositRecord{Amount: deposit}
		return int64(deposit), nil

	case txs.CertStakeDeregistration:
		rec, ok := cert.Delegation.Deposits[c.Credential]
		if !ok {
			return 0, fmt.Errorf("%w: %v", ErrDeregistrationNotRegistered, c.Credential)
		}
		delete(cert.Delegation.Deposits, c.Credential)
		delete(cert.Delegation.PoolDelegations, c.Credential)
		delete(cert.Delegation.DRepDelegations, c.Credential)
		return -int64(rec.Amount), nil

	case txs.CertStakeDelegation:
		if cert.Pools.Lifecycle(c.Pool) == state.PoolNotRegistered {
			return 0, fmt.Errorf("%w: %v", ErrDelegationToUnregisteredPool, c.Pool)
		}
		cert.Delegation.PoolDelegations[c.Credential] = c.Pool
		return 0, nil

	case txs.CertVoteDelegation:
		cert.Delegation.DRepDelegations[c.Credential] = c.DRep
		return 0, nil

	case txs.CertStakeVoteDelegation:
		if cert.Pools.Lifecycle(c.Pool) == state.PoolNotRegistered {
			return 0, fmt.Errorf("%w: %v", ErrDelegationToUnregisteredPool, c.Pool)
		}
		cert.Delegation.PoolDelegations[c.Credential] = c.Pool
		cert.Delegation.DRepDelegations[c.Credential] = c.DRep
		return 0, nil

	case txs.CertPoolRegistration:
		deposit := p.PoolDeposit
		if cert.Pools.Lifecycle(c.PoolParams.Operator) == state.PoolCurrent {
			// Re-registration of a live pool (parameter update): no new
			// deposit is taken.
			cert.Pools.Pools[c.PoolParams.Operator] = c.PoolParams
			return 0, nil
		}
		cert.Pools.Pools[c.PoolParams.Operator] = c.PoolParams
		cert.Pools.Deposits[c.PoolParams.Operator] = state.DepositRecord{Amount: deposit}
		return int64(deposit), nil

	case txs.CertPoolRetirement:
		rec, ok := cert.Pools.Deposits[c.PoolId]
		if !ok {
			return 0, fmt.Errorf("%w: %v", ErrPoolRetirementNotRegistered, c.PoolId)
		}
		cert.Pools.Retiring[c.PoolId] = c.RetireAt
		delete(cert.Pools.Pools, c.PoolId)
		delete(cert.Pools.Deposits, c.PoolId)
		return -int64(rec.Amount), nil

	case txs.CertRegDRep:
		deposit := c.Deposit
		if deposit == 0 {
			deposit = p.DRepDeposit
		}
		cert.Voting.DReps[c.Credential] = struct{}{}
		cert.Voting.DRepDeposits[c.Credential] = state.DepositRecord{Amount: deposit}
		return int64(deposit), nil

	case txs.CertUnregDRep:
		rec, ok := cert.Voting.DRepDeposits[c.Credential]
		if !ok {
			return 0, fmt.Errorf("%w: %v", ErrDRepUnregNotRegistered, c.Credential)
		}
		delete(cert.Voting.DReps, c.Credential)
		delete(cert.Voting.DRepDeposits, c.Credential)
		return -int64(rec.Amount), nil

	case txs.CertUpdateDRep:
		if !cert.Voting.IsRegisteredDRep(c.Credential) {
			return 0, fmt.Errorf("%w: %v", ErrDRepUnregNotRegistered, c.Credential)
		}
		return 0, nil

	case txs.CertCommitteeHotKey:
		cert.Voting.CommitteeHotKeys[c.ColdCredential] = c.HotCredential
		return 0, nil

	case txs.CertResignCommitteeCold:
		delete(cert.Voting.CommitteeHotKeys, c.ColdCredential)
		cert.Voting.ResignedCold[c.ColdCredential] = struct{}{}
		return 0, nil

	default:
		return 0, fmt.Errorf("certstate: unknown certificate kind %d", c.Kind)
	}
}

// Apply walks certs in order against cert, mutating it in place, and
// returns the same Totals ComputeTotals would. This is what the STS
// mutator (spec.md §4.7) calls once validation has already accepted the
// transaction; ComputeTotals is what the FeesOK/deposit *validators*
// call against a scratch copy so they never mutate the real State.
func Apply(p params.ProtocolParams, cert *state.CertState, certs []txs.Certificate, proposals []txs.ProposalProcedure) (Totals, error) {
	var totals Totals
	for _, c := range certs {
		delta, err := applyOne(p, cert, c)
		if err != nil {
			return Totals{}, err
		}
		if delta >= 0 {
			totals.NewDeposits += uint64(delta)
		} else {
			totals.Refunds += uint64(-delta)
		}
	}
	for _, prop := range proposals {
		totals.ProposalDeposits += prop.DepositAmount
	}
	return totals, nil
}
