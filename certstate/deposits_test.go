package certstate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

func testParams() params.ProtocolParams {
	return params.ProtocolParams{StakeAddressDeposit: 2_000_000, PoolDeposit: 500_000_000, DRepDeposit: 500_000_000}
}

func cred(n byte) txs.Credential {
	var h txs.Hash28
	h[0] = n
	return txs.Credential{Kind: txs.CredKeyHash, Hash: h}
}

func TestRegistrationThenDeregistrationNetsToZeroInSameTx(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()
	c := cred(1)

	totals, err := ComputeTotals(testParams(), cs, []txs.Certificate{
		{Kind: txs.CertStakeRegistration, Credential: c},
		{Kind: txs.CertStakeDeregistration, Credential: c},
	}, nil)
	r.NoError(err)
	r.Equal(uint64(2_000_000), totals.NewDeposits)
	r.Equal(uint64(2_000_000), totals.Refunds)
	r.Equal(int64(0), totals.Net())
}

func TestDeregistrationOfUnregisteredCredentialFails(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()

	_, err := ComputeTotals(testParams(), cs, []txs.Certificate{
		{Kind: txs.CertStakeDeregistration, Credential: cred(9)},
	}, nil)
	r.ErrorIs(err, ErrDeregistrationNotRegistered)
}

func TestDelegationToUnregisteredPoolFails(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()
	c := cred(1)
	var pool txs.PoolId
	pool[0] = 7

	_, err := ComputeTotals(testParams(), cs, []txs.Certificate{
		{Kind: txs.CertStakeRegistration, Credential: c},
		{Kind: txs.CertStakeDelegation, Credential: c, Pool: pool},
	}, nil)
	r.ErrorIs(err, ErrDelegationToUnregisteredPool)
}

func TestApplyMutatesRealCertStateAndComputeTotalsDoesNot(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()
	c := cred(1)
	certs := []txs.Certificate{{Kind: txs.CertStakeRegistration, Credential: c}}

	_, err := ComputeTotals(testParams(), cs, certs, nil)
	r.NoError(err)
	r.False(cs.Delegation.IsRegistered(c), "ComputeTotals must not mutate the caller's CertState")

	_, err = Apply(testParams(), cs, certs, nil)
	r.NoError(err)
	r.True(cs.Delegation.IsRegistered(c))
}

func TestPoolRegistrationDepositTakenOnceThenReRegistrationIsFree(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()
	var operator txs.PoolId
	operator[0] = 3
	poolParams := txs.PoolParams{Operator: operator}

	totals, err := Apply(testParams(), cs, []txs.Certificate{
		{Kind: txs.CertPoolRegistration, PoolParams: poolParams},
		{Kind: txs.CertPoolRegistration, PoolParams: poolParams},
	}, nil)
	r.NoError(err)
	r.Equal(uint64(500_000_000), totals.NewDeposits)
}

func TestProposalDepositsAddToTotals(t *testing.T) {
	r := require.New(t)
	cs := state.NewCertState()

	totals, err := ComputeTotals(testParams(), cs, nil, []txs.ProposalProcedure{
		{DepositAmount: 100_000_000_000},
		{DepositAmount: 100_000_000_000},
	})
	r.NoError(err)
	r.Equal(uint64(200_000_000_000), totals.ProposalDeposits)
	r.Equal(int64(200_000_000_000), totals.Net())
}
