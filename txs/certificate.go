package txs

// CredentialKind distinguishes a key-hash credential from a script-hash
// credential; DRep credentials, stake credentials, and committee
// credentials all share this shape.
type CredentialKind uint8

const (
	CredKeyHash CredentialKind = iota
	CredScriptHash
)

// Credential identifies a stake address, DRep, or committee member.
type Credential struct {
	Kind CredentialKind
	Hash Hash28
}

// DRepKind distinguishes a registered DRep from the two protocol-defined
// always-abstain / always-no-confidence pseudo-DReps.
type DRepKind uint8

const (
	DRepKeyHash DRepKind = iota
	DRepScriptHash
	DRepAlwaysAbstain
	DRepAlwaysNoConfidence
)

// DRep identifies a delegated representative a stake credential votes
// through.
type DRep struct {
	Kind DRepKind
	Hash Hash28 // valid when Kind is DRepKeyHash or DRepScriptHash
}

// PoolId identifies a stake pool by its operator key hash.
type PoolId = Hash28

// PoolMetadata is the off-chain pool metadata pointer.
type PoolMetadata struct {
	URL      string
	HashHash Hash32
}

// PoolParams is the full set of parameters carried by a pool
// registration, independent of which historical CBOR shape (§6) produced
// it.
type PoolParams struct {
	Operator      PoolId
	VrfKeyHash    Hash32
	Pledge        uint64
	Cost          uint64
	MarginNum     uint64
	MarginDen     uint64
	RewardAccount Credential
	Owners        []Credential
}

// CertKind enumerates every Conway certificate variant.
type CertKind uint8

const (
	CertStakeRegistration CertKind = iota
	CertStakeDeregistration
	CertStakeDelegation
	CertPoolRegistration
	CertPoolRetirement
	CertRegDRep
	CertUnregDRep
	CertUpdateDRep
	CertVoteDelegation
	CertStakeVoteDelegation
	CertCommitteeHotKey
	CertResignCommitteeCold
)

// Certificate is a tagged union over every certificate a transaction body
// may carry. Only the fields relevant to Kind are meaningful; this
// mirrors the teacher's Visitor-dispatched tagged unions (txs.Visitor)
// but as a flat struct, since certificates here carry no executable
// behavior of their own — only the rule engine interprets them.
type Certificate struct {
	Kind Kind

	// StakeRegistration / StakeDeregistration / StakeDelegation /
	// VoteDelegation / StakeVoteDelegation / RegDRep / UnregDRep /
	// UpdateDRep all key off Credential.
	Credential Credential

	// Explicit deposit carried by Conway-era registration/
	// deregistration/DRep certificates. A stake or DRep registration
	// with zero here takes the protocol-parameter deposit instead; a
	// deregistration always refunds the amount CertState recorded at
	// registration, whatever this field holds (spec.md §4.3).
	Deposit uint64

	// StakeDelegation / StakeVoteDelegation target.
	Pool PoolId

	// VoteDelegation / StakeVoteDelegation target.
	DRep DRep

	// PoolRegistration / PoolRetirement.
	PoolParams PoolParams
	PoolId     PoolId
	RetireAt   uint64 // epoch

	// CommitteeHotKey / ResignCommitteeCold.
	ColdCredential Credential
	HotCredential  Credential

	// Anchor for DRep (meta)data, when present (RegDRep/UpdateDRep).
	AnchorURL  string
	AnchorHash Hash32
}

// Kind is an alias kept distinct from CertKind to read naturally as
// Certificate.Kind in call sites (cert.Kind == txs.CertStakeRegistration).
type Kind = CertKind

// IsRegistration reports whether this certificate registers a new
// deposit-bearing entity (stake key, pool, or DRep).
func (c Certificate) IsRegistration() bool {
	switch c.Kind {
	case CertStakeRegistration, CertPoolRegistration, CertRegDRep:
		return true
	default:
		return false
	}
}

// IsDeregistration reports whether this certificate refunds a
// deposit-bearing entity's deposit.
func (c Certificate) IsDeregistration() bool {
	switch c.Kind {
	case CertStakeDeregistration, CertPoolRetirement, CertUnregDRep:
		return true
	default:
		return false
	}
}

// ProposalProcedure is a single governance-action proposal; each one
// carries its own gov-action deposit.
type ProposalProcedure struct {
	DepositAmount uint64
	ReturnAddress Address
	AnchorURL     string
	AnchorHash    Hash32
}

// VoterKind distinguishes the three Conway voter roles.
type VoterKind uint8

const (
	VoterCommittee VoterKind = iota
	VoterDRep
	VoterPool
)

// VotingProcedure is a single governance vote cast by one voter on one
// governance action.
type VotingProcedure struct {
	Voter      VoterKind
	Credential Credential
	ActionID   Hash32
	ActionIdx  uint32
	Vote       VoteChoice
}

// VoteChoice is a yes/no/abstain ballot.
type VoteChoice uint8

const (
	VoteNo VoteChoice = iota
	VoteYes
	VoteAbstain
)
