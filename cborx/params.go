package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/conway-ledger/core/params"
)

// protocolParamsFieldCount is the minimum length of a Conway protocol
// parameter update array this decoder understands; real nodes may send
// additional trailing fields (new governance knobs), which are tolerated
// and ignored.
const protocolParamsFieldCount = 31

// DecodeProtocolParams decodes a Conway-era protocol parameter array.
// Field order follows the ConwayProtocolParams positional encoding:
// minFeeA, minFeeB, maxBlockBodySize, maxTxSize, maxBlockHeaderSize,
// keyDeposit, poolDeposit, maxEpoch, nOpt, poolPledgeInfluence,
// expansionRate, treasuryGrowthRate, protocolMajorVersion,
// protocolMinorVersion, minPoolCost, coinsPerUTxOByte, costModels,
// priceMem, priceSteps, maxTxExUnits, maxBlockExUnits, maxValueSize,
// collateralPercentage, maxCollateralInputs, poolVotingThresholds,
// drepVotingThresholds, minCommitteeSize, committeeTermLimit,
// govActionLifetime, govActionDeposit, drepDeposit, drepActivity,
// minFeeRefScriptCostPerByte.
func DecodeProtocolParams(data []byte) (params.ProtocolParams, error) {
	var raw []cbor.RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		return params.ProtocolParams{}, fmt.Errorf("cborx: decoding protocol params array: %w", err)
	}
	if len(raw) < protocolParamsFieldCount {
		return params.ProtocolParams{}, fmt.Errorf("cborx: protocol params array has %d elements, want at least %d", len(raw), protocolParamsFieldCount)
	}

	var p params.ProtocolParams
	dec := fieldDecoder{raw: raw}

	dec.uint64(&p.FeePerByte, 0)
	dec.uint64(&p.FeeFixed, 1)
	// 2: maxBlockBodySize, 3: maxTxSize is handled specially (int), 4: maxBlockHeaderSize
	dec.int_(&p.MaxTxSize, 3)
	dec.uint64(&p.StakeAddressDeposit, 5)
	dec.uint64(&p.PoolDeposit, 6)
	// 7: maxEpoch, 8: nOpt, 9: poolPledgeInfluence, 10: expansionRate, 11: treasuryGrowthRate
	dec.uint64(&p.ProtocolMajorVersion, 12)
	dec.uint64(&p.ProtocolMinorVersion, 13)
	// 14: minPoolCost
	dec.uint64(&p.CoinsPerUTxOByte, 15)

	costModels, err := decodeCostModels(raw[16])
	if err != nil {
		return params.ProtocolParams{}, fmt.Errorf("cborx: cost models: %w", err)
	}
	p.CostModels = costModels

	var priceMem, priceSteps Rational
	if err := Unmarshal(raw[17], &priceMem); err != nil {
		return params.ProtocolParams{}, fmt.Errorf("cborx: priceMem: %w", err)
	}
	if err := Unmarshal(raw[18], &priceSteps); err != nil {
		return params.ProtocolParams{}, fmt.Errorf("cborx: priceSteps: %w", err)
	}
	p.PriceMemNum, p.PriceMemDen = priceMem.Num, priceMem.Den
	p.PriceStepsNum, p.PriceStepsDen = priceSteps.Num, priceSteps.Den

	maxTxExUnits, err := decodeExUnits(raw[19])
	if err != nil {
		return params.ProtocolParams{}, fmt.Errorf("cborx: maxTxExUnits: %w", err)
	}
	p.MaxTxExecutionUnits = maxTxExUnits
	// 20: maxBlockExUnits

	dec.int_(&p.MaxValueSize, 21)
	dec.uint64(&p.CollateralPercentage, 22)
	dec.int_(&p.MaxCollateralInputs, 23)
	// 24: poolVotingThresholds, 25: drepVotingThresholds, 26: minCommitteeSize, 27: committeeTermLimit

	dec.uint64(&p.GovActionLifetime, 28)
	dec.uint64(&p.GovActionDeposit, 29)
	dec.uint64(&p.DRepDeposit, 30)

	if len(raw) > 31 {
		dec.uint64(&p.DRepActivity, 31)
	}
	if len(raw) > 32 {
		dec.uint64(&p.MinFeeRefScriptCostPerByte, 32)
	}

	if dec.err != nil {
		return params.ProtocolParams{}, dec.err
	}
	return p, nil
}

// fieldDecoder decodes positional array fields, recording the first
// error encountered; once an error is recorded, later fields are
// skipped, so only that first error is reported.
type fieldDecoder struct {
	raw []cbor.RawMessage
	err error
}

func (d *fieldDecoder) uint64(dst *uint64, idx int) {
	if d.err != nil {
		return
	}
	if err := Unmarshal(d.raw[idx], dst); err != nil {
		d.err = fmt.Errorf("cborx: field %d: %w", idx, err)
	}
}

func (d *fieldDecoder) int_(dst *int, idx int) {
	if d.err != nil {
		return
	}
	var v uint64
	if err := Unmarshal(d.raw[idx], &v); err != nil {
		d.err = fmt.Errorf("cborx: field %d: %w", idx, err)
		return
	}
	*dst = int(v)
}

func decodeCostModels(data cbor.RawMessage) (map[string][]int64, error) {
	var raw map[string][]int64
	if err := Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeExUnits(data cbor.RawMessage) (params.ExUnits, error) {
	var pair [2]uint64
	if err := Unmarshal(data, &pair); err != nil {
		return params.ExUnits{}, err
	}
	return params.ExUnits{Memory: pair[0], Steps: pair[1]}, nil
}
