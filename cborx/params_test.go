package cborx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeProtocolParamsPositionalArray(t *testing.T) {
	r := require.New(t)

	fields := make([]any, 33)
	fields[0] = uint64(44)                     // minFeeA
	fields[1] = uint64(155381)                  // minFeeB
	fields[2] = uint64(90112)                   // maxBlockBodySize
	fields[3] = uint64(16384)                   // maxTxSize
	fields[4] = uint64(1100)                    // maxBlockHeaderSize
	fields[5] = uint64(2_000_000)               // keyDeposit
	fields[6] = uint64(500_000_000)             // poolDeposit
	fields[7] = uint64(18)                      // maxEpoch
	fields[8] = uint64(500)                     // nOpt
	fields[9] = Rational{Num: 3, Den: 10}
	fields[10] = Rational{Num: 3, Den: 1000}
	fields[11] = Rational{Num: 1, Den: 5}
	fields[12] = uint64(10) // protocolMajorVersion
	fields[13] = uint64(0)  // protocolMinorVersion
	fields[14] = uint64(340_000_000)
	fields[15] = uint64(4310) // coinsPerUTxOByte
	fields[16] = map[string][]int64{"PlutusV2": {1, 2, 3}}
	fields[17] = Rational{Num: 577, Den: 10000}
	fields[18] = Rational{Num: 721, Den: 10_000_000}
	fields[19] = [2]uint64{14_000_000, 10_000_000_000}
	fields[20] = [2]uint64{62_000_000, 20_000_000_000}
	fields[21] = uint64(5000) // maxValueSize
	fields[22] = uint64(150)  // collateralPercentage
	fields[23] = uint64(3)    // maxCollateralInputs
	fields[24] = map[string]any{}
	fields[25] = map[string]any{}
	fields[26] = uint64(7)
	fields[27] = uint64(146)
	fields[28] = uint64(180) // govActionLifetime
	fields[29] = uint64(100_000_000_000) // govActionDeposit
	fields[30] = uint64(500_000_000)     // drepDeposit
	fields[31] = uint64(100)             // drepActivity
	fields[32] = uint64(15)              // minFeeRefScriptCostPerByte

	data, err := Marshal(fields)
	r.NoError(err)

	got, err := DecodeProtocolParams(data)
	r.NoError(err)
	r.Equal(uint64(44), got.FeePerByte)
	r.Equal(uint64(155381), got.FeeFixed)
	r.Equal(16384, got.MaxTxSize)
	r.Equal(uint64(2_000_000), got.StakeAddressDeposit)
	r.Equal(uint64(4310), got.CoinsPerUTxOByte)
	r.Equal([]int64{1, 2, 3}, got.CostModels["PlutusV2"])
	r.Equal(int64(577), got.PriceMemNum)
	r.Equal(int64(10000), got.PriceMemDen)
	r.Equal(uint64(14_000_000), got.MaxTxExecutionUnits.Memory)
	r.Equal(uint64(100_000_000_000), got.GovActionDeposit)
	r.Equal(uint64(500_000_000), got.DRepDeposit)
	r.Equal(uint64(100), got.DRepActivity)
	r.Equal(uint64(15), got.MinFeeRefScriptCostPerByte)
}
