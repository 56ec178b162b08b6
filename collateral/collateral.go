// Package collateral implements the collateral extraction and
// percentage-sufficiency check of spec.md §4.6.1.
package collateral

import (
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

// Totals is the resolved collateral picture for one transaction.
type Totals struct {
	TotalCoin   uint64
	TotalAssets value.MultiAsset
	AnyScriptAddress bool
}

// Resolve sums the value of every collateral input, failing with
// ok=false (and a zero-value Totals) if any collateral input is not in
// the UTXO set.
func Resolve(utxo *state.UTxOState, collateralIns []txs.TransactionInput) (Totals, bool) {
	var totals Totals
	for _, in := range collateralIns {
		out, ok := utxo.Utxos.Get(in)
		if !ok {
			return Totals{}, false
		}
		if out.Address.IsScript() {
			totals.AnyScriptAddress = true
		}
		totals.TotalCoin += uint64(out.Value.Coin)
		totals.TotalAssets = totals.TotalAssets.Add(out.Value.Assets)
	}
	return totals, true
}

// Required returns ceil(fee * collateralPercentage / 100), per spec.md
// §4.6.1.
func Required(fee uint64, collateralPercentage uint64) uint64 {
	numerator := fee * collateralPercentage
	return (numerator + 99) / 100
}

// Sufficient reports whether (collateralTotal - collateralReturn).coin
// covers Required(fee, collateralPercentage), and that the net
// collateral is pure ada (no native assets), per the FeesOK sub-checks
// in spec.md §4.6.1.
func Sufficient(totals Totals, collateralReturn *txs.TransactionOutput, fee uint64, collateralPercentage uint64) (netCoin uint64, pureAda bool, ok bool) {
	returnCoin := uint64(0)
	returnAssets := value.Empty()
	if collateralReturn != nil {
		returnCoin = uint64(collateralReturn.Value.Coin)
		returnAssets = collateralReturn.Value.Assets
	}

	if returnCoin > totals.TotalCoin {
		return 0, false, false
	}
	netCoin = totals.TotalCoin - returnCoin
	netAssets := totals.TotalAssets.Sub(returnAssets)
	pureAda = netAssets.IsEmpty()

	required := Required(fee, collateralPercentage)
	ok = netCoin >= required && pureAda
	return netCoin, pureAda, ok
}
