// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validate

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conway-ledger/core/cborx"
	"github.com/conway-ledger/core/logging"
	"github.com/conway-ledger/core/metrics"
	"github.com/conway-ledger/core/minada"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/plutus"
	"github.com/conway-ledger/core/rules"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

// Command builds the "validate" subcommand: decode a transaction and a
// UTXO snapshot, run it through the rules pipeline, and report the
// outcome.
func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "validate",
		Short: "Validates a transaction against a UTXO set and protocol parameters",
		RunE:  run,
	}
	AddFlags(c.Flags())
	return c
}

func run(cmd *cobra.Command, _ []string) error {
	if err := bindViper(cmd.Flags()); err != nil {
		return fmt.Errorf("validate: binding environment overrides: %w", err)
	}
	cfg, err := ParseFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.TxPath == "" || cfg.UtxoPath == "" || cfg.ParamsPath == "" {
		return fmt.Errorf("validate: --%s, --%s and --%s are required", TxKey, UtxoKey, ParamsKey)
	}

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("validate: building logger: %w", err)
	}
	defer log.Sync()

	txBytes, err := os.ReadFile(cfg.TxPath)
	if err != nil {
		return fmt.Errorf("validate: reading %s: %w", cfg.TxPath, err)
	}
	utxoBytes, err := os.ReadFile(cfg.UtxoPath)
	if err != nil {
		return fmt.Errorf("validate: reading %s: %w", cfg.UtxoPath, err)
	}
	paramBytes, err := os.ReadFile(cfg.ParamsPath)
	if err != nil {
		return fmt.Errorf("validate: reading %s: %w", cfg.ParamsPath, err)
	}

	tx, err := cborx.DecodeTransaction(txBytes)
	if err != nil {
		log.Error("decoding transaction failed", zap.String("path", cfg.TxPath), zap.Error(err))
		return fmt.Errorf("validate: decoding transaction: %w", err)
	}
	utxoSet, err := cborx.DecodeUtxoSet(utxoBytes)
	if err != nil {
		log.Error("decoding utxo set failed", zap.String("path", cfg.UtxoPath), zap.Error(err))
		return fmt.Errorf("validate: decoding utxo set: %w", err)
	}
	protocolParams, err := cborx.DecodeProtocolParams(paramBytes)
	if err != nil {
		log.Error("decoding protocol params failed", zap.String("path", cfg.ParamsPath), zap.Error(err))
		return fmt.Errorf("validate: decoding protocol params: %w", err)
	}
	log.Info("decoded inputs", zap.Int("utxo_count", len(utxoSet)), zap.Int("input_count", len(tx.Body.Inputs)))

	env := params.Environment{
		Slot:    cfg.Slot,
		Params:  protocolParams,
		Network: params.NetworkId(cfg.Network),
	}
	st := state.NewState()
	st.UTxO.Utxos = state.NewMapUtxosFrom(utxoSet)

	deps, err := buildDeps(tx, utxoSet, protocolParams, cfg)
	if err != nil {
		return err
	}

	runErr := rules.Run(env, st, tx, deps)
	if runErr == nil {
		log.Info("transaction accepted", zap.Stringer("txid", tx.Id()))
		fmt.Fprintln(cmd.OutOrStdout(), "ACCEPTED")
		return nil
	}
	log.Warn("transaction rejected", zap.Stringer("txid", tx.Id()), zap.Error(runErr))

	fmt.Fprintln(cmd.OutOrStdout(), "REJECTED")
	failures, ok := runErr.(rules.Errors)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", runErr)
		return nil
	}
	if !cfg.Verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s (+%d more)\n", failures[0], len(failures)-1)
		return nil
	}
	for _, f := range failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", f.Code(), f)
	}
	return nil
}

// buildDeps assembles rules.Deps from the decoded transaction/UTXO set,
// the one place allowed to import both cborx and rules (spec.md §6's
// boundary keeps rules itself free of any CBOR dependency).
func buildDeps(tx *txs.Transaction, utxoSet map[txs.TransactionInput]txs.TransactionOutput, p params.ProtocolParams, cfg *Config) (rules.Deps, error) {
	resolved := make(map[txs.TransactionInput]txs.TransactionOutput, len(tx.Body.Inputs)+len(tx.Body.Collateral)+len(tx.Body.ReferenceInputs))
	for _, in := range tx.Body.Inputs {
		if out, ok := utxoSet[in]; ok {
			resolved[in] = out
		}
	}
	for _, in := range tx.Body.Collateral {
		if out, ok := utxoSet[in]; ok {
			resolved[in] = out
		}
	}
	for _, in := range tx.Body.ReferenceInputs {
		if out, ok := utxoSet[in]; ok {
			resolved[in] = out
		}
	}

	coinEncoders := make(map[int]minada.SizeEncoder, len(tx.Body.Outputs))
	outputValueSizes := make(map[int]int, len(tx.Body.Outputs))
	for i, out := range tx.Body.Outputs {
		coinEncoders[i] = cborx.NewCoinEncoder(out)
		encoded, err := cborx.EncodeValue(out.Value)
		if err != nil {
			return rules.Deps{}, fmt.Errorf("validate: encoding output %d value: %w", i, err)
		}
		outputValueSizes[i] = len(encoded)
	}

	var scriptDataHash *txs.Hash32
	if len(tx.Witnesses.Redeemers) > 0 || len(tx.Witnesses.Datums) > 0 {
		used := tx.Witnesses.Languages()
		costModels := make(map[string][]int64, len(used))
		for _, lang := range used {
			costModels[lang] = p.CostModels[lang]
		}
		hash, err := cborx.ComputeScriptDataHash(tx.Witnesses, costModels)
		if err != nil {
			return rules.Deps{}, fmt.Errorf("validate: computing script data hash: %w", err)
		}
		scriptDataHash = &hash
	}

	var m metrics.Metrics
	if cfg.MetricsAddr != "" {
		built, err := metrics.New("ledgercheck", prometheus.DefaultRegisterer)
		if err != nil {
			return rules.Deps{}, fmt.Errorf("validate: registering metrics: %w", err)
		}
		m = built
		go serveMetrics(cfg.MetricsAddr)
	}

	return rules.Deps{
		FeeEncoder:       cborx.NewFeeEncoder(tx.Body),
		CoinEncoders:     coinEncoders,
		ScriptDataHash:   scriptDataHash,
		OutputValueSizes: outputValueSizes,
		Evaluator:        plutus.NoopEvaluator{},
		ResolvedInputs:   resolved,
		Metrics:          m,
	}, nil
}

// serveMetrics runs a Prometheus scrape endpoint for the lifetime of the
// process; a failure here is logged, not fatal, since --metrics-addr is
// an optional observability aid rather than part of validate's contract.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "ledgercheck: metrics server: %v\n", err)
	}
}
