// Package logging builds the structured zap.Logger ledgercheck threads
// through a validation run, following the teacher's convention of
// logging structured zap.Field values (zap.String, zap.Error, ...)
// rather than formatted strings (see e.g. vms/platformvm/vm.go's
// chainCtx.Log.Info("using VM execution config", zap.Reflect(...))).
package logging

import "go.uber.org/zap"

// New builds a zap.Logger: development encoding (human-readable, caller
// line numbers) when verbose is set, production JSON encoding otherwise,
// so piping ledgercheck's logs into a log aggregator stays the default.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
