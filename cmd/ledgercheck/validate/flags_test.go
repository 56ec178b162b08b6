package validate

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	r := require.New(t)

	flags := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	AddFlags(flags)
	r.NoError(flags.Parse([]string{"--tx", "tx.cbor", "--utxo", "utxo.cbor", "--params", "params.cbor", "--slot", "42"}))

	cfg, err := ParseFlags(flags)
	r.NoError(err)
	r.Equal("tx.cbor", cfg.TxPath)
	r.Equal("utxo.cbor", cfg.UtxoPath)
	r.Equal("params.cbor", cfg.ParamsPath)
	r.Equal(uint64(42), cfg.Slot)
	r.False(cfg.Verbose)
}

func TestBindViperLeavesExplicitFlagsUntouched(t *testing.T) {
	r := require.New(t)

	t.Setenv("LEDGERCHECK_NETWORK", "1")

	flags := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	AddFlags(flags)
	r.NoError(flags.Parse([]string{"--network", "0"}))

	r.NoError(bindViper(flags))

	cfg, err := ParseFlags(flags)
	r.NoError(err)
	r.Equal(uint8(0), cfg.Network, "an explicitly passed flag must not be overridden by the environment")
}

func TestBindViperFillsUnsetFlagsFromEnvironment(t *testing.T) {
	r := require.New(t)

	t.Setenv("LEDGERCHECK_SLOT", "99")

	flags := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	AddFlags(flags)
	r.NoError(flags.Parse(nil))

	r.NoError(bindViper(flags))

	cfg, err := ParseFlags(flags)
	r.NoError(err)
	r.Equal(uint64(99), cfg.Slot)
}
