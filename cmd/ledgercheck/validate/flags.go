package validate

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TxKey        = "tx"
	UtxoKey      = "utxo"
	ParamsKey    = "params"
	SlotKey      = "slot"
	NetworkKey   = "network"
	MetricsKey   = "metrics-addr"
	VerboseKey   = "verbose"
)

// envPrefix is the prefix bindViper exposes every flag under, e.g. --slot
// can also be set via LEDGERCHECK_SLOT, the same flags-plus-environment
// overlay the teacher's config.BuildViper gives the node daemon.
const envPrefix = "LEDGERCHECK"

func AddFlags(flags *pflag.FlagSet) {
	flags.String(TxKey, "", "path to a canonical-CBOR-encoded transaction")
	flags.String(UtxoKey, "", "path to a canonical-CBOR-encoded UTXO set snapshot")
	flags.String(ParamsKey, "", "path to a canonical-CBOR-encoded protocol parameter update")
	flags.Uint64(SlotKey, 0, "current slot, for the validity-interval check")
	flags.Uint8(NetworkKey, 0, "expected network id (0 = testnet, 1 = mainnet)")
	flags.String(MetricsKey, "", "address to serve Prometheus metrics on (empty disables metrics)")
	flags.Bool(VerboseKey, false, "print every accumulated rule failure, not just the first")
}

// bindViper overlays flags with LEDGERCHECK_-prefixed environment
// variables: any flag left at its default is filled in from the
// environment before ParseFlags reads it, so scripted validation runs
// don't need to repeat --params/--network on every invocation.
func bindViper(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	for _, key := range []string{TxKey, UtxoKey, ParamsKey, SlotKey, NetworkKey, MetricsKey, VerboseKey} {
		if flags.Changed(key) {
			continue
		}
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := f.Value.Set(v.GetString(key)); err != nil {
			// The environment variable is unset or not parseable as this
			// flag's type; leave the flag's default value in place.
			continue
		}
	}
	return nil
}

// Config is the parsed form of the validate command's flags.
type Config struct {
	TxPath      string
	UtxoPath    string
	ParamsPath  string
	Slot        uint64
	Network     uint8
	MetricsAddr string
	Verbose     bool
}

func ParseFlags(flags *pflag.FlagSet) (*Config, error) {
	tx, err := flags.GetString(TxKey)
	if err != nil {
		return nil, err
	}
	utxo, err := flags.GetString(UtxoKey)
	if err != nil {
		return nil, err
	}
	params, err := flags.GetString(ParamsKey)
	if err != nil {
		return nil, err
	}
	slot, err := flags.GetUint64(SlotKey)
	if err != nil {
		return nil, err
	}
	network, err := flags.GetUint8(NetworkKey)
	if err != nil {
		return nil, err
	}
	metricsAddr, err := flags.GetString(MetricsKey)
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool(VerboseKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		TxPath:      tx,
		UtxoPath:    utxo,
		ParamsPath:  params,
		Slot:        slot,
		Network:     network,
		MetricsAddr: metricsAddr,
		Verbose:     verbose,
	}, nil
}
