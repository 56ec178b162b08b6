package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectorsAndRecordsObservations(t *testing.T) {
	r := require.New(t)

	reg := prometheus.NewRegistry()
	m, err := New("ledgercheck", reg)
	r.NoError(err)

	m.IncAccepted()
	m.IncRejected("ValueNotConservedUTxO")
	m.ObserveValidationDuration(5 * time.Millisecond)
	m.ObserveMinFeeIterations(2)
	m.ObserveTxSize(512)

	families, err := reg.Gather()
	r.NoError(err)
	r.NotEmpty(families)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	r.True(names["ledgercheck_tx_accepted"])
	r.True(names["ledgercheck_tx_rejected"])
	r.True(names["ledgercheck_validation_duration_seconds"])
	r.True(names["ledgercheck_min_fee_iterations"])
	r.True(names["ledgercheck_tx_size_bytes"])
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	r := require.New(t)

	reg := prometheus.NewRegistry()
	_, err := New("ledgercheck", reg)
	r.NoError(err)

	_, err = New("ledgercheck", reg)
	r.Error(err)
}

func TestNoopSatisfiesMetrics(t *testing.T) {
	var m Metrics = Noop{}
	m.IncAccepted()
	m.IncRejected("x")
	m.ObserveValidationDuration(time.Second)
	m.ObserveMinFeeIterations(1)
	m.ObserveTxSize(1)
}
