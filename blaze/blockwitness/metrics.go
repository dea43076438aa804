// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockwitness

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/blazesync/utils/wrappers"
)

const namespace = "blockwitness"

type metrics struct {
	fetched, duplicates prometheus.Counter
	existing, known     prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		fetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetched",
			Help:      "Number of blocks added by workers",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates",
			Help:      "Number of blocks added for a height that was already known",
		}),
		existing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "existing",
			Help:      "Number of blocks handed over when the current session was set up",
		}),
		known: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "known",
			Help:      "Number of heights of the current session that are known",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.fetched),
		registerer.Register(m.duplicates),
		registerer.Register(m.existing),
		registerer.Register(m.known),
	)
	return m, errs.Err
}
