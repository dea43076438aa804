// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nullifier

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/blazesync/utils/wrappers"
)

const namespace = "nullifier"

type metrics struct {
	observed, flushed prometheus.Counter
	pending           prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		observed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observed",
			Help:      "Number of spent nullifiers observed while scanning",
		}),
		flushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushed",
			Help:      "Number of spent nullifiers written to the database",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending",
			Help:      "Number of observed nullifiers waiting for the session to finish",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.observed),
		registerer.Register(m.flushed),
		registerer.Register(m.pending),
	)
	return m, errs.Err
}
