// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blaze

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/blazesync/utils/wrappers"
)

const namespace = "blaze"

type metrics struct {
	started, finished, overwritten prometheus.Counter
	syncID, inProgress             prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started",
			Help:      "Number of sync sessions started",
		}),
		finished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished",
			Help:      "Number of sync sessions finished",
		}),
		overwritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_overwritten",
			Help:      "Number of sync sessions replaced before they were finished",
		}),
		syncID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_id",
			Help:      "Identifier of the most recently started sync session",
		}),
		inProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_progress",
			Help:      "1 while a sync session is running, 0 otherwise",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.started),
		registerer.Register(m.finished),
		registerer.Register(m.overwritten),
		registerer.Register(m.syncID),
		registerer.Register(m.inProgress),
	)
	return m, errs.Err
}
