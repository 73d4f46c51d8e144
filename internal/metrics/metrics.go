// Package metrics exposes Prometheus counters for the push pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_users_created_total",
		Help: "Number of users registered.",
	})

	SubscriptionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "push_subscriptions_created_total",
		Help: "Number of push subscriptions stored.",
	})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_deliveries_total",
		Help: "Push delivery attempts by result.",
	}, []string{"result"})
)
