package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	votesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibepulse_votes_accepted_total",
		Help: "Votes durably logged and counted.",
	})
	votesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibepulse_votes_rejected_total",
		Help: "Vote submissions rejected, by error code.",
	}, []string{"code"})
	pollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibepulse_polls_created_total",
		Help: "Polls created.",
	})
)
