package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shareCreates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_share_creates_total",
		Help: "Number of share links created.",
	})

	shareConsumes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipshare_share_consumes_total",
		Help: "Share access attempts by gate verdict.",
	}, []string{"verdict"})
)
