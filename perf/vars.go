package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	RoundLatency     = metric.NewHistogram("1m1s")
	MessagesPerRound = metric.NewHistogram("1m1s")
	ChangesPerRound  = metric.NewHistogram("1m1s")
	Rounds           = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("dvsim:RoundLatency (µs)", RoundLatency)
	expvar.Publish("dvsim:MessagesPerRound", MessagesPerRound)
	expvar.Publish("dvsim:ChangesPerRound", ChangesPerRound)
	expvar.Publish("dvsim:Rounds/s", Rounds)
}
