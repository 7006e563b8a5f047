package diamond

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuance_host_transactions_total",
		Help: "Transactions executed by the host, by outcome.",
	}, []string{"outcome"})

	cutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuance_diamond_cuts_total",
		Help: "Committed selector changes, by action.",
	}, []string{"action"})
)

// observeLog updates collectors from a committed log.
func observeLog(l Log) {
	switch l.Name {
	case "FacetAdded":
		cutsTotal.WithLabelValues(Add.String()).Inc()
	case "FacetReplaced":
		cutsTotal.WithLabelValues(Replace.String()).Inc()
	case "FacetRemoved":
		cutsTotal.WithLabelValues(Remove.String()).Inc()
	}
}
