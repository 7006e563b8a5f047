package sale

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/diamond"
	"github.com/bitfsorg/libissuance-go/units"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuance_sale_events_total",
		Help: "Committed sale engine events, by event name.",
	}, []string{"event"})

	volumeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuance_sale_volume_units_total",
		Help: "Native value moved by committed sale events, in whole units.",
	}, []string{"event"})
)

// volumeAttr names the value attribute counted for each event.
var volumeAttr = map[string]string{
	"BondsPurchased":    "amount",
	"WarrantsPurchased": "amount",
	"BondsRedeemed":     "payout",
	"WarrantsExercised": "payment",
	"RedemptionFunded":  "amount",
}

// ObserveMetrics feeds the collectors from logs emitted by the sale diamond.
// Only committed transactions reach them.
func ObserveMetrics(h *diamond.Host, sale account.Address) {
	h.Subscribe(func(l diamond.Log) {
		if l.Emitter != sale {
			return
		}
		attr, ok := volumeAttr[l.Name]
		if !ok {
			return
		}
		eventsTotal.WithLabelValues(l.Name).Inc()
		if v, ok := l.Uint(attr); ok {
			volumeTotal.WithLabelValues(l.Name).Add(float64(v) / float64(units.One))
		}
	})
}
