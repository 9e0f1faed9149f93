package httpcap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burpxml_http_messages_total",
			Help: "Total number of HTTP messages reconstructed from capture streams",
		},
		[]string{"kind"},
	)

	messagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burpxml_http_messages_dropped_total",
			Help: "Messages with a located start that could not be completed before end of input",
		},
	)

	bytesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burpxml_http_bytes_consumed_total",
			Help: "Raw capture bytes read by message scanners",
		},
	)

	bufferCompactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burpxml_buffer_compactions_total",
			Help: "Window compactions performed on input with no locatable message start",
		},
	)

	itemsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burpxml_http_items_total",
			Help: "Emitted request/response items by pairing outcome",
		},
		[]string{"pairing"},
	)
)
