// Package metrics collects and exposes Prometheus metrics for the API and
// the journey samplers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and samplers use to record events.
type Recorder interface {
	JourneyStarted()
	JourneyClosed()
	SampleSubmitted(source string)
	SampleRejected(reason string)
}

// Collector implements Recorder on a Prometheus registry.
type Collector struct {
	journeysStarted  prometheus.Counter
	journeysClosed   prometheus.Counter
	samplesSubmitted *prometheus.CounterVec
	samplesRejected  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		journeysStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleettrack_journeys_started_total",
			Help: "Journeys opened.",
		}),
		journeysClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleettrack_journeys_closed_total",
			Help: "Journeys closed.",
		}),
		samplesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleettrack_samples_submitted_total",
			Help: "Coordinate samples accepted, by source (api or sampler).",
		}, []string{"source"}),
		samplesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleettrack_samples_rejected_total",
			Help: "Coordinate samples rejected, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(c.journeysStarted, c.journeysClosed, c.samplesSubmitted, c.samplesRejected)
	return c
}

func (c *Collector) JourneyStarted() { c.journeysStarted.Inc() }
func (c *Collector) JourneyClosed()  { c.journeysClosed.Inc() }

func (c *Collector) SampleSubmitted(source string) {
	c.samplesSubmitted.WithLabelValues(source).Inc()
}

func (c *Collector) SampleRejected(reason string) {
	c.samplesRejected.WithLabelValues(reason).Inc()
}

// Handler returns the scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
