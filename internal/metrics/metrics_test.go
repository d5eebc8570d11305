package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.JourneyStarted()
	c.JourneyClosed()
	c.SampleSubmitted("sampler")
	c.SampleRejected("journey_closed")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{
		"fleettrack_journeys_started_total",
		"fleettrack_journeys_closed_total",
		"fleettrack_samples_submitted_total",
		"fleettrack_samples_rejected_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("missing metric %s", name)
		}
	}
}
