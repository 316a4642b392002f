// Package metrics holds the run counters exported as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry groups the pipeline metrics. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg               *prometheus.Registry
	APICalls          prometheus.Counter
	RosterRows        prometheus.Counter
	Notices           prometheus.Counter
	QuotaExhausted    prometheus.Gauge
	Entities          prometheus.Gauge
	EntitiesWithEmail prometheus.Gauge
	EntitiesWithPhone prometheus.Gauge
	JoinRows          *prometheus.CounterVec
	RunDuration       *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	apiCalls := prometheus.NewCounter(prometheus.CounterOpts{Name: "samivl_api_calls_total", Help: "Opportunities API requests sent."})
	rosterRows := prometheus.NewCounter(prometheus.CounterOpts{Name: "samivl_roster_rows_total", Help: "Interested-vendor rows written."})
	notices := prometheus.NewCounter(prometheus.CounterOpts{Name: "samivl_notices_total", Help: "Notices written."})
	quota := prometheus.NewGauge(prometheus.GaugeOpts{Name: "samivl_quota_exhausted", Help: "1 when the last harvest stopped on quota."})
	entities := prometheus.NewGauge(prometheus.GaugeOpts{Name: "samivl_entities_total", Help: "Entity rows in the last workbook."})
	withEmail := prometheus.NewGauge(prometheus.GaugeOpts{Name: "samivl_entities_with_email", Help: "Entity rows with at least one email."})
	withPhone := prometheus.NewGauge(prometheus.GaugeOpts{Name: "samivl_entities_with_phone", Help: "Entity rows with at least one phone."})
	joinRows := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "samivl_join_rows_total", Help: "Curated rows by match method."}, []string{"method"})
	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "samivl_run_duration_seconds", Help: "Wall time of the last run per job."}, []string{"job"})

	r.MustRegister(apiCalls, rosterRows, notices, quota, entities, withEmail, withPhone, joinRows, duration)

	return &Registry{
		reg:               r,
		APICalls:          apiCalls,
		RosterRows:        rosterRows,
		Notices:           notices,
		QuotaExhausted:    quota,
		Entities:          entities,
		EntitiesWithEmail: withEmail,
		EntitiesWithPhone: withPhone,
		JoinRows:          joinRows,
		RunDuration:       duration,
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) IncAPICalls() {
	if r != nil {
		r.APICalls.Inc()
	}
}

func (r *Registry) AddRosterRows(n int) {
	if r != nil {
		r.RosterRows.Add(float64(n))
	}
}

func (r *Registry) IncNotices() {
	if r != nil {
		r.Notices.Inc()
	}
}

func (r *Registry) SetQuotaExhausted(hit bool) {
	if r == nil {
		return
	}

	if hit {
		r.QuotaExhausted.Set(1)
	} else {
		r.QuotaExhausted.Set(0)
	}
}

func (r *Registry) SetEntities(total, withEmail, withPhone int) {
	if r == nil {
		return
	}

	r.Entities.Set(float64(total))
	r.EntitiesWithEmail.Set(float64(withEmail))
	r.EntitiesWithPhone.Set(float64(withPhone))
}

func (r *Registry) AddJoinRows(method string, n int) {
	if r != nil {
		r.JoinRows.WithLabelValues(method).Add(float64(n))
	}
}

func (r *Registry) ObserveRun(job string, d time.Duration) {
	if r != nil {
		r.RunDuration.WithLabelValues(job).Set(d.Seconds())
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
// An empty path is a no-op.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
