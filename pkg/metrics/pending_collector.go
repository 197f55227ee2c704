package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const collectTimeout = 5 * time.Second

// pendingPreviewsCollector reports the size of the review queue at scrape time.
type pendingPreviewsCollector struct {
	store        store.Store
	totalPending *prometheus.Desc
	pendingByTbl *prometheus.Desc
}

func newPendingPreviewsCollector(s store.Store) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_queue_%s", esgReview, name)
	}

	return &pendingPreviewsCollector{
		store: s,
		totalPending: prometheus.NewDesc(
			fqName("pending_total"),
			"Total number of previews waiting for review.",
			nil,
			prometheus.Labels{},
		),
		pendingByTbl: prometheus.NewDesc(
			fqName("pending_by_target_table"),
			"Previews waiting for review by target table.",
			[]string{targetTableLabel},
			prometheus.Labels{},
		),
	}
}

// RegisterPendingPreviewsCollector exposes the queue size gauges of s.
func RegisterPendingPreviewsCollector(s store.Store) {
	prometheus.MustRegister(newPendingPreviewsCollector(s))
}

func (c *pendingPreviewsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalPending
	ch <- c.pendingByTbl
}

// Collect implements Collector.
func (c *pendingPreviewsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.store.Preview().CountByTargetTable(ctx, model.PreviewStatusPending)
	if err != nil {
		zap.S().Named("pending_collector").Errorf("failed to count pending previews: %s", err)
		return
	}

	var total int64
	for table, n := range counts {
		total += n
		ch <- prometheus.MustNewConstMetric(c.pendingByTbl, prometheus.GaugeValue, float64(n), table)
	}
	ch <- prometheus.MustNewConstMetric(c.totalPending, prometheus.GaugeValue, float64(total))
}
