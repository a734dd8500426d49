package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the run metrics in the node_exporter textfile format.
// Runtime collectors are left out since the process is about to exit.
func (r *Registry) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.runGatherer()); err != nil {
		return fmt.Errorf("writing textfile: %w", err)
	}
	return nil
}

// runGatherer gathers only the pairlens_* families.
func (r *Registry) runGatherer() prometheus.Gatherer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		r.runsTotal,
		r.runDuration,
		r.lastSuccess,
		r.trendsClassified,
		r.correlationComputed,
		r.artifactsWritten,
		r.seriesPoints,
		r.commentaryTotal,
		r.notificationsTotal,
	)
	return reg
}
