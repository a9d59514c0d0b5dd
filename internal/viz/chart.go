package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/decsim/decsim/internal/gravity"
	"github.com/decsim/decsim/internal/metrics"
)

// EnergyChart plots total energy over a stored run.
func EnergyChart(history []gravity.Snapshot, width, height int) string {
	series := metrics.EnergySeries(history)
	if len(series) < 2 {
		return "not enough snapshots to plot"
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("total energy"))
}

// DriftChart plots relative energy drift against the first snapshot.
func DriftChart(history []gravity.Snapshot, width, height int) string {
	series := metrics.DriftSeries(history)
	if len(series) < 2 {
		return "not enough snapshots to plot"
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("relative energy drift"))
}
