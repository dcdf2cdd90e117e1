package scanner

// Aggregator accumulates per-extension totals as the walk proceeds. It is
// purely additive: counts only increase, and accumulation is associative and
// commutative, so the order results arrive from the worker pool cannot affect
// the final totals.
//
// The aggregator is not synchronized. All records flow through the single
// point that drains the worker pool.
type Aggregator struct {
	extensions map[ExtensionKey]ExtensionStats
	totalFiles int64
	totalLines int64
}

// NewAggregator creates an empty aggregator scoped to one run.
func NewAggregator() *Aggregator {
	return &Aggregator{
		extensions: make(map[ExtensionKey]ExtensionStats),
	}
}

// Record folds one file into the aggregate, creating the extension entry on
// first sight.
func (a *Aggregator) Record(rec FileRecord) {
	stats := a.extensions[rec.Ext]
	stats.Files++
	stats.Lines += rec.Lines
	a.extensions[rec.Ext] = stats

	a.totalFiles++
	a.totalLines += rec.Lines
}

// Snapshot returns the current mapping plus the computed grand totals as an
// independent copy.
func (a *Aggregator) Snapshot() RunResult {
	extensions := make(map[ExtensionKey]ExtensionStats, len(a.extensions))
	for key, stats := range a.extensions {
		extensions[key] = stats
	}

	return RunResult{
		Extensions: extensions,
		TotalFiles: a.totalFiles,
		TotalLines: a.totalLines,
	}
}
