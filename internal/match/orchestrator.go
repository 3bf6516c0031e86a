package match

// orchestrator.go composes resolution, aggregation, classification, and
// range matching into the three operator actions: single-client match,
// all-clients-by-priority match, and availability preview.
//
// All three run sequentially to completion and hold no state between calls;
// the caller owns both input tables and passes them in per request.

import (
	"fmt"
	"log/slog"

	"github.com/roxaf/stockmatch/internal/table"
)

// ManualLabel tags results produced by the single-client action, as opposed
// to the priority-bucket labels used by batch runs.
const ManualLabel = "Manual"

// Result is the outcome of one client x label match: the stocklot rows that
// satisfied the client's tolerance ranges.
type Result struct {
	Client  string
	Label   string // ManualLabel or a Bucket name
	Rows    *table.Table
	Dropped int // requirement rows lost to numeric coercion
}

// FileName is the deterministic export name for this result.
func (r *Result) FileName() string {
	return fmt.Sprintf("%s-ROXAF-%s.xlsx", r.Client, r.Label)
}

// Empty reports whether the match produced no stocklot rows.
func (r *Result) Empty() bool {
	return r.Rows.Empty()
}

// Skip records a client x bucket scope that produced no output during a
// batch run, and why. Skips are reported, never fatal.
type Skip struct {
	Client string `json:"client"`
	Bucket Bucket `json:"bucket"`
	Reason string `json:"reason"`
}

// BatchResult accumulates the outcome of an all-clients-by-priority run.
type BatchResult struct {
	Results []*Result
	Skipped []Skip
}

// PreviewEntry is one line of the availability preview: how many stocklot
// rows a full batch run would export for this client under this bucket.
type PreviewEntry struct {
	Client string `json:"client"`
	Bucket Bucket `json:"bucket"`
	Rows   int    `json:"rows"`
}

// Engine runs match operations with a fixed keyword configuration.
type Engine struct {
	keywords Keywords
	log      *slog.Logger
}

// NewEngine creates an Engine. A nil keyword set falls back to the built-in
// defaults; a nil logger falls back to slog.Default.
func NewEngine(kw Keywords, log *slog.Logger) *Engine {
	if kw == nil {
		kw = DefaultKeywords()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{keywords: kw, log: log}
}

// Keywords returns the engine's keyword configuration.
func (e *Engine) Keywords() Keywords {
	return e.keywords
}

// MatchClient aggregates one client's needs and matches them against the
// stocklot table. An empty Rows table means aggregation succeeded but no
// inventory fell inside the ranges; that is a reportable outcome, not an
// error.
func (e *Engine) MatchClient(inv, reqs *table.Table, client string) (*Result, error) {
	return e.matchLabeled(inv, reqs, client, ManualLabel)
}

func (e *Engine) matchLabeled(inv, reqs *table.Table, client, label string) (*Result, error) {
	agg, err := AggregateNeeds(reqs, client, e.keywords)
	if err != nil {
		return nil, err
	}
	if agg.DroppedRows > 0 {
		e.log.Warn("requirement rows dropped: non-numeric weight or width",
			"client", client,
			"dropped", agg.DroppedRows,
		)
	}

	rows, err := MatchInventory(inv, agg.Ranges, e.keywords)
	if err != nil {
		return nil, err
	}

	return &Result{Client: client, Label: label, Rows: rows, Dropped: agg.DroppedRows}, nil
}

// MatchAllByPriority classifies all requirement rows into urgency buckets,
// then runs a single-client match for every distinct client in each bucket
// (first-seen order). Non-empty results are accumulated; failed or empty
// scopes become Skips.
//
// A client whose priority text lands in more than one bucket (see
// ClassifyByPriority) is matched once per bucket, producing files that
// differ only in label.
func (e *Engine) MatchAllByPriority(inv, reqs *table.Table) (*BatchResult, error) {
	batch := &BatchResult{}
	err := e.forEachBucketClient(inv, reqs, func(client string, bucket Bucket, res *Result, scopeErr error) {
		switch {
		case scopeErr != nil:
			e.log.Warn("client skipped", "client", client, "bucket", bucket, "error", scopeErr)
			batch.Skipped = append(batch.Skipped, Skip{Client: client, Bucket: bucket, Reason: scopeErr.Error()})
		case res.Empty():
			batch.Skipped = append(batch.Skipped, Skip{Client: client, Bucket: bucket, Reason: "no matching stocklot rows"})
		default:
			batch.Results = append(batch.Results, res)
		}
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// PreviewAvailability runs the same traversal as MatchAllByPriority but only
// reports row counts, letting the operator review what a batch run would
// produce before committing to a full export. Scopes that fail resolution
// are omitted, matching the files a real run would (not) produce.
func (e *Engine) PreviewAvailability(inv, reqs *table.Table) ([]PreviewEntry, error) {
	var entries []PreviewEntry
	err := e.forEachBucketClient(inv, reqs, func(client string, bucket Bucket, res *Result, scopeErr error) {
		if scopeErr != nil {
			e.log.Warn("client omitted from preview", "client", client, "bucket", bucket, "error", scopeErr)
			return
		}
		entries = append(entries, PreviewEntry{Client: client, Bucket: bucket, Rows: res.Rows.RowCount()})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// forEachBucketClient drives the shared bucket x client traversal.
// Classification or client-column resolution failure aborts the whole
// operation; per-client failures are handed to visit and the loop continues.
func (e *Engine) forEachBucketClient(inv, reqs *table.Table, visit func(client string, bucket Bucket, res *Result, err error)) error {
	buckets, err := ClassifyByPriority(reqs, e.keywords)
	if err != nil {
		return err
	}

	rm := Resolve(reqs.Columns, e.keywords, RoleClient)
	if err := rm.Require(reqs.Name, RoleClient); err != nil {
		return err
	}

	for _, bucket := range BucketOrder {
		needs := buckets[bucket]
		clientCol := needs.ColumnIndex(rm[RoleClient])
		for _, client := range needs.DistinctValues(clientCol) {
			// Needs are aggregated against the full requirements table, not
			// the bucket slice: the bucket decides who gets processed, the
			// client's complete needs decide the ranges.
			res, err := e.matchLabeled(inv, reqs, client, string(bucket))
			visit(client, bucket, res, err)
		}
	}
	return nil
}
