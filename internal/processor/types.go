package processor

import (
	"time"

	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/translation"
)

// Options selects what a population run covers.
type Options struct {
	// Translations to populate; empty means all.
	Translations []translation.Code
	// Books restricts the run to these books; empty means the whole canon.
	Books []string
	// PriorityOnly limits the run to authored and priority references.
	PriorityOnly bool
}

// Report summarizes a population or fix run.
type Report struct {
	Total     int                // records planned
	Generated int                // records produced by the provider
	Written   int                // records upserted
	Failed    int                // records that could not be generated or written
	Failures  []database.Failure // first MaxErrorsToCollect failures
	Batches   int
	Fallbacks int // batches retried per record
	Upgraded  int // placeholder rows replaced by authored text (fix only)
	Duration  time.Duration
}

func (r *Report) addFailure(f database.Failure) {
	r.Failed++
	if len(r.Failures) < MaxErrorsToCollect {
		r.Failures = append(r.Failures, f)
	}
}

func (r *Report) addBatch(res *database.BatchResult) {
	r.Batches++
	r.Written += res.Written
	r.Fallbacks += res.FallbackCount
	for _, f := range res.Failures {
		r.addFailure(f)
	}
}
