package processor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/logger"
)

// Fix upserts every authored verse in the seed, replacing placeholder rows in
// place. Only Translations and Books of opts are honoured.
// Report.Upgraded counts rows that changed from placeholder to authentic.
func (p *Processor) Fix(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	c := p.provider.Canon()

	wantTr := make(map[string]bool, len(opts.Translations))
	for _, tr := range opts.Translations {
		wantTr[string(tr)] = true
	}
	wantBook := make(map[string]bool, len(opts.Books))
	for _, name := range opts.Books {
		b, err := c.Book(name)
		if err != nil {
			return nil, err
		}
		wantBook[b.Name] = true
	}

	var (
		records    []*database.VerseRecord
		references []string
		seenRef    = make(map[string]bool)
	)
	report := &Report{}

	for _, av := range p.provider.Authored() {
		if len(wantTr) > 0 && !wantTr[string(av.Translation)] {
			continue
		}
		if len(wantBook) > 0 && !wantBook[av.Reference.Book] {
			continue
		}

		rec, err := p.provider.Build(av.Reference, av.Translation)
		if err != nil {
			report.addFailure(database.Failure{Reference: av.Reference.String(), Translation: string(av.Translation), Err: err})
			continue
		}
		records = append(records, rec)
		if ref := rec.Reference; !seenRef[ref] {
			seenRef[ref] = true
			references = append(references, ref)
		}
	}
	report.Total = len(records) + report.Failed
	report.Generated = len(records)

	placeholders, err := p.repo.PlaceholderKeys(ctx, references)
	if err != nil {
		return report, fmt.Errorf("failed to load placeholder rows: %w", err)
	}

	logger.Info("Fixing authored verses",
		zap.Int("records", len(records)),
		zap.Int("placeholders", len(placeholders)),
	)

	failed := make(map[string]bool)
	for i := 0; i < len(records); i += p.batchSize {
		batch := records[i:min(i+p.batchSize, len(records))]
		res, err := p.repo.UpsertVerses(ctx, batch)
		if res != nil {
			report.addBatch(res)
			for _, f := range res.Failures {
				failed[database.VerseKey(f.Reference, f.Translation)] = true
			}
		}
		if err != nil {
			report.Duration = time.Since(start)
			return report, fmt.Errorf("failed to upsert batch of %d verses: %w", len(batch), err)
		}
	}

	for _, rec := range records {
		if key := rec.Key(); placeholders[key] && !failed[key] {
			report.Upgraded++
		}
	}
	report.Duration = time.Since(start)

	logSummary("Fix finished", report)
	return report, nil
}
