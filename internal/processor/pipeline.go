package processor

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/logger"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/translation"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100 // Maximum number of failures kept in a Report
	SampleErrorCount   = 5   // Number of sample failures to log
)

// getOptimalConfig returns optimal configuration based on system resources
func getOptimalConfig() (workBuffer, resultBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	// Low-end (CI): 2 cores  → conservative settings
	// Mid-range:    4-8 cores → balanced settings
	// High-end:     10+ cores → aggressive settings
	switch {
	case cpuCount <= 2:
		return 50, 1000, 200, 50, 300
	case cpuCount <= 4:
		return 75, 2000, 300, 100, 500
	case cpuCount <= 8:
		return 100, 3000, 400, 150, 700
	default:
		return 300, 5000, 500, 200, 1000
	}
}

// Processor populates the verse store from a Provider.
//
// Record generation runs on a worker pool; all writes go through a single
// batch inserter so the database sees one writer at a time.
type Processor struct {
	repo         database.RepositoryInterface
	provider     *provider.Provider
	workers      int
	batchSize    int // Base batch size for database insertion
	minBatchSize int // Minimum batch size (for high pressure)
	maxBatchSize int // Maximum batch size (for low pressure)
	workBuffer   int
	resultBuffer int
	progress     bool
}

// NewProcessor creates a new processor
func NewProcessor(repo database.RepositoryInterface, prov *provider.Provider, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	workBuffer, resultBuffer, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	return &Processor{
		repo:         repo,
		provider:     prov,
		workers:      workers,
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
		workBuffer:   workBuffer,
		resultBuffer: resultBuffer,
	}
}

// SetBatchSize sets the base batch size. The adaptive bounds are widened to
// include it.
func (p *Processor) SetBatchSize(size int) {
	if size <= 0 {
		return
	}
	p.batchSize = size
	p.minBatchSize = min(p.minBatchSize, size)
	p.maxBatchSize = max(p.maxBatchSize, size)
}

// SetProgress enables terminal progress bars.
func (p *Processor) SetProgress(enabled bool) {
	p.progress = enabled
}

// source enumerates the references of a run.
type source struct {
	total int
	each  func(fn func(canon.Reference) error) error
}

func (p *Processor) buildSource(opts Options) (*source, error) {
	c := p.provider.Canon()

	if opts.PriorityOnly {
		refs := p.provider.PriorityReferences()
		if len(opts.Books) > 0 {
			keep := make(map[string]bool, len(opts.Books))
			for _, name := range opts.Books {
				b, err := c.Book(name)
				if err != nil {
					return nil, err
				}
				keep[b.Name] = true
			}
			filtered := refs[:0]
			for _, ref := range refs {
				if keep[ref.Book] {
					filtered = append(filtered, ref)
				}
			}
			refs = filtered
		}
		return &source{
			total: len(refs),
			each: func(fn func(canon.Reference) error) error {
				for _, ref := range refs {
					if err := fn(ref); err != nil {
						return err
					}
				}
				return nil
			},
		}, nil
	}

	sub, err := c.Subset(opts.Books)
	if err != nil {
		return nil, err
	}
	return &source{
		total: sub.TotalVerses(),
		each: func(fn func(canon.Reference) error) error {
			return sub.Walk(func(b canon.Book, chapter, verse int) error {
				return fn(canon.Reference{Book: b.Name, Chapter: chapter, Verse: strconv.Itoa(verse)})
			})
		},
	}, nil
}

func newProgress(total int, label string) (*mpb.Progress, *mpb.Bar) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f verses/s", decor.WC{W: 12}),
		),
	)
	return progress, bar
}

// Process enumerates the selected references and translations, builds a
// record for each through the provider and upserts them in batches.
//
// Per-record failures are logged and reported without stopping the run. The
// returned error is non-nil only when the run as a whole fails, e.g. when ctx
// is cancelled.
func (p *Processor) Process(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	translations := opts.Translations
	if len(translations) == 0 {
		translations = translation.All()
	}
	src, err := p.buildSource(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: src.total * len(translations)}
	logger.Info("Starting population",
		zap.Int("records", report.Total),
		zap.Int("translations", len(translations)),
		zap.Bool("priority_only", opts.PriorityOnly),
		zap.Int("workers", p.workers),
		zap.Int("batch_size", p.batchSize),
	)

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if p.progress {
		progress, bar = newProgress(report.Total, "Populating:")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan canon.Reference, p.workBuffer)
	resultCh := make(chan *database.VerseRecord, p.resultBuffer)

	var (
		genMu     sync.Mutex
		generated int
		genFails  []database.Failure
	)

	gen, genCtx := errgroup.WithContext(runCtx)

	// Enumerate references
	gen.Go(func() error {
		defer close(workCh)
		return src.each(func(ref canon.Reference) error {
			select {
			case workCh <- ref:
				return nil
			case <-genCtx.Done():
				return genCtx.Err()
			}
		})
	})

	// Build records (CPU work)
	for range p.workers {
		gen.Go(func() error {
			for ref := range workCh {
				for _, tr := range translations {
					rec, err := p.provider.Build(ref, tr)
					if err != nil {
						logger.Error("Failed to build verse",
							zap.String("reference", ref.String()),
							zap.String("translation", string(tr)),
							zap.Error(err),
						)
						genMu.Lock()
						genFails = append(genFails, database.Failure{Reference: ref.String(), Translation: string(tr), Err: err})
						genMu.Unlock()
						continue
					}

					select {
					case resultCh <- rec:
						genMu.Lock()
						generated++
						genMu.Unlock()
					case <-genCtx.Done():
						return genCtx.Err()
					}
				}
			}
			return nil
		})
	}

	insertDone := make(chan error, 1)
	go func() {
		err := p.batchInserter(runCtx, resultCh, report, bar)
		if err != nil {
			cancel()
		}
		insertDone <- err
	}()

	genErr := gen.Wait()
	close(resultCh)
	insertErr := <-insertDone

	report.Generated = generated
	for _, f := range genFails {
		report.addFailure(f)
	}
	report.Duration = time.Since(start)

	if progress != nil {
		if genErr != nil || insertErr != nil {
			bar.Abort(false)
		} else {
			// Records that failed to build never reach the bar.
			bar.SetTotal(-1, true)
		}
		progress.Wait()
	}

	if insertErr != nil {
		return report, fmt.Errorf("batch insertion failed: %w", insertErr)
	}
	if genErr != nil {
		return report, fmt.Errorf("record generation failed: %w", genErr)
	}

	logSummary("Population finished", report)
	return report, nil
}

// batchInserter collects records and upserts them in batches with dynamic
// sizing. It is the only goroutine that writes to the repository.
func (p *Processor) batchInserter(ctx context.Context, resultCh <-chan *database.VerseRecord, report *Report, bar *mpb.Bar) error {
	batch := make([]*database.VerseRecord, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := p.repo.UpsertVerses(ctx, batch)
		if res != nil {
			report.addBatch(res)
		}
		if err != nil {
			return fmt.Errorf("failed to upsert batch of %d verses: %w", len(batch), err)
		}
		if bar != nil {
			bar.IncrBy(len(batch))
		}
		batch = make([]*database.VerseRecord, 0, p.maxBatchSize)
		return nil
	}

	for rec := range resultCh {
		batch = append(batch, rec)

		utilization := float64(len(resultCh)) / float64(cap(resultCh))
		newBatchSize := p.calculateBatchSize(utilization, currentBatchSize)
		if newBatchSize != currentBatchSize {
			logger.Debug("Adjusting batch size",
				zap.Float64("channel_utilization", utilization),
				zap.Int("from", currentBatchSize),
				zap.Int("to", newBatchSize),
			)
		}
		currentBatchSize = newBatchSize

		if len(batch) >= currentBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

// calculateBatchSize determines the optimal batch size based on channel utilization
// Returns the adjusted batch size, or keeps current size for smooth transitions
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		// High pressure: smaller batches drain the channel faster
		return p.minBatchSize
	case utilization >= channelPressureMedium:
		return p.batchSize
	case utilization <= channelPressureLow:
		// Low pressure: larger batches for efficiency
		return p.maxBatchSize
	default:
		return currentSize
	}
}

func logSummary(msg string, report *Report) {
	fields := []zap.Field{
		zap.Int("total", report.Total),
		zap.Int("written", report.Written),
		zap.Int("failed", report.Failed),
		zap.Int("batches", report.Batches),
		zap.Int("fallbacks", report.Fallbacks),
		zap.Duration("duration", report.Duration),
	}
	if report.Upgraded > 0 {
		fields = append(fields, zap.Int("upgraded", report.Upgraded))
	}

	if report.Failed == 0 {
		logger.Info(msg, fields...)
		return
	}

	logger.Warn(msg+" with failures", fields...)
	for i, f := range report.Failures[:min(len(report.Failures), SampleErrorCount)] {
		logger.Warn("Sample failure",
			zap.Int("n", i+1),
			zap.String("reference", f.Reference),
			zap.String("translation", f.Translation),
			zap.Error(f.Err),
		)
	}
}
