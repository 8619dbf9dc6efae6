// Package pipeline sequences one batch run: collect, normalize each source's
// raw file, and commit into the merge store. Failures are isolated at the
// item and source level; the run itself always reaches its terminal state.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sentimentlab/topic-pulse/internal/archive"
	"github.com/sentimentlab/topic-pulse/internal/collector"
	"github.com/sentimentlab/topic-pulse/internal/config"
	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/normalizer"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

// RecordStore is the subset of the merge store the orchestrator needs.
type RecordStore interface {
	Init(ctx context.Context) error
	SaveBatch(ctx context.Context, records []models.Record) (saved, updated int, err error)
}

// Source pairs one collector with the normalizer for its raw shape.
type Source struct {
	Collector  collector.Collector
	Normalizer normalizer.Normalizer
}

// Service drives batch runs over the configured sources.
type Service struct {
	runner   *collector.Runner
	store    RecordStore
	archiver archive.Archiver
	sources  []Source

	mu         sync.RWMutex
	lastReport *models.RunReport
}

// NewService wires the orchestrator for the four configured sources.
func NewService(cfg *config.Config, store RecordStore, archiver archive.Archiver, translator translate.Translator) *Service {
	runner := collector.NewRunner(time.Duration(cfg.CollectorTimeout) * time.Minute)

	sources := []Source{
		{
			Collector: collector.Collector{
				Name:       "peoples_daily",
				Command:    cfg.PeoplesDailyCommand,
				OutputFile: filepath.Join(cfg.OutputDir, "peoples_daily_raw.json"),
			},
			Normalizer: normalizer.NewPeoplesDailyNormalizer(translator),
		},
		{
			Collector: collector.Collector{
				Name:       "wsj",
				Command:    cfg.WSJCommand,
				OutputFile: filepath.Join(cfg.OutputDir, "wsj_raw.json"),
			},
			Normalizer: normalizer.NewWSJNormalizer(translator),
		},
		{
			Collector: collector.Collector{
				Name:       "weibo",
				Command:    cfg.WeiboCommand,
				OutputFile: filepath.Join(cfg.OutputDir, "weibo_raw.json"),
			},
			Normalizer: normalizer.NewWeiboNormalizer(translator),
		},
		{
			Collector: collector.Collector{
				Name:       "twitter",
				Command:    cfg.TwitterCommand,
				OutputFile: filepath.Join(cfg.OutputDir, "twitter_raw.json"),
			},
			Normalizer: normalizer.NewTwitterNormalizer(translator),
		},
	}

	return &Service{
		runner:   runner,
		store:    store,
		archiver: archiver,
		sources:  sources,
	}
}

// Run executes one batch: a single batch date is assigned up front and shared
// by every record written during the run, regardless of source. Sources are
// processed sequentially and in isolation; one source's failure never aborts
// the rest.
func (s *Service) Run(ctx context.Context) *models.RunReport {
	start := time.Now()
	run := normalizer.RunContext{
		BatchDate: start.Format("2006-01-02"),
		Now:       start.UTC(),
	}

	logrus.Infof("Starting batch run, batch date %s", run.BatchDate)

	report := &models.RunReport{
		BatchDate: run.BatchDate,
		StartedAt: start,
	}

	if err := s.store.Init(ctx); err != nil {
		// Storage unavailability is beyond this core's remit to repair.
		logrus.Errorf("Store initialization failed, aborting batch: %v", err)
		for _, src := range s.sources {
			report.Sources = append(report.Sources, models.SourceReport{
				Source: src.Collector.Name,
				Error:  err.Error(),
			})
		}
		report.Duration = time.Since(start).String()
		s.setLastReport(report)
		return report
	}

	for _, src := range s.sources {
		report.Sources = append(report.Sources, s.processSource(ctx, src, run))
	}

	report.Duration = time.Since(start).String()
	logrus.Infof("Batch run completed in %s: %d saved, %d skipped",
		report.Duration, report.TotalSaved(), report.TotalSkipped())

	s.setLastReport(report)
	return report
}

func (s *Service) processSource(ctx context.Context, src Source, run normalizer.RunContext) models.SourceReport {
	name := src.Collector.Name
	sr := models.SourceReport{Source: name}

	// A collector failure is logged and the source's existing output file, if
	// any, is still consumed.
	if err := s.runner.Run(ctx, src.Collector); err != nil {
		logrus.Errorf("Collector error for %s: %v", name, err)
	}

	data, err := os.ReadFile(src.Collector.OutputFile)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Warnf("Raw file not found for %s, skipping source", name)
			sr.Error = "raw file not found"
			return sr
		}
		logrus.Errorf("Failed to read raw file for %s: %v", name, err)
		sr.Error = err.Error()
		return sr
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		logrus.Errorf("Unparsable raw file for %s, skipping source: %v", name, err)
		sr.Error = fmt.Sprintf("unparsable raw file: %v", err)
		return sr
	}
	sr.Collected = len(items)

	var records []models.Record
	for index, item := range items {
		rec, err := src.Normalizer.Normalize(ctx, item, run)
		if err != nil {
			logrus.Warnf("Skipping item %d from %s: %v", index, name, err)
			sr.Skipped++
			continue
		}

		rec.BatchDate = run.BatchDate
		rec.CollectionOrder = index
		records = append(records, rec)
	}

	// One commit per source file: a store write failure aborts this source's
	// commit but not the run.
	saved, updated, err := s.store.SaveBatch(ctx, records)
	if err != nil {
		logrus.Errorf("Failed to commit %s batch: %v", name, err)
		sr.Error = err.Error()
		return sr
	}
	sr.Saved = saved
	sr.Updated = updated

	blobName := fmt.Sprintf("raw/%s/%s.json", run.BatchDate, name)
	if err := s.archiver.Store(ctx, blobName, data); err != nil {
		logrus.Warnf("Failed to archive raw file for %s: %v", name, err)
	}

	logrus.Infof("Saved/updated %d items from %s (%d updated, %d skipped)",
		sr.Saved, name, sr.Updated, sr.Skipped)
	return sr
}

func (s *Service) setLastReport(report *models.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = report
}

// LastReport returns the most recent run's report, or nil before any run.
func (s *Service) LastReport() *models.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}
