// Package pipeline runs one end-to-end reporting pass: acquire raw feeds,
// normalize, compute weekly metrics and anomalies, generate the summary and
// deliver the artifacts. Each run works on freshly loaded data and replaces
// the stored report wholesale.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/weekly-pulse/internal/config"
	"github.com/AngelCh415/weekly-pulse/internal/deliver"
	"github.com/AngelCh415/weekly-pulse/internal/ingest"
	"github.com/AngelCh415/weekly-pulse/internal/metrics"
	"github.com/AngelCh415/weekly-pulse/internal/normalize"
	"github.com/AngelCh415/weekly-pulse/internal/report"
	"github.com/AngelCh415/weekly-pulse/internal/store"
	"github.com/AngelCh415/weekly-pulse/internal/summary"
	"github.com/AngelCh415/weekly-pulse/internal/utils"
)

type Pipeline struct {
	loader *ingest.Loader
	norm   *normalize.Normalizer
	gen    *summary.Generator
	st     *store.MemoryStore
	log    *slog.Logger
	cfg    config.Config

	now func() time.Time
}

func New(loader *ingest.Loader, gen *summary.Generator, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *Pipeline {
	return &Pipeline{
		loader: loader,
		norm:   normalize.New(log),
		gen:    gen,
		st:     st,
		log:    log,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Run executes one pipeline pass. Only a missing/unreadable orders feed is a
// hard failure; everything else degrades per the row-level defect policy.
func (p *Pipeline) Run(ctx context.Context) (report.Report, error) {
	runID := uuid.NewString()
	runDate := p.now().UTC()
	p.log.Info("starting weekly reporting pipeline run", slog.String("run_id", runID))

	ordersRaw, err := p.loader.Orders(ctx)
	if err != nil {
		utils.PipelineRuns.WithLabelValues("error").Inc()
		return report.Report{}, err
	}
	adsRaw := p.loader.Ads(ctx)

	orders := p.norm.Orders(ordersRaw)
	ads := p.norm.Ads(adsRaw)

	weekly := metrics.ComputeWeekly(orders, ads)
	anomalies := metrics.DetectAnomalies(weekly)
	rep := report.Build(weekly, anomalies, len(orders), len(ads), runID, runDate)

	md := p.gen.Generate(ctx, rep)

	artifacts, err := deliver.WriteReports(p.cfg.ReportsDir, md, rep, runDate, p.log)
	if err != nil {
		utils.PipelineRuns.WithLabelValues("error").Inc()
		return report.Report{}, err
	}

	p.st.SetReport(rep)
	utils.PipelineRuns.WithLabelValues("ok").Inc()
	p.log.Info("pipeline run complete",
		slog.String("run_id", runID),
		slog.Int("weeks", len(rep.Meta.WeekStarts)),
		slog.Int("anomalies", len(rep.Anomalies)),
		slog.String("latest_report", artifacts.LatestReport))
	return rep, nil
}
