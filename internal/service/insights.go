package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

const latestReportKey = "reports/latest.txt"

// Insights triggers the external analysis process and archives its reports.
type Insights struct {
	runner  model.InsightsRunner
	storage model.Storage
	logger  *logger.Logger
}

func NewInsights(runner model.InsightsRunner, storage model.Storage, logger *logger.Logger) *Insights {
	return &Insights{
		runner:  runner,
		storage: storage,
		logger:  logger,
	}
}

// GenerateReport runs the analysis process and returns its raw output. A
// process failure is not an internal error: it is surfaced verbatim with a
// critical_error status, matching what the script itself would report.
func (s *Insights) GenerateReport(ctx context.Context) (model.InsightsReport, error) {
	now := time.Now()

	output, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("Insights service: analysis run failed",
			"error", err.Error())
		return model.InsightsReport{
			Status:      model.InsightsStatusCriticalError,
			Report:      err.Error(),
			GeneratedAt: now,
		}, nil
	}

	report := model.InsightsReport{
		Status:      model.InsightsStatusOK,
		Report:      output,
		GeneratedAt: now,
	}

	s.archive(ctx, report)

	return report, nil
}

// LatestReport returns the most recently archived report.
func (s *Insights) LatestReport(ctx context.Context) (model.InsightsReport, error) {
	exists, err := s.storage.Exists(ctx, latestReportKey)
	if err != nil {
		return model.InsightsReport{}, fmt.Errorf("failed to check report archive: %w", err)
	}
	if !exists {
		return model.InsightsReport{}, model.ErrNotFound
	}

	reader, err := s.storage.Download(ctx, latestReportKey)
	if err != nil {
		return model.InsightsReport{}, fmt.Errorf("failed to download report: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return model.InsightsReport{}, fmt.Errorf("failed to read report: %w", err)
	}

	return model.InsightsReport{
		Status: model.InsightsStatusOK,
		Report: string(data),
	}, nil
}

// archive uploads the report under a timestamped key and the latest alias.
// Archive failures are logged only; the report already reached the caller.
func (s *Insights) archive(ctx context.Context, report model.InsightsReport) {
	key := fmt.Sprintf("reports/%s.txt", report.GeneratedAt.UTC().Format("20060102T150405Z"))

	for _, k := range []string{key, latestReportKey} {
		if err := s.storage.Upload(ctx, k, strings.NewReader(report.Report)); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("Insights service: failed to archive report",
				"key", k,
				"error", err.Error())
			return
		}
	}

	s.logger.Info("Insights service: report archived",
		"key", key)
}
