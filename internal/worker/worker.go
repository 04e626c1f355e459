// internal/worker/worker.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/Slade66/number-generator/internal/generator"
	"github.com/Slade66/number-generator/internal/metrics"
	"github.com/Slade66/number-generator/internal/queue"
	"github.com/Slade66/number-generator/internal/report"
	"github.com/Slade66/number-generator/internal/session"
	"github.com/Slade66/number-generator/internal/status"
	"github.com/Slade66/number-generator/pkg/run"
)

// MaxDelayMs caps the pause a client may ask for between two numbers.
const MaxDelayMs = 5000

// readRetryDelay is the pause after a failed stream read.
const readRetryDelay = 5 * time.Second

// Source delivers run requests.
type Source interface {
	Next(ctx context.Context) (queue.Message, error)
	Ack(ctx context.Context, id string) error
}

// StatusStore records run states.
type StatusStore interface {
	UpdateRunStatus(ctx context.Context, runID, newStatus string) error
	UpdateRunError(ctx context.Context, runID, errMsg string) error
	SaveReport(ctx context.Context, runID string, rep *report.Report, reportKey string) error
}

// Uploader archives run reports.
type Uploader interface {
	UploadReport(runID string, report []byte) (string, error)
}

// Worker executes queued runs one at a time.
type Worker struct {
	source   Source
	status   StatusStore
	uploader Uploader
	metrics  *metrics.Collector
	log      zerolog.Logger
}

// New creates a worker. uploader and collector may be nil.
func New(source Source, store StatusStore, uploader Uploader, collector *metrics.Collector, log zerolog.Logger) *Worker {
	return &Worker{
		source:   source,
		status:   store,
		uploader: uploader,
		metrics:  collector,
		log:      log.With().Str("component", "worker").Logger(),
	}
}

// Run processes runs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Msg("waiting for runs")
	for {
		msg, err := w.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error().Err(err).Dur("retry_in", readRetryDelay).Msg("could not read from stream")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readRetryDelay):
			}
			continue
		}
		w.Process(ctx, msg)
	}
}

// Process executes one message. Undecodable messages are acknowledged and
// dropped; failed runs are recorded and left unacknowledged.
func (w *Worker) Process(ctx context.Context, msg queue.Message) {
	req, err := msg.Decode()
	if err != nil {
		w.log.Error().Err(err).Str("payload", msg.Payload).Msg("dropping undecodable message")
		if err := w.source.Ack(ctx, msg.ID); err != nil {
			w.log.Error().Err(err).Str("message_id", msg.ID).Msg("could not ack message")
		}
		return
	}
	runID := req.ID.String()
	log := w.log.With().Str("run_id", runID).Logger()
	log.Info().Msg("run received")

	if err := w.status.UpdateRunStatus(ctx, runID, status.Processing); err != nil {
		log.Warn().Err(err).Msg("could not mark run as processing")
	}

	rep, err := w.execute(req, log)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		w.finished(metrics.RunFailed, 0)
		if err := w.status.UpdateRunError(ctx, runID, err.Error()); err != nil {
			log.Error().Err(err).Msg("could not record run failure")
		}
		return
	}
	w.finished(metrics.RunCompleted, rep.Rounds)

	if err := w.store(ctx, runID, rep); err != nil {
		log.Error().Err(err).Msg("could not store run result")
	}
	log.Info().Int("rounds", rep.Rounds).Msg("run completed")

	if err := w.source.Ack(ctx, msg.ID); err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("could not ack message")
	}
}

// execute runs the generator for req.
func (w *Worker) execute(req *run.Request, log zerolog.Logger) (*report.Report, error) {
	if req.DelayMs > MaxDelayMs {
		log.Warn().Int("requested", req.DelayMs).Int("max", MaxDelayMs).Msg("delay capped")
		req.DelayMs = MaxDelayMs
	}

	sinks := []generator.Sink{report.NewLogSink(log)}
	if w.metrics != nil {
		sinks = append(sinks, w.metrics)
	}
	s, err := session.New(req, sinks...)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	return s.Run()
}

// store uploads the report and records the completed run. All steps are
// attempted; their errors are combined.
func (w *Worker) store(ctx context.Context, runID string, rep *report.Report) error {
	var result *multierror.Error

	var key string
	if w.uploader != nil {
		data, err := rep.JSON()
		if err == nil {
			key, err = w.uploader.UploadReport(runID, data)
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("upload report: %w", err))
		}
	}
	if err := w.status.SaveReport(ctx, runID, rep, key); err != nil {
		result = multierror.Append(result, fmt.Errorf("save report: %w", err))
	}
	if err := w.status.UpdateRunStatus(ctx, runID, status.Completed); err != nil {
		result = multierror.Append(result, fmt.Errorf("update status: %w", err))
	}
	return result.ErrorOrNil()
}

func (w *Worker) finished(outcome string, rounds int) {
	if w.metrics != nil {
		w.metrics.RunFinished(outcome, rounds)
	}
}

// IsCancelled reports whether err ends the worker loop normally.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
