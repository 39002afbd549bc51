package smoke

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"llmsmoke/app/internal/history"
	"llmsmoke/app/internal/llm"
)

// Options wires the runner with its dependencies. History is optional.
type Options struct {
	Prober   llm.Prober
	Request  llm.Request
	Endpoint string
	Output   io.Writer
	History  history.Repository
	Logger   *logrus.Logger
}

// Report summarises one run.
type Report struct {
	RunID      string
	Outcome    history.Outcome
	Duration   time.Duration
	Shape      Shape
	ShapeDrift bool
}

// Runner performs one smoke probe per Run call.
type Runner struct {
	prober   llm.Prober
	request  llm.Request
	endpoint string
	output   io.Writer
	history  history.Repository
	logger   *logrus.Logger
	newRunID func() string
	now      func() time.Time
}

// NewRunner validates the options and constructs a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Prober == nil {
		return nil, eris.New("llm prober is required")
	}
	if opts.Output == nil {
		return nil, eris.New("output writer is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Runner{
		prober:   opts.Prober,
		request:  opts.Request,
		endpoint: strings.TrimSpace(opts.Endpoint),
		output:   opts.Output,
		history:  opts.History,
		logger:   logger,
		newRunID: uuid.NewString,
		now:      time.Now,
	}, nil
}

// Run sends the request once and writes the raw response to the output.
// The returned error is classified by llm.KindOf.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: r.newRunID()}
	fields := logrus.Fields{
		"run_id":   report.RunID,
		"endpoint": r.endpoint,
		"model":    strings.TrimSpace(r.request.Model),
	}

	r.logger.WithFields(fields).Info("smoke probe started")

	started := r.now()
	result, probeErr := r.prober.Probe(ctx, r.request)
	report.Duration = r.now().Sub(started)

	run := &history.Run{
		RunID:          report.RunID,
		Endpoint:       r.endpoint,
		TargetModel:    strings.TrimSpace(r.request.Model),
		DurationMillis: report.Duration.Milliseconds(),
	}

	if probeErr != nil {
		report.Outcome = outcomeFor(probeErr)
		run.Outcome = report.Outcome
		run.StatusCode = llm.StatusCodeOf(probeErr)
		run.Error = probeErr.Error()

		r.recordError(fields, probeErr, "smoke probe failed")
		r.save(ctx, run, fields)
		return report, eris.Wrap(probeErr, "running smoke probe")
	}

	if _, err := io.WriteString(r.output, result.Raw+"\n"); err != nil {
		r.recordError(fields, err, "writing smoke probe response")
		return report, eris.Wrap(err, "writing smoke probe response")
	}

	report.Outcome = history.OutcomeSuccess
	run.Outcome = history.OutcomeSuccess
	fillCompletion(run, result)

	shape, err := ShapeOf(result.Raw)
	if err != nil {
		r.logger.WithFields(fields).WithField("error", err.Error()).Warn("computing response shape")
	} else {
		report.Shape = shape
		run.ShapeFingerprint = shape.Fingerprint
		report.ShapeDrift = r.checkDrift(ctx, shape, fields)
	}

	r.save(ctx, run, fields)

	r.logger.WithFields(fields).WithFields(logrus.Fields{
		"completion_id": run.CompletionID,
		"duration_ms":   run.DurationMillis,
		"total_tokens":  run.TotalTokens,
	}).Info("smoke probe succeeded")

	return report, nil
}

func (r *Runner) checkDrift(ctx context.Context, shape Shape, fields logrus.Fields) bool {
	if r.history == nil {
		return false
	}

	previous, err := r.history.LatestSuccess(ctx, r.endpoint, r.request.Model)
	if err != nil {
		r.logger.WithFields(fields).WithField("error", err.Error()).Warn("loading previous run for shape comparison")
		return false
	}

	if previous == nil || previous.ShapeFingerprint == "" || previous.ShapeFingerprint == shape.Fingerprint {
		return false
	}

	r.logger.WithFields(fields).WithFields(logrus.Fields{
		"previous_run_id":      previous.RunID,
		"previous_fingerprint": previous.ShapeFingerprint,
		"fingerprint":          shape.Fingerprint,
	}).Warn("response shape drift")

	return true
}

func (r *Runner) save(ctx context.Context, run *history.Run, fields logrus.Fields) {
	if r.history == nil {
		return
	}

	// The probe outcome wins over a storage failure.
	if err := r.history.Save(ctx, run); err != nil {
		r.logger.WithFields(fields).WithField("error", err.Error()).Warn("recording smoke run")
	}
}

// recordError logs at error level; the Sentry logrus hook forwards the entry.
func (r *Runner) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if kind := llm.KindOf(err); kind != "" {
		entry = entry.WithField("kind", string(kind))
	}
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

func outcomeFor(err error) history.Outcome {
	if kind := llm.KindOf(err); kind != "" {
		return history.Outcome(kind)
	}
	return history.Outcome(llm.KindServer)
}

func fillCompletion(run *history.Run, result *llm.Result) {
	if result == nil || result.Completion == nil {
		return
	}

	completion := result.Completion
	run.CompletionID = completion.ID
	run.ResponseModel = completion.Model
	run.PromptTokens = completion.Usage.PromptTokens
	run.CompletionTokens = completion.Usage.CompletionTokens
	run.TotalTokens = completion.Usage.TotalTokens
	if len(completion.Choices) > 0 {
		run.FinishReason = completion.Choices[0].FinishReason
	}
}
