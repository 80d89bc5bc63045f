package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/auction-appraiser/internal/llm"
	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// State is a fallback controller state.
type State int

const (
	StateTryModel State = iota
	StateRetrying
	StateEscalate
	StateSuccess
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateTryModel:
		return "try_model"
	case StateRetrying:
		return "retrying"
	case StateEscalate:
		return "escalate"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Attempt is one model call made while resolving a batch.
type Attempt struct {
	Model string
	Retry int // 0 for the first call to a model
	Kind  llm.ErrorKind
	Err   error // nil on success
}

// Outcome is the terminal result of resolving one batch.
type Outcome struct {
	State       State // StateSuccess or StateExhausted
	Model       string
	Results     []types.AnalysisResult
	Attempts    []Attempt
	Retries     int
	Escalations int
}

// FallbackController drives a batch through the ordered model list.
type FallbackController struct {
	client     llm.Client
	models     []string
	maxRetries int
	retryDelay time.Duration
	sleep      SleepFunc
	logger     *log.Logger
}

// NewFallbackController creates a controller; a nil sleep uses Sleep.
func NewFallbackController(client llm.Client, config Config, sleep SleepFunc, logger *log.Logger) *FallbackController {
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &FallbackController{
		client:     client,
		models:     config.Models,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		sleep:      sleep,
		logger:     logger,
	}
}

// Resolve runs the batch until one model succeeds or every model has been abandoned.
// The only error returned is a context error; exhaustion is reported in the Outcome.
func (f *FallbackController) Resolve(ctx context.Context, batch []types.Listing) (*Outcome, error) {
	out := &Outcome{}
	state := StateTryModel
	i, attempt := 0, 0

	for {
		switch state {
		case StateTryModel, StateRetrying:
			if i >= len(f.models) {
				state = StateExhausted
				continue
			}
			if err := ctx.Err(); err != nil {
				return out, err
			}

			model := f.models[i]
			results, err := f.client.AnalyzeBatch(ctx, batch, model)
			if err == nil {
				out.Attempts = append(out.Attempts, Attempt{Model: model, Retry: attempt})
				out.State = StateSuccess
				out.Model = model
				out.Results = results
				return out, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return out, ctxErr
			}

			kind := llm.KindOf(err)
			out.Attempts = append(out.Attempts, Attempt{Model: model, Retry: attempt, Kind: kind, Err: err})

			switch kind {
			case llm.KindTransient, llm.KindMalformed:
				if attempt >= f.maxRetries {
					f.logger.Warn("retry budget spent", "model", model, "retries", attempt, "err", err)
					state = StateEscalate
					continue
				}
				attempt++
				out.Retries++
				f.logger.Warn("model call failed, retrying",
					"model", model, "kind", kind, "attempt", attempt, "of", f.maxRetries, "delay", f.retryDelay, "err", err)
				if err := f.sleep(ctx, f.retryDelay); err != nil {
					return out, err
				}
				state = StateRetrying
			default:
				f.logger.Warn("model unavailable, escalating", "model", model, "kind", kind, "err", err)
				state = StateEscalate
			}

		case StateEscalate:
			i++
			attempt = 0
			if i < len(f.models) {
				out.Escalations++
				f.logger.Info("switching model", "model", f.models[i])
			}
			state = StateTryModel

		case StateExhausted:
			out.State = StateExhausted
			return out, nil

		default:
			return out, nil
		}
	}
}
