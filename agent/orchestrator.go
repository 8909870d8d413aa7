package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/agentcore/agenterr"
	"github.com/jonwraymond/agentcore/health"
	"github.com/jonwraymond/agentcore/metrics"
	"github.com/jonwraymond/agentcore/observe"
	"github.com/jonwraymond/agentcore/resilience"
)

// Version is the agent core version reported by Health.
const Version = "0.3.0"

// Orchestrator drives task executions through the circuit breaker, retry
// policy and timeout race, and records every outcome. One instance owns
// its breaker and collector for its lifetime; it is safe to drive many
// concurrent executions against a single instance.
type Orchestrator struct {
	config  Config
	invoker Invoker

	breaker   *resilience.CircuitBreaker // nil when disabled
	collector *metrics.Collector         // nil when disabled
	limiter   *resilience.Limiter        // nil when unbounded

	logger      observe.Logger
	tracer      observe.Tracer
	otelMetrics observe.Metrics

	checks *health.Aggregator

	mu        sync.Mutex
	listeners []Listener

	startTime   time.Time
	initialized bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(l observe.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the OpenTelemetry tracer used for execution spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = observe.NewTracer(t)
		}
	}
}

// WithObserver wires logger, tracer and OTel execution metrics from an
// observe.Observer in one step.
func WithObserver(obs observe.Observer) Option {
	return func(o *Orchestrator) {
		if obs == nil {
			return
		}
		o.logger = obs.Logger()
		o.tracer = observe.NewTracer(obs.Tracer())
		if m, err := observe.NewMetrics(obs.Meter()); err == nil {
			o.otelMetrics = m
		}
	}
}

// WithListener registers a lifecycle event listener at construction.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// New creates an orchestrator. Config violations are the one failure
// that propagates as an error: no execution has started yet.
func New(config Config, invoker Invoker, opts ...Option) (*Orchestrator, error) {
	if invoker == nil {
		return nil, ErrNilInvoker
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:      config,
		invoker:     invoker,
		logger:      observe.NopLogger(),
		tracer:      observe.NopTracer(),
		otelMetrics: observe.NoopMetrics(),
		checks:      health.NewAggregator(health.AggregatorConfig{}),
		startTime:   time.Now(),
		initialized: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if config.CircuitBreaker.Enabled {
		o.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: config.CircuitBreaker.FailureThreshold,
			SuccessThreshold: config.CircuitBreaker.SuccessThreshold,
			Timeout:          config.CircuitBreaker.Timeout,
			OnStateChange: func(from, to resilience.State) {
				o.publish(Event{Type: EventCircuitState, From: from, To: to})
			},
		})
	}
	if config.Metrics.Enabled {
		o.collector = metrics.NewCollector(config.Metrics.Labels)
	}
	if config.MaxConcurrent > 0 {
		o.limiter = resilience.NewLimiter(resilience.LimiterConfig{
			MaxConcurrent: int64(config.MaxConcurrent),
		})
	}

	o.registerHealthChecks()

	return o, nil
}

// Execute runs one logical task to a terminal status. The caller always
// receives a fully populated result; execution failures are reported in
// its Status and Error fields, never raised.
func (o *Orchestrator) Execute(ctx context.Context, req ExecutionRequest) *ExecutionResult {
	return o.execute(ctx, req, nil)
}

// execute is the shared engine behind Execute and Stream. frags, when
// non-nil, collects output fragments from streaming backends; it is
// reset at each attempt boundary so only the final attempt's fragments
// survive.
func (o *Orchestrator) execute(ctx context.Context, req ExecutionRequest, frags *fragmentBuffer) *ExecutionResult {
	start := time.Now()

	result := &ExecutionResult{
		ID:       uuid.New().String(),
		Status:   StatusPending,
		Messages: []Message{{Role: RoleUser, Content: req.Task}},
		Metadata: req.Metadata,
	}

	meta := observe.ExecMeta{ExecutionID: result.ID, Model: o.config.Model, SessionID: req.SessionID}
	log := o.logger.WithExecution(meta)
	ctx, span := o.tracer.StartSpan(ctx, meta)

	if !o.initialized {
		err := agenterr.NewValidation("orchestrator", nil, "orchestrator is not initialized")
		return o.finalize(ctx, result, start, span, meta, nil, err, false)
	}

	if req.MaxIterations != 0 && (req.MaxIterations < 1 || req.MaxIterations > 100) {
		err := agenterr.NewValidation("maxIterations", req.MaxIterations, "maxIterations must be between 1 and 100")
		return o.finalize(ctx, result, start, span, meta, nil, err, false)
	}

	if o.limiter != nil {
		if err := o.limiter.Acquire(ctx); err != nil {
			return o.finalize(ctx, result, start, span, meta, nil, err, false)
		}
		defer o.limiter.Release()
	}

	// Circuit gate: fail fast with no backend call and no retry loop.
	// Rejections are not fed back into the breaker; its counters track
	// backend outcomes only.
	if o.breaker != nil && o.breaker.IsOpen() {
		err := agenterr.NewCircuitOpen(o.breaker.NextAttempt())
		log.Warn(ctx, "execution rejected, circuit open")
		return o.finalize(ctx, result, start, span, meta, nil, err, false)
	}

	result.Status = StatusRunning
	o.publish(Event{Type: EventStarted, ExecutionID: result.ID})
	log.Debug(ctx, "execution started")

	timeout := o.config.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = o.config.MaxIterations
	}

	resp, err := resilience.RunWithTimeoutResult(ctx, "invoke", timeout, func(ctx context.Context) (*Response, error) {
		return resilience.RunWithRetryResult(ctx, func(ctx context.Context) (*Response, error) {
			if frags != nil {
				frags.reset()
			}
			return o.invoke(ctx, result.Messages, req, frags)
		}, o.config.Retry, func(attempt int, attemptErr error, delay time.Duration) {
			o.publish(Event{Type: EventRetry, ExecutionID: result.ID, Attempt: attempt, Err: attemptErr})
			log.Warn(ctx, "attempt failed, retrying",
				observe.F("attempt", attempt),
				observe.F("delay", delay.String()),
				observe.F("error", attemptErr.Error()))
		})
	})

	return o.finalize(ctx, result, start, span, meta, resp, err, true)
}

func (o *Orchestrator) invoke(ctx context.Context, messages []Message, req ExecutionRequest, frags *fragmentBuffer) (*Response, error) {
	if frags != nil {
		if si, ok := o.invoker.(StreamingInvoker); ok {
			return si.InvokeStream(ctx, messages, req, frags.emit)
		}
	}
	return o.invoker.Invoke(ctx, messages, req)
}

// finalize fixes the terminal status, records the breaker outcome
// exactly once per execution, stamps the duration, and hands the result
// to the metrics collector. It runs on every exit path.
func (o *Orchestrator) finalize(ctx context.Context, result *ExecutionResult, start time.Time, span trace.Span, meta observe.ExecMeta, resp *Response, err error, recordBreaker bool) *ExecutionResult {
	if err == nil {
		result.Status = StatusCompleted
		result.Output = resp.Output
		result.ToolCalls = resp.ToolCalls
		result.Usage = resp.Usage
		result.Messages = append(result.Messages, Message{Role: RoleAssistant, Content: resp.Output})
		if recordBreaker && o.breaker != nil {
			o.breaker.RecordSuccess()
		}
		o.publish(Event{Type: EventCompleted, ExecutionID: result.ID})
	} else {
		result.Error = err.Error()
		if agenterr.Code(err) == agenterr.CodeTimeout {
			result.Status = StatusTimeout
			o.publish(Event{Type: EventTimeout, ExecutionID: result.ID, Err: err})
		} else {
			result.Status = StatusFailed
			o.publish(Event{Type: EventFailed, ExecutionID: result.ID, Err: err})
		}
		if recordBreaker && o.breaker != nil {
			o.breaker.RecordFailure()
		}
	}

	result.Duration = time.Since(start)

	if o.collector != nil {
		o.collector.Record(metrics.Outcome{
			Success:          result.Status == StatusCompleted,
			Timeout:          result.Status == StatusTimeout,
			Duration:         result.Duration,
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
			Cost:             result.Usage.Cost,
		})
	}
	o.otelMetrics.RecordExecution(ctx, meta, result.Duration, err)
	o.tracer.EndSpan(span, err)

	return result
}

// Metrics returns the numeric metrics snapshot. Zero-valued when the
// collector is disabled.
func (o *Orchestrator) Metrics() metrics.Snapshot {
	if o.collector == nil {
		return metrics.Snapshot{}
	}
	return o.collector.Snapshot()
}

// PrometheusMetrics returns the Prometheus text export, or "" when the
// collector is disabled.
func (o *Orchestrator) PrometheusMetrics() string {
	if o.collector == nil {
		return ""
	}
	return o.collector.PrometheusText()
}

// Collector exposes the orchestrator's metrics collector for registry
// registration. Nil when metrics are disabled.
func (o *Orchestrator) Collector() *metrics.Collector {
	return o.collector
}

// CircuitBreaker exposes the orchestrator's breaker. Nil when disabled.
func (o *Orchestrator) CircuitBreaker() *resilience.CircuitBreaker {
	return o.breaker
}
