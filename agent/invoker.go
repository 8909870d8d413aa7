package agent

import "context"

// Response is what the backend returns for one successful attempt.
type Response struct {
	Output    string
	ToolCalls []ToolCall
	Usage     TokenUsage
}

// Invoker is the backend boundary: it accepts the current transcript and
// the request, and returns output, tool-call records and token usage, or
// a classified agenterr error. Tool registries and memory stores live
// behind this interface; the core never calls them directly.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines.
// - Errors: failures should be agenterr errors; unclassified errors are
//   treated as retryable.
type Invoker interface {
	Invoke(ctx context.Context, messages []Message, req ExecutionRequest) (*Response, error)
}

// InvokerFunc adapts an ordinary function to the Invoker interface.
type InvokerFunc func(ctx context.Context, messages []Message, req ExecutionRequest) (*Response, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, messages []Message, req ExecutionRequest) (*Response, error) {
	return f(ctx, messages, req)
}

// StreamingInvoker is an optional extension for backends that can emit
// output incrementally. emit is called once per content fragment, in
// order, before InvokeStream returns the final response.
type StreamingInvoker interface {
	Invoker

	InvokeStream(ctx context.Context, messages []Message, req ExecutionRequest, emit func(fragment string)) (*Response, error)
}
