package agent

import "time"

// Status is the lifecycle state of an execution.
type Status string

const (
	// StatusPending is the initial state of a result record.
	StatusPending Status = "pending"
	// StatusRunning means the circuit breaker permitted the attempt.
	StatusRunning Status = "running"
	// StatusCompleted means the backend call returned before the deadline.
	StatusCompleted Status = "completed"
	// StatusFailed means the execution surfaced a non-timeout error.
	StatusFailed Status = "failed"
	// StatusTimeout means the deadline elapsed before the backend settled.
	StatusTimeout Status = "timeout"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimeout
}

// Message roles in the execution transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn in the execution transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall records a single tool invocation performed by the backend.
type ToolCall struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
}

// Failed reports whether the tool invocation returned an error.
func (c ToolCall) Failed() bool {
	return c.Error != ""
}

// TokenUsage holds token accounting for the attempt that produced the
// final result. Usage is not summed across retries.
type TokenUsage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// ExecutionRequest describes one logical task. It is immutable once
// submitted; zero-value overrides fall back to the orchestrator config.
type ExecutionRequest struct {
	Task          string         `json:"task"`
	UserID        string         `json:"user_id,omitempty"`
	SessionID     string         `json:"session_id,omitempty"`
	Timeout       time.Duration  `json:"timeout,omitempty"`
	MaxIterations int            `json:"max_iterations,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ExecutionResult is the uniform outcome record for one execution.
// Every field except Error is populated on every return.
type ExecutionResult struct {
	ID        string         `json:"id"`
	Status    Status         `json:"status"`
	Output    string         `json:"output"`
	ToolCalls []ToolCall     `json:"tool_calls"`
	Messages  []Message      `json:"messages"`
	Usage     TokenUsage     `json:"usage"`
	Duration  time.Duration  `json:"duration"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChunkType tags elements of a streamed execution.
type ChunkType string

const (
	// ChunkContent carries an output text fragment.
	ChunkContent ChunkType = "content"
	// ChunkToolCall carries one tool-call record.
	ChunkToolCall ChunkType = "tool_call"
	// ChunkDone terminates a successful stream and carries usage.
	ChunkDone ChunkType = "done"
	// ChunkError terminates a failed stream.
	ChunkError ChunkType = "error"
)

// Chunk is one element of a streamed execution.
type Chunk struct {
	Type     ChunkType   `json:"type"`
	Content  string      `json:"content,omitempty"`
	ToolCall *ToolCall   `json:"tool_call,omitempty"`
	Usage    *TokenUsage `json:"usage,omitempty"`
	Err      string      `json:"error,omitempty"`
}
