package agent

import (
	"context"
	"sync"
)

// Stream is a pull-based iterator over execution chunks. The producer
// runs only as fast as the consumer calls Next; nothing is buffered
// ahead of the reader. A Stream is exhausted after it yields a done or
// error chunk, or after the context is cancelled. A Stream is meant for
// a single consumer and is not safe for concurrent use.
type Stream struct {
	ch     <-chan Chunk
	done   bool
	cancel context.CancelFunc
}

// Next returns the next chunk. ok is false once the stream is
// exhausted; subsequent calls keep returning false.
func (s *Stream) Next() (Chunk, bool) {
	if s.done {
		return Chunk{}, false
	}
	c, ok := <-s.ch
	if !ok {
		s.done = true
		return Chunk{}, false
	}
	if c.Type == ChunkDone || c.Type == ChunkError {
		s.done = true
	}
	return c, true
}

// Close abandons the stream, releasing the producer. Safe to call at
// any point, including after exhaustion.
func (s *Stream) Close() {
	s.cancel()
	s.done = true
}

// fragmentBuffer collects output fragments from the current backend
// attempt. Attempts that fail and are retried are reset so their partial
// output never reaches the consumer; sealing drops any further writes,
// so the abandoned loser of a timeout race can keep emitting harmlessly.
type fragmentBuffer struct {
	mu     sync.Mutex
	frags  []string
	sealed bool
}

func (b *fragmentBuffer) emit(fragment string) {
	b.mu.Lock()
	if !b.sealed {
		b.frags = append(b.frags, fragment)
	}
	b.mu.Unlock()
}

func (b *fragmentBuffer) reset() {
	b.mu.Lock()
	if !b.sealed {
		b.frags = nil
	}
	b.mu.Unlock()
}

func (b *fragmentBuffer) seal() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealed = true
	return b.frags
}

// Stream runs an execution incrementally. Once the outcome settles, the
// content fragments of the attempt that produced it are relayed one
// chunk at a time, followed by tool-call chunks and a done chunk with
// usage totals, or by a single error chunk on failure. Backends that do
// not stream yield their whole output as one content chunk.
func (o *Orchestrator) Stream(ctx context.Context, req ExecutionRequest) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan Chunk)

	go func() {
		defer close(ch)

		send := func(c Chunk) bool {
			select {
			case ch <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}

		frags := &fragmentBuffer{}
		result := o.execute(ctx, req, frags)
		fragments := frags.seal()

		switch result.Status {
		case StatusCompleted:
			if len(fragments) == 0 && result.Output != "" {
				fragments = []string{result.Output}
			}
			for _, f := range fragments {
				if !send(Chunk{Type: ChunkContent, Content: f}) {
					return
				}
			}
			for _, tc := range result.ToolCalls {
				call := tc
				if !send(Chunk{Type: ChunkToolCall, ToolCall: &call}) {
					return
				}
			}
			send(Chunk{Type: ChunkDone, Usage: &result.Usage})
		default:
			send(Chunk{Type: ChunkError, Err: result.Error})
		}
	}()

	return &Stream{ch: ch, cancel: cancel}
}
