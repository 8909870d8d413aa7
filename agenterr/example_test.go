package agenterr_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/agentcore/agenterr"
)

func ExampleRetryable() {
	timeout := agenterr.NewTimeout("invoke", 30*time.Second)
	validation := agenterr.NewValidation("temperature", 3.5, "temperature must be between 0 and 2")

	fmt.Println(agenterr.Code(timeout), agenterr.Retryable(timeout))
	fmt.Println(agenterr.Code(validation), agenterr.Retryable(validation))
	// Output:
	// AGENT_TIMEOUT true
	// AGENT_VALIDATION_ERROR false
}

func ExampleNewModelError() {
	transient := agenterr.NewModelError("openai", 503, "service unavailable")
	permanent := agenterr.NewModelError("openai", 400, "bad request")

	fmt.Println(agenterr.Retryable(transient))
	fmt.Println(agenterr.Retryable(permanent))
	// Output:
	// true
	// false
}
