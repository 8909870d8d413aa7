// Package observe provides structured logging and OpenTelemetry tracing
// and metrics for the agent execution core. An Observer bundles a tracer,
// a meter, and a JSON logger behind a single configuration surface, with
// no-op fallbacks for disabled subsystems.
package observe
