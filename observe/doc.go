// Package observe provides structured logging, metrics, and tracing for the
// caching and rate-limiting core.
//
// It bundles an OpenTelemetry tracer and meter with a JSON structured
// logger behind a single Observer, configured from a declarative Config.
// Cache lookups, rate-limit decisions, and producer invocations each have
// dedicated instruments. Log fields carrying patient data (image payloads,
// questionnaire answers) are redacted before serialization.
package observe
