// Package gateway is the HTTP surface of the service: the index, health and
// transcribe handlers, and the config block tying server, model and
// telemetry together.
//
// A transcription request is validated, copied to a scratch file, handed to
// the shared transcription.Model and answered as JSON. The scratch file is
// removed on every path.
package gateway
