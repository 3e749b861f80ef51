// Package component defines the lifecycle interface shared by the model
// handle and the HTTP server, and a Registry that starts them in
// registration order and stops them in reverse.
package component
