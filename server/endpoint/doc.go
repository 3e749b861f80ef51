// Package endpoint provides the operational handlers: health, version and
// runtime metrics.
package endpoint
