// Package logger provides structured logging on top of zerolog.
//
// Loggers carry a service tag and optional component tag; fields are passed
// as plain maps so call sites stay free of zerolog types.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("gateway")
//	log.Info("Transcription completed", logger.Fields("language", "en"))
package logger
