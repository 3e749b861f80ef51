// Package server runs the Gin engine behind the net/http middleware stack
// (recovery, request ID, CORS, body size limit, request logging) with
// HTTP/2 cleartext support, and exposes it as a lifecycle component.
//
//	srv := server.New(cfg.Server, log)
//	srv.RegisterDefaultEndpoints()
//	srv.GinEngine().POST("/transcribe", h.Transcribe)
//	app.RegisterComponent(server.NewComponent(srv))
package server
