// Package bootstrap runs the service lifecycle: validate config, start
// registered components in order, log a startup summary, block until
// SIGINT/SIGTERM, then stop components in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(modelComponent) // must load before the server binds
//	app.RegisterComponent(serverComponent)
//	err = app.Run(ctx)
package bootstrap
