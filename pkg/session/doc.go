// Package session opens the data store sessions persistent rules query and
// registers them as the session factory of a resource registry.
//
// Three drivers are supported: postgres (a pgx pool), mongo (a database
// handle) and redis (a client). Each connector retries with a linearly
// growing delay and verifies the connection with a ping before returning.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	reg := resource.NewRegistry()
//	s, err := session.Open(ctx, cfg, reg, log)
//	if err != nil {
//		return err
//	}
//	defer s.Close(ctx)
//
// Configuration is read from the environment, see Config.
package session
