// Package logger builds *slog.Logger instances for rulekit components and
// keeps attribute keys consistent across packages.
//
// New assembles a text or JSON handler from functional options and wraps it
// with a decorator that copies values out of context.Context into every
// record, so request-scoped data such as a request id shows up without being
// passed around explicitly.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "rulekit"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.DebugContext(ctx, "constraint rejected value",
//	    logger.Rule("unique"),
//	    logger.Property("email"),
//	    logger.Owner("user"),
//	)
//
// Library packages accept a logger through their own WithLogger option and
// fall back to Discard when none is supplied.
package logger
