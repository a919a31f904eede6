// Package checkapi exposes a checker.Engine over HTTP.
//
// Routes:
//
//	POST /validate/{entity}  204 when the JSON body passes, 422 with the violations otherwise
//	GET  /entities           names of the entities in the active ruleset
//	GET  /healthz            200 when the session factory is reachable, 503 otherwise
//	GET  /metrics            prometheus metrics, when a gatherer is configured
//
// Responses use a {data, error} JSON envelope.
package checkapi
