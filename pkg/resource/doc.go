// Package resource provides the named registry that persistence-aware
// constraints query for shared collaborators such as a database pool.
//
// Lookups are by string key. A missing key is reported through the boolean
// result of Acquire, never as an error, so callers can treat "not configured"
// as an ordinary state. The well-known key for the persistence session
// factory is SessionFactory.
//
//	reg := resource.NewRegistry()
//	reg.MustRegister(resource.SessionFactory, pool)
//
//	bean, ok := reg.Acquire(resource.SessionFactory)
//
// Registry is safe for concurrent use.
package resource
