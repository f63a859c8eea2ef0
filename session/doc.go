// Package session owns the platform credential lifecycle: resolving the
// current bearer token, refreshing it against the token endpoint, and
// persisting rotated tokens through a session store.
package session
