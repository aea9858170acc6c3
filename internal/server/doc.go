// Package server exposes the registry over HTTP.
//
// The server is a thin readiness surface on top of the service registry:
//
//   - /healthz            - aggregate lifecycle state of every service
//   - /readyz/{service}   - readiness of one service (503 until Ready)
//   - /plan/{service}     - the initialization order for one target
//   - /users/{id}         - demo endpoint served through the guarded
//     users service, so the first request lazily initializes the whole
//     dependency chain beneath it
//   - /users/me           - demo endpoint resolving the bearer token
//
// Hitting /healthz never initializes anything: it reports the states as
// they are. Only the guarded demo endpoints trigger initialization.
package server
