// Package api implements the HTTP REST API and WebSocket change feed for
// the Todo service.
//
// This package provides:
//   - CRUD endpoints under /todos backed by todo.Service
//   - Per-route, per-client rate limiting
//   - Optional bearer-token auth on mutating routes
//   - Embedded OpenAPI document and Swagger UI page
//   - WebSocket hub that pushes every committed change to connected clients
//   - Middleware stack (request ID, logging, recovery, CORS, body limit, metrics)
//
// # Errors
//
// Handlers return domain errors; writeServiceError is the only place they
// are translated to HTTP status codes. Store faults are logged with the
// request ID and answered with a generic 500 body.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. Without them the API serves requests
// normally; events only reach WebSocket clients and request metrics are
// not recorded.
package api
