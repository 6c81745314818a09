// Package server exposes interaction engines over HTTP.
//
// Each browser session owns one engine (see package session). The routes
// mirror the surface affordances: submit text, read the frame in any
// output format, read the checkbox tree and entity lists, and post events.
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/legend
//	POST /api/sessions
//	GET  /api/sessions/{id}/status
//	POST /api/sessions/{id}/extract
//	GET  /api/sessions/{id}/frame?format=json|plotly|dot|svg|pdf|png
//	GET  /api/sessions/{id}/tree
//	GET  /api/sessions/{id}/entities
//	POST /api/sessions/{id}/events
//
// Errors are written as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server
