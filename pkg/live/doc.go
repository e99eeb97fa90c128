// Package live serves a compiled template over HTTP and keeps browsers in
// sync with it over a WebSocket.
//
// Each WebSocket connection is a session with its own tree, store and View,
// built by the Factory and compiled once. The client forwards input and
// bound events as JSON frames; the session applies them to its tree, and
// every mutation the bindings make in response is sent back as a JSON patch.
//
// # Routes
//
//   - GET /         the page, server-rendered, plus the client script
//   - GET /ws       the WebSocket endpoint
//   - GET /healthz  liveness probe
//   - GET /metrics  Prometheus metrics, when a Gatherer is configured
//
// # Protocol
//
// Client to server, one frame per message:
//
//	{"type":"input","target":12,"value":"Ada"}
//	{"type":"event","target":14,"event":"click"}
//
// Server to client, an array of patches per message:
//
//	[{"op":"mount","value":"<p data-vbid=\"3\">...</p>","events":["click"]}]
//	[{"op":"text","target":5,"value":"bye"}]
//
// Ops are mount, text, html, value, attr and error. Text targets are either
// elements (data-vbid) or text nodes preceded by a <!--vbid:N--> marker.
//
// # Concurrency
//
// The binding engine is single-threaded per store. A session handles one
// frame at a time under its mutex; separate sessions share nothing.
// Heartbeat pings are written under the same mutex, and each pong extends
// the read deadline, so an idle browser keeps its session.
package live
