// Package http exposes the room booking service as a JSON API.
//
// The router exposes the following endpoints:
//   - GET /healthz: pings the database. 200 {"status":"ok"} or 503.
//   - GET /rooms, POST /rooms, GET|PUT|DELETE /rooms/:id: room catalog exchanging
//     the roomDTO payload defined in room_handler.go. Extra times are seconds.
//   - GET /rooms/:id/starttimes?year=&month=&day=&duration=: possible booking
//     starts as a bare array [{"timestamp": <unix seconds>, "display": "HH:MM"}].
//     duration is in minutes.
//   - GET /rooms/:id/windows?year=&month=&day=: open intervals of the day after
//     padding and blockers.
//   - GET /weekplans, POST /weekplans, GET|PUT|DELETE /weekplans/:id: week plans
//     with slots given either as a list or as text ("Mon 08:00-12:00, 13:00-17:00").
//   - GET /assignments?room_id=&week_plan_id=, POST /assignments,
//     GET|PUT|DELETE /assignments/:id: week plan to room bindings. Overlapping
//     assignments of one room are rejected with 422.
//   - GET /blockers?room_id=&from=&to=, POST /blockers, GET|PUT|DELETE /blockers/:id:
//     forced-closed intervals; a blocker without room_id closes every room.
//
// Errors use {"error_code","message","errors"}: 400 malformed input, 404 unknown
// resource, 409 duplicate, 422 validation with a field map, 500 otherwise.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
