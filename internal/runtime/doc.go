// Package runtime turns a scene document into a live physics world and keeps
// it controllable while it runs.
//
// A [Session] owns exactly one world at a time together with the [Registry]
// that maps document ids to engine bodies:
//
//   - [Build]: creates every body of a document inside a world
//   - [Registry]: id → body mapping for a single build generation
//   - [Observe]: projects dynamic bodies into a [Snapshot]
//   - [Handle]: a generation-bound reference to one body
//   - [Clock]: drives [Session.Tick] at a fixed rate
//
// # Lifecycle
//
// Sessions move from Unbuilt to Running on [Session.Build] and stay Running
// across rebuilds. A rebuild stops the clock, detaches the registry and
// clears the world, in that order, before anything new is created.
// [Session.Teardown] is terminal.
//
// # Thread Safety
//
// Sessions are NOT thread-safe. Every call, including the clock's ticks, must
// come from one goroutine. [Loop] provides that goroutine for real-time use.
package runtime
