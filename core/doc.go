// Package core provides the foundational domain types shared by the
// orchestrators and the HTTP layer. It defines:
//
//   - Messages (conversation turns, including tool calls and results)
//   - Sessions (durable conversational containers with titles and categories)
//   - SessionStore (pluggable persistence for sessions and their listings)
//   - Message filtering helpers used to build model context windows
//
// The package intentionally keeps implementation concerns (persistence
// backends, model adapters, concrete orchestrators) out of scope, exposing
// small interfaces to enable custom backends and extensions.
package core
