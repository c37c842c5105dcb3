// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models.
//
// Core goals:
//   - Blocking generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//   - Resolve public model identifiers through a Registry so an invalid
//     identifier is rejected before any provider call is made
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (orchestrators, server) remain decoupled from
// vendor SDKs.
package model
