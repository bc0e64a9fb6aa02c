// Package cmd implements the command-line interface for the tkv key-value
// store. It provides a hierarchical command structure with operations for
// working with a local store and for serving one over HTTP.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (get, set, delete, etc.)
//   - serve: Commands for exposing a store over HTTP
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See tkv -help for a list of all commands.
package cmd
