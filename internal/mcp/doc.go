// Package mcp implements the command bridge between the Subly host process
// and the application core.
//
// The bridge speaks the Model Context Protocol (JSON-RPC 2.0) over stdio.
// The host calls tools; the core answers with JSON text results and pushes
// side effects back as notifications.
//
// # Document commands
//
//   - container_url: resolve the iCloud folder; {"url": null} when unavailable
//   - write_file: {"filename", "contents"} creates or replaces a document
//   - read_file: {"filename"} returns {"contents": null} for a missing document
//
// An unavailable container is reported as a tool error with the text
// "cloud container is not available", distinct from a missing document.
//
// # Window lifecycle
//
// The host forwards window and tray events through lifecycle_event:
//
//	Request:
//	{"name": "lifecycle_event", "arguments": {"event": "close_requested"}}
//
//	Response:
//	{"prevent_close": true, "state": "hidden"}
//
// When prevent_close is true the host must cancel the default close. The
// resulting window operations arrive as window/show, window/hide and
// window/focus notifications. tray_menu returns the menu the host should
// install; its items list is empty where the platform has no tray.
// menu_click takes the id of a clicked item ("show" or "quit") and handles
// the matching event.
//
// # Sync
//
// sync_upload, sync_download and sync_check exchange the sync envelope
// (see pkg/types) through the same container.
//
// # Rate history
//
// rate_snapshot_save records one rate per currency per UTC day.
// rate_history lists a currency's rates oldest first, rate_history_prune
// drops points older than keep_days and rate_history_clear drops them all.
//
// # Notifications
//
// Notifications raised before the host has completed initialization are
// queued and delivered right after it does, so the first-launch notice
// (notification/show) is never lost. documents/changed is sent when a file
// in the container is created, written, removed or renamed.
//
// # Logging
//
// Stdout carries the protocol; all logging goes to stderr.
package mcp
