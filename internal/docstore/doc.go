// Package docstore keeps documents in the user's cloud-synced folder.
//
// The store never talks to a cloud provider. It writes into the directory an
// OS-level daemon mirrors (iCloud Drive on macOS) and reports ErrUnavailable
// when that directory is missing, instead of falling back to local storage.
// Read distinguishes three outcomes: unavailable (error), absent (found is
// false) and present.
package docstore
