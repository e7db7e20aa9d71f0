// Package lifecycle decides what happens to the main window when the user
// closes it or interacts with the tray icon.
//
// On desktop platforms closing the window hides it and the process keeps
// running in the tray; only the tray's Quit item terminates. Platforms
// without a tray get an inert controller that leaves the default close
// behavior alone.
package lifecycle
