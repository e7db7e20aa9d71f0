// Package cloudsync stores the application's sync envelope in the iCloud
// document container so other devices signed into the same account can
// pick it up.
package cloudsync
