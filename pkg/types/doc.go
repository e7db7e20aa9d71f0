// Package types provides shared type definitions for Subly.
//
// The sync envelope is written to the cloud container as JSON and read back
// by other devices, so its field names are part of the file format:
//
//	{
//	  "data": { ...application data... },
//	  "meta": {"lastSyncedAt": 1700000000000, "updatedAt": 1700000000000, "deviceId": "dev_1a2b3c4d"}
//	}
//
// Timestamps are Unix milliseconds.
package types
