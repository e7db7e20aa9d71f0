package types

import (
	"encoding/json"
	"fmt"
)

// SyncFilename is the document holding the sync envelope
const SyncFilename = "subly-sync.json"

// SyncMeta describes who wrote a payload and when
type SyncMeta struct {
	LastSyncedAt int64  `json:"lastSyncedAt"`
	UpdatedAt    int64  `json:"updatedAt"`
	DeviceID     string `json:"deviceId"`
}

// Timestamp returns the best known modification time of the payload
func (m SyncMeta) Timestamp() int64 {
	if m.UpdatedAt != 0 {
		return m.UpdatedAt
	}
	return m.LastSyncedAt
}

// SyncPayload is the document exchanged between devices
type SyncPayload struct {
	Data json.RawMessage `json:"data"`
	Meta SyncMeta        `json:"meta"`
}

// Validate checks the payload before it is written
func (p *SyncPayload) Validate() error {
	if len(p.Data) == 0 {
		return ErrEmptyData
	}
	if !json.Valid(p.Data) {
		return ErrInvalidData
	}
	if p.Meta.DeviceID == "" {
		return ErrMissingDeviceID
	}
	return nil
}

// DecodeSyncPayload parses a stored envelope
func DecodeSyncPayload(raw string) (*SyncPayload, error) {
	var p SyncPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if len(p.Data) == 0 || string(p.Data) == "null" {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidPayload)
	}
	return &p, nil
}
