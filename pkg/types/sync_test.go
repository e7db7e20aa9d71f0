package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload SyncPayload
		wantErr error
	}{
		{
			name:    "valid",
			payload: SyncPayload{Data: json.RawMessage(`{"subscriptions":[]}`), Meta: SyncMeta{DeviceID: "dev_12345678"}},
		},
		{
			name:    "empty data",
			payload: SyncPayload{Meta: SyncMeta{DeviceID: "dev_12345678"}},
			wantErr: ErrEmptyData,
		},
		{
			name:    "not json",
			payload: SyncPayload{Data: json.RawMessage(`{oops`), Meta: SyncMeta{DeviceID: "dev_12345678"}},
			wantErr: ErrInvalidData,
		},
		{
			name:    "missing device",
			payload: SyncPayload{Data: json.RawMessage(`{}`)},
			wantErr: ErrMissingDeviceID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeSyncPayload_WireFormat(t *testing.T) {
	raw := `{"data":{"currencies":["EUR"]},"meta":{"lastSyncedAt":1700000000000,"updatedAt":1700000000500,"deviceId":"dev_abcdef12"}}`

	p, err := DecodeSyncPayload(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currencies":["EUR"]}`, string(p.Data))
	assert.Equal(t, int64(1700000000000), p.Meta.LastSyncedAt)
	assert.Equal(t, int64(1700000000500), p.Meta.UpdatedAt)
	assert.Equal(t, "dev_abcdef12", p.Meta.DeviceID)
}

func TestDecodeSyncPayload_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"meta":{}}`, `{"data":null}`} {
		_, err := DecodeSyncPayload(raw)
		assert.ErrorIs(t, err, ErrInvalidPayload, "input %q", raw)
	}
}

func TestSyncMeta_Timestamp(t *testing.T) {
	assert.Equal(t, int64(5), SyncMeta{LastSyncedAt: 3, UpdatedAt: 5}.Timestamp())
	assert.Equal(t, int64(3), SyncMeta{LastSyncedAt: 3}.Timestamp())
	assert.Zero(t, SyncMeta{}.Timestamp())
}
