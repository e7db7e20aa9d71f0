package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dshills/subly-core/internal/storage"
	"github.com/dshills/subly-core/pkg/types"
	"github.com/google/uuid"
)

// DeviceIDKey is the config key holding this installation's device id
const DeviceIDKey = "device_id"

// ErrSyncInProgress is returned when another upload or download is running
var ErrSyncInProgress = errors.New("sync already in progress")

// Documents is the cloud container the payload lives in
type Documents interface {
	ResolveContainer() (string, bool)
	Write(filename, contents string) error
	Read(filename string) (string, bool, error)
}

// ConfigStore persists small settings
type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

// Status is the result of comparing the remote payload with local data
type Status struct {
	Available       bool  `json:"available"`
	RemoteUpdatedAt int64 `json:"remote_updated_at"`
	// PendingUpdate is set when another device wrote newer data
	PendingUpdate bool `json:"pending_update"`
}

// Provider exchanges the sync envelope through the cloud container
type Provider struct {
	docs   Documents
	config ConfigStore
	logger *slog.Logger
	now    func() time.Time

	transfer transferLock

	mu       sync.Mutex
	deviceID string
}

// NewProvider creates a provider. A nil logger uses slog.Default().
func NewProvider(docs Documents, config ConfigStore, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		docs:   docs,
		config: config,
		logger: logger.With("component", "cloudsync"),
		now:    time.Now,
	}
}

// Available reports whether the container can be used right now
func (p *Provider) Available() bool {
	_, ok := p.docs.ResolveContainer()
	return ok
}

// DeviceID returns the id of this installation, creating it on first use
func (p *Provider) DeviceID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceID != "" {
		return p.deviceID, nil
	}

	id, err := p.config.GetConfig(ctx, DeviceIDKey)
	switch {
	case err == nil && id != "":
		p.deviceID = id
		return id, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("failed to load device id: %w", err)
	}

	id = newDeviceID()
	if err := p.config.SetConfig(ctx, DeviceIDKey, id); err != nil {
		return "", fmt.Errorf("failed to save device id: %w", err)
	}
	p.logger.Info("device id created", "device_id", id)
	p.deviceID = id
	return id, nil
}

func newDeviceID() string {
	return "dev_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Upload writes data to the container. A zero updatedAt means now.
func (p *Provider) Upload(ctx context.Context, data json.RawMessage, updatedAt int64) (*types.SyncMeta, error) {
	if !p.transfer.TryAcquire() {
		return nil, ErrSyncInProgress
	}
	defer p.transfer.Release()

	deviceID, err := p.DeviceID(ctx)
	if err != nil {
		return nil, err
	}

	now := p.now().UnixMilli()
	if updatedAt == 0 {
		updatedAt = now
	}
	payload := types.SyncPayload{
		Data: data,
		Meta: types.SyncMeta{
			LastSyncedAt: now,
			UpdatedAt:    updatedAt,
			DeviceID:     deviceID,
		},
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync payload: %w", err)
	}
	if err := p.docs.Write(types.SyncFilename, string(encoded)); err != nil {
		return nil, fmt.Errorf("failed to upload sync payload: %w", err)
	}

	p.logger.Debug("sync payload uploaded", "bytes", len(encoded), "updated_at", updatedAt)
	return &payload.Meta, nil
}

// Download returns the stored payload, or nil when nothing has been uploaded
func (p *Provider) Download(ctx context.Context) (*types.SyncPayload, error) {
	if !p.transfer.TryAcquire() {
		return nil, ErrSyncInProgress
	}
	defer p.transfer.Release()
	return p.download()
}

func (p *Provider) download() (*types.SyncPayload, error) {
	raw, found, err := p.docs.Read(types.SyncFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to download sync payload: %w", err)
	}
	if !found {
		return nil, nil
	}
	return types.DecodeSyncPayload(raw)
}

// RemoteMeta returns the metadata of the stored payload, or nil when absent
func (p *Provider) RemoteMeta(ctx context.Context) (*types.SyncMeta, error) {
	payload, err := p.download()
	if err != nil || payload == nil {
		return nil, err
	}
	return &payload.Meta, nil
}

// CheckRemote compares the remote payload with the local modification time.
// Payloads written by this device never count as pending.
func (p *Provider) CheckRemote(ctx context.Context, localUpdatedAt int64) (Status, error) {
	if !p.Available() {
		return Status{}, nil
	}

	meta, err := p.RemoteMeta(ctx)
	if err != nil {
		return Status{Available: true}, err
	}
	if meta == nil {
		return Status{Available: true}, nil
	}

	deviceID, err := p.DeviceID(ctx)
	if err != nil {
		return Status{Available: true}, err
	}

	remoteTs := meta.Timestamp()
	return Status{
		Available:       true,
		RemoteUpdatedAt: remoteTs,
		PendingUpdate:   remoteTs > localUpdatedAt && meta.DeviceID != deviceID,
	}, nil
}
