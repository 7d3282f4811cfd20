package scanner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Manager hands out exclusive sessions on the devices of a provider.
type Manager struct {
	provider Provider
	logger   *slog.Logger

	mu   sync.Mutex
	held map[string]struct{}
}

// NewManager creates a Manager. A nil provider means the platform has no capture support.
func NewManager(provider Provider, logger *slog.Logger) *Manager {
	return &Manager{
		provider: provider,
		logger:   logger,
		held:     make(map[string]struct{}),
	}
}

// AcquireOption narrows device selection.
type AcquireOption func(*acquireOptions)

type acquireOptions struct {
	deviceID string
}

// WithDeviceID selects a specific device instead of the preferred one.
func WithDeviceID(id string) AcquireOption {
	return func(o *acquireOptions) {
		o.deviceID = id
	}
}

// Devices lists the available devices.
func (m *Manager) Devices(ctx context.Context) ([]DeviceInfo, error) {
	devices, err := m.devices(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]DeviceInfo, 0, len(devices))
	for _, device := range devices {
		infos = append(infos, device.Info())
	}
	return infos, nil
}

// Acquire opens the preferred device and returns a session that holds it exclusively. If
// opening fails the device is released before Acquire returns.
func (m *Manager) Acquire(ctx context.Context, opts ...AcquireOption) (*Session, error) {
	options := acquireOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	devices, err := m.devices(ctx)
	if err != nil {
		return nil, err
	}

	device, err := selectDevice(devices, options.deviceID)
	if err != nil {
		return nil, err
	}

	info := device.Info()
	if err := m.hold(info.ID); err != nil {
		return nil, err
	}

	stream, err := device.Open(ctx)
	if err != nil {
		m.release(info.ID)
		return nil, err
	}

	m.logger.Debug("scanner acquired", slog.String("device_id", info.ID), slog.String("label", info.Label))
	return &Session{manager: m, info: info, stream: stream}, nil
}

func (m *Manager) devices(ctx context.Context) ([]Device, error) {
	if m.provider == nil {
		return nil, ErrUnsupported
	}
	devices, err := m.provider.Devices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	return devices, nil
}

func selectDevice(devices []Device, id string) (Device, error) {
	if id == "" {
		return Preferred(devices)
	}
	for _, device := range devices {
		if device.Info().ID == id {
			return device, nil
		}
	}
	return nil, ErrNoDevice
}

func (m *Manager) hold(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.held[id]; ok {
		return ErrDeviceBusy
	}
	m.held[id] = struct{}{}
	return nil
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, id)
}

// Handler receives each decoded string. Returning an error ends the session run.
type Handler func(ctx context.Context, raw string) error

// Session is an exclusive hold on one open device.
type Session struct {
	manager *Manager
	info    DeviceInfo
	stream  Stream

	closeOnce sync.Once
	closeErr  error
}

// Device describes the held device.
func (s *Session) Device() DeviceInfo {
	return s.info
}

// Run passes every decoded string to handler until ctx ends, the device runs out of input or
// handler fails. Blank reads are skipped. Run does not close the session.
func (s *Session) Run(ctx context.Context, handler Handler) error {
	for {
		raw, err := s.stream.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return err
		}

		if raw == "" {
			continue
		}
		if err := handler(ctx, raw); err != nil {
			return err
		}
	}
}

// Close stops the device and releases it. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.stream.Close()
		s.manager.release(s.info.ID)
		s.manager.logger.Debug("scanner released", slog.String("device_id", s.info.ID))
	})
	return s.closeErr
}
