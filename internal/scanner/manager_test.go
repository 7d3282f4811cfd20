package scanner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStream struct {
	items  []string
	err    error
	closed int
}

func (s *fakeStream) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.items) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	item := s.items[0]
	s.items = s.items[1:]
	return item, nil
}

func (s *fakeStream) Close() error {
	s.closed++
	return nil
}

type fakeDevice struct {
	info    DeviceInfo
	stream  *fakeStream
	openErr error
	opens   int
}

func (d *fakeDevice) Info() DeviceInfo {
	return d.info
}

func (d *fakeDevice) Open(ctx context.Context) (Stream, error) {
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	if d.stream == nil {
		d.stream = &fakeStream{}
	}
	return d.stream, nil
}

type failingProvider struct {
	err error
}

func (p failingProvider) Devices(ctx context.Context) ([]Device, error) {
	return nil, p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeviceInfo_IsRear(t *testing.T) {
	tests := []struct {
		info DeviceInfo
		want bool
	}{
		{DeviceInfo{Facing: FacingRear}, true},
		{DeviceInfo{Facing: FacingFront, Label: "Back Camera"}, false},
		{DeviceInfo{Label: "Back Camera"}, true},
		{DeviceInfo{Label: "camera2 0, facing environment"}, true},
		{DeviceInfo{Label: "FaceTime HD Camera"}, false},
		{DeviceInfo{}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.IsRear(), tt.info.Label)
	}
}

func TestPreferred(t *testing.T) {
	front := &fakeDevice{info: DeviceInfo{ID: "front", Facing: FacingFront}}
	rear := &fakeDevice{info: DeviceInfo{ID: "rear", Facing: FacingRear}}
	unknown := &fakeDevice{info: DeviceInfo{ID: "usb", Label: "USB Camera"}}

	t.Run("PrefersRear", func(t *testing.T) {
		device, err := Preferred([]Device{front, unknown, rear})
		require.NoError(t, err)
		assert.Equal(t, "rear", device.Info().ID)
	})

	t.Run("FallsBackToFirst", func(t *testing.T) {
		device, err := Preferred([]Device{unknown, front})
		require.NoError(t, err)
		assert.Equal(t, "usb", device.Info().ID)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Preferred(nil)
		assert.ErrorIs(t, err, ErrNoDevice)
	})
}

func TestManager_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PrefersRearDevice", func(t *testing.T) {
		front := &fakeDevice{info: DeviceInfo{ID: "front", Facing: FacingFront}}
		rear := &fakeDevice{info: DeviceInfo{ID: "rear", Facing: FacingRear}}
		manager := NewManager(StaticProvider{front, rear}, testLogger())

		session, err := manager.Acquire(ctx)
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		assert.Equal(t, "rear", session.Device().ID)
		assert.Equal(t, 0, front.opens)
		assert.Equal(t, 1, rear.opens)
	})

	t.Run("Success_ExplicitDevice", func(t *testing.T) {
		front := &fakeDevice{info: DeviceInfo{ID: "front", Facing: FacingFront}}
		rear := &fakeDevice{info: DeviceInfo{ID: "rear", Facing: FacingRear}}
		manager := NewManager(StaticProvider{front, rear}, testLogger())

		session, err := manager.Acquire(ctx, WithDeviceID("front"))
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		assert.Equal(t, "front", session.Device().ID)
	})

	t.Run("Error_UnknownDeviceID", func(t *testing.T) {
		manager := NewManager(StaticProvider{&fakeDevice{info: DeviceInfo{ID: "a"}}}, testLogger())

		_, err := manager.Acquire(ctx, WithDeviceID("b"))
		assert.ErrorIs(t, err, ErrNoDevice)
	})

	t.Run("Error_Unsupported", func(t *testing.T) {
		manager := NewManager(nil, testLogger())

		_, err := manager.Acquire(ctx)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Error_NoDevices", func(t *testing.T) {
		manager := NewManager(StaticProvider{}, testLogger())

		_, err := manager.Acquire(ctx)
		assert.ErrorIs(t, err, ErrNoDevice)
	})

	t.Run("Error_PermissionDeniedOnEnumerate", func(t *testing.T) {
		manager := NewManager(failingProvider{err: ErrPermissionDenied}, testLogger())

		_, err := manager.Acquire(ctx)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("Error_DeviceBusy", func(t *testing.T) {
		device := &fakeDevice{info: DeviceInfo{ID: "cam"}}
		manager := NewManager(StaticProvider{device}, testLogger())

		first, err := manager.Acquire(ctx)
		require.NoError(t, err)

		_, err = manager.Acquire(ctx)
		assert.ErrorIs(t, err, ErrDeviceBusy)
		assert.Equal(t, 1, device.opens)

		require.NoError(t, first.Close())

		second, err := manager.Acquire(ctx)
		require.NoError(t, err)
		require.NoError(t, second.Close())
	})

	t.Run("Error_OpenFailureReleasesDevice", func(t *testing.T) {
		device := &fakeDevice{info: DeviceInfo{ID: "cam"}, openErr: ErrPermissionDenied}
		manager := NewManager(StaticProvider{device}, testLogger())

		_, err := manager.Acquire(ctx)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		device.openErr = nil
		session, err := manager.Acquire(ctx)
		require.NoError(t, err)
		require.NoError(t, session.Close())
	})
}

func TestSession_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("DeliversUntilEOF", func(t *testing.T) {
		device := &fakeDevice{
			info:   DeviceInfo{ID: "cam"},
			stream: &fakeStream{items: []string{"one", "", "two"}},
		}
		session, err := NewManager(StaticProvider{device}, testLogger()).Acquire(ctx)
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		var got []string
		err = session.Run(ctx, func(ctx context.Context, raw string) error {
			got = append(got, raw)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, got)
	})

	t.Run("HandlerErrorStopsRun", func(t *testing.T) {
		device := &fakeDevice{
			info:   DeviceInfo{ID: "cam"},
			stream: &fakeStream{items: []string{"one", "two"}},
		}
		session, err := NewManager(StaticProvider{device}, testLogger()).Acquire(ctx)
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		boom := errors.New("boom")
		calls := 0
		err = session.Run(ctx, func(ctx context.Context, raw string) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("StreamErrorStopsRun", func(t *testing.T) {
		streamErr := errors.New("device unplugged")
		device := &fakeDevice{
			info:   DeviceInfo{ID: "cam"},
			stream: &fakeStream{err: streamErr},
		}
		session, err := NewManager(StaticProvider{device}, testLogger()).Acquire(ctx)
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		err = session.Run(ctx, func(ctx context.Context, raw string) error { return nil })
		assert.ErrorIs(t, err, streamErr)
	})

	t.Run("CancelledContextEndsRunCleanly", func(t *testing.T) {
		device := &fakeDevice{
			info:   DeviceInfo{ID: "cam"},
			stream: &fakeStream{items: []string{"one"}},
		}
		session, err := NewManager(StaticProvider{device}, testLogger()).Acquire(ctx)
		require.NoError(t, err)
		defer func() { _ = session.Close() }()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err = session.Run(cancelled, func(ctx context.Context, raw string) error {
			t.Fatal("handler must not run")
			return nil
		})
		assert.NoError(t, err)
	})
}

func TestSession_Close(t *testing.T) {
	device := &fakeDevice{info: DeviceInfo{ID: "cam"}}
	session, err := NewManager(StaticProvider{device}, testLogger()).Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
	assert.Equal(t, 1, device.stream.closed)
}

func TestManager_Devices(t *testing.T) {
	manager := NewManager(StaticProvider{
		&fakeDevice{info: DeviceInfo{ID: "a", Label: "Front", Facing: FacingFront}},
		&fakeDevice{info: DeviceInfo{ID: "b", Label: "Back", Facing: FacingRear}},
	}, testLogger())

	infos, err := manager.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "b", infos[1].ID)
}
