package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// LineDevice is a keyboard-wedge style scanner: every line of input is one decoded string.
type LineDevice struct {
	info DeviceInfo
	open func() (io.Reader, io.Closer, error)
}

// NewReaderDevice creates a LineDevice over r. The reader is not closed by the device, so a
// caller may keep reading from it between scans.
func NewReaderDevice(info DeviceInfo, r *bufio.Reader) *LineDevice {
	return &LineDevice{
		info: info,
		open: func() (io.Reader, io.Closer, error) {
			return r, nil, nil
		},
	}
}

// NewFileDevice creates a LineDevice reading the file or named pipe at path.
func NewFileDevice(info DeviceInfo, path string) *LineDevice {
	return &LineDevice{
		info: info,
		open: func() (io.Reader, io.Closer, error) {
			f, err := os.Open(path)
			switch {
			case errors.Is(err, fs.ErrPermission):
				return nil, nil, ErrPermissionDenied
			case errors.Is(err, fs.ErrNotExist):
				return nil, nil, ErrNoDevice
			case err != nil:
				return nil, nil, err
			}
			return f, f, nil
		},
	}
}

// Info describes the device.
func (d *LineDevice) Info() DeviceInfo {
	return d.info
}

// Open starts reading. Lines are read on demand, one per call to Next.
func (d *LineDevice) Open(ctx context.Context) (Stream, error) {
	r, closer, err := d.open()
	if err != nil {
		return nil, err
	}

	reader, ok := r.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r)
	}

	s := &lineStream{
		reader:   reader,
		closer:   closer,
		requests: make(chan struct{}),
		results:  make(chan lineResult, 1),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

type lineResult struct {
	line string
	err  error
}

type lineStream struct {
	reader *bufio.Reader
	closer io.Closer

	requests chan struct{}
	results  chan lineResult
	done     chan struct{}
	exited   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// loop reads one line per request so the underlying reader is never read ahead of the
// consumer.
func (s *lineStream) loop() {
	defer close(s.exited)
	for {
		select {
		case <-s.done:
			return
		case <-s.requests:
		}

		line, err := s.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line != "" {
			err = nil
		}
		select {
		case s.results <- lineResult{line: line, err: err}:
		case <-s.done:
			return
		}
	}
}

func (s *lineStream) Next(ctx context.Context) (string, error) {
	// A result left over from a cancelled call is delivered first.
	select {
	case result := <-s.results:
		return result.line, result.err
	default:
	}

	select {
	case s.requests <- struct{}{}:
	case <-s.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case result := <-s.results:
		return result.line, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops the reader loop. A read already in progress on a reader the device does not
// own finishes in the background.
func (s *lineStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.closer != nil {
			s.closeErr = s.closer.Close()
			<-s.exited
		}
	})
	return s.closeErr
}
