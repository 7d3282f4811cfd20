// Package render turns token strings into something a phone camera can scan.
package render

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	apperrors "github.com/nailbliss/stampcard/internal/errors"
)

// Media types produced by the renderers.
const (
	MediaTypePNG  = "image/png"
	MediaTypeURL  = "text/uri-list"
	MediaTypeText = "text/plain"
)

// DefaultRemoteURL is the public QR image service the customer app has always linked to.
const DefaultRemoteURL = "https://api.qrserver.com/v1/create-qr-code/"

// Image is a displayable reference to a rendered QR code.
type Image struct {
	// Source is a data URI, an image URL or text art, depending on MediaType.
	Source    string `json:"source"`
	MediaType string `json:"media_type"`
	Size      int    `json:"size"`
}

// Renderer converts an opaque string into a scannable image reference.
type Renderer interface {
	Render(data string) (*Image, error)
}

// LocalRenderer encodes PNGs in process.
type LocalRenderer struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewLocalRenderer creates a PNG renderer producing size x size images.
func NewLocalRenderer(size int) *LocalRenderer {
	return &LocalRenderer{size: size, level: qrcode.Medium}
}

// Render returns the PNG as a base64 data URI.
func (r *LocalRenderer) Render(data string) (*Image, error) {
	if data == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "nothing to render")
	}
	png, err := qrcode.Encode(data, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return &Image{
		Source:    "data:" + MediaTypePNG + ";base64," + base64.StdEncoding.EncodeToString(png),
		MediaType: MediaTypePNG,
		Size:      r.size,
	}, nil
}

// RemoteRenderer points at an external image service instead of drawing the code itself.
type RemoteRenderer struct {
	base *url.URL
	size int
}

// NewRemoteRenderer creates a renderer for baseURL, falling back to DefaultRemoteURL.
func NewRemoteRenderer(baseURL string, size int) (*RemoteRenderer, error) {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid qr render url %q", baseURL)
	}
	return &RemoteRenderer{base: base, size: size}, nil
}

// Render builds the image URL. No request is made.
func (r *RemoteRenderer) Render(data string) (*Image, error) {
	if data == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "nothing to render")
	}
	u := *r.base
	u.RawQuery = fmt.Sprintf("size=%dx%d&data=%s", r.size, r.size, url.QueryEscape(data))
	return &Image{Source: u.String(), MediaType: MediaTypeURL, Size: r.size}, nil
}

// TerminalRenderer draws the code with block characters for a terminal.
type TerminalRenderer struct {
	inverse bool
}

// NewTerminalRenderer creates a text renderer. Use inverse on light-on-dark terminals.
func NewTerminalRenderer(inverse bool) *TerminalRenderer {
	return &TerminalRenderer{inverse: inverse}
}

// Render returns the code as half-block text art.
func (r *TerminalRenderer) Render(data string) (*Image, error) {
	if data == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "nothing to render")
	}
	code, err := qrcode.New(data, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	art := code.ToSmallString(r.inverse)
	return &Image{
		Source:    art,
		MediaType: MediaTypeText,
		Size:      strings.Count(art, "\n"),
	}, nil
}

// New picks a renderer by name: "local" or "remote".
func New(kind string, size int, remoteURL string) (Renderer, error) {
	switch kind {
	case "", "local":
		return NewLocalRenderer(size), nil
	case "remote":
		return NewRemoteRenderer(remoteURL, size)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown qr renderer %q", kind)
	}
}
