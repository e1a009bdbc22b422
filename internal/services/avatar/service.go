// Package avatar keeps a session's profile image in sync with the player's
// rank badge. Badges arrive in whatever format the CDN serves and have
// irregular silhouettes, so they are re-encoded to PNG with the alpha
// channel intact rather than cropped or converted lossily.
package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"net/http"

	// Badge decoders beyond PNG: the CDN has served JPEG and WebP
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/mcoot/apextrack/internal/discord"
)

// maxBadgeBytes caps how large a badge download we accept
const maxBadgeBytes = 8 << 20

// Service is the avatar updater
type Service struct {
	http   *http.Client
	logger *slog.Logger
}

// New creates an avatar Service using the shared HTTP client
func New(httpClient *http.Client, logger *slog.Logger) *Service {
	return &Service{
		http:   httpClient,
		logger: logger.With(slog.String("component", "avatar-updater")),
	}
}

// Update downloads the badge at url, re-encodes it to PNG and uploads it as
// the session's profile image. Any fault is returned for the caller to log;
// nothing here stops the polling loop.
func (s *Service) Update(ctx context.Context, session discord.Session, playerName, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building badge request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("downloading badge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download badge: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBadgeBytes))
	if err != nil {
		return fmt.Errorf("reading badge body: %w", err)
	}

	encoded, err := reencodePNG(raw)
	if err != nil {
		return fmt.Errorf("re-encoding badge: %w", err)
	}

	if err := session.SetAvatar(encoded); err != nil {
		return err
	}

	s.logger.Info("profile image updated to rank badge",
		slog.String("player", playerName),
	)
	return nil
}

// reencodePNG decodes an image in any registered format and re-encodes it as
// PNG, converting to NRGBA first so transparency survives regardless of the
// source color model.
func reencodePNG(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		bounds := src.Bounds()
		nrgba = image.NewNRGBA(bounds)
		draw.Draw(nrgba, bounds, src, bounds.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
