package processor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // GIF format support
	"image/jpeg"
	_ "image/png" // PNG format support

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

var (
	_ domain.Normalizer     = (*Thumbnailer)(nil)
	_ domain.ImageProcessor = (*Thumbnailer)(nil)
)

// ThumbnailConfig holds configuration for cover normalization
type ThumbnailConfig struct {
	Size        int
	Quality     int
	URLTemplate string
}

// Thumbnailer center-crops covers to a square and shrinks them for the display
type Thumbnailer struct {
	logger  *zap.Logger
	fetcher domain.Fetcher
	config  ThumbnailConfig
}

// NewThumbnailer creates a new cover normalizer
func NewThumbnailer(logger *zap.Logger, fetcher domain.Fetcher, cfg *config.Config) *Thumbnailer {
	return &Thumbnailer{
		logger:  logger,
		fetcher: fetcher,
		config: ThumbnailConfig{
			Size:        cfg.Bridge.ThumbnailSize,
			Quality:     cfg.Bridge.JPEGQuality,
			URLTemplate: cfg.Bridge.ImageURLTemplate,
		},
	}
}

// Normalize resolves, fetches and re-encodes the cover.
// Any failure is logged and reported as a nil thumbnail.
func (p *Thumbnailer) Normalize(ctx context.Context, ref domain.ImageReference) *domain.Thumbnail {
	thumb, err := p.normalize(ctx, ref)
	if err != nil {
		p.logger.Warn("Cover normalization failed, sending without cover",
			zap.String("ref", ref.String()),
			zap.String("kind", errorKind(err)),
			zap.Error(err))
		return nil
	}
	return thumb
}

func (p *Thumbnailer) normalize(ctx context.Context, ref domain.ImageReference) (*domain.Thumbnail, error) {
	// 1. Resolve reference to a concrete URL
	url, err := ref.Resolve(p.config.URLTemplate)
	if err != nil {
		return nil, err
	}

	// 2. Fetch artwork
	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	// 3-6. Decode, crop, resize, encode
	out, err := p.Process(ctx, data)
	if err != nil {
		return nil, err
	}

	// 7. Base64 for the JSON payload
	thumb := &domain.Thumbnail{
		JPEG:   out,
		Base64: base64.StdEncoding.EncodeToString(out),
		Size:   p.config.Size,
	}

	p.logger.Debug("Cover normalized",
		zap.String("url", url),
		zap.String("jpeg", humanize.Bytes(uint64(len(out)))),
		zap.Int("base64Len", len(thumb.Base64)))
	return thumb, nil
}

// Process decodes image bytes, center-crops to a square and resizes it to the
// configured size, returning JPEG bytes.
func (p *Thumbnailer) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	// 1. Decode image from bytes
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	// Validate image dimensions to prevent empty crops
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: invalid image dimensions: %dx%d", domain.ErrDecode, bounds.Dx(), bounds.Dy())
	}

	// 2. Center crop to a square of side min(w, h); offsets round down
	side := min(bounds.Dx(), bounds.Dy())
	square := imaging.CropCenter(img, side, side)

	// 3. Resize with smoothing disabled so the device gets crisp pixels
	p.logger.Debug("Resizing cover",
		zap.String("format", format),
		zap.Int("srcW", bounds.Dx()),
		zap.Int("srcH", bounds.Dy()),
		zap.Int("side", side),
		zap.Int("size", p.config.Size))
	thumb := imaging.Resize(square, p.config.Size, p.config.Size, imaging.NearestNeighbor)

	// 4. Encode result to JPEG (in-memory buffer)
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncode, err)
	}

	return buf.Bytes(), nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnresolvableImage):
		return "resolve"
	case errors.Is(err, domain.ErrFetch):
		return "fetch"
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	case errors.Is(err, domain.ErrEncode):
		return "encode"
	default:
		return "unknown"
	}
}
