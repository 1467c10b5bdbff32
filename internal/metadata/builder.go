package metadata

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
)

// MinCoverSide is the smallest edge a cover variant needs to be preferred
const MinCoverSide = 300

// ArtistSeparator joins artists in the wire payload
const ArtistSeparator = ", "

// Builder turns player state into TrackMetadata
type Builder struct {
	logger   *zap.Logger
	provider domain.PlayerStateProvider
}

// NewBuilder creates a metadata builder reading from provider
func NewBuilder(logger *zap.Logger, provider domain.PlayerStateProvider) *Builder {
	return &Builder{
		logger:   logger,
		provider: provider,
	}
}

// Build returns metadata for the current track, or domain.ErrNoActiveTrack.
func (b *Builder) Build(ctx context.Context) (domain.TrackMetadata, error) {
	track, err := b.provider.CurrentTrack(ctx)
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("failed to read player state: %w", err)
	}
	if track == nil {
		return domain.TrackMetadata{}, domain.ErrNoActiveTrack
	}

	meta := domain.TrackMetadata{
		Title:   track.Title,
		Artists: append([]string(nil), track.Artists...),
		Album:   track.Album,
	}

	if cover := SelectCover(track.Images); cover != nil {
		meta.Cover = domain.ParseImageReference(cover.URL)
	}

	b.logger.Debug("Metadata built",
		zap.String("title", meta.Title),
		zap.Strings("artists", meta.Artists),
		zap.String("album", meta.Album),
		zap.Int("variants", len(track.Images)),
		zap.Bool("hasCover", meta.Cover != nil))

	return meta, nil
}

// SelectCover picks the narrowest variant with both sides >= MinCoverSide.
// The thumbnail is downscaled anyway, so the smallest adequate image saves
// bandwidth. Without a qualifying variant the first one is used; nil when
// there are no variants.
func SelectCover(variants []domain.ImageVariant) *domain.ImageVariant {
	if len(variants) == 0 {
		return nil
	}

	var qualifying []domain.ImageVariant
	for _, v := range variants {
		if v.Width >= MinCoverSide && v.Height >= MinCoverSide {
			qualifying = append(qualifying, v)
		}
	}

	if len(qualifying) == 0 {
		first := variants[0]
		return &first
	}

	slices.SortStableFunc(qualifying, func(a, b domain.ImageVariant) int {
		return a.Width - b.Width
	})
	best := qualifying[0]
	return &best
}

// BuildPayload flattens metadata and an optional thumbnail into the wire shape
func BuildPayload(meta domain.TrackMetadata, thumb *domain.Thumbnail) domain.Payload {
	payload := domain.Payload{
		Title:   meta.Title,
		Artists: strings.Join(meta.Artists, ArtistSeparator),
		Album:   meta.Album,
	}
	if thumb != nil && thumb.Base64 != "" {
		cover := thumb.Base64
		payload.CoverBase64 = &cover
	}
	return payload
}
