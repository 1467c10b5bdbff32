package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/genricoloni/nowrelay/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestSelectCover(t *testing.T) {
	tests := []struct {
		name     string
		variants []domain.ImageVariant
		wantURL  string
		wantNil  bool
	}{
		{
			name:    "No variants",
			wantNil: true,
		},
		{
			name: "Narrowest qualifying variant wins",
			variants: []domain.ImageVariant{
				{URL: "large", Width: 640, Height: 640},
				{URL: "small", Width: 64, Height: 64},
				{URL: "medium", Width: 300, Height: 300},
			},
			wantURL: "medium",
		},
		{
			name: "Height must also qualify",
			variants: []domain.ImageVariant{
				{URL: "wide", Width: 300, Height: 200},
				{URL: "square", Width: 400, Height: 400},
			},
			wantURL: "square",
		},
		{
			name: "Equal widths keep source order",
			variants: []domain.ImageVariant{
				{URL: "first", Width: 500, Height: 500},
				{URL: "second", Width: 500, Height: 600},
			},
			wantURL: "first",
		},
		{
			name: "Nothing qualifies falls back to first",
			variants: []domain.ImageVariant{
				{URL: "tiny", Width: 64, Height: 64},
				{URL: "bigger", Width: 299, Height: 299},
			},
			wantURL: "tiny",
		},
		{
			name: "Unknown dimensions fall back to first",
			variants: []domain.ImageVariant{
				{URL: "https://i.scdn.co/image/abc"},
			},
			wantURL: "https://i.scdn.co/image/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCover(tt.variants)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a variant, got nil")
			}
			if got.URL != tt.wantURL {
				t.Errorf("got %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockPlayerStateProvider)
		wantErr   error
		check     func(*testing.T, domain.TrackMetadata)
	}{
		{
			name: "Track with opaque cover",
			setupMock: func(m *mocks.MockPlayerStateProvider) {
				m.EXPECT().CurrentTrack(gomock.Any()).Return(&domain.PlayerTrack{
					Title:   "Song",
					Artists: []string{"A", "B"},
					Album:   "X",
					Images: []domain.ImageVariant{
						{URL: "spotify:image:big", Width: 640, Height: 640},
						{URL: "spotify:image:mid", Width: 300, Height: 300},
					},
				}, nil)
			},
			check: func(t *testing.T, m domain.TrackMetadata) {
				if m.Cover == nil || m.Cover.Kind != domain.ImageOpaqueID || m.Cover.Value != "mid" {
					t.Errorf("unexpected cover %+v", m.Cover)
				}
			},
		},
		{
			name: "Track without images has no cover",
			setupMock: func(m *mocks.MockPlayerStateProvider) {
				m.EXPECT().CurrentTrack(gomock.Any()).Return(&domain.PlayerTrack{Title: "Song"}, nil)
			},
			check: func(t *testing.T, m domain.TrackMetadata) {
				if m.Cover != nil {
					t.Errorf("expected no cover, got %+v", m.Cover)
				}
				if m.Album != "" || len(m.Artists) != 0 {
					t.Errorf("absent fields should stay empty: %+v", m)
				}
			},
		},
		{
			name: "No active track",
			setupMock: func(m *mocks.MockPlayerStateProvider) {
				m.EXPECT().CurrentTrack(gomock.Any()).Return(nil, nil)
			},
			wantErr: domain.ErrNoActiveTrack,
		},
		{
			name: "Provider failure",
			setupMock: func(m *mocks.MockPlayerStateProvider) {
				m.EXPECT().CurrentTrack(gomock.Any()).Return(nil, errors.New("bus gone"))
			},
			wantErr: errors.New("failed to read player state"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider := mocks.NewMockPlayerStateProvider(ctrl)
			tt.setupMock(provider)

			meta, err := NewBuilder(zap.NewNop(), provider).Build(context.Background())

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if errors.Is(tt.wantErr, domain.ErrNoActiveTrack) && !errors.Is(err, domain.ErrNoActiveTrack) {
					t.Errorf("expected ErrNoActiveTrack, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, meta)
		})
	}
}

func TestBuildPayload(t *testing.T) {
	meta := domain.TrackMetadata{Title: "Song", Artists: []string{"A", "B"}, Album: "X"}

	t.Run("without cover", func(t *testing.T) {
		body, err := json.Marshal(BuildPayload(meta, nil))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"title":"Song","artists":"A, B","album":"X"}`
		if string(body) != want {
			t.Errorf("got %s, want %s", body, want)
		}
	})

	t.Run("with cover", func(t *testing.T) {
		p := BuildPayload(meta, &domain.Thumbnail{Base64: "/9j/4AAQ"})
		if p.CoverBase64 == nil || *p.CoverBase64 != "/9j/4AAQ" {
			t.Errorf("cover not set: %+v", p)
		}
	})

	t.Run("empty metadata", func(t *testing.T) {
		body, err := json.Marshal(BuildPayload(domain.TrackMetadata{}, nil))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"title":"","artists":"","album":""}`
		if string(body) != want {
			t.Errorf("got %s, want %s", body, want)
		}
	})
}
