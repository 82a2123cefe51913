package embed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPlugin_Render(t *testing.T) {
	p := New(Options{MaxWidth: 640, AspectRatio: "4:3"})
	ctx := context.Background()

	tests := []struct {
		name     string
		url      string
		contains []string
	}{
		{"youtube", "https://youtu.be/dQw4w9WgXcQ", []string{`youtube.com/embed/dQw4w9WgXcQ`, `width="640" height="480"`}},
		{"twitter", "https://x.com/golang/status/123", []string{`twitter.com/golang/status/123`, "twitter-tweet"}},
		{"instagram", "https://www.instagram.com/reel/AbC_1/", []string{`instagram.com/p/AbC_1/`}},
		{"other", "https://example.com/?a=1&b=<2>", []string{`class="embed-link"`, `a=1&amp;b=&lt;2&gt;`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Render(ctx, &Item{ContentItem: &domain.ContentItem{}, URL: tt.url})
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestPlugin_NewItemValidatesURL(t *testing.T) {
	p := New(Options{})
	base := &domain.ContentItem{ID: 2}

	item, err := p.NewItem(base, json.RawMessage(`{"url":" https://youtu.be/dQw4w9WgXcQ "}`))
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", item.(*Item).URL)
	assert.Same(t, base, item.Base())

	_, err = p.NewItem(base, json.RawMessage(`{"url":"javascript:alert(1)"}`))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestPlugin_SaveLoad(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	p := New(Options{})
	require.NoError(t, p.Migrate(db))

	require.NoError(t, p.SaveFields(db, &Item{ContentItem: &domain.ContentItem{ID: 4}, URL: "https://a.example"}))
	loaded, err := p.Load(db, []*domain.ContentItem{{ID: 4}})
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", loaded[0].(*Item).URL)

	require.NoError(t, p.DeleteFields(db, 4))
	_, err = p.Load(db, []*domain.ContentItem{{ID: 4}})
	assert.Error(t, err)
}
