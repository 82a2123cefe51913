package owner

import (
	"context"
	"errors"
	"testing"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type page struct {
	id   int64
	lang string
	url  string
}

func (p *page) AbsoluteURL() string  { return p.url }
func (p *page) LanguageCode() string { return p.lang }

type bare struct{}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("page", ResolverFunc(func(_ context.Context, id int64) (interface{}, error) {
		switch id {
		case 1:
			return &page{id: 1, lang: "fr", url: "/fr/about/"}, nil
		case 2:
			return nil, gorm.ErrRecordNotFound
		case 3:
			return nil, errors.New("connection reset")
		}
		return nil, common.ErrNotFound
	}))
	r.Register("bare", ResolverFunc(func(_ context.Context, _ int64) (interface{}, error) {
		return &bare{}, nil
	}))
	return r
}

func TestRegistry_Resolve(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	entity, ok, err := r.Resolve(ctx, domain.NewReference("page", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), entity.(*page).id)

	// 비어 있는 참조, 삭제된 대상, 모르는 타입은 모두 "없음"
	for _, ref := range []domain.GenericReference{
		{},
		domain.NewReference("page", 2),
		domain.NewReference("page", 99),
		domain.NewReference("unknown", 1),
	} {
		entity, ok, err := r.Resolve(ctx, ref)
		assert.NoError(t, err, ref.String())
		assert.False(t, ok, ref.String())
		assert.Nil(t, entity)
	}
}

func TestRegistry_ResolvePropagatesStorageErrors(t *testing.T) {
	r := newTestRegistry()

	_, ok, err := r.Resolve(context.Background(), domain.NewReference("page", 3))
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection reset")
}

func TestRegistry_URLAndLanguage(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	url, ok, err := r.URL(ctx, domain.NewReference("page", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/fr/about/", url)

	lang, ok, err := r.Language(ctx, domain.NewReference("page", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fr", lang)

	// URL 이 없는 소유자
	url, ok, err = r.URL(ctx, domain.NewReference("bare", 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, url)

	_, ok, err = r.Language(ctx, domain.NewReference("bare", 1))
	require.NoError(t, err)
	assert.False(t, ok)
}
