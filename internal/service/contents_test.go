package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/owner"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/plugins/text"
	"github.com/damoang/angple-contents/internal/repository"
	"github.com/damoang/angple-contents/pkg/cache"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Mock CacheStore ---

type mockCacheStore struct {
	mock.Mock
}

func (m *mockCacheStore) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// --- Stub owner ---

type stubPage struct {
	lang string
	url  string
}

func (p *stubPage) LanguageCode() string { return p.lang }

func (p *stubPage) AbsoluteURL() string { return p.url }

type fixture struct {
	db           *gorm.DB
	registry     *plugin.Registry
	owners       *owner.Registry
	placeholders *PlaceholderService
	items        *ContentItemService
	invalidator  *CacheInvalidator
}

func setupFixture(t *testing.T, store CacheStore) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Placeholder{}, &domain.ContentItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	registry := plugin.NewRegistry()
	textPlugin := text.New()
	registry.MustRegister(textPlugin)
	require.NoError(t, textPlugin.Migrate(db))

	pages := map[int64]*stubPage{
		1: {lang: "fr", url: "/fr/about/"},
		2: {lang: "en", url: "/en/contact/"},
	}
	owners := owner.NewRegistry()
	owners.Register("page", owner.ResolverFunc(func(_ context.Context, id int64) (interface{}, error) {
		if p, ok := pages[id]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("page %d: %w", id, common.ErrNotFound)
	}))

	placeholderRepo := repository.NewPlaceholderRepository(db)
	itemRepo := repository.NewContentItemRepository(db)
	invalidator := NewCacheInvalidator(registry, placeholderRepo, store)

	return &fixture{
		db:           db,
		registry:     registry,
		owners:       owners,
		placeholders: NewPlaceholderService(db, placeholderRepo, itemRepo, registry, owners),
		items:        NewContentItemService(db, itemRepo, placeholderRepo, registry, owners, invalidator, "en"),
		invalidator:  invalidator,
	}
}

func (f *fixture) placeholder(t *testing.T, pageID int64, slot string) *domain.Placeholder {
	t.Helper()
	p, err := f.placeholders.Create(context.Background(), CreatePlaceholderRequest{
		Slot:   slot,
		Parent: domain.NewReference("page", pageID),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) text(t *testing.T, p *domain.Placeholder, pageID int64, lang, body string, order int) *text.Item {
	t.Helper()
	item := text.NewItem(body)
	item.SetParent(domain.NewReference("page", pageID))
	item.LanguageCode = lang
	item.SortOrder = order
	if p != nil {
		item.PlaceholderID = &p.ID
	}
	require.NoError(t, f.items.Save(context.Background(), item))
	return item
}

func outputKey(slot string, id uint64) string {
	return fmt.Sprintf("contents:output:text.textitem:%s:%d", slot, id)
}

func itemIDs(items []domain.Item) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Base().ID)
	}
	return ids
}

func TestPlaceholderService_CreateUniqueness(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()

	first := f.placeholder(t, 1, "main")
	assert.Equal(t, domain.RoleMain, first.Role)

	_, err := f.placeholders.Create(ctx, CreatePlaceholderRequest{Slot: "main", Parent: domain.NewReference("page", 1)})
	var uerr *common.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "page", uerr.ParentType)
	assert.Equal(t, int64(1), uerr.ParentID)
	assert.ErrorIs(t, err, common.ErrDuplicatePlaceholder)

	f.placeholder(t, 1, "sidebar")
	f.placeholder(t, 2, "main")

	// 소유자 없는 플레이스홀더는 슬롯이 같아도 여러 개 허용
	for i := 0; i < 2; i++ {
		_, err := f.placeholders.Create(ctx, CreatePlaceholderRequest{Slot: "global"})
		require.NoError(t, err)
	}
}

func TestPlaceholderService_CreateValidation(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	pageType := "page"

	tests := []struct {
		name string
		req  CreatePlaceholderRequest
	}{
		{"invalid slot", CreatePlaceholderRequest{Slot: "Main Slot"}},
		{"invalid role", CreatePlaceholderRequest{Slot: "main", Role: "x"}},
		{"half reference", CreatePlaceholderRequest{Slot: "main", Parent: domain.GenericReference{Type: &pageType}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.placeholders.Create(ctx, tt.req)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
		})
	}
}

func TestPlaceholderService_ContentItemsOrdering(t *testing.T) {
	f := setupFixture(t, nil)
	p := f.placeholder(t, 1, "main")

	b := f.text(t, p, 1, "fr", "b", 2)
	a1 := f.text(t, p, 1, "fr", "a1", 1)
	a2 := f.text(t, p, 1, "fr", "a2", 1)

	for i := 0; i < 3; i++ {
		items, err := f.placeholders.ContentItems(context.Background(), p, ItemFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uint64{a1.ID, a2.ID, b.ID}, itemIDs(items))
	}
}

func TestPlaceholderService_ContentItemsFilterAgreesOnConsistentStore(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	f.text(t, p, 1, "fr", "un", 1)
	f.text(t, p, 1, "fr", "deux", 2)

	parent := domain.NewReference("page", 1)
	unfiltered, err := f.placeholders.ContentItems(ctx, p, ItemFilter{})
	require.NoError(t, err)
	filtered, err := f.placeholders.ContentItems(ctx, p, ItemFilter{Parent: &parent})
	require.NoError(t, err)
	assert.Equal(t, itemIDs(unfiltered), itemIDs(filtered))

	// 소유자 언어(fr)가 아닌 아이템은 언어 제한 시에만 빠진다
	en := f.text(t, p, 1, "en", "one", 3)
	filtered, err = f.placeholders.ContentItems(ctx, p, ItemFilter{Parent: &parent})
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(filtered), en.ID)

	all, err := f.placeholders.ContentItems(ctx, p, ItemFilter{Parent: &parent, IgnoreLanguage: true})
	require.NoError(t, err)
	assert.Contains(t, itemIDs(all), en.ID)
	assert.Len(t, all, 3)
}

func TestPlaceholderService_ContentItemsUnknownPlugin(t *testing.T) {
	f := setupFixture(t, nil)
	p := f.placeholder(t, 1, "main")

	orphanType := &domain.ContentItem{PolymorphicType: "gone.item", LanguageCode: "fr", PlaceholderID: &p.ID}
	orphanType.SetParent(domain.NewReference("page", 1))
	require.NoError(t, f.db.Omit("Placeholder").Create(orphanType).Error)

	_, err := f.placeholders.ContentItems(context.Background(), p, ItemFilter{})
	var perr *common.UnknownPluginTypeError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "gone.item", perr.TypeTag)
}

func TestPlaceholderService_DeleteDetachesItems(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	require.NoError(t, f.placeholders.Delete(ctx, p.ID))

	_, err := f.placeholders.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrPlaceholderNotFound)

	got, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Base().PlaceholderID)
	assert.True(t, got.Base().IsOrphan())
	assert.Equal(t, "x", got.(*text.Item).Text)

	assert.ErrorIs(t, f.placeholders.Delete(ctx, p.ID), common.ErrPlaceholderNotFound)
}

func TestPlaceholderService_ResolveRenderURL(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()

	url, ok, err := f.placeholders.ResolveRenderURL(ctx, f.placeholder(t, 1, "main"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/fr/about/", url)

	_, ok, err = f.placeholders.ResolveRenderURL(ctx, f.placeholder(t, 404, "main"))
	require.NoError(t, err)
	assert.False(t, ok)

	unowned, err := f.placeholders.Create(ctx, CreatePlaceholderRequest{Slot: "global"})
	require.NoError(t, err)
	_, ok, err = f.placeholders.ResolveRenderURL(ctx, unowned)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPlaceholderService_UpdateAndAllowedTypes(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")

	title := "Main column"
	role := domain.RoleSidebar
	updated, err := f.placeholders.Update(ctx, p.ID, UpdatePlaceholderRequest{Title: &title, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Main column", updated.String())
	assert.Equal(t, domain.RoleSidebar, updated.Role)

	assert.Equal(t, []string{text.TypeTag}, f.placeholders.AllowedPluginTypes(p))
	f.registry.SetSlotConfig(map[string][]string{"main": {}})
	assert.Empty(t, f.placeholders.AllowedPluginTypes(p))
}

func TestContentItemService_CreateDoesNotInvalidate(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	p := f.placeholder(t, 1, "main")

	f.text(t, p, 1, "fr", "x", 1)

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestContentItemService_UpdateInvalidates(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	// 트랜잭션 안에서 한 번, 커밋 후 한 번
	store.On("Delete", mock.Anything, []string{outputKey("main", item.ID)}).Return(nil).Twice()

	item.Text = "y"
	require.NoError(t, f.items.Save(context.Background(), item))
	store.AssertExpectations(t)

	got, err := f.items.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "y", got.(*text.Item).Text)
}

func TestContentItemService_UpdateCannotChangeType(t *testing.T) {
	f := setupFixture(t, nil)
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	item.PolymorphicType = "other.item"
	err := f.items.Save(context.Background(), item)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestContentItemService_MoveInvalidatesBothPlacements(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	main := f.placeholder(t, 1, "main")
	sidebar := f.placeholder(t, 1, "sidebar")
	item := f.text(t, main, 1, "fr", "x", 1)

	store.On("Delete", mock.Anything, []string{outputKey("main", item.ID)}).Return(nil).Twice()
	store.On("Delete", mock.Anything, []string{outputKey("sidebar", item.ID)}).Return(nil).Twice()

	item.PlaceholderID = &sidebar.ID
	item.Placeholder = nil
	require.NoError(t, f.items.Save(context.Background(), item))
	store.AssertExpectations(t)
}

func TestContentItemService_DeleteInvalidatesBeforeRowRemoval(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	store.On("Delete", mock.Anything, []string{outputKey("main", item.ID)}).Return(nil).Twice()

	require.NoError(t, f.items.DeleteByID(ctx, item.ID))
	store.AssertExpectations(t)

	_, err := f.items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrContentItemNotFound)
}

func TestContentItemService_DeleteOrphanSkipsCache(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	item := f.text(t, nil, 1, "fr", "x", 1)

	require.NoError(t, f.items.Delete(context.Background(), item))
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestContentItemService_DeleteSucceedsWhenCacheFails(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	store.On("Delete", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	require.NoError(t, f.items.Delete(ctx, item))
	_, err := f.items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrContentItemNotFound)
}

// recachingStore 키가 처음 지워질 때 다른 연결의 렌더가 커밋 전 출력을 다시 캐시한 상황을 흉내낸다
type recachingStore struct {
	data    map[string]bool
	recache map[string]bool
}

func newRecachingStore() *recachingStore {
	return &recachingStore{data: make(map[string]bool), recache: make(map[string]bool)}
}

func (s *recachingStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
		if !s.recache[k] {
			s.recache[k] = true
			s.data[k] = true
		}
	}
	return nil
}

func TestContentItemService_InvalidatesAgainAfterCommit(t *testing.T) {
	store := newRecachingStore()
	f := setupFixture(t, store)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)
	key := outputKey("main", item.ID)

	store.data[key] = true
	item.Text = "y"
	require.NoError(t, f.items.Save(ctx, item))
	assert.False(t, store.data[key], "update left a stale render cached")

	store.data[key] = true
	store.recache = make(map[string]bool)
	require.NoError(t, f.items.Delete(ctx, item))
	assert.False(t, store.data[key], "delete left a stale render cached")
}

func TestContentItemService_ListByIDs(t *testing.T) {
	f := setupFixture(t, nil)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	b := f.text(t, p, 1, "fr", "b", 2)
	a := f.text(t, p, 1, "fr", "a", 1)

	items, err := f.items.ListByIDs(ctx, []uint64{b.ID, a.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, []uint64{a.ID, b.ID}, itemIDs(items))
	assert.Equal(t, "a", items[0].(*text.Item).Text)

	items, err = f.items.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContentItemService_LanguageFallback(t *testing.T) {
	f := setupFixture(t, nil)
	p := f.placeholder(t, 1, "main")

	tests := []struct {
		name   string
		parent domain.GenericReference
		lang   string
		want   string
	}{
		{"owner language", domain.NewReference("page", 1), "", "fr"},
		{"explicit language kept", domain.NewReference("page", 1), "de", "de"},
		{"missing owner", domain.NewReference("page", 404), "", "en"},
		{"unknown owner type", domain.NewReference("blog", 1), "", "en"},
		{"no owner", domain.GenericReference{}, "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := text.NewItem("x")
			item.SetParent(tt.parent)
			item.LanguageCode = tt.lang
			item.PlaceholderID = &p.ID
			require.NoError(t, f.items.Save(context.Background(), item))
			assert.Equal(t, tt.want, item.LanguageCode)
		})
	}
}

func TestContentItemService_SaveRejectsBaseItemOnCreate(t *testing.T) {
	f := setupFixture(t, nil)

	base := &domain.ContentItem{PolymorphicType: text.TypeTag, LanguageCode: "en"}
	assert.ErrorIs(t, f.items.Save(context.Background(), base), common.ErrInvalidInput)
}

func TestContentItemService_Describe(t *testing.T) {
	f := setupFixture(t, nil)
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	got, err := f.items.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	got.Base().Placeholder = p
	assert.Equal(t, fmt.Sprintf("'Text %d' in 'French main'", item.ID), f.items.Describe(got))
}

func TestContentItemService_Reorder(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	ctx := context.Background()
	p := f.placeholder(t, 1, "main")
	a := f.text(t, p, 1, "fr", "a", 1)
	b := f.text(t, p, 1, "fr", "b", 2)
	c := f.text(t, p, 1, "fr", "c", 3)

	store.On("Delete", mock.Anything, mock.Anything).Return(nil)

	// c, a 를 앞으로. b 는 나머지로 뒤에 남는다
	require.NoError(t, f.items.Reorder(ctx, p.ID, []uint64{c.ID, a.ID}))

	items, err := f.placeholders.ContentItems(ctx, p, ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{c.ID, a.ID, b.ID}, itemIDs(items))

	store.AssertCalled(t, "Delete", mock.Anything, []string{outputKey("main", c.ID)})
	store.AssertCalled(t, "Delete", mock.Anything, []string{outputKey("main", a.ID)})
	store.AssertCalled(t, "Delete", mock.Anything, []string{outputKey("main", b.ID)})

	other := f.placeholder(t, 2, "main")
	foreign := f.text(t, other, 2, "en", "z", 1)
	assert.ErrorIs(t, f.items.Reorder(ctx, p.ID, []uint64{foreign.ID}), common.ErrInvalidInput)
	assert.ErrorIs(t, f.items.Reorder(ctx, p.ID, []uint64{a.ID, a.ID}), common.ErrInvalidInput)
	assert.ErrorIs(t, f.items.Reorder(ctx, 9999, nil), common.ErrPlaceholderNotFound)
}

func TestCacheInvalidator_Idempotent(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "x", 1)

	store.On("Delete", mock.Anything, []string{outputKey("main", item.ID)}).Return(nil).Twice()

	require.NoError(t, f.invalidator.Invalidate(context.Background(), item))
	require.NoError(t, f.invalidator.Invalidate(context.Background(), item))
	store.AssertExpectations(t)
}

func TestCacheInvalidator_DeleteKeysAttemptsEveryKey(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)

	store.On("Delete", mock.Anything, []string{"k1"}).Return(errors.New("timeout")).Once()
	store.On("Delete", mock.Anything, []string{"k2"}).Return(nil).Once()

	failed := f.invalidator.DeleteKeys(context.Background(), []string{"k1", "k2"})
	assert.Equal(t, 1, failed)
	store.AssertExpectations(t)
}

func TestCacheInvalidator_KeysForMissingPlaceholder(t *testing.T) {
	f := setupFixture(t, nil)
	missing := uint64(9999)
	item := text.NewItem("x")
	item.ID = 1
	item.PlaceholderID = &missing

	keys, err := f.invalidator.CacheKeysFor(item)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestTranslationReactor_DeletesOnlyThatLanguage(t *testing.T) {
	store := new(mockCacheStore)
	f := setupFixture(t, store)
	ctx := context.Background()
	main := f.placeholder(t, 1, "main")
	sidebar := f.placeholder(t, 1, "sidebar")
	fr1 := f.text(t, main, 1, "fr", "un", 1)
	fr2 := f.text(t, sidebar, 1, "fr", "deux", 1)
	enMain := f.text(t, main, 1, "en", "one", 2)
	enSidebar := f.text(t, sidebar, 1, "en", "two", 2)
	other := f.text(t, f.placeholder(t, 2, "main"), 2, "fr", "autre", 1)

	store.On("Delete", mock.Anything, []string{outputKey("main", fr1.ID)}).Return(nil).Twice()
	store.On("Delete", mock.Anything, []string{outputKey("sidebar", fr2.ID)}).Return(nil).Twice()

	bus := plugin.NewEventBus(plugin.NewDefaultLogger("test"))
	NewTranslationReactor(f.items).Subscribe(bus)
	require.NoError(t, bus.Publish(ctx, "test", plugin.TopicTranslationDeleted, plugin.TranslationDeleted{
		Parent:       domain.NewReference("page", 1),
		LanguageCode: "fr",
	}))
	store.AssertExpectations(t)

	remaining, err := f.placeholders.ContentItems(ctx, main, ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{enMain.ID}, itemIDs(remaining))

	remaining, err = f.placeholders.ContentItems(ctx, sidebar, ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{enSidebar.ID}, itemIDs(remaining))

	for _, p := range []*domain.Placeholder{main, sidebar} {
		_, err = f.placeholders.GetByID(ctx, p.ID)
		assert.NoError(t, err, "placeholder %s must survive", p.Slot)
	}

	_, err = f.items.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestTranslationReactor_RejectsBadPayload(t *testing.T) {
	f := setupFixture(t, nil)
	bus := plugin.NewEventBus(plugin.NewDefaultLogger("test"))
	NewTranslationReactor(f.items).Subscribe(bus)

	err := bus.Publish(context.Background(), "test", plugin.TopicTranslationDeleted, "fr")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewTranslationReactor(f.items).OnTranslationDeleted(context.Background(), plugin.TranslationDeleted{LanguageCode: "fr"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRenderService_CachesUntilUpdate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewService(client)

	f := setupFixture(t, store)
	ctx := context.Background()
	renderer := NewRenderService(f.placeholders, f.registry, store)
	p := f.placeholder(t, 1, "main")
	item := f.text(t, p, 1, "fr", "old", 1)

	out, err := renderer.RenderPlaceholder(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, `<div class="text">old</div>`, out)
	assert.True(t, mr.Exists(outputKey("main", item.ID)))

	item.Text = "new"
	require.NoError(t, f.items.Save(ctx, item))
	assert.False(t, mr.Exists(outputKey("main", item.ID)))

	out, err = renderer.RenderPlaceholder(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, `<div class="text">new</div>`, out)
}
