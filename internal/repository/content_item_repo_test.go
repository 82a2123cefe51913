package repository

import (
	"testing"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newItem(pid *uint64, ref domain.GenericReference, lang string, sort int) *domain.ContentItem {
	item := &domain.ContentItem{PolymorphicType: "text", LanguageCode: lang, PlaceholderID: pid, SortOrder: sort}
	item.SetParent(ref)
	return item
}

func TestPlaceholderRepository_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaceholderRepository(db)

	ref := domain.NewReference("page", 1)
	first := &domain.Placeholder{Slot: "main", Role: domain.RoleMain}
	first.SetParent(ref)
	require.NoError(t, repo.Create(first))

	dup := &domain.Placeholder{Slot: "main", Role: domain.RoleSidebar}
	dup.SetParent(ref)
	err := repo.Create(dup)

	var uerr *common.UniquenessError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "main", uerr.Slot)

	exists, err := repo.ExistsForParentSlot(ref, "main")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByParentAndSlot(ref, "main")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindByParentAndSlot(ref, "sidebar")
	assert.ErrorIs(t, err, common.ErrPlaceholderNotFound)
}

func TestContentItemRepository_Ordering(t *testing.T) {
	db := setupTestDB(t)
	placeholders := NewPlaceholderRepository(db)
	items := NewContentItemRepository(db)

	ref := domain.NewReference("page", 1)
	p := &domain.Placeholder{Slot: "main", Role: domain.RoleMain}
	p.SetParent(ref)
	require.NoError(t, placeholders.Create(p))

	for _, sort := range []int{3, 1, 2} {
		require.NoError(t, items.Create(newItem(&p.ID, ref, "en", sort)))
	}

	list, err := items.FindByPlaceholder(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, item := range list {
		assert.Equal(t, i+1, item.SortOrder)
		require.NotNil(t, item.LoadedPlaceholder())
		assert.Equal(t, "main", item.LoadedPlaceholder().Slot)
	}
}

func TestContentItemRepository_FindFilters(t *testing.T) {
	db := setupTestDB(t)
	items := NewContentItemRepository(db)

	pid := uint64(1)
	page1 := domain.NewReference("page", 1)
	page2 := domain.NewReference("page", 2)
	require.NoError(t, items.Create(newItem(&pid, page1, "en", 1)))
	require.NoError(t, items.Create(newItem(&pid, page1, "fr", 2)))
	require.NoError(t, items.Create(newItem(&pid, page2, "en", 3)))

	fr := "fr"
	list, err := items.Find(ItemQuery{PlaceholderID: &pid, Parent: &page1, LanguageCode: &fr})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fr", list[0].LanguageCode)

	list, err = items.Find(ItemQuery{Parent: &page1})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestContentItemRepository_DetachAndSave(t *testing.T) {
	db := setupTestDB(t)
	items := NewContentItemRepository(db)

	pid := uint64(5)
	ref := domain.NewReference("page", 1)
	a := newItem(&pid, ref, "en", 1)
	b := newItem(&pid, ref, "en", 2)
	require.NoError(t, items.Create(a))
	require.NoError(t, items.Create(b))

	n, err := items.DetachPlaceholder(pid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := items.FindByID(a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PlaceholderID)

	got.SortOrder = 7
	got.PolymorphicType = "changed"
	require.NoError(t, items.Save(got))

	reloaded, err := items.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.SortOrder)
	assert.Equal(t, "text", reloaded.PolymorphicType)

	require.NoError(t, items.Delete(a.ID))
	_, err = items.FindByID(a.ID)
	assert.ErrorIs(t, err, common.ErrContentItemNotFound)
}
