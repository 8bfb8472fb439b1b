package gormpersistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog-admin/internal/domain"
	gormpersistence "catalog-admin/internal/infra/persistence/gorm"
	"catalog-admin/internal/infra/setup"
	"catalog-admin/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := setup.InitDB(setup.DBOptions{Driver: setup.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() { _ = setup.CloseDB(db) })
	return db
}

func strPtr(s string) *string { return &s }

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	return n
}

func TestUserRepository_UpsertByEmail(t *testing.T) {
	db := setupTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	created, err := users.UpsertByEmail(ctx, "m@shoestore.com", strPtr("Mia"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.Name)
	assert.Equal(t, "Mia", *created.Name)

	// same email, new name: no new row, name replaced
	renamed, err := users.UpsertByEmail(ctx, "m@shoestore.com", strPtr("Mia K."))
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	require.NotNil(t, renamed.Name)
	assert.Equal(t, "Mia K.", *renamed.Name)

	// same email, no name: name left as is
	kept, err := users.UpsertByEmail(ctx, "m@shoestore.com", nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, kept.ID)
	require.NotNil(t, kept.Name)
	assert.Equal(t, "Mia K.", *kept.Name)

	assert.Equal(t, int64(1), countUsers(t, db))
}

func TestUserRepository_UpsertWithoutName(t *testing.T) {
	db := setupTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)

	user, err := users.UpsertByEmail(context.Background(), "anon@shoestore.com", nil)
	require.NoError(t, err)
	assert.Nil(t, user.Name)
}

func TestUserRepository_FindMissing(t *testing.T) {
	db := setupTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	_, err := users.FindByEmail(ctx, "nobody@shoestore.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = users.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func seedAuthor(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user, err := gormpersistence.NewGormUserRepository(db).UpsertByEmail(context.Background(), email, nil)
	require.NoError(t, err)
	return user
}

func TestPostRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	ctx := context.Background()
	author := seedAuthor(t, db, "m@shoestore.com")

	post := &domain.Post{Title: "Air Runner X", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))
	assert.NotZero(t, post.ID)
	assert.False(t, post.Published)

	found, err := posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Air Runner X", found.Title)
	assert.Nil(t, found.Content)
	require.NotNil(t, found.Author)
	assert.Equal(t, "m@shoestore.com", found.Author.Email)
}

func TestPostRepository_CreateRejectsBlankTitle(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	author := seedAuthor(t, db, "m@shoestore.com")

	err := posts.Create(context.Background(), &domain.Post{Title: "   ", AuthorID: author.ID})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestPostRepository_CreateWithUnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)

	err := posts.Create(context.Background(), &domain.Post{Title: "Orphan", AuthorID: 999})
	require.Error(t, err)
	assert.True(t, repository.IsConstraintViolation(err), "got %v", err)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	ctx := context.Background()
	author := seedAuthor(t, db, "m@shoestore.com")

	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, posts.Create(ctx, &domain.Post{Title: title, AuthorID: author.ID}))
	}

	listed, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Third", listed[0].Title)
	assert.Equal(t, "First", listed[2].Title)
	for i := 1; i < len(listed); i++ {
		assert.Greater(t, listed[i-1].ID, listed[i].ID)
	}
	require.NotNil(t, listed[0].Author)
	assert.Equal(t, author.ID, listed[0].Author.ID)
}

func TestPostRepository_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	listed, err := gormpersistence.NewGormPostRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}

func TestPostRepository_UpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	ctx := context.Background()
	author := seedAuthor(t, db, "m@shoestore.com")

	post := &domain.Post{Title: "Trail Blazer", Content: strPtr("Waterproof"), AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	unchanged, err := posts.Update(ctx, post.ID, domain.PostPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Trail Blazer", unchanged.Title)
	require.NotNil(t, unchanged.Content)
	assert.Equal(t, "Waterproof", *unchanged.Content)

	retitled, err := posts.Update(ctx, post.ID, domain.PostPatch{Title: domain.Some("Trail Blazer 2")})
	require.NoError(t, err)
	assert.Equal(t, "Trail Blazer 2", retitled.Title)
	require.NotNil(t, retitled.Content)
	assert.Equal(t, "Waterproof", *retitled.Content)

	cleared, err := posts.Update(ctx, post.ID, domain.PostPatch{Content: domain.Some[*string](nil)})
	require.NoError(t, err)
	assert.Equal(t, "Trail Blazer 2", cleared.Title)
	assert.Nil(t, cleared.Content)
}

func TestPostRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)

	_, err := posts.Update(context.Background(), 404, domain.PostPatch{Title: domain.Some("x")})
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestPostRepository_SetPublishedIsVerbatim(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	ctx := context.Background()
	author := seedAuthor(t, db, "m@shoestore.com")
	post := &domain.Post{Title: "Court Classic", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	on, err := posts.SetPublished(ctx, post.ID, true)
	require.NoError(t, err)
	assert.True(t, on.Published)

	// writing the same value twice does not flip it
	again, err := posts.SetPublished(ctx, post.ID, true)
	require.NoError(t, err)
	assert.True(t, again.Published)

	off, err := posts.SetPublished(ctx, post.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Published)

	_, err = posts.SetPublished(ctx, 999, true)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestPostRepository_DeleteKeepsAuthor(t *testing.T) {
	db := setupTestDB(t)
	posts := gormpersistence.NewGormPostRepository(db)
	users := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()
	author := seedAuthor(t, db, "m@shoestore.com")
	post := &domain.Post{Title: "Last Pair", AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, posts.Delete(ctx, post.ID))

	_, err := posts.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	stillThere, err := users.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.Email, stillThere.Email)

	assert.ErrorIs(t, posts.Delete(ctx, post.ID), repository.ErrPostNotFound)
}

func TestGormStore_WithinTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := gormpersistence.NewGormStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx repository.Store) error {
		author, err := tx.Users().UpsertByEmail(ctx, "rollback@shoestore.com", nil)
		if err != nil {
			return err
		}
		if err := tx.Posts().Create(ctx, &domain.Post{Title: "Ghost", AuthorID: author.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Users().FindByEmail(ctx, "rollback@shoestore.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	listed, err := store.Posts().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGormStore_WithinTxCommits(t *testing.T) {
	db := setupTestDB(t)
	store := gormpersistence.NewGormStore(db)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(tx repository.Store) error {
		author, err := tx.Users().UpsertByEmail(ctx, "commit@shoestore.com", strPtr("C"))
		if err != nil {
			return err
		}
		return tx.Posts().Create(ctx, &domain.Post{Title: "Kept", AuthorID: author.ID})
	})
	require.NoError(t, err)

	listed, err := store.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "commit@shoestore.com", listed[0].Author.Email)
}
