package repo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	return &GormRepo{DB: InitTestDB(t)}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := &models.User{Username: "bob", PasswordHash: "h1", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, first))
	require.NotZero(t, first.ID)

	err := r.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "h2", Role: models.RoleUser})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	stored, err := r.FindUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "h1", stored.PasswordHash)
}

func TestCreateUser_ConcurrentSameUsername(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.CreateUser(ctx, &models.User{Username: "race", PasswordHash: "h", Role: models.RoleUser})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicate)
	}
	assert.Equal(t, 1, ok)
}

func TestFindUserByUsername_NotFound(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.FindUserByUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCategories_CreateListDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	cats, err := r.ListCategories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)

	c := &models.Category{Name: "books"}
	require.NoError(t, r.CreateCategory(ctx, c))
	assert.ErrorIs(t, r.CreateCategory(ctx, &models.Category{Name: "books"}), ErrDuplicate)

	cats, err = r.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "books", cats[0].Name)

	require.NoError(t, r.DeleteCategory(ctx, c.ID))
	require.NoError(t, r.DeleteCategory(ctx, c.ID))
	require.NoError(t, r.DeleteCategory(ctx, 9999))

	cats, err = r.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	// the name is free again
	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "books"}))
}

func TestProducts_CreateList(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	p := &models.Product{Name: "pen", Description: "blue", Price: 19.99, Category: "no-such-category", ImageURL: "static/uploads/pen.png"}
	require.NoError(t, r.CreateProduct(ctx, p))

	items, err = r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *p, items[0])
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
