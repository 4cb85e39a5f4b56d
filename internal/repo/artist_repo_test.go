package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"artist-management/internal/domain"
	"artist-management/internal/feature/artist"
	"artist-management/internal/feature/user"
	"artist-management/internal/testutil"
)

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestArtistRepoCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateWithUser returns flattened view", func(t *testing.T) {
		db := testutil.NewDB(t)
		r := NewArtistRepo(db)
		in := testutil.NewArtist(1)
		in.User.Role = domain.RoleSuperAdmin // 强制为 artist

		v, err := r.CreateWithUser(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, v.ID)
		assert.NotZero(t, v.UserID)
		assert.Equal(t, in.FirstReleaseYear, v.FirstReleaseYear)
		assert.Equal(t, in.NoOfAlbumsReleased, v.NoOfAlbumsReleased)
		assert.Equal(t, "user1@example.com", v.Email)
		assert.Equal(t, "First1", v.FirstName)
		assert.Equal(t, domain.RoleArtist, v.Role)
		assert.True(t, in.User.DOB.Equal(v.DOB))
		assert.False(t, v.UserCreatedAt.IsZero())
	})

	t.Run("Create links existing user", func(t *testing.T) {
		db := testutil.NewDB(t)
		users := NewUserRepo(db)
		r := NewArtistRepo(db)
		u := testutil.User(2, domain.RoleArtist)
		require.NoError(t, users.Create(ctx, &u))

		v, err := r.Create(ctx, u.ID, 1999, 4)
		require.NoError(t, err)
		assert.Equal(t, u.ID, v.UserID)
		assert.Equal(t, 1999, v.FirstReleaseYear)
		assert.Equal(t, 4, v.NoOfAlbumsReleased)
		assert.Equal(t, u.Email, v.Email)

		_, err = r.Create(ctx, u.ID, 2001, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "one artist per user")
	})

	t.Run("Create with unknown user", func(t *testing.T) {
		r := NewArtistRepo(testutil.NewDB(t))
		_, err := r.Create(ctx, 77, 1999, 4)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Duplicate email rolls back user insert", func(t *testing.T) {
		db := testutil.NewDB(t)
		r := NewArtistRepo(db)
		_, err := r.CreateWithUser(ctx, testutil.NewArtist(3))
		require.NoError(t, err)
		_, err = r.CreateWithUser(ctx, testutil.NewArtist(3))
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		assert.EqualValues(t, 1, countRows(t, db, &user.UserModel{}))
		assert.EqualValues(t, 1, countRows(t, db, &artist.ArtistModel{}))
	})
}

func TestArtistRepoReadAndList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	r := NewArtistRepo(db)

	const n = 12
	for i := 1; i <= n; i++ {
		_, err := r.CreateWithUser(ctx, testutil.NewArtist(i))
		require.NoError(t, err)
	}

	got, err := r.FindByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user3@example.com", got.Email)

	missing, err := r.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	p, _ := domain.NewPage(2, 5)
	rows, total, err := r.List(ctx, p)
	require.NoError(t, err)
	assert.EqualValues(t, n, total)
	require.Len(t, rows, 5)
	assert.EqualValues(t, 7, rows[0].ID)
	assert.EqualValues(t, 3, rows[4].ID)
	assert.Equal(t, 3, p.TotalPages(total))

	p, _ = domain.NewPage(3, 5)
	rows, _, err = r.List(ctx, p)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	assert.EqualValues(t, 1, all[0].ID)

	labels, err := r.Labels(ctx)
	require.NoError(t, err)
	require.Len(t, labels, n)
	assert.Equal(t, domain.ArtistLabel{ArtistID: 1, Name: "First1 Last1"}, labels[0])
}

func TestArtistRepoUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Partitions artist and user fields", func(t *testing.T) {
		db := testutil.NewDB(t)
		r := NewArtistRepo(db)
		created, err := r.CreateWithUser(ctx, testutil.NewArtist(1))
		require.NoError(t, err)

		albums := 9
		phone := "555-9999"
		got, err := r.Update(ctx, created.ID, domain.ArtistUpdate{NoOfAlbumsReleased: &albums, Phone: &phone})
		require.NoError(t, err)

		assert.Equal(t, 9, got.NoOfAlbumsReleased)
		assert.Equal(t, "555-9999", got.Phone)
		assert.Equal(t, created.FirstReleaseYear, got.FirstReleaseYear)
		assert.Equal(t, created.FirstName, got.FirstName)
		assert.Equal(t, created.LastName, got.LastName)
		assert.Equal(t, created.Email, got.Email)
		assert.Equal(t, created.Address, got.Address)
		assert.Equal(t, created.UserID, got.UserID)

		u, err := NewUserRepo(db).FindByID(ctx, created.UserID)
		require.NoError(t, err)
		assert.Equal(t, "555-9999", u.Phone)
	})

	t.Run("Only user fields", func(t *testing.T) {
		r := NewArtistRepo(testutil.NewDB(t))
		created, err := r.CreateWithUser(ctx, testutil.NewArtist(2))
		require.NoError(t, err)
		last := "Stage"
		got, err := r.Update(ctx, created.ID, domain.ArtistUpdate{LastName: &last})
		require.NoError(t, err)
		assert.Equal(t, "Stage", got.LastName)
		assert.Equal(t, created.NoOfAlbumsReleased, got.NoOfAlbumsReleased)
	})

	t.Run("Missing artist fails before writes", func(t *testing.T) {
		db := testutil.NewDB(t)
		r := NewArtistRepo(db)
		created, err := r.CreateWithUser(ctx, testutil.NewArtist(3))
		require.NoError(t, err)

		name := "Ghost"
		_, err = r.Update(ctx, created.ID+100, domain.ArtistUpdate{FirstName: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		still, err := r.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.FirstName, still.FirstName)
	})
}

func TestArtistRepoDeleteCascadesToUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	artists := NewArtistRepo(db)
	users := NewUserRepo(db)
	songs := NewMusicRepo(db)

	keep, err := artists.CreateWithUser(ctx, testutil.NewArtist(1))
	require.NoError(t, err)
	gone, err := artists.CreateWithUser(ctx, testutil.NewArtist(2))
	require.NoError(t, err)

	for _, a := range []int64{keep.ID, gone.ID} {
		m := domain.Music{ArtistID: a, Title: "Song", AlbumName: "Album", Genre: "rock"}
		require.NoError(t, songs.Create(ctx, &m))
	}

	require.NoError(t, artists.Delete(ctx, gone.ID))

	v, err := artists.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Nil(t, v)

	u, err := users.FindByID(ctx, gone.UserID)
	require.NoError(t, err)
	assert.Nil(t, u, "deleting an artist deletes its user")

	n, err := songs.CountByArtist(ctx, gone.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// 其他 artist 不受影响
	v, err = artists.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, v)
	n, err = songs.CountByArtist(ctx, keep.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, artists.Delete(ctx, gone.ID), domain.ErrNotFound)
}

func TestUserRepoDeleteRemovesArtistProfile(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	artists := NewArtistRepo(db)

	v, err := artists.CreateWithUser(ctx, testutil.NewArtist(1))
	require.NoError(t, err)
	require.NoError(t, NewUserRepo(db).Delete(ctx, v.UserID))

	got, err := artists.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestArtistRepoBulkCreateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db := testutil.NewDB(t)
		r := NewArtistRepo(db)
		out, err := r.BulkCreateWithUsers(ctx, []domain.NewArtist{testutil.NewArtist(1), testutil.NewArtist(2)})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "user1@example.com", out[0].Email)
		assert.Equal(t, "user2@example.com", out[1].Email)
		assert.EqualValues(t, 2, countRows(t, db, &artist.ArtistModel{}))
	})

	t.Run("duplicate email in row 2 rolls back row 1", func(t *testing.T) {
		db := testutil.NewDB(t)
		users := NewUserRepo(db)
		r := NewArtistRepo(db)

		existing := testutil.User(50, domain.RoleArtistManager)
		require.NoError(t, users.Create(ctx, &existing))

		row2 := testutil.NewArtist(2)
		row2.User.Email = existing.Email
		_, err := r.BulkCreateWithUsers(ctx, []domain.NewArtist{testutil.NewArtist(1), row2})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

		u, err := users.FindByEmail(ctx, "user1@example.com")
		require.NoError(t, err)
		assert.Nil(t, u, "row 1 must not survive")
		assert.EqualValues(t, 1, countRows(t, db, &user.UserModel{}))
		assert.Zero(t, countRows(t, db, &artist.ArtistModel{}))
	})
}
