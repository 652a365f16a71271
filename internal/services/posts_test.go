package services

import (
	"context"
	"testing"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	svc   *PostService
	ann   models.Viewer
	bob   models.Viewer
	admin models.Viewer
}

func newPostFixture(t *testing.T) postFixture {
	t.Helper()
	store := memory.New()
	mk := func(name string, typ models.UserType) models.Viewer {
		u, err := store.CreateUser(context.Background(), models.User{Name: name, Email: name + "@x.com", Type: typ})
		require.NoError(t, err)
		return models.Viewer{ID: u.ID, Type: u.Type}
	}
	return postFixture{
		svc:   NewPostService(store, logging.NewNop()),
		ann:   mk("ann", models.UserTypeBlogger),
		bob:   mk("bob", models.UserTypeBlogger),
		admin: mk("root", models.UserTypeAdmin),
	}
}

func ptr[T any](v T) *T { return &v }

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCreate_Defaults(t *testing.T) {
	f := newPostFixture(t)
	p, err := f.svc.Create(context.Background(), f.ann, CreatePostInput{Title: "t"})
	require.NoError(t, err)
	assert.True(t, p.IsHidden)
	assert.Equal(t, "", p.Content)
	assert.Equal(t, f.ann.ID, p.AuthorID)

	p, err = f.svc.Create(context.Background(), f.ann, CreatePostInput{Title: "t", Content: ptr("body"), IsHidden: ptr(false)})
	require.NoError(t, err)
	assert.False(t, p.IsHidden)
	assert.Equal(t, "body", p.Content)
}

func TestCreate_EmptyTitle(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.Create(context.Background(), f.ann, CreatePostInput{Content: ptr("body")})
	assert.ErrorIs(t, err, apperr.BadRequest(apperr.CodeEmptyPostTitle))
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	annHidden, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "draft"})
	require.NoError(t, err)
	annPublic, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "hello", IsHidden: ptr(false)})
	require.NoError(t, err)
	adminHidden, err := f.svc.Create(ctx, f.admin, CreatePostInput{Title: "admin draft"})
	require.NoError(t, err)

	forAnn, err := f.svc.ListVisible(ctx, f.ann)
	require.NoError(t, err)
	assert.Equal(t, []int64{annHidden.ID, annPublic.ID}, postIDs(forAnn))

	forBob, err := f.svc.ListVisible(ctx, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{annPublic.ID}, postIDs(forBob))

	forAdmin, err := f.svc.ListVisible(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, []int64{annPublic.ID, adminHidden.ID}, postIDs(forAdmin), "admins do not see other authors' hidden posts")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	p, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "t"})
	require.NoError(t, err)

	n, err := f.svc.Update(ctx, f.ann, UpdatePostInput{ID: &p.ID, Content: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.Update(ctx, f.bob, UpdatePostInput{ID: &p.ID, Content: ptr("hijack")})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.Update(ctx, f.admin, UpdatePostInput{ID: &p.ID, Content: ptr("hijack")})
	require.NoError(t, err)
	assert.Zero(t, n)

	posts, err := f.svc.ListVisible(ctx, f.ann)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "new", posts[0].Content)
	assert.Equal(t, "t", posts[0].Title)
}

func TestUpdate_EmptyTitle(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	p, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "t"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.ann, UpdatePostInput{ID: &p.ID, Title: ptr("")})
	assert.ErrorIs(t, err, apperr.BadRequest(apperr.CodeEmptyPostTitle))

	posts, err := f.svc.ListVisible(ctx, f.ann)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "t", posts[0].Title)
}

func TestUpdate_MissingID(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.Update(context.Background(), f.ann, UpdatePostInput{Title: ptr("x")})
	assert.ErrorIs(t, err, apperr.BadRequest(apperr.CodeMissingPostID))

	_, err = f.svc.Update(context.Background(), f.ann, UpdatePostInput{ID: ptr(int64(0))})
	assert.ErrorIs(t, err, apperr.BadRequest(apperr.CodeMissingPostID))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	annHidden, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "draft"})
	require.NoError(t, err)
	annPublic, err := f.svc.Create(ctx, f.ann, CreatePostInput{Title: "hello", IsHidden: ptr(false)})
	require.NoError(t, err)
	adminHidden, err := f.svc.Create(ctx, f.admin, CreatePostInput{Title: "admin draft"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		viewer models.Viewer
		id     int64
		want   int64
	}{
		{"blogger cannot delete own hidden post", f.ann, annHidden.ID, 0},
		{"admin cannot delete another author's post", f.admin, annPublic.ID, 0},
		{"other blogger cannot delete", f.bob, annPublic.ID, 0},
		{"author deletes published post", f.ann, annPublic.ID, 1},
		{"admin deletes own hidden post", f.admin, adminHidden.ID, 1},
		{"already deleted", f.ann, annPublic.ID, 0},
	}
	for _, tc := range cases {
		n, err := f.svc.Delete(ctx, tc.viewer, &tc.id)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, n, tc.name)
	}
}

func TestDelete_MissingID(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.Delete(context.Background(), f.ann, nil)
	assert.ErrorIs(t, err, apperr.BadRequest(apperr.CodeMissingPostID))
}

func TestPostStoreFailuresAreInternal(t *testing.T) {
	svc := NewPostService(failingStore{Store: memory.New(), err: errStoreDown}, logging.NewNop())
	viewer := models.Viewer{ID: 1, Type: models.UserTypeBlogger}

	_, err := svc.ListVisible(context.Background(), viewer)
	assert.Equal(t, apperr.KindInternal, apperr.From(err).Kind)

	_, err = svc.Update(context.Background(), viewer, UpdatePostInput{ID: ptr(int64(1))})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Create(context.Background(), viewer, CreatePostInput{Title: "x"})
	assert.Equal(t, apperr.KindInternal, apperr.From(err).Kind, "unknown author")
}
