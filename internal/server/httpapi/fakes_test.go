package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/activities"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
)

const testSecret = "test-secret"

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

// ---- fakes ----

type fakeUserService struct {
	byID map[string]*models.User

	registerUser  *models.User
	registerToken string
	registerErr   error

	loginUser  *models.User
	loginToken string
	loginErr   error

	updated   *models.User
	updateErr error

	listUsers []*models.User
	listTotal int64
	listErr   error
}

func (f *fakeUserService) Register(context.Context, string, string, string) (*models.User, string, error) {
	return f.registerUser, f.registerToken, f.registerErr
}

func (f *fakeUserService) Login(context.Context, string, string) (*models.User, string, error) {
	return f.loginUser, f.loginToken, f.loginErr
}

func (f *fakeUserService) GetActiveUser(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorInactiveUser
	}
	return u, nil
}

func (f *fakeUserService) UpdateProfile(context.Context, string, string, string) (*models.User, error) {
	return f.updated, f.updateErr
}

func (f *fakeUserService) List(context.Context, int, int) ([]*models.User, int64, error) {
	return f.listUsers, f.listTotal, f.listErr
}

type fakePostService struct {
	post    *models.Post
	postErr error

	list       []*models.Post
	listTotal  int64
	listErr    error
	lastFilter posts.Filter

	lastPublished *bool

	deleteErr error

	comment     *models.Comment
	comments    []*models.Comment
	commentErr  error
	delCommErr  error
	lastContent string
}

func (f *fakePostService) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	if f.postErr != nil {
		return nil, f.postErr
	}
	if f.post != nil {
		return f.post, nil
	}
	post.ID = "11111111-1111-1111-1111-111111111111"
	return post, nil
}

func (f *fakePostService) Get(context.Context, string) (*models.Post, error) {
	return f.post, f.postErr
}

func (f *fakePostService) List(_ context.Context, filter posts.Filter) ([]*models.Post, int64, error) {
	f.lastFilter = filter
	return f.list, f.listTotal, f.listErr
}

func (f *fakePostService) Update(_ context.Context, post *models.Post, published *bool) (*models.Post, error) {
	f.lastPublished = published
	if f.postErr != nil {
		return nil, f.postErr
	}
	if published != nil {
		post.Published = *published
	}
	return post, nil
}

func (f *fakePostService) Delete(context.Context, string, string) error { return f.deleteErr }

func (f *fakePostService) ToggleLike(context.Context, string, string) (*models.Post, error) {
	return f.post, f.postErr
}

func (f *fakePostService) AddComment(_ context.Context, _ string, _ *models.User, content string) (*models.Comment, error) {
	f.lastContent = content
	return f.comment, f.commentErr
}

func (f *fakePostService) ListComments(context.Context, string) ([]*models.Comment, error) {
	return f.comments, f.commentErr
}

func (f *fakePostService) DeleteComment(context.Context, string, string, string) error {
	return f.delCommErr
}

type fakeActivityService struct {
	activity *models.Activity
	err      error

	list      []*models.Activity
	listTotal int64

	lastDoc     models.ActivityDocument
	lastDataURI string
}

func (f *fakeActivityService) Create(_ context.Context, a *models.Activity) (*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	a.ID = "22222222-2222-2222-2222-222222222222"
	return a, nil
}

func (f *fakeActivityService) Get(context.Context, string) (*models.Activity, error) {
	return f.activity, f.err
}

func (f *fakeActivityService) List(context.Context, activities.Filter) ([]*models.Activity, int64, error) {
	return f.list, f.listTotal, f.err
}

func (f *fakeActivityService) Update(_ context.Context, a *models.Activity) (*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return a, nil
}

func (f *fakeActivityService) Delete(context.Context, string, string) error { return f.err }

func (f *fakeActivityService) AddDocument(_ context.Context, _, _ string, doc models.ActivityDocument) (*models.Activity, error) {
	f.lastDoc = doc
	return f.activity, f.err
}

func (f *fakeActivityService) RemoveDocument(context.Context, string, string, int) (*models.Activity, error) {
	return f.activity, f.err
}

func (f *fakeActivityService) RemoveLink(context.Context, string, string, int) (*models.Activity, error) {
	return f.activity, f.err
}

func (f *fakeActivityService) SetCharacterImage(_ context.Context, _, _, dataURI string) (*models.Activity, error) {
	f.lastDataURI = dataURI
	return f.activity, f.err
}

type fakeImageService struct {
	image *models.Image
	err   error

	list      []*models.Image
	listTotal int64

	lastFilter images.Filter

	lastUploadData []byte
	lastUploadMeta *models.Image
}

func (f *fakeImageService) Upload(_ context.Context, image *models.Image, data []byte) (*models.Image, error) {
	f.lastUploadMeta = image
	f.lastUploadData = data
	if f.err != nil {
		return nil, f.err
	}
	if f.image != nil {
		return f.image, nil
	}
	image.ID = "33333333-3333-3333-3333-333333333333"
	return image, nil
}

func (f *fakeImageService) Create(_ context.Context, image *models.Image) (*models.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return image, nil
}

func (f *fakeImageService) Get(context.Context, string, string) (*models.Image, error) {
	return f.image, f.err
}

func (f *fakeImageService) List(_ context.Context, filter images.Filter) ([]*models.Image, int64, error) {
	f.lastFilter = filter
	return f.list, f.listTotal, f.err
}

func (f *fakeImageService) ListPublic(_ context.Context, filter images.Filter) ([]*models.Image, int64, error) {
	f.lastFilter = filter
	return f.list, f.listTotal, f.err
}

func (f *fakeImageService) Update(_ context.Context, image *models.Image) (*models.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return image, nil
}

func (f *fakeImageService) Delete(context.Context, string, string) error { return f.err }

type fakeSiteSettingsService struct {
	settings *models.SiteSettings
	err      error
}

func (f *fakeSiteSettingsService) Get(context.Context, string) (*models.SiteSettings, error) {
	return f.settings, f.err
}

func (f *fakeSiteSettingsService) GetPublic(context.Context, string) (*models.SiteSettings, error) {
	return f.settings, f.err
}

func (f *fakeSiteSettingsService) Update(context.Context, string, string, string) (*models.SiteSettings, error) {
	return f.settings, f.err
}

// ---- helpers ----

type testServices struct {
	users        *fakeUserService
	posts        *fakePostService
	activities   *fakeActivityService
	images       *fakeImageService
	siteSettings *fakeSiteSettingsService
}

func newTestServer() (*Server, *testServices) {
	svcs := &testServices{
		users:        &fakeUserService{byID: map[string]*models.User{}},
		posts:        &fakePostService{},
		activities:   &fakeActivityService{},
		images:       &fakeImageService{},
		siteSettings: &fakeSiteSettingsService{},
	}
	cfg := &config.Config{
		ListenAddr: ":0",
		SecretKey:  testSecret,
		CORSOrigin: "http://localhost:3000",
	}
	s := NewServer(cfg, nopLogger{}, svcs.users, svcs.posts, svcs.activities, svcs.images, svcs.siteSettings)
	return s, svcs
}

// registerIdentity makes the user resolvable by the auth middleware and
// returns a valid bearer token for it.
func registerIdentity(svcs *testServices, user *models.User) string {
	svcs.users.byID[user.ID] = user
	token, err := auth.GenerateToken(user.ID, []byte(testSecret), time.Hour)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}
