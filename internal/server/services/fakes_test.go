package services

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/activities"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/comments"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/sitesettings"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// ---- fake repository manager ----

type fakeRepoManager struct {
	users        users.Repository
	posts        posts.Repository
	comments     comments.Repository
	activities   activities.Repository
	images       images.Repository
	siteSettings sitesettings.Repository
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository              { return m.posts }
func (m *fakeRepoManager) Comments(dbx.DBTX) comments.Repository        { return m.comments }
func (m *fakeRepoManager) Activities(dbx.DBTX) activities.Repository    { return m.activities }
func (m *fakeRepoManager) Images(dbx.DBTX) images.Repository            { return m.images }
func (m *fakeRepoManager) SiteSettings(dbx.DBTX) sitesettings.Repository {
	return m.siteSettings
}

// ---- fake user repository ----

type fakeUserRepo struct {
	byID   map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}
	r.nextID++
	user.ID = "u" + strconv.Itoa(r.nextID)
	r.byID[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, name, profileImage string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	u.ProfileImage = profileImage
	return u, nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error { return nil }

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*models.User, int64, error) {
	result := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, u)
	}
	return result, int64(len(result)), nil
}

// ---- fake post repository ----

type fakePostRepo struct {
	byID   map[string]*models.Post
	likes  map[string]map[string]bool // postID -> userID -> liked
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: map[string]*models.Post{}, likes: map[string]map[string]bool{}}
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	r.nextID++
	post.ID = "p" + strconv.Itoa(r.nextID)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Likes = []models.Like{}
	r.byID[post.ID] = post
	return post, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	likes := []models.Like{}
	for userID, liked := range r.likes[id] {
		if liked {
			likes = append(likes, models.Like{UserID: userID})
		}
	}
	p.Likes = likes
	return p, nil
}

func (r *fakePostRepo) GetByIDIncrementingViews(ctx context.Context, id string) (*models.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Views++
	return r.GetByID(ctx, id)
}

func (r *fakePostRepo) List(_ context.Context, f posts.Filter) ([]*models.Post, int64, error) {
	result := []*models.Post{}
	for _, p := range r.byID {
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.PublishedOnly && !p.Published {
			continue
		}
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *models.Post) (*models.Post, error) {
	p, ok := r.byID[post.ID]
	if !ok || p.UserID != post.UserID {
		return nil, common.ErrorNotFound
	}
	post.Views = p.Views
	r.byID[post.ID] = post
	return post, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id, userID string) error {
	p, ok := r.byID[id]
	if !ok || p.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakePostRepo) HasLike(_ context.Context, postID, userID string) (bool, error) {
	return r.likes[postID][userID], nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID string) error {
	if r.likes[postID] == nil {
		r.likes[postID] = map[string]bool{}
	}
	r.likes[postID][userID] = true
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	delete(r.likes[postID], userID)
	return nil
}

func (r *fakePostRepo) GetLikes(_ context.Context, postID string) ([]models.Like, error) {
	likes := []models.Like{}
	for userID, liked := range r.likes[postID] {
		if liked {
			likes = append(likes, models.Like{UserID: userID})
		}
	}
	return likes, nil
}

// ---- fake comment repository ----

type fakeCommentRepo struct {
	byID   map[string]*models.Comment
	nextID int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: map[string]*models.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	r.nextID++
	comment.ID = "c" + strconv.Itoa(r.nextID)
	r.byID[comment.ID] = comment
	return comment, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID string) ([]*models.Comment, error) {
	result := []*models.Comment{}
	for _, c := range r.byID {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---- fake activity repository ----

type fakeActivityRepo struct {
	byID   map[string]*models.Activity
	nextID int
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{byID: map[string]*models.Activity{}}
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	r.nextID++
	activity.ID = "a" + strconv.Itoa(r.nextID)
	if activity.Links == nil {
		activity.Links = []models.ActivityLink{}
	}
	if activity.Documents == nil {
		activity.Documents = []models.ActivityDocument{}
	}
	r.byID[activity.ID] = activity
	return activity, nil
}

func (r *fakeActivityRepo) GetByID(_ context.Context, id string) (*models.Activity, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *fakeActivityRepo) GetOwned(_ context.Context, id, userID string) (*models.Activity, error) {
	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *fakeActivityRepo) List(_ context.Context, f activities.Filter) ([]*models.Activity, int64, error) {
	result := []*models.Activity{}
	for _, a := range r.byID {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		result = append(result, a)
	}
	return result, int64(len(result)), nil
}

func (r *fakeActivityRepo) Update(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	a, ok := r.byID[activity.ID]
	if !ok || a.UserID != activity.UserID {
		return nil, common.ErrorNotFound
	}
	r.byID[activity.ID] = activity
	return activity, nil
}

func (r *fakeActivityRepo) Delete(_ context.Context, id, userID string) error {
	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---- fake image repository ----

type fakeImageRepo struct {
	byID   map[string]*models.Image
	nextID int
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{byID: map[string]*models.Image{}}
}

func (r *fakeImageRepo) Create(_ context.Context, image *models.Image) (*models.Image, error) {
	r.nextID++
	image.ID = "i" + strconv.Itoa(r.nextID)
	if image.Tags == nil {
		image.Tags = []string{}
	}
	r.byID[image.ID] = image
	return image, nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id string) (*models.Image, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return i, nil
}

func (r *fakeImageRepo) GetOwned(_ context.Context, id, userID string) (*models.Image, error) {
	i, ok := r.byID[id]
	if !ok || i.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return i, nil
}

func (r *fakeImageRepo) List(_ context.Context, f images.Filter) ([]*models.Image, int64, error) {
	result := []*models.Image{}
	for _, i := range r.byID {
		if f.UserID != "" && i.UserID != f.UserID {
			continue
		}
		if f.PublicOnly && !i.Public {
			continue
		}
		img := *i
		if !f.WithData {
			img.Data = ""
		}
		result = append(result, &img)
	}
	return result, int64(len(result)), nil
}

func (r *fakeImageRepo) Update(_ context.Context, image *models.Image) (*models.Image, error) {
	i, ok := r.byID[image.ID]
	if !ok || i.UserID != image.UserID {
		return nil, common.ErrorNotFound
	}
	i.Name = image.Name
	i.Public = image.Public
	i.Tags = image.Tags
	i.Description = image.Description
	return i, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id, userID string) error {
	i, ok := r.byID[id]
	if !ok || i.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---- fake site settings repository ----

type fakeSiteSettingsRepo struct {
	byUser map[string]*models.SiteSettings
}

func newFakeSiteSettingsRepo() *fakeSiteSettingsRepo {
	return &fakeSiteSettingsRepo{byUser: map[string]*models.SiteSettings{}}
}

func (r *fakeSiteSettingsRepo) Get(_ context.Context, userID string) (*models.SiteSettings, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (r *fakeSiteSettingsRepo) Upsert(_ context.Context, settings *models.SiteSettings) (*models.SiteSettings, error) {
	r.byUser[settings.UserID] = settings
	return settings, nil
}
