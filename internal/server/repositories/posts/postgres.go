package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `id, user_id, title, content, date_label, cover_image, published, tags, views, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	post := &models.Post{}
	var tags []byte
	err := row.Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.DateLabel,
		&post.CoverImage, &post.Published, &tags, &post.Views, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &post.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Likes = []models.Like{}
	return post, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	tags, err := marshalTags(post.Tags)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO posts (user_id, title, content, date_label, cover_image, published, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, views, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		post.UserID, post.Title, post.Content, post.DateLabel, post.CoverImage, post.Published, tags).
		Scan(&post.ID, &post.Views, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Likes = []models.Like{}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.withLikes(ctx, post)
}

func (r *PostgresRepository) GetByIDIncrementingViews(ctx context.Context, id string) (*models.Post, error) {
	// The increment and the read are one statement so concurrent readers
	// never lose a view.
	query :=
		`UPDATE posts SET views = views + 1
		 WHERE id = $1
		 RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.withLikes(ctx, post)
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Post, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, "user_id = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(title ILIKE $"+n+" OR tags::text ILIKE $"+n+")")
	}
	if f.PublishedOnly {
		where = append(where, "published")
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM posts"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := "SELECT " + postColumns + " FROM posts" + cond +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0, f.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	for _, post := range result {
		if _, err := r.withLikes(ctx, post); err != nil {
			return nil, 0, err
		}
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	tags, err := marshalTags(post.Tags)
	if err != nil {
		return nil, err
	}

	// Combined "id AND owner" predicate: a foreign post is indistinguishable
	// from a missing one.
	query :=
		`UPDATE posts
		 SET title = $3, content = $4, date_label = $5, cover_image = $6, published = $7, tags = $8, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + postColumns

	updated, err := scanPost(r.db.QueryRowContext(ctx, query,
		post.ID, post.UserID, post.Title, post.Content, post.DateLabel, post.CoverImage, post.Published, tags))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.withLikes(ctx, updated)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) AddLike(ctx context.Context, postID, userID string) error {
	// The (post_id, user_id) primary key keeps likes unique per user even if
	// two toggles race.
	query :=
		`INSERT INTO post_likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetLikes(ctx context.Context, postID string) ([]models.Like, error) {
	query := `SELECT user_id, created_at FROM post_likes WHERE post_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	likes := []models.Like{}
	for rows.Next() {
		var like models.Like
		if err := rows.Scan(&like.UserID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return likes, nil
}

func (r *PostgresRepository) withLikes(ctx context.Context, post *models.Post) (*models.Post, error) {
	likes, err := r.GetLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Likes = likes
	return post, nil
}
