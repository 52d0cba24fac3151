package images

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

const imageColumns = `id, user_id, name, data, size, mime_type, public, tags, description, created_at`

// imageMetaColumns substitutes an empty payload so list responses can skip
// the (potentially large) data column.
const imageMetaColumns = `id, user_id, name, '' AS data, size, mime_type, public, tags, description, created_at`

func scanImage(row interface{ Scan(...any) error }) (*models.Image, error) {
	image := &models.Image{}
	var tags []byte
	err := row.Scan(&image.ID, &image.UserID, &image.Name, &image.Data, &image.Size,
		&image.MimeType, &image.Public, &tags, &image.Description, &image.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &image.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}
	if image.Tags == nil {
		image.Tags = []string{}
	}
	return image, nil
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if image.Tags == nil {
		image.Tags = []string{}
	}
	tags, err := json.Marshal(image.Tags)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO images (user_id, name, data, size, mime_type, public, tags, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		image.UserID, image.Name, image.Data, image.Size, image.MimeType,
		image.Public, tags, image.Description).
		Scan(&image.ID, &image.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	image, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, userID string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1 AND user_id = $2`

	image, err := scanImage(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Image, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, "user_id = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR description ILIKE $"+n+" OR tags::text ILIKE $"+n+")")
	}
	if f.PublicOnly {
		where = append(where, "public")
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM images"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	columns := imageMetaColumns
	if f.WithData {
		columns = imageColumns
	}

	args = append(args, f.Limit, f.Offset)
	query := "SELECT " + columns + " FROM images" + cond +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Image, 0, f.Limit)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, image)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, image *models.Image) (*models.Image, error) {
	if image.Tags == nil {
		image.Tags = []string{}
	}
	tags, err := json.Marshal(image.Tags)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE images
		 SET name = $3, public = $4, tags = $5, description = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + imageColumns

	updated, err := scanImage(r.db.QueryRowContext(ctx, query,
		image.ID, image.UserID, image.Name, image.Public, tags, image.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1 AND user_id = $2`, id, userID)
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
