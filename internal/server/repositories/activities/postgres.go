package activities

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

const activityColumns = `id, user_id, title, description, character_image, links, documents, category, difficulty, estimated_minutes, created_at, updated_at`

func scanActivity(row interface{ Scan(...any) error }) (*models.Activity, error) {
	activity := &models.Activity{}
	var links, documents []byte
	err := row.Scan(&activity.ID, &activity.UserID, &activity.Title, &activity.Description,
		&activity.CharacterImage, &links, &documents, &activity.Category, &activity.Difficulty,
		&activity.EstimatedMinutes, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(links, &activity.Links); err != nil {
		return nil, fmt.Errorf("links decode error: %w", err)
	}
	if err := json.Unmarshal(documents, &activity.Documents); err != nil {
		return nil, fmt.Errorf("documents decode error: %w", err)
	}
	if activity.Links == nil {
		activity.Links = []models.ActivityLink{}
	}
	if activity.Documents == nil {
		activity.Documents = []models.ActivityDocument{}
	}
	return activity, nil
}

func marshalAttachments(activity *models.Activity) (links, documents []byte, err error) {
	if activity.Links == nil {
		activity.Links = []models.ActivityLink{}
	}
	if activity.Documents == nil {
		activity.Documents = []models.ActivityDocument{}
	}
	links, err = json.Marshal(activity.Links)
	if err != nil {
		return nil, nil, err
	}
	documents, err = json.Marshal(activity.Documents)
	if err != nil {
		return nil, nil, err
	}
	return links, documents, nil
}

func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	links, documents, err := marshalAttachments(activity)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO activities (user_id, title, description, character_image, links, documents, category, difficulty, estimated_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		activity.UserID, activity.Title, activity.Description, activity.CharacterImage,
		links, documents, activity.Category, activity.Difficulty, activity.EstimatedMinutes).
		Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	activity, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, userID string) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1 AND user_id = $2`

	activity, err := scanActivity(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Activity, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, "user_id = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(title ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM activities"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := "SELECT " + activityColumns + " FROM activities" + cond +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Activity, 0, f.Limit)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	links, documents, err := marshalAttachments(activity)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE activities
		 SET title = $3, description = $4, character_image = $5, links = $6, documents = $7,
		     category = $8, difficulty = $9, estimated_minutes = $10, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + activityColumns

	updated, err := scanActivity(r.db.QueryRowContext(ctx, query,
		activity.ID, activity.UserID, activity.Title, activity.Description, activity.CharacterImage,
		links, documents, activity.Category, activity.Difficulty, activity.EstimatedMinutes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1 AND user_id = $2`, id, userID)
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
