package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelstream/backend/internal/db"
	"github.com/reelstream/backend/internal/models"
)

// PostgresReelRepository provides PostgreSQL-backed persistence for reels.
type PostgresReelRepository struct {
	pool db.Pool
}

// NewPostgresReelRepository constructs a reel repository backed by PostgreSQL.
func NewPostgresReelRepository(pool db.Pool) *PostgresReelRepository {
	return &PostgresReelRepository{pool: pool}
}

const reelColumns = `id, video_url, thumbnail_url, title, description,
        author_name, author_username, author_avatar_url, tags,
        likes, comments, shares, views, is_liked, created_at, updated_at`

// Create persists a new reel record.
func (r *PostgresReelRepository) Create(ctx context.Context, reel models.Reel) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tags := reel.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO reels (id, video_url, thumbnail_url, title, description,
            author_name, author_username, author_avatar_url, tags,
            likes, comments, shares, views, is_liked, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `, reel.ID, reel.VideoURL, reel.ThumbnailURL, reel.Title, reel.Description,
		reel.Author.Name, reel.Author.Username, reel.Author.AvatarURL, tags,
		reel.Likes, reel.Comments, reel.Shares, reel.Views, reel.IsLiked,
		reel.CreatedAt, reel.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert reel: %w", err)
	}

	return nil
}

// Get fetches a reel by id.
func (r *PostgresReelRepository) Get(ctx context.Context, id string) (models.Reel, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Reel{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+reelColumns+`
        FROM reels
        WHERE id = $1
    `, id)

	reel, err := scanReel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reel{}, ErrNotFound
		}
		return models.Reel{}, fmt.Errorf("select reel: %w", err)
	}

	return reel, nil
}

// Update applies the non-nil fields of the update to an existing reel and
// returns the updated record. updated_at is always refreshed.
func (r *PostgresReelRepository) Update(ctx context.Context, id string, update ReelUpdate) (models.Reel, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Reel{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE reels
        SET video_url = COALESCE($2, video_url),
            thumbnail_url = COALESCE($3, thumbnail_url),
            title = COALESCE($4, title),
            description = COALESCE($5, description),
            author_name = COALESCE($6, author_name),
            author_avatar_url = COALESCE($7, author_avatar_url),
            tags = COALESCE($8, tags),
            likes = COALESCE($9, likes),
            comments = COALESCE($10, comments),
            shares = COALESCE($11, shares),
            views = COALESCE($12, views),
            is_liked = COALESCE($13, is_liked),
            updated_at = $14
        WHERE id = $1
        RETURNING `+reelColumns+`
    `, id, update.VideoURL, update.ThumbnailURL, update.Title, update.Description,
		update.AuthorName, update.AvatarURL, update.Tags,
		update.Likes, update.Comments, update.Shares, update.Views, update.IsLiked,
		time.Now().UTC())

	reel, err := scanReel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reel{}, ErrNotFound
		}
		return models.Reel{}, fmt.Errorf("update reel: %w", err)
	}

	return reel, nil
}

// Delete removes a reel record.
func (r *PostgresReelRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM reels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reel: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all reels newest first; the order is the feed's
// presentation order.
func (r *PostgresReelRepository) List(ctx context.Context) ([]models.Reel, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+reelColumns+`
        FROM reels
        ORDER BY created_at DESC
        LIMIT 100
    `)
	if err != nil {
		return nil, fmt.Errorf("query reels: %w", err)
	}
	defer rows.Close()

	var listing []models.Reel
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reel: %w", err)
		}
		listing = append(listing, reel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reels: %w", err)
	}

	return listing, nil
}

func scanReel(row pgx.Row) (models.Reel, error) {
	var reel models.Reel
	err := row.Scan(&reel.ID, &reel.VideoURL, &reel.ThumbnailURL, &reel.Title, &reel.Description,
		&reel.Author.Name, &reel.Author.Username, &reel.Author.AvatarURL, &reel.Tags,
		&reel.Likes, &reel.Comments, &reel.Shares, &reel.Views, &reel.IsLiked,
		&reel.CreatedAt, &reel.UpdatedAt)
	if err != nil {
		return models.Reel{}, err
	}
	return reel, nil
}
