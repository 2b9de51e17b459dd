package store

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Review struct {
	ID        int64    `json:"id"`
	PlaceID   int64    `json:"place_id"`
	UserID    *int64   `json:"user_id,omitempty"`
	Rating    int      `json:"rating"` // 1-5
	Text      string   `json:"text"`
	Photos    []string `json:"photos,omitempty"`
	CreatedAt int64    `json:"created_at"` // seconds since epoch

	// Joined from users at read time.
	AuthorLogin  string  `json:"author_login,omitempty"`
	AuthorName   string  `json:"author_name,omitempty"`
	AuthorAvatar *string `json:"author_avatar,omitempty"`
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

// RoundRating rounds a mean rating to one decimal place, the precision the
// catalog displays and the places.rating column stores.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// Create inserts the review and refreshes the place aggregate in one
// transaction, so places.rating/reviews never settle out of step with the
// review rows.
func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	if review.CreatedAt == 0 {
		review.CreatedAt = time.Now().Unix()
	}

	photosJSON, err := json.Marshal(emptyIfNil(review.Photos))
	if err != nil {
		return err
	}

	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO place_reviews (place_id, user_id, rating, text, photos, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			review.PlaceID, review.UserID, review.Rating, review.Text, photosJSON, review.CreatedAt,
		).Scan(&review.ID)
		if err != nil {
			return err
		}

		_, _, err = recompute(ctx, tx, review.PlaceID)
		return err
	})
}

func (s *ReviewsStore) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	query := `
		SELECT id, place_id, user_id, rating, text, photos, created_at
		FROM place_reviews
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review Review
	var photosJSON []byte
	err := s.db.QueryRow(ctx, query, reviewID).Scan(
		&review.ID, &review.PlaceID, &review.UserID, &review.Rating, &review.Text, &photosJSON, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(photosJSON, &review.Photos); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewsStore) List(ctx context.Context, placeID int64) ([]Review, error) {
	query := `
		SELECT pr.id, pr.place_id, pr.user_id, pr.rating, pr.text, pr.photos, pr.created_at,
		       COALESCE(u.login, ''), COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), u.avatar_url
		FROM place_reviews pr
		LEFT JOIN users u ON u.id = pr.user_id
		WHERE pr.place_id = $1
		ORDER BY pr.created_at DESC, pr.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		var photosJSON []byte
		err := rows.Scan(
			&review.ID, &review.PlaceID, &review.UserID, &review.Rating, &review.Text, &photosJSON,
			&review.CreatedAt, &review.AuthorLogin, &review.AuthorName, &review.AuthorAvatar,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(photosJSON, &review.Photos); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *ReviewsStore) Update(ctx context.Context, review *Review) error {
	photosJSON, err := json.Marshal(emptyIfNil(review.Photos))
	if err != nil {
		return err
	}

	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE place_reviews
			SET rating = $1, text = $2, photos = $3
			WHERE id = $4 AND place_id = $5
		`
		tag, err := tx.Exec(ctx, query, review.Rating, review.Text, photosJSON, review.ID, review.PlaceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		_, _, err = recompute(ctx, tx, review.PlaceID)
		return err
	})
}

func (s *ReviewsStore) Delete(ctx context.Context, placeID, reviewID int64) error {
	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM place_reviews WHERE id = $1 AND place_id = $2`, reviewID, placeID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		_, _, err = recompute(ctx, tx, placeID)
		return err
	})
}

// Recompute refreshes the cached aggregate outside any review mutation.
// Review list reads call it so a stale aggregate heals on the next read.
func (s *ReviewsStore) Recompute(ctx context.Context, placeID int64) (int, *float64, error) {
	var total int
	var avg *float64

	err := withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		total, avg, err = recompute(ctx, tx, placeID)
		return err
	})
	return total, avg, err
}

func recompute(ctx context.Context, tx pgx.Tx, placeID int64) (int, *float64, error) {
	query := `
		SELECT COUNT(id), AVG(rating::float8)
		FROM place_reviews
		WHERE place_id = $1
	`

	var total int
	var avg *float64
	if err := tx.QueryRow(ctx, query, placeID).Scan(&total, &avg); err != nil {
		return 0, nil, err
	}

	if avg != nil {
		rounded := RoundRating(*avg)
		avg = &rounded
	}

	tag, err := tx.Exec(ctx, `UPDATE places SET rating = $1, reviews = $2, updated_at = NOW() WHERE id = $3`,
		avg, total, placeID)
	if err != nil {
		return 0, nil, err
	}
	if tag.RowsAffected() == 0 {
		return 0, nil, ErrNotFound
	}

	return total, avg, nil
}
