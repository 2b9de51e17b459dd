package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Moderation statuses. Places submitted by regular users start out pending
// and stay off the public catalog until an admin approves them.
const (
	PlaceStatusApproved = "approved"
	PlaceStatusPending  = "pending"
)

type Place struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Image       *string   `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Badge       *string   `json:"badge,omitempty"`
	Rating      *float64  `json:"rating"`
	Reviews     int       `json:"reviews"`
	Features    []string  `json:"features,omitempty"`
	Link        *string   `json:"link,omitempty"`
	Description *string   `json:"description,omitempty"`
	Hours       *string   `json:"hours,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Status      string    `json:"status"`
	SubmittedBy *string   `json:"submitted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceFilter narrows catalog listings. An empty Status means approved only;
// pending rows never show up unless asked for explicitly.
type PlaceFilter struct {
	City   string
	Status string
	Limit  int
	Offset int
}

type PlacesStore struct {
	db *pgxpool.Pool
}

const placeColumns = `id, name, type, city, address, image, images, badge, rating, reviews,
	features, link, description, hours, phone, status, submitted_by, created_at, updated_at`

func scanPlace(row pgx.Row) (*Place, error) {
	var p Place
	var imagesJSON, featuresJSON []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.City, &p.Address, &p.Image, &imagesJSON, &p.Badge,
		&p.Rating, &p.Reviews, &featuresJSON, &p.Link, &p.Description, &p.Hours, &p.Phone,
		&p.Status, &p.SubmittedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlacesStore) Create(ctx context.Context, place *Place) error {
	query := `
		INSERT INTO places (name, type, city, address, image, images, badge, features, link, description, hours, phone, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	imagesJSON, err := json.Marshal(emptyIfNil(place.Images))
	if err != nil {
		return err
	}
	featuresJSON, err := json.Marshal(emptyIfNil(place.Features))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(
		ctx, query,
		place.Name, place.Type, place.City, place.Address, place.Image, imagesJSON,
		place.Badge, featuresJSON, place.Link, place.Description, place.Hours, place.Phone,
		place.Status, place.SubmittedBy,
	).Scan(&place.ID, &place.CreatedAt, &place.UpdatedAt)
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (s *PlacesStore) GetByID(ctx context.Context, placeID int64) (*Place, error) {
	query := fmt.Sprintf(`SELECT %s FROM places WHERE id = $1`, placeColumns)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	place, err := scanPlace(s.db.QueryRow(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return place, nil
}

// List returns a page of places plus the total row count for the filter.
func (s *PlacesStore) List(ctx context.Context, filter PlaceFilter) ([]Place, int, error) {
	status := filter.Status
	if status == "" {
		status = PlaceStatusApproved
	}

	where := []string{"status = $1"}
	args := []interface{}{status}
	argCounter := 2

	if filter.City != "" {
		where = append(where, fmt.Sprintf("LOWER(city) = LOWER($%d)", argCounter))
		args = append(args, filter.City)
		argCounter++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(id) FROM places WHERE %s`, whereClause)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM places WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		placeColumns, whereClause, argCounter, argCounter+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, 0, err
		}
		places = append(places, *place)
	}
	return places, total, rows.Err()
}

// Update updates a place's data in the database
func (s *PlacesStore) Update(ctx context.Context, placeID int64, updateData map[string]interface{}) error {
	if len(updateData) == 0 {
		return fmt.Errorf("no fields to update")
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updateData {
		switch key {
		case "name", "type", "city", "address", "image", "badge", "link", "description", "hours", "phone", "status":
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
			args = append(args, value)
			argCounter++
		case "images", "features":
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("invalid %s data", key)
			}
			encoded, err := json.Marshal(emptyIfNil(list))
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
			args = append(args, encoded)
			argCounter++
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}

	args = append(args, placeID)
	query := fmt.Sprintf("UPDATE places SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(setClauses, ", "), argCounter)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PlacesStore) SetStatus(ctx context.Context, placeID int64, status string) error {
	query := `UPDATE places SET status = $1, updated_at = NOW() WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, status, placeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the place; its reviews go with it via ON DELETE CASCADE.
func (s *PlacesStore) Delete(ctx context.Context, placeID int64) error {
	query := `DELETE FROM places WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, placeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
