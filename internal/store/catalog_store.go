package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// ErrNotFound means the requested spot does not exist in the catalog.
var ErrNotFound = errors.New("spot not found")

// CatalogStore is the server-side catalog: spots in PostgreSQL,
// continuation-cursor state in Redis.
type CatalogStore struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
}

func NewCatalogStore(postgres *pgxpool.Pool, redisClient *redis.Client) *CatalogStore {
	return &CatalogStore{postgres: postgres, redis: redisClient}
}

// SearchPage executes one page of a catalog search. An empty token
// starts a new walk; a non-empty one resumes at the stored offset after
// its fingerprint is checked against the submitted query. The returned
// token is empty once the result set is exhausted.
func (s *CatalogStore) SearchPage(ctx context.Context, q catalog.Query, pageSize int, token string) ([]*catalog.Record, string, error) {
	offset := 0
	fingerprint := q.Fingerprint()
	if token != "" {
		state, err := s.loadCursor(ctx, token, fingerprint)
		if err != nil {
			return nil, "", err
		}
		offset = state.Offset
	}

	whereClause, orderBy, args, argCounter := buildSearchSQL(q)
	query := fmt.Sprintf(`
		SELECT id, owner_uid, name, founded_by, description, date_founded,
		       latitude, longitude, spot_type, place_name,
		       likes, offensive, spam, inappropriate, dangerous,
		       has_multiple_images, created_at
		FROM spots
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, argCounter, argCounter+1)
	args = append(args, pageSize, offset)

	rows, err := s.postgres.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query spots: %w", err)
	}
	defer rows.Close()

	var records []*catalog.Record
	for rows.Next() {
		rec, err := scanSpot(rows)
		if err != nil {
			return nil, "", err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to read spots: %w", err)
	}

	if err := s.attachImageRefs(ctx, records); err != nil {
		return nil, "", err
	}

	if token != "" {
		s.dropCursor(ctx, token)
	}

	// A short page means the walk is complete; only a full page earns a
	// new cursor.
	if len(records) < pageSize {
		return records, "", nil
	}
	next, err := s.issueCursor(ctx, cursorState{Fingerprint: fingerprint, Offset: offset + pageSize})
	if err != nil {
		return nil, "", err
	}
	return records, next, nil
}

// GetSpot fetches one spot by identifier.
func (s *CatalogStore) GetSpot(ctx context.Context, id string) (*catalog.Record, error) {
	row := s.postgres.QueryRow(ctx, `
		SELECT id, owner_uid, name, founded_by, description, date_founded,
		       latitude, longitude, spot_type, place_name,
		       likes, offensive, spam, inappropriate, dangerous,
		       has_multiple_images, created_at
		FROM spots
		WHERE id = $1
	`, id)

	rec, err := scanSpot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachImageRefs(ctx, []*catalog.Record{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveSpot overwrites the spot row, creating it when absent, and
// replaces its image references. Overwrite semantics carry the
// submitted counters as-is: concurrent writers are last-writer-wins.
func (s *CatalogStore) SaveSpot(ctx context.Context, rec *catalog.Record) error {
	tx, err := s.postgres.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	_, err = tx.Exec(ctx, `
		INSERT INTO spots (id, owner_uid, name, founded_by, description, date_founded,
		                   latitude, longitude, spot_type, place_name,
		                   likes, offensive, spam, inappropriate, dangerous,
		                   has_multiple_images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			founded_by = EXCLUDED.founded_by,
			description = EXCLUDED.description,
			date_founded = EXCLUDED.date_founded,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			spot_type = EXCLUDED.spot_type,
			place_name = EXCLUDED.place_name,
			likes = EXCLUDED.likes,
			offensive = EXCLUDED.offensive,
			spam = EXCLUDED.spam,
			inappropriate = EXCLUDED.inappropriate,
			dangerous = EXCLUDED.dangerous,
			has_multiple_images = EXCLUDED.has_multiple_images,
			updated_at = NOW()
	`, rec.ID, rec.OwnerUID, rec.Name, rec.FoundedBy, rec.Description, rec.DateFounded,
		rec.Location.Latitude, rec.Location.Longitude, rec.SpotType, rec.PlaceName,
		rec.Likes, rec.Offensive, rec.Spam, rec.Inappropriate, rec.Dangerous,
		rec.HasMultipleImages, rec.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("failed to save spot: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM spot_images WHERE spot_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("failed to clear spot images: %w", err)
	}
	for i, ref := range rec.ImageRefs {
		_, err := tx.Exec(ctx, `
			INSERT INTO spot_images (spot_id, ref, upload_order, created_at)
			VALUES ($1, $2, $3, $4)
		`, rec.ID, ref, i, now)
		if err != nil {
			return fmt.Errorf("failed to save spot image: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteSpot removes the spot by identifier unconditionally. Deleting
// an absent spot is not an error.
func (s *CatalogStore) DeleteSpot(ctx context.Context, id string) error {
	if _, err := s.postgres.Exec(ctx, `DELETE FROM spots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}
	return nil
}

// SpotOwner returns the owning user of a spot.
func (s *CatalogStore) SpotOwner(ctx context.Context, id string) (string, error) {
	var owner string
	err := s.postgres.QueryRow(ctx, `SELECT owner_uid FROM spots WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query spot owner: %w", err)
	}
	return owner, nil
}

func scanSpot(row pgx.Row) (*catalog.Record, error) {
	var rec catalog.Record
	err := row.Scan(
		&rec.ID,
		&rec.OwnerUID,
		&rec.Name,
		&rec.FoundedBy,
		&rec.Description,
		&rec.DateFounded,
		&rec.Location.Latitude,
		&rec.Location.Longitude,
		&rec.SpotType,
		&rec.PlaceName,
		&rec.Likes,
		&rec.Offensive,
		&rec.Spam,
		&rec.Inappropriate,
		&rec.Dangerous,
		&rec.HasMultipleImages,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan spot: %w", err)
	}
	return &rec, nil
}

// attachImageRefs fills ImageRefs for a batch of records in one query.
func (s *CatalogStore) attachImageRefs(ctx context.Context, records []*catalog.Record) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := make([]string, len(records))
	args := make([]any, len(records))
	byID := make(map[string]*catalog.Record, len(records))
	for i, rec := range records {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec.ID
		byID[rec.ID] = rec
	}

	query := fmt.Sprintf(`
		SELECT spot_id, ref FROM spot_images
		WHERE spot_id IN (%s)
		ORDER BY spot_id, upload_order
	`, strings.Join(placeholders, ","))

	rows, err := s.postgres.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to fetch spot images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var spotID, ref string
		if err := rows.Scan(&spotID, &ref); err != nil {
			return fmt.Errorf("failed to scan spot image: %w", err)
		}
		if rec, exists := byID[spotID]; exists {
			rec.ImageRefs = append(rec.ImageRefs, ref)
		}
	}
	return rows.Err()
}
