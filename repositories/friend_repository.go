package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/matchday/prediction-pool/models"
)

var (
	ErrFriendNotFound      = errors.New("friend not found")
	ErrFriendEmailConflict = errors.New("friend email already in use")
)

type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) error
	GetByID(ctx context.Context, id int) (*models.Friend, error)
	GetByEmail(ctx context.Context, email string) (*models.Friend, error)
	List(ctx context.Context) ([]*models.Friend, error)
}

type postgresFriendRepository struct {
	db *sql.DB
}

func NewPostgresFriendRepository(db *sql.DB) FriendRepository {
	return &postgresFriendRepository{db: db}
}

func (r *postgresFriendRepository) Create(ctx context.Context, friend *models.Friend) error {
	query := `
		INSERT INTO friends (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		friend.FirstName,
		friend.LastName,
		friend.Email,
		friend.PasswordHash,
		friend.Role,
	).Scan(&friend.ID, &friend.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrFriendEmailConflict
		}
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

func (r *postgresFriendRepository) scanFriend(rowScanner interface{ Scan(...interface{}) error }) (*models.Friend, error) {
	var f models.Friend
	err := rowScanner.Scan(
		&f.ID, &f.FirstName, &f.LastName, &f.Email, &f.PasswordHash, &f.Role, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *postgresFriendRepository) GetByID(ctx context.Context, id int) (*models.Friend, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, created_at
		FROM friends
		WHERE id = $1`
	return r.scanFriend(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresFriendRepository) GetByEmail(ctx context.Context, email string) (*models.Friend, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, created_at
		FROM friends
		WHERE email = $1`
	return r.scanFriend(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresFriendRepository) List(ctx context.Context) ([]*models.Friend, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, created_at
		FROM friends
		ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := make([]*models.Friend, 0)
	for rows.Next() {
		f, errScan := r.scanFriend(rows)
		if errScan != nil {
			return nil, errScan
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}
