package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"gateway-inject/internal/models"
	"gateway-inject/internal/repositories"

	"github.com/sirupsen/logrus"
)

// userRepository implements repositories.UserRepository on SQLite
type userRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(db *sql.DB, logger *logrus.Logger) repositories.UserRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return repositories.ValidationError("user", "", err)
	}

	query := `INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) && user.Email != nil {
			return repositories.DuplicateError("user", "email", *user.Email)
		}
		r.logger.WithError(err).Error("Failed to create user")
		return repositories.NewRepositoryError("create", "user", "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return repositories.NewRepositoryError("create", "user", "", err)
	}
	user.ID = id

	r.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"name":    user.Name,
	}).Debug("User created")
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("user", strconv.FormatInt(id, 10))
		}
		return nil, repositories.NewRepositoryError("get", "user", strconv.FormatInt(id, 10), err)
	}
	return user, nil
}

// List retrieves users ordered by ID
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, name, email, created_at, updated_at FROM users ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", "user", "", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "user", "", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "user", "", err)
	}
	return users, nil
}

// Count returns the number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "user", "", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var email sql.NullString

	if err := row.Scan(&user.ID, &user.Name, &email, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		user.Email = &email.String
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
