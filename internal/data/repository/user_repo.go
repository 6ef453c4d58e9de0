package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-social/internal/data/entity"
	"movie-social/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	UpdateDetails(ctx context.Context, user *entity.User) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, url string) error

	// ToggleConnection flips userID -> targetID and the mirrored entry on the
	// target in one unit of work. It reports whether the users are now connected.
	ToggleConnection(ctx context.Context, userID, targetID uuid.UUID) (bool, error)

	// Delete removes the user with everything they authored and scrubs their id
	// from other users' connections and from review likes.
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password, profile_image_url, description,
	reviews, connected_to, my_connections, videos, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ProfileImageURL,
		&user.Description,
		&user.Reviews,
		&user.ConnectedTo,
		&user.MyConnections,
		&user.Videos,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, profile_image_url, description,
		                   reviews, connected_to, my_connections, videos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '{}', '{}', '{}', '{}', $7, $8)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ProfileImageURL,
		user.Description,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, "id = $1", id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "email = $1", email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "username = $1", username)
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	return user, nil
}

func (ur *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) UpdateDetails(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, description = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Description,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update user %s: %w", user.ID, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}

	return nil
}

func (ur *userRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE users SET profile_image_url = $2, updated_at = NOW() WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, url)
	if err != nil {
		ur.log.Error("Failed to update profile image", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update profile image %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update profile image %s: %w", id, ErrNotFound)
	}

	return nil
}

func (ur *userRepository) ToggleConnection(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	var connected bool

	err := pgx.BeginFunc(ctx, ur.db, func(tx pgx.Tx) error {
		// lock both rows in id order so concurrent toggles cannot deadlock
		rows, err := tx.Query(ctx,
			`SELECT id, connected_to FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
			[]uuid.UUID{userID, targetID},
		)
		if err != nil {
			return err
		}

		found := 0
		var following []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			var connectedTo []uuid.UUID
			if err := rows.Scan(&id, &connectedTo); err != nil {
				rows.Close()
				return err
			}
			found++
			if id == userID {
				following = connectedTo
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if found < 2 {
			return ErrNotFound
		}

		caller := entity.User{ConnectedTo: following}
		if caller.IsConnectedTo(targetID) {
			if _, err := tx.Exec(ctx,
				`UPDATE users SET connected_to = array_remove(connected_to, $2), updated_at = NOW() WHERE id = $1`,
				userID, targetID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`UPDATE users SET my_connections = array_remove(my_connections, $2), updated_at = NOW() WHERE id = $1`,
				targetID, userID); err != nil {
				return err
			}
			connected = false
			return nil
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET connected_to = array_append(connected_to, $2), updated_at = NOW() WHERE id = $1`,
			userID, targetID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE users
			SET my_connections = CASE WHEN $2 = ANY(my_connections) THEN my_connections
			                          ELSE array_append(my_connections, $2) END,
			    updated_at = NOW()
			WHERE id = $1`,
			targetID, userID); err != nil {
			return err
		}
		connected = true
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("toggle connection %s -> %s: %w", userID, targetID, ErrNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to toggle connection",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("target_id", targetID.String()),
		)
		return false, fmt.Errorf("toggle connection %s -> %s: %w", userID, targetID, err)
	}

	return connected, nil
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := pgx.BeginFunc(ctx, ur.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE users
			SET connected_to = array_remove(connected_to, $1),
			    my_connections = array_remove(my_connections, $1)
			WHERE $1 = ANY(connected_to) OR $1 = ANY(my_connections)`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE reviews SET likes = array_remove(likes, $1) WHERE $1 = ANY(likes)`, id); err != nil {
			return err
		}

		// reviews and videos go with the user through ON DELETE CASCADE
		result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	ur.log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}
