package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/assuredtransfer/aft-request-api/internal/database"
	"github.com/assuredtransfer/aft-request-api/internal/models"
)

// UserDAO handles database operations for users and role assignments
type UserDAO struct {
	db *database.DB
}

// NewUserDAO creates a new UserDAO instance
func NewUserDAO(db *database.DB) *UserDAO {
	return &UserDAO{db: db}
}

// GetByID retrieves a user by ID
func (dao *UserDAO) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT USER_ID, EMAIL, FULL_NAME, PASSWORD_HASH, PRIMARY_ROLE, ACTIVE, CREATED_TIME
		FROM AFT_USER
		WHERE USER_ID = ?
	`

	var user models.User
	err := dao.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email address
func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT USER_ID, EMAIL, FULL_NAME, PASSWORD_HASH, PRIMARY_ROLE, ACTIVE, CREATED_TIME
		FROM AFT_USER
		WHERE EMAIL = ?
	`

	var user models.User
	err := dao.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetAdditionalRoles retrieves the additional role assignments for a user
func (dao *UserDAO) GetAdditionalRoles(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT ROLE FROM AFT_USER_ROLE WHERE USER_ID = ?`

	var roles []string
	if err := dao.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return roles, nil
}

// ListByRole retrieves active users holding a role, either as primary role
// or via an additional assignment. Used for workflow role assignment.
func (dao *UserDAO) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	query := `
		SELECT DISTINCT u.USER_ID, u.EMAIL, u.FULL_NAME, u.PASSWORD_HASH,
		       u.PRIMARY_ROLE, u.ACTIVE, u.CREATED_TIME
		FROM AFT_USER u
		LEFT JOIN AFT_USER_ROLE r ON r.USER_ID = u.USER_ID
		WHERE u.ACTIVE = TRUE AND (u.PRIMARY_ROLE = ? OR r.ROLE = ?)
		ORDER BY u.FULL_NAME ASC
	`

	var users []models.User
	if err := dao.db.SelectContext(ctx, &users, query, role, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	return users, nil
}
