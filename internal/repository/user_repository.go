package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(req *models.CreateUserRequest) (*models.User, error) {
	existing, err := r.FindByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("username %q already exists", req.Username)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Name:           req.Name,
		Role:           req.Role,
		WebhookURL:     req.WebhookURL,
		SubmittedWeeks: []string{},
	}

	_, err = r.db.Exec(
		"INSERT INTO users (id, username, name, role, webhook_url) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Name, user.Role, user.WebhookURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user, err := r.scanUser(r.db.QueryRow(
		"SELECT id, username, name, role, webhook_url, active_clock_in_id FROM users WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}

	weeks, err := r.GetSubmittedWeeks(id)
	if err != nil {
		return nil, err
	}
	user.SubmittedWeeks = weeks
	return user, nil
}

// FindByUsername returns nil without error when no user matches.
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	user, err := r.scanUser(r.db.QueryRow(
		"SELECT id, username, name, role, webhook_url, active_clock_in_id FROM users WHERE username = ?", username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetAll() ([]models.User, error) {
	rows, err := r.db.Query("SELECT id, username, name, role, webhook_url, active_clock_in_id FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(id string, update *models.UpdateUserRequest) (*models.User, error) {
	if update.Username != nil {
		existing, err := r.FindByUsername(*update.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Validation("username %q is already taken", *update.Username)
		}
	}

	setParts := []string{}
	args := []interface{}{}

	if update.Username != nil {
		setParts = append(setParts, "username = ?")
		args = append(args, *update.Username)
	}
	if update.Name != nil {
		setParts = append(setParts, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Role != nil {
		setParts = append(setParts, "role = ?")
		args = append(args, *update.Role)
	}
	if update.WebhookURL != nil {
		setParts = append(setParts, "webhook_url = ?")
		args = append(args, *update.WebhookURL)
	}

	if len(setParts) == 0 {
		return r.GetByID(id)
	}

	setClause := setParts[0]
	for i := 1; i < len(setParts); i++ {
		setClause += ", " + setParts[i]
	}

	args = append(args, id)
	result, err := r.db.Exec("UPDATE users SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperr.NotFound("user", id)
	}

	return r.GetByID(id)
}

// AddSubmittedWeek records a week identifier as submitted. Idempotent:
// re-adding an already-present identifier is a no-op.
func (r *UserRepository) AddSubmittedWeek(userID, weekIdentifier string) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO submitted_weeks (user_id, week_identifier) VALUES (?, ?)",
		userID, weekIdentifier,
	)
	if err != nil {
		return fmt.Errorf("failed to add submitted week: %w", err)
	}
	return nil
}

func (r *UserRepository) GetSubmittedWeeks(userID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT week_identifier FROM submitted_weeks WHERE user_id = ? ORDER BY week_identifier", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query submitted weeks: %w", err)
	}
	defer rows.Close()

	weeks := []string{}
	for rows.Next() {
		var week string
		if err := rows.Scan(&week); err != nil {
			return nil, fmt.Errorf("failed to scan submitted week: %w", err)
		}
		weeks = append(weeks, week)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return weeks, nil
}

func (r *UserRepository) scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var webhookURL, activeClockInID sql.NullString

	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.Role, &webhookURL, &activeClockInID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if webhookURL.Valid {
		user.WebhookURL = &webhookURL.String
	}
	if activeClockInID.Valid {
		user.ActiveClockInID = &activeClockInID.String
	}
	return &user, nil
}
