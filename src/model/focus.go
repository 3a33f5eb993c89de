package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/models"
)

// GetFocusState loads the user's focus blob; a user without one gets an empty state.
func GetFocusState(db *sql.DB, userID string) (*models.FocusState, error) {
	var (
		raw       string
		updatedAt time.Time
	)
	err := db.QueryRow(`SELECT state_json, updated_at FROM focus_states WHERE user_id = ?`, userID).Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return models.NewFocusState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading focus state: %w", err)
	}

	state := models.NewFocusState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("decoding focus state: %w", err)
	}
	if state.Checklists == nil {
		state.Checklists = make(map[string]map[string]bool)
	}
	if state.Ritmo == nil {
		state.Ritmo = make(map[string]string)
	}
	state.UpdatedAt = updatedAt
	return state, nil
}

// SaveFocusState replaces the user's focus blob.
func SaveFocusState(db *sql.DB, userID string, state *models.FocusState) error {
	state.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding focus state: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO focus_states (user_id, state_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`,
		userID, string(raw), state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving focus state: %w", err)
	}
	return nil
}

// ListFocusUsers returns every user that has saved a focus state.
func ListFocusUsers(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT user_id FROM focus_states ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing focus users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
