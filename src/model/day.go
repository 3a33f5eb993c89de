package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

// GetDayState loads the blocks of a day; a day never saved comes back empty.
func GetDayState(db *sql.DB, userID string, day time.Time) (*models.DayState, error) {
	state := &models.DayState{Day: utils.Day(day), Blocks: make(map[string]models.BlockState)}

	var (
		raw       string
		updatedAt time.Time
	)
	err := db.QueryRow(`SELECT state_json, updated_at FROM day_states WHERE user_id = ? AND day = ?`,
		userID, utils.FormatISODate(day)).Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading day state: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &state.Blocks); err != nil {
		return nil, fmt.Errorf("decoding day state: %w", err)
	}
	state.UpdatedAt = updatedAt
	return state, nil
}

// SaveDayState replaces the blocks of a day.
func SaveDayState(db *sql.DB, userID string, state *models.DayState) error {
	if state.Blocks == nil {
		state.Blocks = make(map[string]models.BlockState)
	}
	raw, err := json.Marshal(state.Blocks)
	if err != nil {
		return fmt.Errorf("encoding day state: %w", err)
	}
	state.UpdatedAt = time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO day_states (user_id, day, state_json, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`,
		userID, utils.FormatISODate(state.Day), string(raw), state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving day state: %w", err)
	}
	return nil
}
