package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/models"
)

const projectColumns = `id, name, status, description, created_at, updated_at`

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Status, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func ListProjects(db *sql.DB, userID string) ([]models.Project, error) {
	rows, err := db.Query(`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func GetProject(db *sql.DB, userID string, id int64) (models.Project, error) {
	p, err := scanProject(db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE user_id = ? AND id = ?`, userID, id))
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// CreateProject inserts p and fills in its ID and timestamps.
func CreateProject(db *sql.DB, userID string, p *models.Project) error {
	now := time.Now().UTC()
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	res, err := db.Exec(`INSERT INTO projects (user_id, name, status, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, p.Name, p.Status, p.Description, now, now)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func UpdateProject(db *sql.DB, userID string, p *models.Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := db.Exec(`UPDATE projects SET name = ?, status = ?, description = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		p.Name, p.Status, p.Description, p.UpdatedAt, userID, p.ID)
	if err != nil {
		return fmt.Errorf("updating project %d: %w", p.ID, err)
	}
	return requireAffected(res)
}

func DeleteProject(db *sql.DB, userID string, id int64) error {
	res, err := db.Exec(`DELETE FROM projects WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	return requireAffected(res)
}
