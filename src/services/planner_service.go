// src/services/planner_service.go
package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/security/validation"
)

type plannerServiceImpl struct {
	db       *sql.DB
	schedule []models.TimeBlock
}

func NewPlannerService(db *sql.DB, schedule []models.TimeBlock) PlannerService {
	return &plannerServiceImpl{db: db, schedule: schedule}
}

func (s *plannerServiceImpl) GetDay(userID string, day time.Time) (*models.DayState, error) {
	return model.GetDayState(s.db, userID, day)
}

// SaveDay replaces the blocks of a day. Blocks must belong to the workday schedule.
func (s *plannerServiceImpl) SaveDay(userID string, state *models.DayState) (*models.DayState, error) {
	known := processors.BlockIDs(s.schedule)
	for id, block := range state.Blocks {
		if !known[id] {
			return nil, fmt.Errorf("%w: unknown time block '%s'", validation.ErrValidationFailed, id)
		}
		block.Notes = validation.CleanText(block.Notes)
		if err := validation.ValidateStringMaxLength(block.Notes, validation.MaxNotesLength, "notas"); err != nil {
			return nil, err
		}
		tasks := block.Tasks[:0]
		for _, t := range block.Tasks {
			t.Title = validation.CleanText(t.Title)
			if t.Title == "" {
				continue
			}
			if err := validation.ValidateStringMaxLength(t.Title, validation.DefaultMaxStringLength, "tarefa"); err != nil {
				return nil, err
			}
			tasks = append(tasks, t)
		}
		block.Tasks = tasks
		state.Blocks[id] = block
	}
	if err := model.SaveDayState(s.db, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *plannerServiceImpl) CurrentBlock(now time.Time) models.CurrentBlock {
	return processors.LocateBlock(s.schedule, now)
}

func (s *plannerServiceImpl) ListProjects(userID string) ([]models.Project, error) {
	return model.ListProjects(s.db, userID)
}

func (s *plannerServiceImpl) CreateProject(userID string, p *models.Project) error {
	if err := cleanProject(p); err != nil {
		return err
	}
	if err := model.CreateProject(s.db, userID, p); err != nil {
		return err
	}
	logger.L.Info("Project created", "userID", userID, "projectID", p.ID)
	return nil
}

func (s *plannerServiceImpl) UpdateProject(userID string, p *models.Project) error {
	if err := cleanProject(p); err != nil {
		return err
	}
	return model.UpdateProject(s.db, userID, p)
}

func (s *plannerServiceImpl) DeleteProject(userID string, id int64) error {
	return model.DeleteProject(s.db, userID, id)
}

func cleanProject(p *models.Project) error {
	p.Name = validation.CleanText(p.Name)
	if err := validation.ValidateStringNotEmpty(p.Name, "nome"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxProjectNameLength, "nome"); err != nil {
		return err
	}
	p.Description = validation.CleanText(p.Description)
	if err := validation.ValidateStringMaxLength(p.Description, validation.MaxNotesLength, "descricao"); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	return validation.ValidateProjectStatus(p.Status)
}
