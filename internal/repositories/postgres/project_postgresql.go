package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectPostgreSQL struct {
	db *gorm.DB
}

func NewProjectPostgreSQL(db *gorm.DB) repositories.ProjectStore {
	return &ProjectPostgreSQL{db: db}
}

// Migrate creates or updates the project tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{}, &models.Test{})
}

func orderedTests(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Load retrieves every project with its tests in position order
func (p *ProjectPostgreSQL) Load(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := p.db.WithContext(ctx).
		Preload("Tests", orderedTests).
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return projects, nil
}

// Get retrieves one project with its tests
func (p *ProjectPostgreSQL) Get(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := p.db.WithContext(ctx).
		Preload("Tests", orderedTests).
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, repositories.ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// Save upserts the project and replaces its tests in one transaction
func (p *ProjectPostgreSQL) Save(ctx context.Context, project *models.Project) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(project).Error; err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		ids := make([]string, len(project.Tests))
		for i := range project.Tests {
			project.Tests[i].ProjectID = project.ID
			project.Tests[i].Position = i
			ids[i] = project.Tests[i].ID
		}

		stale := tx.Where("project_id = ?", project.ID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.Test{}).Error; err != nil {
			return fmt.Errorf("failed to remove stale tests: %w", err)
		}

		if len(project.Tests) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&project.Tests).Error; err != nil {
			return fmt.Errorf("failed to save tests: %w", err)
		}
		return nil
	})
}

// Delete removes the project and its tests
func (p *ProjectPostgreSQL) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Test{}).Error; err != nil {
			return fmt.Errorf("failed to delete tests: %w", err)
		}
		result := tx.Delete(&models.Project{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("project %s: %w", id, repositories.ErrNotFound)
		}
		return nil
	})
}
