package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ProjectStore persists whole project trees. Save replaces the stored tests
// of the project with the ones it carries.
type ProjectStore interface {
	Load(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
