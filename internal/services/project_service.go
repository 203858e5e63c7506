package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/google/uuid"
)

// ProjectService owns the authoring tree. Projects are loaded once and every
// mutation is written through to the store before it becomes visible.
type ProjectService interface {
	Load(ctx context.Context) error

	List(ctx context.Context) []*models.Project
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Put(ctx context.Context, project *models.Project) error

	GetTest(ctx context.Context, projectID, testID string) (*models.Test, error)
	FindTest(ctx context.Context, testID string) (*models.Test, error)
	AddTest(ctx context.Context, projectID string, req *models.CreateTestRequest) (*models.Test, error)
	UpdateTest(ctx context.Context, projectID, testID string, req *models.UpdateTestRequest) (*models.Test, error)
	RemoveTest(ctx context.Context, projectID, testID string) error
	ReorderTests(ctx context.Context, projectID string, ids []string) (*models.Project, error)

	GetChallenge(ctx context.Context, projectID, testID, challengeID string) (*models.Challenge, error)
	AddChallenge(ctx context.Context, projectID, testID string, req *models.CreateChallengeRequest) (*models.Challenge, error)
	UpdateChallenge(ctx context.Context, projectID, testID, challengeID string, ch models.Challenge) (*models.Challenge, error)
	RemoveChallenge(ctx context.Context, projectID, testID, challengeID string) error
	ReorderChallenges(ctx context.Context, projectID, testID string, ids []string) (*models.Test, error)
}

type projectService struct {
	store     repositories.ProjectStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	log       *ServiceLogger

	mu       sync.RWMutex
	projects map[string]*models.Project
}

func NewProjectService(store repositories.ProjectStore, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ProjectService {
	return &projectService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		log:       NewServiceLogger(logger, "project"),
		projects:  make(map[string]*models.Project),
	}
}

// ===== LOADING =====

func (s *projectService) Load(ctx context.Context) error {
	projects, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	s.logger.Info("Projects loaded", "count", len(projects))
	return nil
}

// ===== PROJECTS =====

func (s *projectService) List(ctx context.Context) []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return p.Clone(), nil
}

func (s *projectService) Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	op := s.log.WithOperation(ctx, "create_project")
	if err := s.validateRequest(req); err != nil {
		op.LogResult("", "project", err)
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tests:       []models.Test{},
	}

	s.mu.Lock()
	err := s.save(ctx, project)
	s.mu.Unlock()
	op.LogResult(project.ID, "project", err)
	if err != nil {
		return nil, err
	}
	return project.Clone(), nil
}

func (s *projectService) Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "update_project", id, func(p *models.Project) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		return nil
	})
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	op := s.log.WithOperation(ctx, "delete_project")
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		err := fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		op.LogResult(id, "project", err)
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		err = fmt.Errorf("failed to delete project: %w", err)
		op.LogResult(id, "project", err)
		return err
	}
	delete(s.projects, id)
	op.LogResult(id, "project", nil)
	return nil
}

// Put stores a complete project, replacing any project with the same id.
func (s *projectService) Put(ctx context.Context, project *models.Project) error {
	op := s.log.WithOperation(ctx, "put_project")
	if err := s.validator.Validate(project); err != nil {
		op.LogResult(project.ID, "project", err)
		return err
	}

	p := project.Clone()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	s.mu.Lock()
	err := s.save(ctx, p)
	s.mu.Unlock()
	op.LogResult(p.ID, "project", err)
	return err
}

// ===== TESTS =====

func (s *projectService) GetTest(ctx context.Context, projectID, testID string) (*models.Test, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	i := p.TestIndex(testID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTestNotFound, testID)
	}
	return &p.Tests[i], nil
}

// FindTest looks a test up by id across all projects.
func (s *projectService) FindTest(ctx context.Context, testID string) (*models.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if i := p.TestIndex(testID); i >= 0 {
			t := p.Tests[i].Clone()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTestNotFound, testID)
}

func (s *projectService) AddTest(ctx context.Context, projectID string, req *models.CreateTestRequest) (*models.Test, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}
	now := time.Now()
	test := models.Test{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Locale:      locale,
		Challenges:  []models.Challenge{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	p, err := s.mutate(ctx, "add_test", projectID, func(p *models.Project) error {
		test.Position = len(p.Tests)
		p.Tests = append(p.Tests, test)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p.Tests[len(p.Tests)-1], nil
}

func (s *projectService) UpdateTest(ctx context.Context, projectID, testID string, req *models.UpdateTestRequest) (*models.Test, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var idx int
	p, err := s.mutate(ctx, "update_test", projectID, func(p *models.Project) error {
		t, i, err := testOf(p, testID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Description != nil {
			t.Description = req.Description
		}
		if req.Locale != nil {
			t.Locale = *req.Locale
		}
		t.UpdatedAt = time.Now()
		idx = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p.Tests[idx], nil
}

func (s *projectService) RemoveTest(ctx context.Context, projectID, testID string) error {
	_, err := s.mutate(ctx, "remove_test", projectID, func(p *models.Project) error {
		_, i, err := testOf(p, testID)
		if err != nil {
			return err
		}
		p.Tests = slices.Delete(p.Tests, i, i+1)
		return nil
	})
	return err
}

func (s *projectService) ReorderTests(ctx context.Context, projectID string, ids []string) (*models.Project, error) {
	return s.mutate(ctx, "reorder_tests", projectID, func(p *models.Project) error {
		ordered, err := reorder(p.Tests, ids, func(t models.Test) string { return t.ID })
		if err != nil {
			return err
		}
		p.Tests = ordered
		return nil
	})
}

// ===== CHALLENGES =====

func (s *projectService) GetChallenge(ctx context.Context, projectID, testID, challengeID string) (*models.Challenge, error) {
	t, err := s.GetTest(ctx, projectID, testID)
	if err != nil {
		return nil, err
	}
	i := t.ChallengeIndex(challengeID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
	}
	return &t.Challenges[i], nil
}

// AddChallenge appends a new challenge of the requested type with default
// settings. The content still has to be authored before it validates.
func (s *projectService) AddChallenge(ctx context.Context, projectID, testID string, req *models.CreateChallengeRequest) (*models.Challenge, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	ch, err := models.NewChallenge(uuid.NewString(), req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	ch.Question = req.Question

	_, err = s.mutate(ctx, "add_challenge", projectID, func(p *models.Project) error {
		t, _, err := testOf(p, testID)
		if err != nil {
			return err
		}
		t.Challenges = append(t.Challenges, ch)
		t.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := ch.Clone()
	return &out, nil
}

// UpdateChallenge replaces a challenge's question and content. The id and
// type are fixed at creation, and content arrays are reshaped to match the
// config counts before saving.
func (s *projectService) UpdateChallenge(ctx context.Context, projectID, testID, challengeID string, ch models.Challenge) (*models.Challenge, error) {
	var updated models.Challenge
	_, err := s.mutate(ctx, "update_challenge", projectID, func(p *models.Project) error {
		t, _, err := testOf(p, testID)
		if err != nil {
			return err
		}
		i := t.ChallengeIndex(challengeID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
		}
		current := t.Challenges[i]
		if (ch.ID != "" && ch.ID != current.ID) || ch.Type != current.Type {
			return ErrImmutableChallenge
		}
		ch.ID = current.ID

		reshaped, err := designer.Reshape(ch)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		t.Challenges[i] = reshaped
		t.UpdatedAt = time.Now()
		updated = reshaped.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *projectService) RemoveChallenge(ctx context.Context, projectID, testID, challengeID string) error {
	_, err := s.mutate(ctx, "remove_challenge", projectID, func(p *models.Project) error {
		t, _, err := testOf(p, testID)
		if err != nil {
			return err
		}
		i := t.ChallengeIndex(challengeID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
		}
		t.Challenges = slices.Delete(t.Challenges, i, i+1)
		t.UpdatedAt = time.Now()
		return nil
	})
	return err
}

func (s *projectService) ReorderChallenges(ctx context.Context, projectID, testID string, ids []string) (*models.Test, error) {
	var idx int
	p, err := s.mutate(ctx, "reorder_challenges", projectID, func(p *models.Project) error {
		t, i, err := testOf(p, testID)
		if err != nil {
			return err
		}
		ordered, err := reorder(t.Challenges, ids, func(ch models.Challenge) string { return ch.ID })
		if err != nil {
			return err
		}
		t.Challenges = ordered
		t.UpdatedAt = time.Now()
		idx = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p.Tests[idx], nil
}

// ===== HELPERS =====

// mutate applies fn to a copy of the project and saves it. The in-memory
// project only changes once the store accepted the new version.
func (s *projectService) mutate(ctx context.Context, operation, projectID string, fn func(p *models.Project) error) (*models.Project, error) {
	op := s.log.WithOperation(ctx, operation)
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects[projectID]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		op.LogResult(projectID, "project", err)
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		op.LogResult(projectID, "project", err)
		return nil, err
	}
	next.UpdatedAt = time.Now()

	err := s.save(ctx, next)
	op.LogResult(projectID, "project", err)
	if err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// save writes p through to the store and publishes the change. Callers hold
// the write lock.
func (s *projectService) save(ctx context.Context, p *models.Project) error {
	for i := range p.Tests {
		p.Tests[i].ProjectID = p.ID
		p.Tests[i].Position = i
	}
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	s.projects[p.ID] = p

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, events.NewProjectSavedEvent(p)); err != nil {
			s.logger.Warn("Failed to publish project saved event", "project_id", p.ID, "error", err)
		}
	}
	return nil
}

func (s *projectService) validateRequest(req any) error {
	if err := s.validator.ValidateStruct(req); err != nil {
		if errs := validator.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return nil
}

func testOf(p *models.Project, testID string) (*models.Test, int, error) {
	i := p.TestIndex(testID)
	if i < 0 {
		return nil, -1, fmt.Errorf("%w: %s", ErrTestNotFound, testID)
	}
	return &p.Tests[i], i, nil
}

// reorder returns items in the order given by ids, which must name every
// item exactly once.
func reorder[T any](items []T, ids []string, idOf func(T) string) ([]T, error) {
	if len(ids) != len(items) {
		return nil, ErrReorderMismatch
	}
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[idOf(item)] = item
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, ErrReorderMismatch
		}
		delete(byID, id)
		out = append(out, item)
	}
	return out, nil
}
