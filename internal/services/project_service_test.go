package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProjectService(t *testing.T, projects ...*models.Project) (ProjectService, *MockProjectStore, *events.MockEventPublisher) {
	t.Helper()
	store := &MockProjectStore{}
	store.On("Load", mock.Anything).Return(projects, nil).Once()
	publisher := events.NewMockEventPublisher(discardLogger())

	svc := NewProjectService(store, publisher, discardLogger(), validator.New())
	require.NoError(t, svc.Load(context.Background()))
	return svc, store, publisher
}

func TestProjectService_Load(t *testing.T) {
	svc, store, _ := newTestProjectService(t, sampleProject())

	list := svc.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Geography", list[0].Name)
	assert.Len(t, list[0].Tests, 2)
	store.AssertExpectations(t)
}

func TestProjectService_LoadFailure(t *testing.T) {
	store := &MockProjectStore{}
	store.On("Load", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewProjectService(store, nil, discardLogger(), validator.New())
	err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Empty(t, svc.List(context.Background()))
}

func TestProjectService_Create(t *testing.T) {
	tests := []struct {
		name        string
		request     *models.CreateProjectRequest
		setupMocks  func(*MockProjectStore)
		expectError bool
	}{
		{
			name:    "successful creation",
			request: &models.CreateProjectRequest{Name: "History", Description: stringPtr("Dates and people")},
			setupMocks: func(store *MockProjectStore) {
				store.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
					return p.Name == "History" && p.ID != "" && len(p.Tests) == 0
				})).Return(nil).Once()
			},
		},
		{
			name:        "empty name",
			request:     &models.CreateProjectRequest{Name: ""},
			setupMocks:  func(store *MockProjectStore) {},
			expectError: true,
		},
		{
			name:    "store failure",
			request: &models.CreateProjectRequest{Name: "History"},
			setupMocks: func(store *MockProjectStore) {
				store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, publisher := newTestProjectService(t)
			tt.setupMocks(store)

			project, err := svc.Create(context.Background(), tt.request)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, project)
				assert.Empty(t, svc.List(context.Background()))
				assert.Empty(t, publisher.GetPublishedEvents())
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.request.Name, project.Name)
				got, err := svc.Get(context.Background(), project.ID)
				require.NoError(t, err)
				assert.Equal(t, project.ID, got.ID)

				published := publisher.GetPublishedEvents()
				require.Len(t, published, 1)
				assert.Equal(t, events.EventProjectSaved, published[0].Type)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestProjectService_Create_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	_, err := svc.Create(context.Background(), &models.CreateProjectRequest{})
	assert.True(t, IsValidation(err))
}

func TestProjectService_FailedSaveKeepsPreviousVersion(t *testing.T) {
	svc, store, _ := newTestProjectService(t, sampleProject())
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()

	_, err := svc.Update(context.Background(), "p1", &models.UpdateProjectRequest{Name: stringPtr("Renamed")})
	require.Error(t, err)

	got, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Geography", got.Name)
}

func TestProjectService_ReturnedProjectsAreCopies(t *testing.T) {
	svc, _, _ := newTestProjectService(t, sampleProject())

	got, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	got.Name = "Changed"
	got.Tests[0].Challenges[0].Question = "Changed"

	again, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Geography", again.Name)
	assert.Equal(t, "The sky is blue", again.Tests[0].Challenges[0].Question)
}

func TestProjectService_Delete(t *testing.T) {
	svc, store, _ := newTestProjectService(t, sampleProject())
	store.On("Delete", mock.Anything, "p1").Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	_, err := svc.Get(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	err = svc.Delete(context.Background(), "p1")
	assert.True(t, IsNotFound(err))
	store.AssertExpectations(t)
}

func TestProjectService_Tests(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestProjectService(t, sampleProject())
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	t.Run("add test defaults locale", func(t *testing.T) {
		test, err := svc.AddTest(ctx, "p1", &models.CreateTestRequest{Name: "Africa"})
		require.NoError(t, err)
		assert.Equal(t, "en", test.Locale)
		assert.Equal(t, 2, test.Position)
		assert.Equal(t, "p1", test.ProjectID)
	})

	t.Run("update test", func(t *testing.T) {
		test, err := svc.UpdateTest(ctx, "p1", "t2", &models.UpdateTestRequest{Name: stringPtr("Asia Pacific"), Locale: stringPtr("es")})
		require.NoError(t, err)
		assert.Equal(t, "Asia Pacific", test.Name)
		assert.Equal(t, "es", test.Locale)
	})

	t.Run("unknown test", func(t *testing.T) {
		_, err := svc.UpdateTest(ctx, "p1", "missing", &models.UpdateTestRequest{})
		assert.ErrorIs(t, err, ErrTestNotFound)
	})

	t.Run("reorder", func(t *testing.T) {
		project, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		ids := make([]string, 0, len(project.Tests))
		for i := len(project.Tests) - 1; i >= 0; i-- {
			ids = append(ids, project.Tests[i].ID)
		}

		reordered, err := svc.ReorderTests(ctx, "p1", ids)
		require.NoError(t, err)
		for i, test := range reordered.Tests {
			assert.Equal(t, ids[i], test.ID)
			assert.Equal(t, i, test.Position)
		}
	})

	t.Run("reorder must name every test once", func(t *testing.T) {
		_, err := svc.ReorderTests(ctx, "p1", []string{"t1", "t1", "t2"})
		assert.ErrorIs(t, err, ErrReorderMismatch)
		_, err = svc.ReorderTests(ctx, "p1", []string{"t1"})
		assert.ErrorIs(t, err, ErrReorderMismatch)
	})

	t.Run("remove test", func(t *testing.T) {
		require.NoError(t, svc.RemoveTest(ctx, "p1", "t2"))
		_, err := svc.GetTest(ctx, "p1", "t2")
		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestProjectService_FindTest(t *testing.T) {
	svc, _, _ := newTestProjectService(t, sampleProject())

	test, err := svc.FindTest(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, test.Challenges, 2)

	_, err = svc.FindTest(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestProjectService_Challenges(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestProjectService(t, sampleProject())
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	t.Run("add challenge uses defaults", func(t *testing.T) {
		ch, err := svc.AddChallenge(ctx, "p1", "t2", &models.CreateChallengeRequest{Type: models.TypeFillTable, Question: "Fill the table"})
		require.NoError(t, err)
		assert.NotEmpty(t, ch.ID)
		assert.Equal(t, models.DefaultTimeLimit, ch.TimeLimit())

		test, err := svc.GetTest(ctx, "p1", "t2")
		require.NoError(t, err)
		require.Len(t, test.Challenges, 1)
		assert.Equal(t, ch.ID, test.Challenges[0].ID)
	})

	t.Run("add challenge rejects unknown type", func(t *testing.T) {
		_, err := svc.AddChallenge(ctx, "p1", "t2", &models.CreateChallengeRequest{Type: "crossword"})
		assert.True(t, IsValidation(err))
	})

	t.Run("update reshapes content", func(t *testing.T) {
		ch := matchChallenge("c2")
		content := ch.Content.(models.MatchContent)
		content.Config.PairCount = 3
		ch.Content = content

		updated, err := svc.UpdateChallenge(ctx, "p1", "t1", "c2", ch)
		require.NoError(t, err)
		assert.Len(t, updated.Content.(models.MatchContent).Pairs, 3)

		stored, err := svc.GetChallenge(ctx, "p1", "t1", "c2")
		require.NoError(t, err)
		assert.Len(t, stored.Content.(models.MatchContent).Pairs, 3)
	})

	t.Run("id and type are immutable", func(t *testing.T) {
		_, err := svc.UpdateChallenge(ctx, "p1", "t1", "c1", trueOrFalseChallenge("other", true))
		assert.ErrorIs(t, err, ErrImmutableChallenge)

		_, err = svc.UpdateChallenge(ctx, "p1", "t1", "c1", matchChallenge("c1"))
		assert.ErrorIs(t, err, ErrImmutableChallenge)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("empty id keeps the current one", func(t *testing.T) {
		ch := trueOrFalseChallenge("", false)
		updated, err := svc.UpdateChallenge(ctx, "p1", "t1", "c1", ch)
		require.NoError(t, err)
		assert.Equal(t, "c1", updated.ID)
		assert.False(t, updated.Content.(models.TrueOrFalseContent).Answer)
	})

	t.Run("reorder challenges", func(t *testing.T) {
		test, err := svc.ReorderChallenges(ctx, "p1", "t1", []string{"c2", "c1"})
		require.NoError(t, err)
		assert.Equal(t, "c2", test.Challenges[0].ID)
		assert.Equal(t, "c1", test.Challenges[1].ID)
	})

	t.Run("remove challenge", func(t *testing.T) {
		require.NoError(t, svc.RemoveChallenge(ctx, "p1", "t1", "c1"))
		_, err := svc.GetChallenge(ctx, "p1", "t1", "c1")
		assert.ErrorIs(t, err, ErrChallengeNotFound)

		err = svc.RemoveChallenge(ctx, "p1", "t1", "c1")
		assert.True(t, IsNotFound(err))
	})
}
