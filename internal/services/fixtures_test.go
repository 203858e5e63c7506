package services

import (
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

func trueOrFalseChallenge(id string, answer bool) models.Challenge {
	ch, _ := models.NewChallenge(id, models.TypeTrueOrFalse)
	content := ch.Content.(models.TrueOrFalseContent)
	content.Answer = answer
	ch.Content = content
	ch.Question = "The sky is blue"
	return ch
}

func matchChallenge(id string) models.Challenge {
	ch, _ := models.NewChallenge(id, models.TypeMatch)
	ch.Question = "Match the capitals"
	ch.Content = models.MatchContent{
		Config: models.MatchConfig{BaseConfig: models.DefaultBaseConfig(), PairCount: 2},
		Pairs: []models.MatchPair{
			{Source: "France", Destination: "Paris"},
			{Source: "Spain", Destination: "Madrid"},
		},
	}
	return ch
}

func sampleProject() *models.Project {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Project{
		ID:        "p1",
		Name:      "Geography",
		CreatedAt: created,
		UpdatedAt: created,
		Tests: []models.Test{
			{
				ID:         "t1",
				ProjectID:  "p1",
				Name:       "Europe",
				Locale:     "en",
				Challenges: []models.Challenge{trueOrFalseChallenge("c1", true), matchChallenge("c2")},
				CreatedAt:  created,
				UpdatedAt:  created,
			},
			{
				ID:         "t2",
				ProjectID:  "p1",
				Position:   1,
				Name:       "Asia",
				Locale:     "en",
				Challenges: []models.Challenge{},
				CreatedAt:  created,
				UpdatedAt:  created,
			},
		},
	}
}
