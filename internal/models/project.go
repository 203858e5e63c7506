package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID          string  `json:"id" gorm:"primaryKey;size:64"`
	Name        string  `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Metadata
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tests []Test `json:"tests" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" validate:"dive"`
}

func (Project) TableName() string {
	return "projects"
}

// Test is an ordered collection of challenges plus display metadata.
type Test struct {
	ID          string  `json:"id" gorm:"primaryKey;size:64"`
	ProjectID   string  `json:"project_id" gorm:"not null;size:64;index"`
	Position    int     `json:"position" gorm:"not null;default:0"`
	Name        string  `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Locale      string  `json:"locale" gorm:"size:10;default:en" validate:"omitempty,bcp47_language_tag"`

	Challenges datatypes.JSONSlice[Challenge] `json:"challenges" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Test) TableName() string {
	return "tests"
}

// ChallengeIndex returns the position of the challenge with the given id, or -1.
func (t *Test) ChallengeIndex(id string) int {
	for i, ch := range t.Challenges {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// TestIndex returns the position of the test with the given id, or -1.
func (p *Project) TestIndex(id string) int {
	for i, t := range p.Tests {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the project tree.
func (p *Project) Clone() *Project {
	out := *p
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	if p.Tests != nil {
		out.Tests = make([]Test, len(p.Tests))
		for i := range p.Tests {
			out.Tests[i] = p.Tests[i].Clone()
		}
	}
	return &out
}

func (t Test) Clone() Test {
	out := t
	if t.Description != nil {
		d := *t.Description
		out.Description = &d
	}
	if t.Challenges != nil {
		out.Challenges = make(datatypes.JSONSlice[Challenge], len(t.Challenges))
		for i, ch := range t.Challenges {
			out.Challenges[i] = ch.Clone()
		}
	}
	return out
}
