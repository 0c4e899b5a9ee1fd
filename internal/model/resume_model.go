package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Resume struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateName   string          `gorm:"type:varchar(255)" json:"candidate_name"`
	Email           string          `gorm:"type:varchar(255);index" json:"email"`
	Phone           string          `gorm:"type:varchar(50)" json:"phone"`
	Skills          string          `gorm:"type:text" json:"skills"`
	ExperienceYears float64         `json:"experience_years"`
	FileName        string          `gorm:"type:varchar(255)" json:"file_name"`
	Content         string          `gorm:"type:text" json:"-"`
	Embedding       pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// ResumeMatch is a resume paired with its cosine distance to a job embedding.
type ResumeMatch struct {
	Resume
	Distance float64 `gorm:"column:distance"`
}

// ATSScore maps cosine distance onto 0..100.
func ATSScore(distance float64) int {
	similarity := 1 - distance
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	return int(similarity * 100)
}
