package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Job struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string          `gorm:"type:varchar(255)" json:"title"`
	Role      string          `gorm:"type:varchar(255);index" json:"role"`
	Company   string          `gorm:"type:varchar(255)" json:"company"`
	Location  string          `gorm:"type:varchar(255)" json:"location"`
	Skills    string          `gorm:"type:text" json:"skills"`
	SourceURL string          `gorm:"type:text" json:"source_url"`
	Content   string          `gorm:"type:text" json:"content"`
	Embedding pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// DisplayRole prefers the extracted role over the raw title.
func (j *Job) DisplayRole() string {
	if j.Role != "" {
		return j.Role
	}
	return j.Title
}
