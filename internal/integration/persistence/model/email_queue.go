package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/domain/entity"
)

// EmailQueueModel represents the email_queue table in the database.
type EmailQueueModel struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey"`
	TemplateType   string                 `gorm:"type:varchar(50);not null"`
	RecipientEmail string                 `gorm:"type:varchar(255);not null;index"`
	RecipientName  string                 `gorm:"type:varchar(255)"`
	Subject        string                 `gorm:"type:varchar(500);not null"`
	TemplateData   map[string]interface{} `gorm:"serializer:json;type:jsonb;not null"`
	Status         string                 `gorm:"type:varchar(20);not null;default:'pending';index:idx_email_queue_due,priority:1"`
	Attempts       int                    `gorm:"not null;default:0"`
	MaxAttempts    int                    `gorm:"not null;default:3"`
	LastError      string                 `gorm:"type:text"`
	ResendID       string                 `gorm:"type:varchar(100)"`
	CreatedAt      time.Time              `gorm:"not null"`
	ScheduledAt    time.Time              `gorm:"not null;index:idx_email_queue_due,priority:2"`
	ProcessedAt    *time.Time
}

// TableName returns the table name for the EmailQueueModel.
func (EmailQueueModel) TableName() string {
	return "email_queue"
}

// ToEntity converts an EmailQueueModel to a domain EmailJob entity.
func (m *EmailQueueModel) ToEntity() *entity.EmailJob {
	data := m.TemplateData
	if data == nil {
		data = map[string]interface{}{}
	}

	return &entity.EmailJob{
		ID:             m.ID,
		TemplateType:   entity.EmailTemplateType(m.TemplateType),
		RecipientEmail: m.RecipientEmail,
		RecipientName:  m.RecipientName,
		Subject:        m.Subject,
		TemplateData:   data,
		Status:         entity.EmailStatus(m.Status),
		Attempts:       m.Attempts,
		MaxAttempts:    m.MaxAttempts,
		LastError:      m.LastError,
		ResendID:       m.ResendID,
		CreatedAt:      m.CreatedAt,
		ScheduledAt:    m.ScheduledAt,
		ProcessedAt:    m.ProcessedAt,
	}
}

// EmailQueueModelFromEntity creates an EmailQueueModel from a domain EmailJob entity.
func EmailQueueModelFromEntity(job *entity.EmailJob) *EmailQueueModel {
	data := job.TemplateData
	if data == nil {
		data = map[string]interface{}{}
	}

	return &EmailQueueModel{
		ID:             job.ID,
		TemplateType:   string(job.TemplateType),
		RecipientEmail: job.RecipientEmail,
		RecipientName:  job.RecipientName,
		Subject:        job.Subject,
		TemplateData:   data,
		Status:         string(job.Status),
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		LastError:      job.LastError,
		ResendID:       job.ResendID,
		CreatedAt:      job.CreatedAt,
		ScheduledAt:    job.ScheduledAt,
		ProcessedAt:    job.ProcessedAt,
	}
}
