package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/google/uuid"
)

// ApprovalModel is the persistence model for approval requests
type ApprovalModel struct {
	BaseModel
	TargetType        string     `gorm:"type:varchar(30);not null;index:idx_approvals_target,priority:1"`
	TargetID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_approvals_target,priority:2"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	RequestedBy       *uuid.UUID `gorm:"type:uuid"`
	Comment           string     `gorm:"type:text"`
	ResolvedBy        *uuid.UUID `gorm:"type:uuid"`
	ResolutionComment string     `gorm:"type:text"`
	ResolvedAt        *time.Time
}

// TableName returns the table name for GORM
func (ApprovalModel) TableName() string {
	return "approvals"
}

// ToDomain converts the persistence model to a domain Approval
func (m *ApprovalModel) ToDomain() *approval.Approval {
	return &approval.Approval{
		BaseEntity:        m.BaseModel.ToDomain(),
		TargetType:        approval.TargetType(m.TargetType),
		TargetID:          m.TargetID,
		Status:            approval.Status(m.Status),
		RequestedBy:       m.RequestedBy,
		Comment:           m.Comment,
		ResolvedBy:        m.ResolvedBy,
		ResolutionComment: m.ResolutionComment,
		ResolvedAt:        m.ResolvedAt,
	}
}

// ApprovalModelFromDomain creates a persistence model from a domain Approval
func ApprovalModelFromDomain(a *approval.Approval) *ApprovalModel {
	m := &ApprovalModel{
		TargetType:        string(a.TargetType),
		TargetID:          a.TargetID,
		Status:            string(a.Status),
		RequestedBy:       a.RequestedBy,
		Comment:           a.Comment,
		ResolvedBy:        a.ResolvedBy,
		ResolutionComment: a.ResolutionComment,
		ResolvedAt:        a.ResolvedAt,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
