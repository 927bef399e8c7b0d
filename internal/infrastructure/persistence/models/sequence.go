package models

// DocumentSequenceModel is a named per-tenant counter
type DocumentSequenceModel struct {
	Name  string `gorm:"type:varchar(50);primary_key"`
	Value int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
