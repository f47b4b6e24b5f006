package model

type MaterialStatus string

const (
	MaterialProcessing MaterialStatus = "processing"
	MaterialCompleted  MaterialStatus = "completed"
	MaterialFailed     MaterialStatus = "failed"
)

// LearningMaterial is an uploaded study document. Extraction (OCR/PDF) happens
// in an external pipeline; this record receives the extracted text once ready.
// swagger:model LearningMaterial
type LearningMaterial struct {
	UUIDBase
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	FileType      string         `gorm:"size:64" json:"fileType"`
	ExtractedText string         `gorm:"type:longtext" json:"-"`
	Status        MaterialStatus `gorm:"type:varchar(16);default:'processing'" json:"status"`
	UserID        string         `gorm:"index;type:varchar(36);not null" json:"userId"`
}

func (LearningMaterial) TableName() string {
	return "learning_materials"
}
