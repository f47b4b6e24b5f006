package service

import (
	"errors"
	"strings"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"

	"gorm.io/gorm"
)

// MaterialService records study materials. Text extraction happens in an
// external service; this side accepts the extracted text and tracks status.
type MaterialService struct {
	MaterialRepo *repository.MaterialRepository
}

func NewMaterialService(materialRepo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{MaterialRepo: materialRepo}
}

type CreateMaterialInput struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	FileType      string `json:"fileType" binding:"required"`
	ExtractedText string `json:"extractedText"`
}

// Create registers a material. When the extractor already supplied text the
// material is immediately usable for plan generation.
func (s *MaterialService) Create(userID string, input CreateMaterialInput) (*model.LearningMaterial, error) {
	material := &model.LearningMaterial{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		FileType:      input.FileType,
		ExtractedText: input.ExtractedText,
		Status:        model.MaterialProcessing,
		UserID:        userID,
	}
	if material.ExtractedText != "" {
		material.Status = model.MaterialCompleted
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) List(userID string) ([]model.LearningMaterial, error) {
	return s.MaterialRepo.ListByUser(userID)
}

func (s *MaterialService) Get(userID, materialID string) (*model.LearningMaterial, error) {
	material, err := s.MaterialRepo.FindByIDAndUser(materialID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

// AttachExtractedText is the callback path for the external extractor. Empty
// text marks the material failed so the UI can offer a retry.
func (s *MaterialService) AttachExtractedText(userID, materialID, text string) (*model.LearningMaterial, error) {
	material, err := s.Get(userID, materialID)
	if err != nil {
		return nil, err
	}
	material.ExtractedText = text
	if strings.TrimSpace(text) == "" {
		material.Status = model.MaterialFailed
	} else {
		material.Status = model.MaterialCompleted
	}
	if err := s.MaterialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}
