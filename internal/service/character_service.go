package service

import (
	"strings"

	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/repository"
)

// CharacterInput carries character create/update fields.
type CharacterInput struct {
	Slug        string   `json:"slug" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Bio         string   `json:"bio"`
	Portrait    string   `json:"portrait"`
	Gallery     []string `json:"gallery"`
	SortOrder   int      `json:"sort_order"`
	IsPublished bool     `json:"is_published"`
}

// CharacterService manages the characters collection.
type CharacterService struct {
	characterRepo repository.CharacterRepository
}

// NewCharacterService creates a character service.
func NewCharacterService(characterRepo repository.CharacterRepository) *CharacterService {
	return &CharacterService{characterRepo: characterRepo}
}

// List returns characters matching the filter.
func (s *CharacterService) List(filter repository.CharacterListFilter) ([]models.Character, int64, error) {
	return s.characterRepo.List(filter)
}

// Get loads a character by id.
func (s *CharacterService) Get(id uint) (*models.Character, error) {
	character, err := s.characterRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	return character, nil
}

// GetPublishedBySlug loads one published character for the storefront.
func (s *CharacterService) GetPublishedBySlug(slug string) (*models.Character, error) {
	character, err := s.characterRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	return character, nil
}

// Create inserts a character.
func (s *CharacterService) Create(input CharacterInput) (*models.Character, error) {
	slug := strings.TrimSpace(input.Slug)
	count, err := s.characterRepo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	character := &models.Character{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Bio:         input.Bio,
		Portrait:    input.Portrait,
		Gallery:     models.StringArray(input.Gallery),
		SortOrder:   input.SortOrder,
		IsPublished: input.IsPublished,
	}
	if err := s.characterRepo.Create(character); err != nil {
		return nil, err
	}
	return character, nil
}

// Update saves character fields.
func (s *CharacterService) Update(id uint, input CharacterInput) (*models.Character, error) {
	character, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != character.Slug {
		count, err := s.characterRepo.CountBySlug(slug, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	character.Slug = slug
	character.Name = strings.TrimSpace(input.Name)
	character.Bio = input.Bio
	character.Portrait = input.Portrait
	character.Gallery = models.StringArray(input.Gallery)
	character.SortOrder = input.SortOrder
	character.IsPublished = input.IsPublished
	if err := s.characterRepo.Update(character); err != nil {
		return nil, err
	}
	return character, nil
}

// Delete soft deletes a character.
func (s *CharacterService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.characterRepo.Delete(id)
}

// Restore brings back a soft-deleted character.
func (s *CharacterService) Restore(id uint) error {
	return s.characterRepo.Restore(id)
}
