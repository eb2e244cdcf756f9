package service

import (
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/repository"
)

// ComicInput carries comic create/update fields.
type ComicInput struct {
	Slug        string     `json:"slug" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Cover       string     `json:"cover"`
	Pages       []string   `json:"pages"`
	PublishedAt *time.Time `json:"published_at"`
	SortOrder   int        `json:"sort_order"`
	IsPublished bool       `json:"is_published"`
}

// ComicService manages the comics collection.
type ComicService struct {
	comicRepo repository.ComicRepository
}

// NewComicService creates a comic service.
func NewComicService(comicRepo repository.ComicRepository) *ComicService {
	return &ComicService{comicRepo: comicRepo}
}

// List returns comics matching the filter.
func (s *ComicService) List(filter repository.ComicListFilter) ([]models.Comic, int64, error) {
	return s.comicRepo.List(filter)
}

// Get loads a comic by id.
func (s *ComicService) Get(id uint) (*models.Comic, error) {
	comic, err := s.comicRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comic == nil {
		return nil, ErrComicNotFound
	}
	return comic, nil
}

// GetPublishedBySlug loads one published comic for the storefront.
func (s *ComicService) GetPublishedBySlug(slug string) (*models.Comic, error) {
	comic, err := s.comicRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if comic == nil {
		return nil, ErrComicNotFound
	}
	return comic, nil
}

// Create inserts a comic.
func (s *ComicService) Create(input ComicInput) (*models.Comic, error) {
	slug := strings.TrimSpace(input.Slug)
	count, err := s.comicRepo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	comic := &models.Comic{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Cover:       input.Cover,
		Pages:       models.StringArray(input.Pages),
		PublishedAt: input.PublishedAt,
		SortOrder:   input.SortOrder,
		IsPublished: input.IsPublished,
	}
	if comic.IsPublished && comic.PublishedAt == nil {
		now := time.Now()
		comic.PublishedAt = &now
	}
	if err := s.comicRepo.Create(comic); err != nil {
		return nil, err
	}
	return comic, nil
}

// Update saves comic fields.
func (s *ComicService) Update(id uint, input ComicInput) (*models.Comic, error) {
	comic, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != comic.Slug {
		count, err := s.comicRepo.CountBySlug(slug, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	comic.Slug = slug
	comic.Title = strings.TrimSpace(input.Title)
	comic.Description = input.Description
	comic.Cover = input.Cover
	comic.Pages = models.StringArray(input.Pages)
	comic.PublishedAt = input.PublishedAt
	comic.SortOrder = input.SortOrder
	comic.IsPublished = input.IsPublished
	if comic.IsPublished && comic.PublishedAt == nil {
		now := time.Now()
		comic.PublishedAt = &now
	}
	if err := s.comicRepo.Update(comic); err != nil {
		return nil, err
	}
	return comic, nil
}

// Delete soft deletes a comic.
func (s *ComicService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.comicRepo.Delete(id)
}

// Restore brings back a soft-deleted comic.
func (s *ComicService) Restore(id uint) error {
	return s.comicRepo.Restore(id)
}
