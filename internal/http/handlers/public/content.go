package public

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCharacters serves the published characters collection.
func (h *Handler) ListCharacters(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	characters, total, err := h.CharacterService.List(repository.CharacterListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		OnlyPublished: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load characters", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"characters": characters}, response.NewPagination(page, pageSize, total))
}

// GetCharacter serves one published character by slug.
func (h *Handler) GetCharacter(c *gin.Context) {
	character, err := h.CharacterService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		shared.RespondMappedError(c, err, characterLookupErrorRules, "failed to load character")
		return
	}
	response.Success(c, gin.H{"character": character})
}

// ListComics serves the published comics collection.
func (h *Handler) ListComics(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	comics, total, err := h.ComicService.List(repository.ComicListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		OnlyPublished: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load comics", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"comics": comics}, response.NewPagination(page, pageSize, total))
}

// GetComic serves one published comic by slug.
func (h *Handler) GetComic(c *gin.Context) {
	comic, err := h.ComicService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		shared.RespondMappedError(c, err, comicLookupErrorRules, "failed to load comic")
		return
	}
	response.Success(c, gin.H{"comic": comic})
}
