package admin

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"
	"github.com/inkfolio-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCharacters lists the characters collection, drafts included.
func (h *Handler) ListCharacters(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	characters, total, err := h.CharacterService.List(repository.CharacterListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		WithDeleted: c.Query("with_deleted") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load characters", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"characters": characters}, response.NewPagination(page, pageSize, total))
}

// CreateCharacter adds a character.
func (h *Handler) CreateCharacter(c *gin.Context) {
	var req service.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	character, err := h.CharacterService.Create(req)
	if err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to create character")
		return
	}
	response.Success(c, gin.H{"character": character})
}

// UpdateCharacter updates a character.
func (h *Handler) UpdateCharacter(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	character, err := h.CharacterService.Update(id, req)
	if err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to update character")
		return
	}
	response.Success(c, gin.H{"character": character})
}

// DeleteCharacter soft-deletes a character.
func (h *Handler) DeleteCharacter(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CharacterService.Delete(id); err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to delete character")
		return
	}
	response.SuccessWithMsg(c, "character deleted", nil)
}

// RestoreCharacter brings a soft-deleted character back.
func (h *Handler) RestoreCharacter(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CharacterService.Restore(id); err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to restore character")
		return
	}
	response.SuccessWithMsg(c, "character restored", nil)
}

// ListComics lists the comics collection, drafts included.
func (h *Handler) ListComics(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	comics, total, err := h.ComicService.List(repository.ComicListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		WithDeleted: c.Query("with_deleted") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load comics", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"comics": comics}, response.NewPagination(page, pageSize, total))
}

// CreateComic adds a comic.
func (h *Handler) CreateComic(c *gin.Context) {
	var req service.ComicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	comic, err := h.ComicService.Create(req)
	if err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to create comic")
		return
	}
	response.Success(c, gin.H{"comic": comic})
}

// UpdateComic updates a comic.
func (h *Handler) UpdateComic(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.ComicInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	comic, err := h.ComicService.Update(id, req)
	if err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to update comic")
		return
	}
	response.Success(c, gin.H{"comic": comic})
}

// DeleteComic soft-deletes a comic.
func (h *Handler) DeleteComic(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ComicService.Delete(id); err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to delete comic")
		return
	}
	response.SuccessWithMsg(c, "comic deleted", nil)
}

// RestoreComic brings a soft-deleted comic back.
func (h *Handler) RestoreComic(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ComicService.Restore(id); err != nil {
		shared.RespondMappedError(c, err, contentErrorRules, "failed to restore comic")
		return
	}
	response.SuccessWithMsg(c, "comic restored", nil)
}
