package handlers

import (
	"board-backend/helper"
	"board-backend/models"
	"board-backend/services"

	"github.com/gin-gonic/gin"
)

type HashtagHandler struct {
	hashtagService services.HashtagService
	Helper         *helper.HTTPHelper
}

func NewHashtagHandler(hashtagService services.HashtagService) *HashtagHandler {
	return &HashtagHandler{
		hashtagService: hashtagService,
		Helper:         &helper.HTTPHelper{},
	}
}

// GetHashtags pages over the distinct hashtag names in use, for the
// tag-cloud and browse UIs.
func (h *HashtagHandler) GetHashtags(c *gin.Context) {
	var params models.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	names, total, err := h.hashtagService.ListHashtagNames(params)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Success", map[string]interface{}{
		"hashtags":   names,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}
