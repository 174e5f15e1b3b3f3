package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

const imageFormField = "image"

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// POST /api/uploads/images (multipart, field "image")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		utils.HandleError(c, apperrors.Validation(i18n.KeyUploadMissingFile, err))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.HandleError(c, apperrors.Internal(i18n.KeyInternalError, err))
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(c.Request.Context(), utils.CurrentUser(c), file)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, result)
}
