package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/igestaos-eng/barbearia/internal/httperr"
	"github.com/igestaos-eng/barbearia/internal/media"
	"github.com/igestaos-eng/barbearia/internal/models"
)

const maxAvatarUpload = 5 << 20 // 5 MiB

type MediaHandler struct {
	db       *gorm.DB
	uploader *media.Uploader
}

func NewMediaHandler(db *gorm.DB, uploader *media.Uploader) *MediaHandler {
	return &MediaHandler{db: db, uploader: uploader}
}

// UploadBarberAvatar recebe multipart "avatar", normaliza e sobe pro S3
func (h *MediaHandler) UploadBarberAvatar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo de imagem é obrigatório.")
		return
	}

	if fileHeader.Size > maxAvatarUpload {
		httperr.BadRequest(c, "file_too_large", "Imagem acima de 5MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao ler arquivo.")
		return
	}
	defer file.Close()

	data, err := media.NormalizeAvatar(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida (use JPEG ou PNG).")
		return
	}

	url, err := h.uploader.UploadBarberAvatar(c.Request.Context(), barber.ID, data)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			httperr.BadRequest(c, "media_disabled", "Upload de imagens não configurado.")
			return
		}
		httperr.Internal(c, "upload_failed", "Erro ao enviar imagem.")
		return
	}

	barber.AvatarURL = url
	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao salvar avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
