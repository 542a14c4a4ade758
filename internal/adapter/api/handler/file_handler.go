package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"printlab/internal/usecase"
	"printlab/pkg/errors"
	"printlab/pkg/logger"
	"printlab/pkg/response"
	"printlab/pkg/utils"
)

var allowedExtensions = map[string]bool{
	"stl":  true,
	"step": true,
	"stp":  true,
	"dxf":  true,
	"dwg":  true,
	"ai":   true,
	"eps":  true,
}

type FileHandler struct {
	fileUseCase *usecase.FileUseCase
	maxFileSize int64
}

func NewFileHandler(fileUseCase *usecase.FileUseCase) *FileHandler {
	return &FileHandler{
		fileUseCase: fileUseCase,
		maxFileSize: 100 * 1024 * 1024,
	}
}

func (h *FileHandler) Upload(c echo.Context) error {
	logger.Debug("Starting file upload handler")

	file, err := c.FormFile("file")
	if err != nil {
		logger.Error("Error getting file from form: %v", err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	logger.Debug("Received file: %s, size: %d bytes", file.Filename, file.Size)

	if file.Size > h.maxFileSize {
		logger.Warn("File too large: %d bytes (max: %d)", file.Size, h.maxFileSize)
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !allowedExtensions[ext] {
		logger.Warn("Unsupported file extension: %s", ext)
		return response.Error(c, errors.UnsupportedFileType(ext))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening file: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	ownerID := getUserIDFromContext(c)

	asset, err := h.fileUseCase.Upload(c.Request().Context(), usecase.UploadInput{
		OwnerID:  ownerID,
		Filename: file.Filename,
		MimeType: file.Header.Get("Content-Type"),
		Source:   src,
	})
	if err != nil {
		logger.Error("Error uploading file: %v", err)
		return response.Error(c, err)
	}

	return response.Created(c, asset)
}

func (h *FileHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	assets, total, err := h.fileUseCase.List(c.Request().Context(), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, assets, total, params.Page, params.PageSize)
}

func (h *FileHandler) Get(c echo.Context) error {
	detail, err := h.fileUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *FileHandler) Delete(c echo.Context) error {
	if err := h.fileUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return "anonymous"
}
