package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/internal/storage"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// UploadResumeHandler stores the session student's resume document and
// returns its public URL for use in application submissions
func UploadResumeHandler(store storage.ResumeStorage) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store == nil {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "storage_unavailable",
				Message:   "Resume storage is not configured",
				RequestID: middleware.RequestID(c),
				Timestamp: time.Now(),
			})
		}
		sess := middleware.CurrentSession(c)

		fileHeader, err := c.FormFile("resume")
		if err != nil {
			return respondBadRequest(c, "missing_file", "Multipart field 'resume' is required")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return respondBadRequest(c, "invalid_file", "Failed to open uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return respondBadRequest(c, "invalid_file", "Failed to read uploaded file")
		}

		contentType := fileHeader.Header.Get("Content-Type")
		result, err := store.UploadResume(sess.Student.ID, contentType, data)
		if err != nil {
			return respondError(c, err)
		}

		logging.GetGlobalLogger().Info("Resume stored", map[string]interface{}{
			"request_id": middleware.RequestID(c),
			"student_id": sess.Student.ID,
			"size_bytes": result.SizeBytes,
		})
		return c.JSON(http.StatusCreated, result)
	}
}
