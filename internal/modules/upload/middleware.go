package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapp/internal/pkg/response"
)

const stagedFileKey = "staged_file"

// Middleware stages the single file in form field and exposes it to the
// handler through StagedFileFrom. A request without that field passes
// through untouched. The staged file is released once the handler chain
// returns, whatever the outcome.
func Middleware(stager *Stager, field string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				c.Next()
				return
			}
			response.Abort(c, http.StatusBadRequest, "INVALID_UPLOAD", "Could not read uploaded file")
			return
		}

		staged, err := stager.Stage(fileHeader)
		if err != nil {
			switch {
			case errors.Is(err, ErrFileTooLarge):
				response.Abort(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
			case errors.Is(err, ErrInvalidMimeType):
				response.Abort(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
			case errors.Is(err, ErrEmptyFile):
				response.Abort(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
			default:
				log.WithError(err).Error("stage upload")
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store uploaded file")
			}
			return
		}

		defer func() {
			if err := staged.Release(); err != nil {
				log.WithError(err).WithField("path", staged.Path).Warn("release staged file")
			}
		}()

		c.Set(stagedFileKey, staged)
		c.Next()
	}
}

// StagedFileFrom returns the file staged for this request, or nil.
func StagedFileFrom(c *gin.Context) *StagedFile {
	v, ok := c.Get(stagedFileKey)
	if !ok {
		return nil
	}
	f, _ := v.(*StagedFile)
	return f
}
