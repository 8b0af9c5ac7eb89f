package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const userIDKey = utils.UserIDKey

// UserIDMiddleware copies the caller identity set by the gateway into the
// gin context. Requests without it are rejected by the handlers.
func UserIDMiddleware(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(header)); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// requireUserID writes a 401 and returns false when no identity is present.
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return "", false
	}
	return userID, true
}

// ===== LOCALE =====

var supportedLanguages = []language.Tag{language.Arabic, language.English}

// LocaleResolver picks the response locale: the locale query parameter,
// then Accept-Language, then the configured default.
type LocaleResolver struct {
	matcher  language.Matcher
	fallback stats.Locale
}

func NewLocaleResolver(defaultCode string) *LocaleResolver {
	return &LocaleResolver{
		matcher:  language.NewMatcher(supportedLanguages),
		fallback: stats.LocaleFor(defaultCode),
	}
}

func (r *LocaleResolver) Resolve(c *gin.Context) stats.Locale {
	if code := c.Query("locale"); stats.IsSupportedLocale(code) {
		return stats.LocaleFor(code)
	}

	header := c.GetHeader("Accept-Language")
	if header == "" {
		return r.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return r.fallback
	}
	_, index, confidence := r.matcher.Match(tags...)
	if confidence == language.No {
		return r.fallback
	}
	base, _ := supportedLanguages[index].Base()
	return stats.LocaleFor(base.String())
}

// ===== RESPONSES =====

// handleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, services.ValidationErrors{*validationError})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, businessRuleError.Message, err, map[string]interface{}{
			"rule":    businessRuleError.Rule,
			"context": businessRuleError.Context,
		})
		return
	}

	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// respondWithFile serves an export as a download.
func respondWithFile(c *gin.Context, file *stats.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Header("X-Record-Count", fmt.Sprint(file.Records))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// HealthCheck reports that the process is serving requests.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-prep-service",
	})
}
