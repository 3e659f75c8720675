package generate

import (
	"context"
	"errors"
	"net/http"

	"codeberg.org/vyra/server/internal/auth"
	apierrors "codeberg.org/vyra/server/internal/errors"
	"codeberg.org/vyra/server/internal/pipeline"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/gin-gonic/gin"
)

const unauthenticatedMessage = "User must be logged in to generate images."

// *pipeline.Pipeline implements it
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Handler godoc
// @Summary Generate an image from a prompt
// @Description Refines the prompt, generates one image and records it against the caller's daily quota
// @Tags generate
// @Accept json
// @Produce json
// @Param request body Request true "Prompt and style"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/generate [post]
// @Security BearerAuth
func Handler(p Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			apierrors.Unauthenticated(c, unauthenticatedMessage)
			return
		}

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.InvalidArgument(c, "invalid request body")
			return
		}

		declared := usage.TierFree
		if req.IsPremium {
			declared = usage.TierPremium
		}

		result, err := p.Generate(c.Request.Context(), pipeline.Request{
			UserID:       userID,
			Prompt:       req.Prompt,
			Style:        req.Style,
			DeclaredTier: declared,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success:         true,
			ImageURL:        result.ImageURL,
			OptimizedPrompt: result.OptimizedPrompt,
		})
	}
}

// maps pipeline failures onto the error envelope
func respondError(c *gin.Context, err error) {
	var validationErr *pipeline.ValidationError
	var quotaErr *pipeline.QuotaError

	switch {
	case errors.As(err, &validationErr):
		apierrors.InvalidArgument(c, validationErr.Message)
	case errors.As(err, &quotaErr):
		apierrors.ResourceExhausted(c, quotaErr.Error(), quotaErr.Limit)
	case errors.Is(err, pipeline.ErrUnauthenticated):
		apierrors.Unauthenticated(c, unauthenticatedMessage)
	default:
		apierrors.Internal(c, err, "kind", pipeline.KindOf(err))
	}
}
