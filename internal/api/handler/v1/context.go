package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/api/middleware"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/service"
)

var (
	errMissingUser = errors.New("no authenticated user")
	errNotOfficer  = errors.New("only officers can do this")
)

type UserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// getUserFromContext loads the user the JWT middleware authenticated.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID := ctx.GetString(middleware.CtxKeyUserID)
	if userID == "" {
		return domain.User{}, response.ErrUnauthorized(errMissingUser)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(err)
		}

		err = fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

// getViewerFromContext is getUserFromContext for routes open to anonymous
// visitors, who come back as the zero User.
func getViewerFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	if ctx.GetString(middleware.CtxKeyUserID) == "" {
		return domain.User{}, nil
	}
	return getUserFromContext(ctx, uSvc)
}

func getOfficerFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if !user.IsOfficer {
		return domain.User{}, response.ErrPermissionDenied(errNotOfficer)
	}

	return user, nil
}
