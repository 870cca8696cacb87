package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aisclub/clubevents/internal/pkg/jwthelper"
)

// CtxKeyUserID holds the authenticated user id in the gin context.
const CtxKeyUserID = "userID"

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token in the
// Authorization header.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		a.verify(ctx, bearerToken(ctx.GetHeader("Authorization")))
	}
}

// VerifyJWTOrQuery also accepts the token query param, for websocket
// upgrades that cannot set headers. Mount it on those routes only.
func (a *Authenticator) VerifyJWTOrQuery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx.GetHeader("Authorization"))
		if token == "" {
			token = ctx.Query("token")
		}
		a.verify(ctx, token)
	}
}

// OptionalJWT lets anonymous requests through without a user id. A token
// that is present must still be valid.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		a.verify(ctx, bearerToken(ctx.GetHeader("Authorization")))
	}
}

func (a *Authenticator) verify(ctx *gin.Context, token string) {
	if token == "" {
		abortUnauthorized(ctx, errMissingToken)
		return
	}

	claims, err := jwthelper.ParseToken(a.key, token, ctx.Request.UserAgent())
	if err != nil {
		abortUnauthorized(ctx, err)
		return
	}

	ctx.Set(CtxKeyUserID, claims.UserID)
	ctx.Next()
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  http.StatusText(http.StatusUnauthorized),
		"message": err.Error(),
	})
}
