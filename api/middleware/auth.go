package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/autocenter-backend/api/responses"
	pkgAuth "github.com/angelmondragon/autocenter-backend/pkg/auth"
	"github.com/angelmondragon/autocenter-backend/pkg/auth/session"
	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// actor. Admin tokens also carry the RLS admin context so transactions
// opened by the request identify the acting admin.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			actorID, err := claims.ActorID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject"))
				return
			}
			ctx := WithActor(r.Context(), actorID, claims.Role)
			ctx = WithAccessID(ctx, claims.ID)
			if claims.IsAdmin() {
				ctx = db.WithAdminContext(ctx, db.AdminContext{AdminID: actorID.String(), Role: claims.Role.String()})
			}
			if logg != nil {
				ctx = logg.WithActor(ctx, actorID.String(), claims.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
