package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

// ListUsers returns one page of identity-service users for the admin console.
func ListUsers(directory identity.Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if directory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user directory unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", identity.MaxListUsers, 1, identity.MaxListUsers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageToken := strings.TrimSpace(r.URL.Query().Get("pageToken"))

		page, err := directory.ListUsers(r.Context(), limit, pageToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list users"))
			return
		}
		if page.Users == nil {
			page.Users = []identity.User{}
		}
		responses.WriteSuccess(w, page)
	}
}
