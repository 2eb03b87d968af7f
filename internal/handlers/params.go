package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
)

// pathID parses a uuid path parameter, failing the request with a
// validation error on malformed input.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, apierr.Validation("%s must be a valid id", name))
		return uuid.Nil, false
	}
	return id, true
}

// principal pulls the authenticated principal the auth middleware stored on
// the request context.
func principal(c *gin.Context) (*requestdata.Principal, bool) {
	p := requestdata.GetPrincipal(c.Request.Context())
	if p == nil {
		RespondError(c, apierr.Unauthorized("missing principal"))
		return nil, false
	}
	return p, true
}
