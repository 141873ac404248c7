// Package authorization carries the gin middlewares guarding private routes:
// token authentication, organization resolution and permission checks.
package authorization

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"WorkForce360/config/jwt"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	OrganizationHeader = "X-Organization-Code"
	RequestIDHeader    = "X-Request-ID"
)

type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

type PermissionChecker interface {
	Can(ctx context.Context, t repository.Tenant, level role.Level, module, action string) (bool, error)
}

type Gate struct {
	tokens TokenParser
	access PermissionChecker
	log    *logrus.Logger
}

func NewGate(tokens TokenParser, access PermissionChecker, log *logrus.Logger) *Gate {
	return &Gate{tokens: tokens, access: access, log: log}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(util.StatusFor(err), util.FailedResponse(err))
}

/*
* Parses the bearer token and stores the claims under util.ClaimsKey.
 */
func (g *Gate) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, util.Unauthorized("missing or malformed authorization header"))
			return
		}
		claims, err := g.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, util.Unauthorized("invalid or expired token"))
			return
		}
		c.Set(util.ClaimsKey, claims)
		c.Next()
	}
}

/*
* Resolves the organization of the request from the header, the JSON body
* or the query string, in that order. A request naming none is rejected.
* Only a super admin may act on another organization.
 */
func (g *Gate) Organization() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, util.Unauthorized("missing or malformed authorization header"))
			return
		}
		code, err := util.ExtractOrganizationCode(
			c.GetHeader(OrganizationHeader),
			bodyOrganizationCode(c),
			c.Query("organizationCode"),
		)
		if err != nil {
			abort(c, err)
			return
		}
		if claims.Role != role.SuperAdmin && code != strings.ToUpper(claims.OrganizationCode) {
			abort(c, util.Forbidden(util.ORGANIZATION_MISMATCH))
			return
		}
		c.Set(util.OrganizationCodeKey, code)
		c.Next()
	}
}

// bodyOrganizationCode peeks at the request body and puts it back for the handler.
func bodyOrganizationCode(c *gin.Context) string {
	contentType := c.ContentType()
	switch {
	case contentType == gin.MIMEMultipartPOSTForm || contentType == gin.MIMEPOSTForm:
		return c.PostForm("organizationCode")
	case contentType != gin.MIMEJSON || c.Request.Body == nil:
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		OrganizationCode string `json:"organizationCode"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	return payload.OrganizationCode
}

/*
* Super admins pass every check. Everyone else needs module:action among the
* permissions of their role level inside the resolved organization.
 */
func (g *Gate) Authorize(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, util.Unauthorized("missing or malformed authorization header"))
			return
		}
		if claims.Role == role.SuperAdmin {
			c.Next()
			return
		}
		allowed, err := g.access.Can(c.Request.Context(), TenantFrom(c), claims.Role, module, action)
		if err != nil {
			if _, classified := util.AsAppError(err); !classified {
				g.log.WithError(err).WithFields(logrus.Fields{
					"module": module,
					"action": action,
				}).Error("permission lookup failed")
			}
			abort(c, err)
			return
		}
		if !allowed {
			abort(c, util.Forbidden(util.INSUFFICIENT_AUTHORITY))
			return
		}
		c.Next()
	}
}

// RequireLevel lets through callers at max or above it.
func (g *Gate) RequireLevel(max role.Level) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, util.Unauthorized("missing or malformed authorization header"))
			return
		}
		if !claims.Role.AtLeast(max) {
			abort(c, util.Forbidden(util.INSUFFICIENT_AUTHORITY))
			return
		}
		c.Next()
	}
}

// RequestID tags every request with an id, reusing the caller's one when sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(util.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func AccessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(util.RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if code := c.GetString(util.OrganizationCodeKey); code != "" {
			entry = entry.WithField("organization", code)
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}

func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	value, ok := c.Get(util.ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*jwt.Claims)
	return claims, ok && claims != nil
}

func TenantFrom(c *gin.Context) repository.Tenant {
	return repository.Tenant(c.GetString(util.OrganizationCodeKey))
}

// ActorFrom converts the token claims into the caller of a service operation.
func ActorFrom(c *gin.Context) services.Actor {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{
		UserID:           claims.UserID,
		Email:            claims.Email,
		Level:            claims.Role,
		OrganizationCode: claims.OrganizationCode,
	}
}
