package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"WorkForce360/config/authorization"
	"WorkForce360/role"
	"WorkForce360/services"
	"WorkForce360/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Controller owns the handlers of every route group.
type Controller struct {
	svc  *services.Registry
	gate *authorization.Gate
}

func New(svc *services.Registry, gate *authorization.Gate) *Controller {
	return &Controller{svc: svc, gate: gate}
}

/*
* Bind the json body into target
* A binding failure answers 400 with the first failing field
 */
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, util.FailedResponse(util.Validation(bindingMessage(err))))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "email":
			return field + " must be a valid email"
		case "orgcode":
			return util.ORGANIZATION_CODE_INVALID
		case "min", "gte":
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max", "lte":
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
	return "invalid request body"
}

func fail(c *gin.Context, err error) {
	c.JSON(util.StatusFor(err), util.FailedResponse(err))
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, util.SuccessResponse(data))
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, util.SuccessResponse(data))
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := services.ParseID(c.Param(name))
	if err != nil {
		fail(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, util.Validationf("%s must be a number", name)
	}
	return v, nil
}

func optionalID(raw string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := services.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

/*
* Resolve whose records a request is about
* Callers act on themselves unless they are HR or above
 */
func targetEmployee(c *gin.Context, raw string) (primitive.ObjectID, error) {
	actor := authorization.ActorFrom(c)
	self, err := services.ParseID(actor.UserID)
	if strings.TrimSpace(raw) == "" || raw == actor.UserID {
		return self, err
	}
	id, err := services.ParseID(raw)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !actor.Level.AtLeast(role.HR) {
		return primitive.NilObjectID, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
	}
	return id, nil
}
