// Package ez registers gin handlers from typed actions: bind the input,
// check the principal, call the handler and write the result or the error
// envelope.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/domain"
	resp "go-gin-ecommerce/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// Group returns an EZ on a sub-group of e.
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

func (e EZ) Router() *gin.RouterGroup { return e.g }

func (e EZ) Log() *zap.Logger { return e.log }

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindData  Binder = "data"  // request body wrapped as {"data": {...}}
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param / c.PostForm itself
)

type envelope[I any] struct {
	Data *I `json:"data" binding:"required"`
}

// Action describes one endpoint. I is the bound input, O the response.
// A string O is written as text/plain.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool          // requires an enabled principal
	Roles   []domain.Role // any of, implies Auth
	Status  int           // defaults to 200
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		if a.Auth || len(a.Roles) > 0 {
			if err := Authorize(c, a.Roles...); err != nil {
				Fail(c, e.log, err)
				return
			}
		}

		in, err := bind[I](c, a.Binder)
		if err != nil {
			Fail(c, e.log, err)
			return
		}

		out, err := a.Handler(c, in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		if c.IsAborted() || c.Writer.Written() {
			return
		}
		switch v := any(out).(type) {
		case string:
			c.String(status, v)
		default:
			if status == http.StatusNoContent {
				c.Status(status)
				return
			}
			c.JSON(status, out)
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind[I any](c *gin.Context, b Binder) (*I, error) {
	var in I
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(&in)
	case BindQuery:
		err = c.ShouldBindQuery(&in)
	case BindData:
		var env envelope[I]
		if err = c.ShouldBindJSON(&env); err == nil {
			in = *env.Data
		}
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "%s", err.Error())
	}
	return &in, nil
}

// Authorize checks the principal the authentication gate attached.
func Authorize(c *gin.Context, roles ...domain.Role) error {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		return apperr.New(apperr.KindUnauthorized, "%s", resp.CodeMsgMap[resp.CodeUnauthorized])
	}
	if p.Disabled {
		return apperr.Forbidden("account is disabled")
	}
	if !p.HasRole(roles...) {
		return apperr.Forbidden("%s", resp.CodeMsgMap[resp.CodeForbidden])
	}
	return nil
}

// Status maps an error kind onto the HTTP status of the error envelope.
func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindBadCredentials, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

// Fail aborts with the error envelope. Errors without a kind are logged
// with a stack trace and their text is not sent to the client.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	code := Status(err)
	msg := apperr.Message(err)
	if apperr.KindOf(err) == apperr.KindInternal {
		l.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
			zap.Stack("stack"),
		)
		msg = resp.CodeMsgMap[code]
	}
	resp.Abort(c, code, msg)
}
