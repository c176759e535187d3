package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/service"
	"go-gin-ecommerce/internal/transport/http/ez"
	resp "go-gin-ecommerce/internal/transport/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the back-office endpoints. Its routes are mounted on
// a group that already requires the admin role.
type AdminHandler struct {
	users    *service.UserService
	products *service.ProductService
	files    *service.FileStore
}

func NewAdminHandler(u *service.UserService, p *service.ProductService, fs *service.FileStore) *AdminHandler {
	return &AdminHandler{users: u, products: p, files: fs}
}

type userListQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`
	WithDeleted bool   `form:"with_deleted"`
}

type userRow struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Role          domain.Role `json:"role"`
	Disabled      bool        `json:"disabled"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	DeletedAt     *time.Time  `json:"deletedAt"`
}

type userListOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

type disableIn struct {
	Disabled *bool `json:"disabled"`
}

func (h *AdminHandler) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[userListQ, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *userListQ) (resp.Resp, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			if in.Offset < 0 {
				in.Offset = 0
			}
			users, total, err := h.users.AdminList(c.Request.Context(), in.Offset, in.Limit, in.Q, in.WithDeleted)
			if err != nil {
				return resp.Resp{}, err
			}
			out := userListOut{Total: total, Items: make([]userRow, 0, len(users))}
			for _, u := range users {
				row := userRow{
					ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName,
					Role: u.Role, Disabled: u.Disabled, EmailVerified: u.EmailVerified, CreatedAt: u.CreatedAt,
				}
				if u.DeletedAt.Valid {
					t := u.DeletedAt.Time
					row.DeletedAt = &t
				}
				out.Items = append(out.Items, row)
			}
			return resp.OK(out), nil
		},
	})

	// body {"disabled": false} re-enables; an empty body disables
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/users/:id/disable",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			var in disableIn
			if c.Request.ContentLength > 0 {
				if err := c.ShouldBindJSON(&in); err != nil {
					return resp.Resp{}, apperr.Validation("%s", err.Error())
				}
			}
			disabled := in.Disabled == nil || *in.Disabled
			u, err := h.users.SetDisabled(c.Request.Context(), c.Param("id"), disabled)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"id": u.ID, "disabled": u.Disabled}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/maintenance/sweep-files",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			return resp.OK(h.files.RemoveLegacyFiles(c.Request.Context())), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/maintenance/purge-unverified",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			n, err := h.users.PurgeUnverified(c.Request.Context())
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"purged": n}), nil
		},
	})

	e.Router().GET("/products/export", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := h.products.ExportProducts(c.Request.Context(), &buf); err != nil {
			ez.Fail(c, e.Log(), err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/products/import",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			fh, err := c.FormFile("file")
			if err != nil {
				return resp.Resp{}, apperr.Validation("multipart part \"file\" is required")
			}
			f, err := fh.Open()
			if err != nil {
				return resp.Resp{}, apperr.Wrap(apperr.KindFileOperation, err, "could not read upload")
			}
			defer f.Close()
			rep, err := h.products.ImportProducts(c.Request.Context(), f, fh.Size)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(rep), nil
		},
	})
}
