package ez

import (
	"context"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/domain"
)

// Service is the entity service behind a CRUD resource.
type Service[T any, In any] interface {
	List(ctx context.Context, q domain.ListQuery) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Save(ctx context.Context, in *In) (*T, error)
	Update(ctx context.Context, id string, in *In) (*T, error)
	Delete(ctx context.Context, id string) error
}

type Autocompleter[T any] interface {
	Autocomplete(ctx context.Context, prefix string, limit int) ([]T, error)
}

type CrudConfig[T any, In any] struct {
	Path    string
	Service Service[T, In]
	ID      func(*T) string
	// Label enables GET <path>/autocomplete when Service is an Autocompleter.
	Label func(*T) string
	// WriteRoles restricts create, update and delete. Reads only need a
	// signed-in user.
	WriteRoles []domain.Role
}

type ListQuery struct {
	Offset  *int   `form:"offset"`
	Limit   *int   `form:"limit"`
	OrderBy string `form:"orderBy"`
}

type AutocompleteQuery struct {
	Query string `form:"query"`
	Limit int    `form:"limit,default=10"`
}

type Page[T any] struct {
	Rows  []T `json:"rows"`
	Count int `json:"count"`
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type noContent struct{}

// Crud mounts list, autocomplete, get, create, update and delete for one
// resource. Every route requires a signed-in user.
func Crud[T any, In any](e EZ, cfg CrudConfig[T, In]) {
	svc := cfg.Service
	base := cfg.Path
	item := path.Join(base, ":id")

	RegisterAction(e, Action[ListQuery, Page[T]]{
		Method: http.MethodGet,
		Path:   base,
		Binder: BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *ListQuery) (Page[T], error) {
			rows, err := svc.List(c.Request.Context(), domain.ListQuery{Offset: in.Offset, Limit: in.Limit, OrderBy: in.OrderBy})
			if err != nil {
				return Page[T]{}, err
			}
			if rows == nil {
				rows = []T{}
			}
			return Page[T]{Rows: rows, Count: len(rows)}, nil
		},
	})

	if ac, ok := svc.(Autocompleter[T]); ok && cfg.Label != nil {
		RegisterAction(e, Action[AutocompleteQuery, []Option]{
			Method: http.MethodGet,
			Path:   path.Join(base, "autocomplete"),
			Binder: BindQuery,
			Auth:   true,
			Handler: func(c *gin.Context, in *AutocompleteQuery) ([]Option, error) {
				rows, err := ac.Autocomplete(c.Request.Context(), in.Query, in.Limit)
				if err != nil {
					return nil, err
				}
				out := make([]Option, len(rows))
				for i := range rows {
					out[i] = Option{ID: cfg.ID(&rows[i]), Label: cfg.Label(&rows[i])}
				}
				return out, nil
			},
		})
	}

	RegisterAction(e, Action[struct{}, *T]{
		Method: http.MethodGet,
		Path:   item,
		Binder: BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			return svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	RegisterAction(e, Action[In, *T]{
		Method: http.MethodPost,
		Path:   base,
		Binder: BindData,
		Auth:   true,
		Roles:  cfg.WriteRoles,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *In) (*T, error) {
			v, err := svc.Save(c.Request.Context(), in)
			if err != nil {
				return nil, err
			}
			c.Header("Location", path.Join(c.Request.URL.Path, cfg.ID(v)))
			return v, nil
		},
	})

	RegisterAction(e, Action[In, *T]{
		Method: http.MethodPut,
		Path:   item,
		Binder: BindData,
		Auth:   true,
		Roles:  cfg.WriteRoles,
		Handler: func(c *gin.Context, in *In) (*T, error) {
			return svc.Update(c.Request.Context(), c.Param("id"), in)
		},
	})

	RegisterAction(e, Action[struct{}, noContent]{
		Method: http.MethodDelete,
		Path:   item,
		Binder: BindNone,
		Auth:   true,
		Roles:  cfg.WriteRoles,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (noContent, error) {
			return noContent{}, svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
