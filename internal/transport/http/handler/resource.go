package handler

import (
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/service"
	"go-gin-ecommerce/internal/transport/http/ez"
)

// ResourceHandler mounts the CRUD endpoints of the four entities.
type ResourceHandler struct {
	users      *service.UserService
	products   *service.ProductService
	categories *service.CategoryService
	orders     *service.OrderService
}

func NewResourceHandler(u *service.UserService, p *service.ProductService, c *service.CategoryService, o *service.OrderService) *ResourceHandler {
	return &ResourceHandler{users: u, products: p, categories: c, orders: o}
}

func (h *ResourceHandler) MountAPI(e ez.EZ) {
	ez.Crud(e, ez.CrudConfig[domain.User, service.UserInput]{
		Path:       "/users",
		Service:    h.users,
		ID:         func(u *domain.User) string { return u.ID },
		Label:      func(u *domain.User) string { return u.Email },
		WriteRoles: []domain.Role{domain.RoleAdmin},
	})
	ez.Crud(e, ez.CrudConfig[domain.Product, service.ProductInput]{
		Path:    "/products",
		Service: h.products,
		ID:      func(p *domain.Product) string { return p.ID },
		Label:   func(p *domain.Product) string { return p.Title },
	})
	ez.Crud(e, ez.CrudConfig[domain.Category, service.CategoryInput]{
		Path:    "/categories",
		Service: h.categories,
		ID:      func(c *domain.Category) string { return c.ID },
		Label:   func(c *domain.Category) string { return c.Title },
	})
	ez.Crud(e, ez.CrudConfig[domain.Order, service.OrderInput]{
		Path:    "/orders",
		Service: h.orders,
		ID:      func(o *domain.Order) string { return o.ID },
	})
}

// Priority mounts the entity routes after auth and files.
func (h *ResourceHandler) Priority() int { return 200 }
