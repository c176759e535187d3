package domain

import "context"

// ListQuery is the paging and ordering input shared by every list endpoint.
// Paging applies only when both Offset and Limit are set; Offset is a page
// index, so the first row returned is Offset*Limit. OrderBy is
// "<field>_<ASC|DESC>" and only takes effect together with paging.
type ListQuery struct {
	Offset  *int
	Limit   *int
	OrderBy string
}

// Page returns a ListQuery with paging set.
func Page(offset, limit int, orderBy string) ListQuery {
	return ListQuery{Offset: &offset, Limit: &limit, OrderBy: orderBy}
}

// Store hands out repositories bound to one connection or transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Orders() OrderRepository
	Files() FileRepository
	// Transaction runs fn with a Store bound to a new transaction and
	// commits when fn returns nil.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// Finders return (nil, nil) when no row matches.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	// FindByID includes soft-deleted rows.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailVerificationToken(ctx context.Context, token string) (*User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context, q ListQuery) ([]User, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]User, error)
	AdminList(ctx context.Context, offset, limit int, q string, withDeleted bool) ([]User, int64, error)
	ReplaceWishlist(ctx context.Context, u *User, products []Product) error
	FindUnverifiedWithToken(ctx context.Context) ([]User, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDs returns the non-deleted products among ids.
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context, q ListQuery) ([]Product, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]Product, error)
	ReplaceCategories(ctx context.Context, p *Product, categories []Category) error
	ReplaceRelated(ctx context.Context, p *Product, related []Product) error
	SoftDelete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Save(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]Category, error)
	List(ctx context.Context, q ListQuery) ([]Category, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]Category, error)
	SoftDelete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, q ListQuery) ([]Order, error)
	ClearProduct(ctx context.Context, productID string) error
	ClearUser(ctx context.Context, userID string) error
	SoftDelete(ctx context.Context, id string) error
}

type FileRepository interface {
	Create(ctx context.Context, f *File) error
	FindByOwner(ctx context.Context, a Attachment, ownerID string) ([]File, error)
	// FindByOwners groups the files of many owners by owner id.
	FindByOwners(ctx context.Context, a Attachment, ownerIDs []string) (map[string][]File, error)
	ExistsByPrivateURL(ctx context.Context, privateURL string) (bool, error)
	// AllByOwner includes soft-deleted rows.
	AllByOwner(ctx context.Context, owner FileOwner) ([]File, error)
	SoftDelete(ctx context.Context, ids []string) error
	HardDelete(ctx context.Context, id string) error
}
