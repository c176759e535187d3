package repo

import (
	"strings"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSortColumn = "created_at"

// sortable maps the field names clients may pass in orderBy to columns.
type sortable map[string]string

var (
	userSortable = sortable{
		"createdAt": "created_at", "updatedAt": "updated_at", "email": "email",
		"firstName": "first_name", "lastName": "last_name", "phoneNumber": "phone_number",
		"role": "role", "disabled": "disabled", "emailVerified": "email_verified",
	}
	productSortable = sortable{
		"createdAt": "created_at", "updatedAt": "updated_at", "title": "title",
		"price": "price", "discount": "discount", "rating": "rating", "status": "status",
	}
	categorySortable = sortable{
		"createdAt": "created_at", "updatedAt": "updated_at", "title": "title",
	}
	orderSortable = sortable{
		"createdAt": "created_at", "updatedAt": "updated_at", "order_date": "order_date",
		"amount": "amount", "status": "status",
	}
)

// parseOrderBy splits "<field>_<dir>" at the last underscore. Only the
// exact direction "ASC" sorts ascending; unknown fields sort by created_at.
func (s sortable) parseOrderBy(orderBy string) (column string, desc bool) {
	if orderBy == "" {
		return defaultSortColumn, true
	}
	field, dir := orderBy, ""
	if i := strings.LastIndex(orderBy, "_"); i >= 0 {
		field, dir = orderBy[:i], orderBy[i+1:]
	}
	column, ok := s[field]
	if !ok {
		column = defaultSortColumn
	}
	return column, dir != "ASC"
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

// applyList adds ordering and paging to db. Without both Offset and Limit
// every row is returned newest first and OrderBy is ignored.
func applyList(db *gorm.DB, q domain.ListQuery, s sortable) (*gorm.DB, error) {
	if q.Offset == nil || q.Limit == nil {
		return db.Order(orderBy(defaultSortColumn, true)).Order(orderBy("id", false)), nil
	}
	offset, limit := *q.Offset, *q.Limit
	if offset < 0 || limit <= 0 {
		return nil, apperr.Invalid(apperr.MsgInvalidPage)
	}
	col, desc := s.parseOrderBy(q.OrderBy)
	return db.Order(orderBy(col, desc)).
		Order(orderBy("id", false)).
		Offset(offset * limit).
		Limit(limit), nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// applyAutocomplete restricts db to rows whose column starts with prefix,
// ascending by that column.
func applyAutocomplete(db *gorm.DB, column, prefix string, limit int) (*gorm.DB, error) {
	if limit <= 0 {
		return nil, apperr.Invalid(apperr.MsgInvalidPage)
	}
	if prefix != "" {
		db = db.Where(column+" LIKE ? ESCAPE '!'", likeEscaper.Replace(prefix)+"%")
	}
	return db.Order(orderBy(column, false)).Limit(limit), nil
}
