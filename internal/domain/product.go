package domain

type Category struct {
	Model
	Title      string  `gorm:"size:255" json:"title"`
	ImportHash *string `gorm:"size:191;uniqueIndex" json:"importHash"`
}

type Product struct {
	Model
	Title       string        `gorm:"size:255" json:"title"`
	Price       float64       `json:"price"`
	Discount    float64       `json:"discount"`
	Description string        `gorm:"type:text" json:"description"`
	Rating      int           `json:"rating"`
	Status      ProductStatus `gorm:"size:32" json:"status"`
	ImportHash  *string       `gorm:"size:191;uniqueIndex" json:"importHash"`

	Categories []Category `gorm:"many2many:products_categories;" json:"categories"`
	Related    []Product  `gorm:"many2many:products_related;joinForeignKey:ProductID;joinReferences:RelatedID" json:"more_products"`
	Images     []File     `gorm:"-" json:"image"`
}
