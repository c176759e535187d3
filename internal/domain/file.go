package domain

import "path"

type FileOwner string

const (
	OwnerProducts FileOwner = "products"
	OwnerUsers    FileOwner = "users"
)

type FileColumn string

const (
	ColumnImage  FileColumn = "image"
	ColumnAvatar FileColumn = "avatar"
)

// Attachment names a file slot on an owning entity. Only the values below
// exist; they also define the upload directories.
type Attachment struct {
	Owner  FileOwner
	Column FileColumn
}

var (
	ProductImage = Attachment{Owner: OwnerProducts, Column: ColumnImage}
	UserAvatar   = Attachment{Owner: OwnerUsers, Column: ColumnAvatar}
)

var Attachments = []Attachment{ProductImage, UserAvatar}

// ParseAttachment maps an upload path prefix like "products/image".
func ParseAttachment(dir string) (Attachment, bool) {
	for _, a := range Attachments {
		if a.Dir() == dir {
			return a, true
		}
	}
	return Attachment{}, false
}

func (a Attachment) Dir() string { return path.Join(string(a.Owner), string(a.Column)) }

// File is the metadata row of an uploaded file. PrivateURL is the path
// relative to the upload root, e.g. products/image/<name>.
type File struct {
	Model
	BelongsTo       FileOwner  `gorm:"size:32;index:idx_files_owner" json:"belongsTo"`
	BelongsToID     string     `gorm:"size:36;index:idx_files_owner" json:"belongsToId"`
	BelongsToColumn FileColumn `gorm:"size:32;index:idx_files_owner" json:"belongsToColumn"`
	Name            string     `gorm:"size:255" json:"name"`
	SizeInBytes     int64      `json:"sizeInBytes"`
	PrivateURL      string     `gorm:"size:512;index" json:"privateUrl"`
	PublicURL       string     `gorm:"size:1024" json:"publicUrl"`
}

func (f File) Attachment() Attachment {
	return Attachment{Owner: f.BelongsTo, Column: f.BelongsToColumn}
}
