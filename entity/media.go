package entity

// Upload constraints enforced before handing files to the marketplace.
const (
	MaxImageSize = 5 << 20 // 5MB
)

// AllowedImageTypes lists the accepted upload extensions.
var AllowedImageTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"bmp":  true,
	"webp": true,
}

// Media is an uploaded promotional asset.
type Media struct {
	Url  string `json:"url" bson:"url"`
	Type string `json:"type" bson:"type"`
	Size int64  `json:"size" bson:"size"`
}
