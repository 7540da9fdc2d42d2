package models

// ImageMeta describes an image hosted on Cloudinary (or any absolute URL).
type ImageMeta struct {
	Src      string `bson:"src" json:"src" binding:"required,url"`
	Alt      string `bson:"alt,omitempty" json:"alt,omitempty"`
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
	Width    int    `bson:"width,omitempty" json:"width,omitempty"`
	Height   int    `bson:"height,omitempty" json:"height,omitempty"`
}
