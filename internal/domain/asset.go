package domain

import (
	"database/sql/driver"
)

// Asset references an image held in the object store. PublicID is the object key.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	AltText  string `json:"alt_text,omitempty"`
}

func (a *Asset) Scan(src interface{}) error {
	return scanJSON(src, a)
}

func (a Asset) Value() (driver.Value, error) {
	return jsonValue(a)
}

type Assets []Asset

func (a *Assets) Scan(src interface{}) error {
	if err := scanJSON(src, a); err != nil {
		return err
	}
	if *a == nil {
		*a = Assets{}
	}
	return nil
}

func (a Assets) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return jsonValue(a)
}

func (a Assets) IndexOf(publicID string) int {
	for i, asset := range a {
		if asset.PublicID == publicID {
			return i
		}
	}
	return -1
}

type AssetFolder string

const (
	FolderBusinessProfiles AssetFolder = "business_profiles"
	FolderProductImages    AssetFolder = "product_images"
)

const (
	MaxBusinessImagesPerUpload = 5
	MaxProductGalleryPerUpload = 10
)
