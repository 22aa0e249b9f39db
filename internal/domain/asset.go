package domain

import "time"

// Asset is an uploaded media file. The binary lives in the object store
// under media/{StorageID}.{Extension}; assets are immutable after upload and
// only ever soft-deleted.
type Asset struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	StorageID    string    `gorm:"type:varchar(64);uniqueIndex:idx_storage_id;not null" json:"id"`
	OwnerID      uint      `gorm:"index:idx_asset_owner;default:0" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Extension    string    `gorm:"type:varchar(16)" json:"extension"`
	OriginalName string    `gorm:"type:varchar(255)" json:"originalName"`
	Deleted      bool      `gorm:"default:false;index:idx_asset_deleted" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_asset_created" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

// StorageKey is the object-store key for the asset binary.
func (a *Asset) StorageKey() string {
	return "media/" + a.StorageID + "." + a.Extension
}

// IsRawSVG reports whether the asset should be inlined as an SVG string
// rather than referenced by URL.
func (a *Asset) IsRawSVG() bool {
	return a.Extension == "svg"
}
