package domain

import (
	"sort"
	"strings"
	"time"
)

// Template is the metadata record for a user-authored landing page. The
// serialized page content lives in the object store under the same
// TemplateID; this record is the ownership/authorization source of truth,
// the blob is the content source of truth.
//
// UpdatedAt is managed by the session coordinator (refreshed at most once
// per minute), so GORM's automatic touch is disabled.
type Template struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	TemplateID  string    `gorm:"type:varchar(191);uniqueIndex:idx_template_id;not null" json:"templateId"`
	OwnerID     uint      `gorm:"index:idx_owner;default:0" json:"userId"`
	FrameworkID string    `gorm:"type:varchar(64)" json:"frameworkId"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	Tags        string    `gorm:"type:varchar(512)" json:"tags"`
	PageCount   int       `gorm:"default:0" json:"pageCount"`
	Public      bool      `gorm:"default:false" json:"publicTemplate"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_created" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// NormalizeTags joins a tag list into the stored representation. Order is
// not significant, so tags are sorted to make set comparison a string
// comparison.
func NormalizeTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, ",")
}

// TagList splits the stored tag string back into a list.
func (t *Template) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	return strings.Split(t.Tags, ",")
}
