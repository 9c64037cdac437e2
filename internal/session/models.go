package session

import (
	"time"

	"pastforward/internal/era"
)

// Status describes the lifecycle of one era image generation.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// FeatureStatus describes the lifecycle of a per-item feature such as
// animation or narration. Idle means the feature was never requested.
type FeatureStatus string

const (
	FeatureIdle    FeatureStatus = "idle"
	FeaturePending FeatureStatus = "pending"
	FeatureDone    FeatureStatus = "done"
	FeatureError   FeatureStatus = "error"
)

// ItemRecord captures everything known about one era's generation output.
type ItemRecord struct {
	Status       Status        `json:"status"`
	ImageRef     string        `json:"image_ref,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	VideoStatus  FeatureStatus `json:"video_status,omitempty"`
	VideoRef     string        `json:"video_ref,omitempty"`
	AudioStatus  FeatureStatus `json:"audio_status,omitempty"`
}

// Session is one persisted batch run: the source image, the eras requested,
// and the latest known record for each era.
type Session struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id"`
	CreatedAt    time.Time              `json:"created_at"`
	SourceImage  string                 `json:"source_image"`
	SelectedEras []era.Key              `json:"selected_eras"`
	Items        map[era.Key]ItemRecord `json:"items"`
}

// UserProfile holds display settings persisted alongside sessions.
type UserProfile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBatchItems seeds a pending record for every requested era.
func NewBatchItems(keys []era.Key) map[era.Key]ItemRecord {
	items := make(map[era.Key]ItemRecord, len(keys))
	for _, key := range keys {
		items[key] = ItemRecord{Status: StatusPending}
	}
	return items
}

// CloneItems returns an independent copy of an item map.
func CloneItems(items map[era.Key]ItemRecord) map[era.Key]ItemRecord {
	if items == nil {
		return nil
	}
	cp := make(map[era.Key]ItemRecord, len(items))
	for key, rec := range items {
		cp[key] = rec
	}
	return cp
}
