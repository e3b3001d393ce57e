package models

import "time"

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

type MediaFolder struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ParentID  *string   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MediaAsset struct {
	ID           string    `db:"id" json:"id"`
	FolderID     *string   `db:"folder_id" json:"folder_id,omitempty"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"original_name"`
	URL          string    `db:"url" json:"url"` // public URL in the storage provider
	Type         MediaType `db:"media_type" json:"type"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Size         int64     `db:"size" json:"size"`
	Width        *int      `db:"width" json:"width,omitempty"`
	Height       *int      `db:"height" json:"height,omitempty"`
	AltText      string    `db:"alt_text" json:"alt_text"`
	UploadedBy   string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
