package file

import "time"

// StoredFile binds an on-disk object to its skill folder. The row is
// created only after the bytes are durably written; there is no pending
// persisted state. (skill_folder_id, original_name) is unique.
type StoredFile struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	SkillFolderID string    `gorm:"column:skill_folder_id;index;uniqueIndex:idx_files_folder_name" json:"skillFolderId"`
	Filename      string    `gorm:"column:filename" json:"filename"` // sanitized name on disk
	OriginalName  string    `gorm:"column:original_name;uniqueIndex:idx_files_folder_name" json:"originalName"`
	MimeType      string    `gorm:"column:mime_type" json:"mimeType"`
	Size          int64     `gorm:"column:size" json:"size"`
	ContentHash   string    `gorm:"column:content_hash" json:"contentHash"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploadedAt"`
}

func (StoredFile) TableName() string { return "files" }
