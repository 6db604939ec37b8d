package folder

import "time"

// SkillFolder groups a user's learning material: uploaded files and
// freeform notes. Folder names are unique per user.
type SkillFolder struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	UserID      int64     `gorm:"column:user_id;index;uniqueIndex:idx_folders_user_name" json:"user_id"`
	Name        string    `gorm:"column:name;uniqueIndex:idx_folders_user_name" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Color       string    `gorm:"column:color" json:"color,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SkillFolder) TableName() string { return "skill_folders" }

// WithCounts decorates a folder with its file and note counts for
// dashboard listings.
type WithCounts struct {
	SkillFolder
	FileCount int64 `gorm:"column:file_count" json:"file_count"`
	NoteCount int64 `gorm:"column:note_count" json:"note_count"`
}
