package note

import "time"

// Note is a freeform text note inside a skill folder. Titles are
// unique per folder.
type Note struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	SkillFolderID string    `gorm:"column:skill_folder_id;index;uniqueIndex:idx_notes_folder_title" json:"skill_folder_id"`
	Title         string    `gorm:"column:title;uniqueIndex:idx_notes_folder_title" json:"title"`
	Content       string    `gorm:"column:content" json:"content"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Note) TableName() string { return "notes" }
