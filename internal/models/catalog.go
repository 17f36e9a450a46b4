package models

import "time"

// University groups courses.
type University struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	ShortName   string    `gorm:"size:50;not null" json:"short_name"`
	Description string    `gorm:"type:text" json:"description"`
	LogoURL     *string   `json:"logo_url"`
	MemberCount int       `gorm:"not null;default:0" json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Course belongs to a university; posts are asked within a course.
type Course struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UniversityID uint        `gorm:"not null;uniqueIndex:idx_course_university_code" json:"university_id"`
	University   *University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Code         string      `gorm:"size:50;not null;uniqueIndex:idx_course_university_code" json:"code"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	MemberCount  int         `gorm:"not null;default:0" json:"member_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
