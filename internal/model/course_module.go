package model

import "gorm.io/datatypes"

// CourseModule 课程模块表，对应 course_modules
// 被培训分配引用后 TotalHoursRequired 与 Level 不可再修改
type CourseModule struct {
	ModuleID           string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	ModuleName         string                      `gorm:"type:varchar(150);not null"                     json:"module_name"`
	MachineType        string                      `gorm:"type:varchar(50);not null"                      json:"machine_type"`
	Category           *string                     `gorm:"type:varchar(20)"                               json:"category,omitempty"` // CNC | Pumps | Welding | Conveyor
	Description        string                      `gorm:"type:text;not null;default:''"                  json:"description"`
	TotalHoursRequired float64                     `gorm:"type:numeric(8,2);not null"                     json:"total_hours_required"`
	Level              string                      `gorm:"type:varchar(20);not null;default:'Beginner'"   json:"level"` // Beginner | Intermediate | Advanced
	Prerequisites      datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"               json:"prerequisites"`
	Syllabus           datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"               json:"syllabus"`
	CertificationName  *string                     `gorm:"type:varchar(150)"                              json:"certification_name,omitempty"`
	Price              float64                     `gorm:"type:numeric(12,2);not null;default:0"          json:"price"`
	Currency           string                      `gorm:"type:varchar(10);not null;default:'INR'"        json:"currency"`
	IconName           *string                     `gorm:"type:varchar(50)"                               json:"icon_name,omitempty"`
	Color              string                      `gorm:"type:varchar(9);not null;default:'#3B82F6'"     json:"color"`
	Status             string                      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive
	SoftDeleteModel
}

// TableName 指定表名
func (CourseModule) TableName() string { return "course_modules" }

// CourseCenter 课程开设中心表，对应 course_centers（module_id, center_id 唯一）
type CourseCenter struct {
	CourseCenterID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_center_id"`
	ModuleID       string `gorm:"type:uuid;not null"                             json:"module_id"`
	CenterID       string `gorm:"type:uuid;not null"                             json:"center_id"`
	BaseModel

	// 关联
	Center *TrainingCenter `gorm:"foreignKey:CenterID;references:CenterID" json:"center,omitempty"`
}

// TableName 指定表名
func (CourseCenter) TableName() string { return "course_centers" }
