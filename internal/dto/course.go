package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程模块请求
type CreateCourseRequest struct {
	ModuleName         string   `json:"module_name"          binding:"required,min=2,max=150"`
	MachineType        string   `json:"machine_type"         binding:"required,max=50"`
	Category           *string  `json:"category"             binding:"omitempty,oneof=CNC Pumps Welding Conveyor"`
	Description        string   `json:"description"          binding:"omitempty,max=4000"`
	TotalHoursRequired float64  `json:"total_hours_required" binding:"required,gt=0,lte=10000"`
	Level              string   `json:"level"                binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Prerequisites      []string `json:"prerequisites"        binding:"omitempty,dive,min=1"`
	Syllabus           []string `json:"syllabus"             binding:"omitempty,dive,min=1"`
	CertificationName  *string  `json:"certification_name"   binding:"omitempty,max=150"`
	Price              float64  `json:"price"                binding:"omitempty,gte=0"`
	Currency           string   `json:"currency"             binding:"omitempty,len=3"`
	IconName           *string  `json:"icon_name"            binding:"omitempty,max=50"`
	Color              string   `json:"color"                binding:"omitempty,hexcolor"`
	CenterIDs          []string `json:"center_ids"           binding:"omitempty,dive,uuid"`
}

// UpdateCourseRequest 更新课程模块请求
// 课程被分配引用后 total_hours_required 与 level 不可修改
type UpdateCourseRequest struct {
	ModuleName         *string   `json:"module_name"          binding:"omitempty,min=2,max=150"`
	MachineType        *string   `json:"machine_type"         binding:"omitempty,max=50"`
	Category           *string   `json:"category"             binding:"omitempty,oneof=CNC Pumps Welding Conveyor"`
	Description        *string   `json:"description"          binding:"omitempty,max=4000"`
	TotalHoursRequired *float64  `json:"total_hours_required" binding:"omitempty,gt=0,lte=10000"`
	Level              *string   `json:"level"                binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Prerequisites      *[]string `json:"prerequisites"`
	Syllabus           *[]string `json:"syllabus"`
	CertificationName  *string   `json:"certification_name"   binding:"omitempty,max=150"`
	Price              *float64  `json:"price"                binding:"omitempty,gte=0"`
	Currency           *string   `json:"currency"             binding:"omitempty,len=3"`
	IconName           *string   `json:"icon_name"            binding:"omitempty,max=50"`
	Color              *string   `json:"color"                binding:"omitempty,hexcolor"`
	Status             *string   `json:"status"               binding:"omitempty,oneof=active inactive"`
}

// CourseListRequest 课程模块列表查询参数
type CourseListRequest struct {
	PaginationRequest
	Category    string `form:"category"     binding:"omitempty,oneof=CNC Pumps Welding Conveyor"`
	Level       string `form:"level"        binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	MachineType string `form:"machine_type" binding:"omitempty,max=50"`
	Status      string `form:"status"       binding:"omitempty,oneof=active inactive"`
}

// CourseCenterRequest 课程开设中心
type CourseCenterRequest struct {
	CenterID string `json:"center_id" binding:"required,uuid"`
}
