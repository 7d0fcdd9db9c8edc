package dto

// ── 报名模块 DTO ──

// CreateRegistrationRequest 创建报名请求
type CreateRegistrationRequest struct {
	ParentName  string   `json:"parent_name"  binding:"required,max=100"`
	ParentPhone string   `json:"parent_phone" binding:"required,max=50"`
	ParentEmail string   `json:"parent_email" binding:"required,email,max=255"`
	StudentName string   `json:"student_name" binding:"required,max=100"`
	StudentAge  int      `json:"student_age"  binding:"required,min=1,max=120"`
	SchoolYear  string   `json:"school_year"  binding:"required,max=50"`
	Track       string   `json:"track"        binding:"required,max=50"`
	MoreKids    bool     `json:"more_kids"`
	Slots       []string `json:"slots"        binding:"required,min=1"`
}

// UpdateRegistrationRequest 编辑报名请求（部分字段更新）
// 任何编辑都会把状态重置为 pending，由管理员重新审批
type UpdateRegistrationRequest struct {
	ParentName  *string  `json:"parent_name"  binding:"omitempty,max=100"`
	ParentPhone *string  `json:"parent_phone" binding:"omitempty,max=50"`
	ParentEmail *string  `json:"parent_email" binding:"omitempty,email,max=255"`
	StudentName *string  `json:"student_name" binding:"omitempty,max=100"`
	StudentAge  *int     `json:"student_age"  binding:"omitempty,min=1,max=120"`
	SchoolYear  *string  `json:"school_year"  binding:"omitempty,max=50"`
	Track       *string  `json:"track"        binding:"omitempty,max=50"`
	MoreKids    *bool    `json:"more_kids"`
	Slots       []string `json:"slots"        binding:"omitempty,min=1"`
}

// DecideRegistrationRequest 管理员审批请求
type DecideRegistrationRequest struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}

// CheckSlotRequest 选择校验请求：在当前已选集合上尝试加入一个候选时段
type CheckSlotRequest struct {
	Candidate string   `json:"candidate" binding:"required"`
	Selection []string `json:"selection"`
}

// CheckSlotResponse 选择校验响应
type CheckSlotResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// RegistrationResponse 报名记录响应
type RegistrationResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	ParentName  string   `json:"parent_name"`
	ParentPhone string   `json:"parent_phone"`
	ParentEmail string   `json:"parent_email"`
	StudentName string   `json:"student_name"`
	StudentAge  int      `json:"student_age"`
	SchoolYear  string   `json:"school_year"`
	Track       string   `json:"track"`
	MoreKids    bool     `json:"more_kids"`
	Slots       []string `json:"slots"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
