package dto

// ── 可用性模块 DTO ──

// 管理员批量动作取值
const (
	BulkAllAvailable      = "all_available"
	BulkAllUnavailable    = "all_unavailable"
	BulkWeekdaysAvailable = "weekdays_available"
	BulkWeekendAvailable  = "weekend_available"
)

// SetAvailabilityRequest 批量 upsert 请求：仅写入给定的 key→status 对
type SetAvailabilityRequest struct {
	Pairs map[string]string `json:"pairs" binding:"required,min=1"`
}

// BulkAvailabilityRequest 管理员批量动作请求
type BulkAvailabilityRequest struct {
	Action string `json:"action" binding:"required,oneof=all_available all_unavailable weekdays_available weekend_available"`
}

// AvailabilityResponse 完整可用性快照
type AvailabilityResponse struct {
	Availability map[string]string `json:"availability"`
}
