package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"bijles-engels/backend/internal/dto"
	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/internal/repository"
)

func newTestRegistrationService() (RegistrationService, *repository.Repository) {
	repo := newMockRepository()
	return NewRegistrationService(newTestConfig(), repo, zap.NewNop()), repo
}

func sampleCreateRequest(slots ...string) *dto.CreateRegistrationRequest {
	return &dto.CreateRegistrationRequest{
		ParentName:  "Jan Peeters",
		ParentPhone: "+32 470 12 34 56",
		ParentEmail: "jan@example.be",
		StudentName: "Lotte Peeters",
		StudentAge:  14,
		SchoolYear:  "3e middelbaar",
		Track:       "ASO",
		Slots:       slots,
	}
}

func TestRegistrationCreate(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, sampleCreateRequest("0-9", "1-10"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	if resp.Status != model.RegistrationPending {
		t.Errorf("新报名状态期望 pending，实际: %s", resp.Status)
	}
	if resp.UserID != "user-1" {
		t.Errorf("期望归属 user-1，实际: %s", resp.UserID)
	}
	if len(resp.Slots) != 2 {
		t.Errorf("期望 2 个时段，实际: %d", len(resp.Slots))
	}
}

func TestRegistrationCreateValidation(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	// 空时段集合
	_, err := svc.Create(ctx, sampleCreateRequest(), "user-1")
	if !errors.Is(err, ErrEmptySlotSelection) {
		t.Errorf("空集合期望 ErrEmptySlotSelection，实际: %v", err)
	}

	// 同一天第三个时段（max_per_day=2）
	_, err = svc.Create(ctx, sampleCreateRequest("0-9", "0-10", "0-11"), "user-1")
	if !errors.Is(err, ErrDayLimitExceeded) {
		t.Errorf("同天三个时段期望 ErrDayLimitExceeded，实际: %v", err)
	}

	// 非法 key
	_, err = svc.Create(ctx, sampleCreateRequest("7-9"), "user-1")
	if !errors.Is(err, model.ErrInvalidSlot) {
		t.Errorf("非法 key 期望 ErrInvalidSlot，实际: %v", err)
	}
}

func TestRegistrationCreateTruncatesToMaxTotal(t *testing.T) {
	cfg := newTestConfig()
	cfg.Booking.MaxTotal = 2
	repo := newMockRepository()
	svc := NewRegistrationService(cfg, repo, zap.NewNop())

	resp, err := svc.Create(context.Background(), sampleCreateRequest("0-9", "1-9", "2-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if len(resp.Slots) != 2 {
		t.Errorf("超出总数上限的时段应被截断为 2 个，实际: %d", len(resp.Slots))
	}
}

func TestRegistrationDecideApprove(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)

	created, err := svc.Create(ctx, sampleCreateRequest("2-10", "2-11"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	resp, err := svc.Decide(ctx, created.ID, model.RegistrationApproved)
	if err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}
	if resp.Status != model.RegistrationApproved {
		t.Errorf("期望状态 approved，实际: %s", resp.Status)
	}

	// 审批通过后时段被标记占用
	for _, key := range []string{"2-10", "2-11"} {
		if availRepo.data[key] != model.SlotOccupied {
			t.Errorf("期望 %s 为 occupied，实际: %s", key, availRepo.data[key])
		}
	}
}

func TestRegistrationDecideDenyNoSideEffect(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)
	availRepo.data["0-9"] = model.SlotAvailable

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	resp, err := svc.Decide(ctx, created.ID, model.RegistrationDenied)
	if err != nil {
		t.Fatalf("审批拒绝失败: %v", err)
	}
	if resp.Status != model.RegistrationDenied {
		t.Errorf("期望状态 denied，实际: %s", resp.Status)
	}

	// 拒绝不触碰可用性
	if availRepo.data["0-9"] != model.SlotAvailable {
		t.Errorf("拒绝不应修改时段状态，实际: %s", availRepo.data["0-9"])
	}
}

func TestRegistrationDecideNotFound(t *testing.T) {
	svc, _ := newTestRegistrationService()

	_, err := svc.Decide(context.Background(), "missing", model.RegistrationApproved)
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("期望 ErrRegistrationNotFound，实际: %v", err)
	}

	// 审批结论只允许 approved / denied
	_, err = svc.Decide(context.Background(), "missing", "pending")
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("期望 ErrInvalidDecision，实际: %v", err)
	}
}

func TestRegistrationUpdateResetsToPendingAndFreesOldSlots(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)

	created, err := svc.Create(ctx, sampleCreateRequest("0-9", "1-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, created.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	// 编辑已通过的报名：旧时段全部释放，状态退回 pending
	resp, err := svc.Update(ctx, created.ID, &dto.UpdateRegistrationRequest{
		Slots: []string{"2-9"},
	}, "user-1")
	if err != nil {
		t.Fatalf("编辑报名失败: %v", err)
	}
	if resp.Status != model.RegistrationPending {
		t.Errorf("编辑后状态期望 pending，实际: %s", resp.Status)
	}
	if len(resp.Slots) != 1 || resp.Slots[0] != "2-9" {
		t.Errorf("期望新时段集合 [2-9]，实际: %v", resp.Slots)
	}

	for _, key := range []string{"0-9", "1-9"} {
		if availRepo.data[key] != model.SlotAvailable {
			t.Errorf("旧时段 %s 应被释放为 available，实际: %s", key, availRepo.data[key])
		}
	}
	// 新时段在重新审批前不占用
	if availRepo.data["2-9"] == model.SlotOccupied {
		t.Error("重新审批前新时段不应被占用")
	}
}

func TestRegistrationUpdateLeavesOtherOccupiedSlotsAlone(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)

	// 另一条已通过报名占用 1-9
	other, err := svc.Create(ctx, sampleCreateRequest("1-9"), "user-2")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, other.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, created.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, &dto.UpdateRegistrationRequest{
		Slots: []string{"3-9"},
	}, "user-1"); err != nil {
		t.Fatalf("编辑报名失败: %v", err)
	}

	// 只释放本报名的旧时段，他人的占用不受影响
	if availRepo.data["0-9"] != model.SlotAvailable {
		t.Errorf("0-9 应被释放，实际: %s", availRepo.data["0-9"])
	}
	if availRepo.data["1-9"] != model.SlotOccupied {
		t.Errorf("1-9 属于他人报名，不应被释放，实际: %s", availRepo.data["1-9"])
	}
}

func TestRegistrationUpdateValidatesBeforeWriting(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, created.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	// 新集合非法：整个编辑失败，旧占用保持不变
	_, err = svc.Update(ctx, created.ID, &dto.UpdateRegistrationRequest{
		Slots: []string{"0-9", "0-10", "0-11"},
	}, "user-1")
	if !errors.Is(err, ErrDayLimitExceeded) {
		t.Errorf("期望 ErrDayLimitExceeded，实际: %v", err)
	}
	if availRepo.data["0-9"] != model.SlotOccupied {
		t.Errorf("校验失败不应释放旧时段，实际: %s", availRepo.data["0-9"])
	}

	got, err := svc.GetByID(ctx, created.ID, "user-1", model.RoleParent)
	if err != nil {
		t.Fatalf("查询报名失败: %v", err)
	}
	if got.Status != model.RegistrationApproved {
		t.Errorf("校验失败不应改动状态，实际: %s", got.Status)
	}
}

func TestRegistrationUpdateOwnership(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	name := "Iemand Anders"
	_, err = svc.Update(ctx, created.ID, &dto.UpdateRegistrationRequest{ParentName: &name}, "user-2")
	if !errors.Is(err, ErrNotRegistrationOwner) {
		t.Errorf("非属主编辑期望 ErrNotRegistrationOwner，实际: %v", err)
	}
}

func TestRegistrationDeleteFreesApprovedSlots(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)

	created, err := svc.Create(ctx, sampleCreateRequest("2-10", "2-11"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, created.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, "user-1", model.RoleParent); err != nil {
		t.Fatalf("删除报名失败: %v", err)
	}

	for _, key := range []string{"2-10", "2-11"} {
		if availRepo.data[key] != model.SlotAvailable {
			t.Errorf("删除后 %s 应被释放，实际: %s", key, availRepo.data[key])
		}
	}

	_, err = svc.GetByID(ctx, created.ID, "user-1", model.RoleParent)
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("删除后查询期望 ErrRegistrationNotFound，实际: %v", err)
	}
}

func TestRegistrationDeletePendingNoSideEffect(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)
	availRepo.data["0-9"] = model.SlotAvailable

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	// pending 报名删除不触碰可用性
	if err := svc.Delete(ctx, created.ID, "user-1", model.RoleParent); err != nil {
		t.Fatalf("删除报名失败: %v", err)
	}
	if availRepo.data["0-9"] != model.SlotAvailable {
		t.Errorf("pending 报名删除不应修改时段状态，实际: %s", availRepo.data["0-9"])
	}
}

func TestRegistrationDeleteOwnership(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	// 他人不可删除
	if err := svc.Delete(ctx, created.ID, "user-2", model.RoleParent); !errors.Is(err, ErrNotRegistrationOwner) {
		t.Errorf("非属主删除期望 ErrNotRegistrationOwner，实际: %v", err)
	}

	// 管理员可删除任意报名
	if err := svc.Delete(ctx, created.ID, "admin-1", model.RoleAdmin); err != nil {
		t.Errorf("管理员删除失败: %v", err)
	}
}

func TestRegistrationGetByIDVisibility(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID, "user-1", model.RoleParent); err != nil {
		t.Errorf("本人查询失败: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, "admin-1", model.RoleAdmin); err != nil {
		t.Errorf("管理员查询失败: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, "user-2", model.RoleParent); !errors.Is(err, ErrNotRegistrationOwner) {
		t.Errorf("他人查询期望 ErrNotRegistrationOwner，实际: %v", err)
	}
}

func TestRegistrationListMineAndPending(t *testing.T) {
	svc, _ := newTestRegistrationService()
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleCreateRequest("0-9"), "user-1")
	if err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Create(ctx, sampleCreateRequest("1-9"), "user-2"); err != nil {
		t.Fatalf("创建报名失败: %v", err)
	}
	if _, err := svc.Decide(ctx, first.ID, model.RegistrationApproved); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}

	mine, err := svc.ListMine(ctx, "user-1")
	if err != nil {
		t.Fatalf("查询我的报名失败: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != "user-1" {
		t.Errorf("期望仅含 user-1 的 1 条报名，实际: %d 条", len(mine))
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("查询待审批失败: %v", err)
	}
	if len(pending) != 1 || pending[0].Status != model.RegistrationPending {
		t.Errorf("期望 1 条 pending 报名，实际: %d 条", len(pending))
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("查询全部报名失败: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望共 2 条报名，实际: %d 条", len(all))
	}
}

func TestRegistrationCheckSlot(t *testing.T) {
	svc, repo := newTestRegistrationService()
	ctx := context.Background()
	availRepo := repo.Availability.(*mockAvailabilityRepo)
	availRepo.data["0-9"] = model.SlotAvailable
	availRepo.data["0-10"] = model.SlotOccupied

	resp, err := svc.CheckSlot(ctx, &dto.CheckSlotRequest{Candidate: "0-9"})
	if err != nil {
		t.Fatalf("选择校验失败: %v", err)
	}
	if !resp.Allowed {
		t.Errorf("available 时段应允许，实际: %+v", resp)
	}

	resp, err = svc.CheckSlot(ctx, &dto.CheckSlotRequest{Candidate: "0-10"})
	if err != nil {
		t.Fatalf("选择校验失败: %v", err)
	}
	if resp.Allowed || resp.Reason == "" {
		t.Errorf("occupied 时段应拒绝并给出原因，实际: %+v", resp)
	}
}
