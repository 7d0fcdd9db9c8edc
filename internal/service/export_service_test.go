package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/internal/repository"
)

func newTestExportService() (ExportService, *repository.Repository) {
	repo := newMockRepository()
	return NewExportService(newTestConfig(), repo, zap.NewNop()), repo
}

func seedRegistration(t *testing.T, repo *repository.Repository, status string, slots ...string) *model.Registration {
	t.Helper()
	reg := &model.Registration{
		UserID:      "user-1",
		ParentName:  "Jan Peeters",
		ParentPhone: "+32 470 12 34 56",
		ParentEmail: "jan@example.be",
		StudentName: "Lotte Peeters",
		StudentAge:  14,
		SchoolYear:  "3e middelbaar",
		Track:       "ASO",
		Slots:       model.StringArray(slots),
		Status:      status,
	}
	if err := repo.Registration.Create(context.Background(), reg); err != nil {
		t.Fatalf("预置报名失败: %v", err)
	}
	return reg
}

func TestExportRegistrationsEmpty(t *testing.T) {
	svc, _ := newTestExportService()

	_, _, err := svc.ExportRegistrations(context.Background())
	if !errors.Is(err, ErrExportNoRegistrations) {
		t.Errorf("空数据导出期望 ErrExportNoRegistrations，实际: %v", err)
	}
}

func TestExportRegistrations(t *testing.T) {
	svc, repo := newTestExportService()
	seedRegistration(t, repo, model.RegistrationPending, "0-9", "1-10")

	buf, filename, err := svc.ExportRegistrations(context.Background())
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出应返回非空 Excel 缓冲")
	}
	if !strings.HasPrefix(filename, "registrations_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式不符: %s", filename)
	}
}

func TestExportApprovedLessons(t *testing.T) {
	svc, repo := newTestExportService()

	approved := seedRegistration(t, repo, model.RegistrationApproved, "0-9")
	seedRegistration(t, repo, model.RegistrationPending, "1-10")

	// 2026-01-05 是周一；14 天窗口内包含两个周一
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	out, err := svc.ExportApprovedLessons(context.Background(), now)
	if err != nil {
		t.Fatalf("导出 iCal 失败: %v", err)
	}

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望 2 个事件（两个周一），实际: %d", got)
	}
	if !strings.Contains(out, approved.RegistrationID+"-20260105-9") {
		t.Error("事件 UID 应包含报名ID与日期")
	}
	if !strings.Contains(out, "Lotte Peeters") {
		t.Error("事件摘要应包含学生姓名")
	}
	// pending 报名不应出现在日历中
	if strings.Contains(out, "20260106") {
		t.Error("未通过的报名不应产生事件")
	}
}

func TestMondayIndex(t *testing.T) {
	cases := map[time.Weekday]int{
		time.Monday:   0,
		time.Tuesday:  1,
		time.Saturday: 5,
		time.Sunday:   6,
	}
	for wd, want := range cases {
		if got := mondayIndex(wd); got != want {
			t.Errorf("mondayIndex(%v) 期望 %d，实际: %d", wd, want, got)
		}
	}
}
