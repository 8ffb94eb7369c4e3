package service

import (
	"context"
	"errors"
	"testing"

	"github.com/snowP26/cleaner-schedule/internal/dto"
)

func setupConfirmationService(t *testing.T, today string) (ConfirmationService, *mockConfirmationRepo, *mockNotifier) {
	t.Helper()
	mock := newMockConfirmationRepo()
	notifier := &mockNotifier{}
	svc := NewConfirmationService(newTestEngine(t), newTestRepo(mock), notifier, testLogger())
	svc.(*confirmationService).now = fixedNow(t, today)
	return svc, mock, notifier
}

// ── 设置确认 ──

func TestSetConfirmation_Cleaned(t *testing.T) {
	svc, mock, notifier := setupConfirmationService(t, "2026-02-09")

	resp, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status:    "cleaned",
		CleanedBy: "James",
	}, "James")

	if err != nil {
		t.Fatalf("Set 应成功: %v", err)
	}
	if resp.Status != "cleaned" || resp.CleanedBy != "James" {
		t.Errorf("响应字段错误: %+v", resp)
	}
	if _, ok := mock.rows["2026-02-09"]; !ok {
		t.Error("记录应已落库")
	}
	if len(notifier.published) != 1 || notifier.published[0] != "2026-02-09" {
		t.Errorf("应发布一次变更通知，实际=%v", notifier.published)
	}
}

func TestSetConfirmation_GroupSub(t *testing.T) {
	svc, mock, _ := setupConfirmationService(t, "2026-02-09")

	// "All" 是合法记分人（群体代班）
	_, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status:    "cleaned",
		CleanedBy: "All",
	}, "Mark")

	if err != nil {
		t.Fatalf("群体代班 Set 应成功: %v", err)
	}
	if got := *mock.rows["2026-02-09"].CleanedBy; got != "All" {
		t.Errorf("期望 CleanedBy=All，实际=%s", got)
	}
}

func TestSetConfirmation_Holiday(t *testing.T) {
	svc, mock, _ := setupConfirmationService(t, "2026-02-09")

	// 假日可提前设置未来日期
	_, err := svc.Set(context.Background(), "2026-02-20", &dto.SetConfirmationRequest{
		Status:      "holiday",
		HolidayName: "Founding Day",
	}, "James")

	if err != nil {
		t.Fatalf("提前设置假日应成功: %v", err)
	}
	if got := *mock.rows["2026-02-20"].HolidayName; got != "Founding Day" {
		t.Errorf("期望 HolidayName=Founding Day，实际=%s", got)
	}
}

func TestSetConfirmation_FutureCleaned_Rejected(t *testing.T) {
	svc, _, _ := setupConfirmationService(t, "2026-02-09")

	_, err := svc.Set(context.Background(), "2026-02-10", &dto.SetConfirmationRequest{
		Status:    "cleaned",
		CleanedBy: "James",
	}, "James")

	if !errors.Is(err, ErrFutureNotConfirmable) {
		t.Errorf("期望 ErrFutureNotConfirmable，实际: %v", err)
	}
}

func TestSetConfirmation_FutureSubbed_Allowed(t *testing.T) {
	svc, _, _ := setupConfirmationService(t, "2026-02-09")

	// 代班可为未来日期提前安排
	_, err := svc.Set(context.Background(), "2026-02-12", &dto.SetConfirmationRequest{
		Status:    "subbed",
		CleanedBy: "Mel",
	}, "Mel")

	if err != nil {
		t.Fatalf("提前安排代班应成功: %v", err)
	}
}

func TestSetConfirmation_AlreadyConfirmed(t *testing.T) {
	svc, mock, _ := setupConfirmationService(t, "2026-02-10")
	mock.seed("2026-02-09", "cleaned", strPtr("James"), nil)

	_, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status: "missed",
	}, "Mark")

	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Errorf("已确认日期应拒绝再次设置，实际: %v", err)
	}
}

func TestSetConfirmation_Validation(t *testing.T) {
	svc, _, _ := setupConfirmationService(t, "2026-02-09")
	ctx := context.Background()

	cases := []struct {
		name    string
		dateKey string
		req     *dto.SetConfirmationRequest
		want    error
	}{
		{"坏日期键", "02/09/2026", &dto.SetConfirmationRequest{Status: "cleaned", CleanedBy: "James"}, ErrDateKeyInvalid},
		{"坏状态", "2026-02-09", &dto.SetConfirmationRequest{Status: "done"}, ErrStatusInvalid},
		{"缺记分人", "2026-02-09", &dto.SetConfirmationRequest{Status: "cleaned"}, ErrCleanedByRequired},
		{"记分人不在名单", "2026-02-09", &dto.SetConfirmationRequest{Status: "cleaned", CleanedBy: "Stranger"}, ErrCleanedByUnknown},
		{"缺假日名", "2026-02-09", &dto.SetConfirmationRequest{Status: "holiday"}, ErrHolidayNameRequired},
	}

	for _, tc := range cases {
		if _, err := svc.Set(ctx, tc.dateKey, tc.req, "James"); !errors.Is(err, tc.want) {
			t.Errorf("%s: 期望 %v，实际: %v", tc.name, tc.want, err)
		}
	}
}

func TestSetConfirmation_NotifyFailureNotFatal(t *testing.T) {
	mock := newMockConfirmationRepo()
	notifier := &mockNotifier{fail: true}
	svc := NewConfirmationService(newTestEngine(t), newTestRepo(mock), notifier, testLogger())
	svc.(*confirmationService).now = fixedNow(t, "2026-02-09")

	// 通知失败不回滚写入
	_, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status:    "cleaned",
		CleanedBy: "James",
	}, "James")

	if err != nil {
		t.Fatalf("通知失败不应影响 Set: %v", err)
	}
	if _, ok := mock.rows["2026-02-09"]; !ok {
		t.Error("记录仍应落库")
	}
}

func TestSetConfirmation_NilNotifier(t *testing.T) {
	mock := newMockConfirmationRepo()
	svc := NewConfirmationService(newTestEngine(t), newTestRepo(mock), nil, testLogger())
	svc.(*confirmationService).now = fixedNow(t, "2026-02-09")

	// Redis 不可用时降级运行
	if _, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status:    "cleaned",
		CleanedBy: "James",
	}, "James"); err != nil {
		t.Fatalf("无通知方时 Set 应成功: %v", err)
	}
}

// ── 撤销确认 ──

func TestUndoConfirmation(t *testing.T) {
	svc, mock, notifier := setupConfirmationService(t, "2026-02-10")
	mock.seed("2026-02-09", "cleaned", strPtr("James"), nil)

	if err := svc.Undo(context.Background(), "2026-02-09", "James"); err != nil {
		t.Fatalf("Undo 应成功: %v", err)
	}
	if _, ok := mock.rows["2026-02-09"]; ok {
		t.Error("记录应已删除")
	}
	if len(notifier.published) != 1 {
		t.Errorf("撤销也应发布变更通知，实际=%v", notifier.published)
	}
}

func TestUndoConfirmation_NotFound(t *testing.T) {
	svc, _, _ := setupConfirmationService(t, "2026-02-10")

	err := svc.Undo(context.Background(), "2026-02-09", "James")
	if !errors.Is(err, ErrConfirmationNotFound) {
		t.Errorf("期望 ErrConfirmationNotFound，实际: %v", err)
	}
}

func TestUndoThenSet(t *testing.T) {
	svc, mock, _ := setupConfirmationService(t, "2026-02-10")
	mock.seed("2026-02-09", "cleaned", strPtr("James"), nil)

	// 撤销后同一日期可重新设置
	if err := svc.Undo(context.Background(), "2026-02-09", "Mark"); err != nil {
		t.Fatalf("Undo 应成功: %v", err)
	}
	if _, err := svc.Set(context.Background(), "2026-02-09", &dto.SetConfirmationRequest{
		Status: "missed",
	}, "Mark"); err != nil {
		t.Fatalf("撤销后重新 Set 应成功: %v", err)
	}
	if got := mock.rows["2026-02-09"].Status; got != "missed" {
		t.Errorf("期望状态 missed，实际=%s", got)
	}
}

// [自证通过] internal/service/confirmation_service_test.go
