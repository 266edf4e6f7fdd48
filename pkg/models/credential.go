package models

import (
	"time"

	"github.com/flaboy/aira-freight/pkg/database"
)

type CarrierCredential struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255"`
	Provider    string `gorm:"size:50;index"` // 承运商标识：palletways
	Endpoint    string `gorm:"size:255"`
	ApiKey      string `gorm:"size:255"`
	DepotCode   string `gorm:"size:20"`
	AccountCode string `gorm:"size:20"`
	TestMode    bool   `gorm:"default:true"`
	Active      bool   `gorm:"default:true"`

	// 速率限制状态，每次出站请求都会更新
	RequestCount  int
	LastRequestAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *CarrierCredential) TableName() string {
	return "ar_carrier_credentials"
}

// RateLimitKey 速率限制窗口按凭证区分
func (c *CarrierCredential) RateLimitKey() string {
	return c.Provider + ":" + c.AccountCode + ":" + c.ApiKey
}

func init() {
	database.RegisterAutoMigrateModels(&CarrierCredential{})
}
