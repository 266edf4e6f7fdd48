package commence

import (
	"log/slog"

	"github.com/flaboy/aira-freight/pkg/config"
	"github.com/flaboy/aira-freight/pkg/database"
	"github.com/flaboy/aira-freight/pkg/events"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers"
	"github.com/flaboy/aira-freight/pkg/models"
)

func Start(cfg *config.CommenceConfig) error {
	config.Config = cfg

	// 启动承运商组件
	carriers.Init()

	if cfg.Palletways.Enabled {
		if err := ensureConfiguredCredential(cfg); err != nil {
			return err
		}
	}

	return nil
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}

// ensureConfiguredCredential 把配置文件里的 Palletways 凭证落到凭证表，
// 已存在同账号凭证时只刷新可变字段
func ensureConfiguredCredential(cfg *config.CommenceConfig) error {
	if !database.Ready() {
		slog.Warn("Database not ready, skipping configured credential bootstrap")
		return nil
	}

	pw := cfg.Palletways
	var cred models.CarrierCredential
	err := database.Database().
		Where("provider = ? AND account_code = ?", "palletways", pw.AccountCode).
		First(&cred).Error
	if err != nil {
		cred = models.CarrierCredential{
			Name:     "Palletways " + pw.AccountCode,
			Provider: "palletways",
			Active:   true,
		}
	}
	cred.Endpoint = pw.Endpoint
	cred.ApiKey = pw.ApiKey
	cred.DepotCode = pw.DepotCode
	cred.AccountCode = pw.AccountCode
	cred.TestMode = pw.TestMode

	if err := database.Database().Save(&cred).Error; err != nil {
		return err
	}
	slog.Info("Palletways credential ready", "account", pw.AccountCode, "testMode", pw.TestMode)
	return nil
}
