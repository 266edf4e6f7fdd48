package utils

import "log/slog"

// StatusUpdateCallback 状态更新回调函数类型
type StatusUpdateCallback func(trackingID string, status ShipmentStatus) error

// callbackRegistry 回调注册表
var callbackRegistry []StatusUpdateCallback

// RegisterStatusUpdateCallback 注册状态更新回调
// 业务系统（拣货单、订单）通过回调感知状态变化，承运商模块不依赖业务代码
func RegisterStatusUpdateCallback(callback StatusUpdateCallback) {
	callbackRegistry = append(callbackRegistry, callback)
	slog.Info("Registered shipment status update callback", "totalCallbacks", len(callbackRegistry))
}

// NotifyStatusUpdate 通知所有已注册的回调
func NotifyStatusUpdate(trackingID string, status ShipmentStatus) error {
	for i, callback := range callbackRegistry {
		if err := callback(trackingID, status); err != nil {
			slog.Error("Status callback failed", "callbackIndex", i, "trackingID", trackingID, "error", err)
			// 继续执行其他回调，不因一个失败而中断
		}
	}
	return nil
}

// ClearCallbacks 清除所有回调（主要用于测试）
func ClearCallbacks() {
	callbackRegistry = callbackRegistry[:0]
}
