package palletways

import "github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"

// 承运商数字状态码到本地生命周期状态的映射
var statusCodeMap = map[string]utils.ShipmentStatus{
	"15":  utils.StatusError,
	"25":  utils.StatusCreated,
	"30":  utils.StatusCreated,
	"50":  utils.StatusConfirmed,
	"100": utils.StatusConfirmed,
	"300": utils.StatusCollected,
	"350": utils.StatusInTransit,
	"500": utils.StatusInTransit,
	"525": utils.StatusInTransit,
	"530": utils.StatusInTransit,
	"550": utils.StatusInTransit,
	"675": utils.StatusAtDepot,
	"700": utils.StatusAtDepot,
	"800": utils.StatusOutDelivery,
	"900": utils.StatusDelivered,
}

// MapStatusCode 未知状态码保持当前状态不变
func MapStatusCode(code string, current utils.ShipmentStatus) utils.ShipmentStatus {
	if mapped, ok := statusCodeMap[code]; ok {
		return mapped
	}
	return current
}
