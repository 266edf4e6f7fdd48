package palletways

import (
	"fmt"
	"time"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
	"github.com/shopspring/decimal"
)

// 服务代码说明，承运商不提供查询接口，表本身来自对接文档
var serviceDescriptions = map[string]string{
	"A": "Next Day Standard",
	"B": "Economy",
	"C": "Next Day before 12:00",
	"D": "Economy before 12:00",
	"E": "Next Day before 10:00",
	"F": "Saturday Standard",
	"H": "Saturday before 12:00",
	"L": "3 Day Economy",
	"O": "Offshore",
}

// 各服务承诺的运输天数
var serviceTransitDays = map[string]int{
	"A": 1, "C": 1, "E": 1,
	"B": 2, "D": 2,
	"F": 3, "H": 3,
	"L": 3,
	"O": 5,
}

// 服务基础价目，按托运单起价
var serviceBasePrice = map[string]int64{
	"A": 80, "B": 50, "C": 75, "D": 45,
	"E": 90, "F": 100, "H": 120, "L": 40, "O": 60,
}

const defaultBasePrice = 50

// ValidateServiceCode 校验服务代码是否在可用目录内
func ValidateServiceCode(code string) error {
	if _, ok := serviceDescriptions[code]; !ok {
		return fmt.Errorf("unknown service code %q", code)
	}
	return nil
}

func ServiceDescription(code string) string {
	if desc, ok := serviceDescriptions[code]; ok {
		return desc
	}
	return code
}

// EstimateDeliveryDate 按服务承诺天数估算送达日期
func EstimateDeliveryDate(code string, collectionDate time.Time) time.Time {
	days, ok := serviceTransitDays[code]
	if !ok {
		days = 2
	}
	return collectionDate.AddDate(0, 0, days)
}

// QuoteShipment 本地估价：基础价按重量加成，再叠加人工服务费
func QuoteShipment(req *utils.ShipmentRequest) decimal.Decimal {
	base, ok := serviceBasePrice[req.ServiceCode]
	if !ok {
		base = defaultBasePrice
	}
	price := decimal.NewFromInt(base)

	switch {
	case req.WeightKg > 1000:
		price = price.Mul(decimal.NewFromFloat(2.0))
	case req.WeightKg > 500:
		price = price.Mul(decimal.NewFromFloat(1.5))
	case req.WeightKg > 200:
		price = price.Mul(decimal.NewFromFloat(1.2))
	}

	if req.TailLift && req.WeightKg > 300 {
		price = price.Add(decimal.NewFromInt(15))
	}
	if req.BookInRequest {
		price = price.Add(decimal.NewFromInt(10))
	}
	return price.Round(2)
}

// NeedsTailLift 超过 300kg 的托运单自动要求尾板
func NeedsTailLift(weightKg int) bool { return weightKg > 300 }

// NeedsBookIn 超过 500kg 的托运单自动要求预约送货
func NeedsBookIn(weightKg int) bool { return weightKg > 500 }
