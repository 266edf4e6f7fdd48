package palletways

import (
	"math"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
)

// 计费单位按单板重量上限从小到大排列，超出最大档一律按整板计
var billUnitTiers = []struct {
	Code  string
	MaxKg float64
}{
	{"MQP", 150},
	{"QP", 300},
	{"ELP", 450},
	{"SELP", 600},
	{"LP", 750},
	{"FP", 1200},
}

// billUnitLimits 含仅可手工指定的单位（HP 不参与自动分类）
var billUnitLimits = map[string]float64{
	"MQP":  150,
	"QP":   300,
	"ELP":  450,
	"HP":   600,
	"SELP": 600,
	"LP":   750,
	"FP":   1200,
}

// ClassifyBillUnit 按单板均摊重量选取最小可容纳的计费单位
func ClassifyBillUnit(weightKg float64, quantity int) string {
	if quantity < 1 {
		quantity = 1
	}
	perUnit := weightKg / float64(quantity)
	for _, tier := range billUnitTiers {
		if perUnit <= tier.MaxKg {
			return tier.Code
		}
	}
	return "FP"
}

// ValidateBillUnit 校验指定计费单位能否承载该票重量
func ValidateBillUnit(unitCode string, weightKg float64, quantity int) *utils.ConstraintViolation {
	maxKg, ok := billUnitLimits[unitCode]
	if !ok {
		return &utils.ConstraintViolation{WeightKg: weightKg, UnitCode: unitCode, MaxKg: 0}
	}
	if quantity < 1 {
		quantity = 1
	}
	if weightKg/float64(quantity) > maxKg {
		return &utils.ConstraintViolation{WeightKg: weightKg, UnitCode: unitCode, MaxKg: maxKg}
	}
	return nil
}

// 分解系数：各档位折算为 150kg 迷你单位的倍数
var decomposeFactors = []struct {
	Code   string
	Factor int
}{
	{"FP", 8},
	{"LP", 5},
	{"HP", 4},
	{"ELP", 3},
	{"QP", 2},
	{"MQP", 1},
}

// DecomposeBillUnits 把总重量拆成最少数量的计费单位组合
func DecomposeBillUnits(weightKg float64) []BillUnit {
	minis := int(math.Ceil(weightKg / 150))
	if minis < 1 {
		minis = 1
	}

	var units []BillUnit
	for _, d := range decomposeFactors {
		if minis <= 0 {
			break
		}
		n := minis / d.Factor
		if n > 0 {
			units = append(units, BillUnit{Type: d.Code, Amount: n})
			minis -= n * d.Factor
		}
	}
	return units
}
