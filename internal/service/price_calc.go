package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mfg_erp_v1_202608/internal/model"
)

// ==================== 价格计算 ====================
//
// 全系统只允许这一处做成本→客户价的换算和取整。
// 历史版本里多个页面各算各的，出现过同一条数据在不同入口算出不同价格的事故，
// 所以订单编辑、单行覆盖、批量重算、夜间核对走的都是下面同一个函数。

// ClientPrice 由工厂成本和已解析的利润率/加价推导客户价
//
//	利润率类别: round2(cost × (1 + rate/100))
//	服装类别:   round2(cost + fee)  加法，永远不是乘法
//
// 取整规则：保留两位小数，逢 5 远离零（成本恒非负，等价于四舍五入）
func ClientPrice(cost float64, rateOrFee float64, category model.PriceCategory) (float64, error) {
	if cost < 0 {
		return 0, fmt.Errorf("成本不能为负数: %v", cost)
	}
	if category == model.CategoryClothing {
		if err := ValidateFee(rateOrFee); err != nil {
			return 0, err
		}
		return roundCents(decimal.NewFromFloat(cost).Add(decimal.NewFromFloat(rateOrFee))), nil
	}
	if err := ValidateRate(rateOrFee); err != nil {
		return 0, err
	}
	factor := decimal.NewFromFloat(1).Add(decimal.NewFromFloat(rateOrFee).Div(decimal.NewFromInt(100)))
	return roundCents(decimal.NewFromFloat(cost).Mul(factor)), nil
}

// roundCents 保留两位小数，shopspring 的 Round 即逢 5 远离零
func roundCents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ==================== 入参校验 ====================

// ValidateRate 利润率区间校验 [0, 500]
func ValidateRate(rate float64) error {
	if rate < model.MarginPctMin || rate > model.MarginPctMax {
		return fmt.Errorf("利润率超出允许区间 [%v, %v]: %v", model.MarginPctMin, model.MarginPctMax, rate)
	}
	return nil
}

// ValidateFee 固定加价/费用校验（非负）
func ValidateFee(fee float64) error {
	if fee < 0 {
		return fmt.Errorf("金额不能为负数: %v", fee)
	}
	return nil
}
