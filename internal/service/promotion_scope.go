package service

import (
	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"
)

// promotionScope 活动适用范围
type promotionScope struct {
	appliesTo  string
	variants   map[uint]struct{}
	categories map[uint]struct{}
}

func scopeOf(promotion *models.Promotion) promotionScope {
	scope := promotionScope{appliesTo: promotion.AppliesTo}
	switch promotion.AppliesTo {
	case constants.AppliesToSpecificProducts:
		scope.variants = make(map[uint]struct{}, len(promotion.Products))
		for _, item := range promotion.Products {
			scope.variants[item.VariantID] = struct{}{}
		}
	case constants.AppliesToSpecificCategories:
		scope.categories = make(map[uint]struct{}, len(promotion.Categories))
		for _, item := range promotion.Categories {
			scope.categories[item.CategoryID] = struct{}{}
		}
	}
	return scope
}

// includes 判断定价行是否落在范围内；未知范围一律不命中
func (s promotionScope) includes(line LineItem) bool {
	switch s.appliesTo {
	case constants.AppliesToAll:
		return true
	case constants.AppliesToSpecificProducts:
		_, ok := s.variants[line.VariantID]
		return ok
	case constants.AppliesToSpecificCategories:
		_, ok := s.categories[line.CategoryID]
		return ok
	default:
		return false
	}
}

func (s promotionScope) anyIncluded(lines []LineItem) bool {
	for _, line := range lines {
		if s.includes(line) {
			return true
		}
	}
	return false
}
