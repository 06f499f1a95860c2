package service

import (
	"fmt"

	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	VariantID   uint         `json:"variant_id"`
	ProductID   uint         `json:"product_id"`
	CategoryID  uint         `json:"category_id"`
	SKU         string       `json:"sku"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	Subtotal    models.Money `json:"subtotal"`
	Available   bool         `json:"available"`
}

// CartView 购物车视图
type CartView struct {
	CartID uint             `json:"cart_id"`
	Items  []CartItemDetail `json:"items"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	UserID    uint
	VariantID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListItems 获取用户购物车
func (s *CartService) ListItems(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrCartNotFound
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: []CartItemDetail{}}
	if cart == nil {
		return view, nil
	}
	view.CartID = cart.ID
	for _, item := range cart.Items {
		variant := item.Variant
		if variant == nil {
			continue
		}
		line := NewLineItem(variant, item.Quantity)
		detail := CartItemDetail{
			VariantID:  variant.ID,
			ProductID:  variant.ProductID,
			CategoryID: line.CategoryID,
			SKU:        variant.SKU,
			Quantity:   item.Quantity,
			UnitPrice:  variant.Price,
			Subtotal:   models.NewMoneyFromDecimal(line.Subtotal),
			Available:  variant.IsActive,
		}
		if variant.Product != nil {
			detail.ProductName = variant.Product.Name
			detail.Available = detail.Available && variant.Product.IsActive
		}
		view.Items = append(view.Items, detail)
	}
	return view, nil
}

// UpsertItem 添加或更新购物车项，数量为 0 时移除
func (s *CartService) UpsertItem(input UpsertCartItemInput) error {
	if input.UserID == 0 || input.VariantID == 0 {
		return ErrPricingInputInvalid
	}
	if input.Quantity < 0 {
		return ErrQuantityInvalid
	}
	if input.Quantity == 0 {
		return s.RemoveItem(input.UserID, input.VariantID)
	}
	variant, err := s.productRepo.GetVariantByID(input.VariantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrVariantNotFound
	}
	if !variant.IsActive || (variant.Product != nil && !variant.Product.IsActive) {
		return ErrVariantUnavailable
	}
	cart, err := s.cartRepo.GetOrCreateActive(input.UserID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}
	return s.cartRepo.UpsertItem(cart.ID, variant.ID, input.Quantity)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, variantID uint) error {
	if userID == 0 || variantID == 0 {
		return ErrPricingInputInvalid
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.cartRepo.RemoveItem(cart.ID, variantID)
}
