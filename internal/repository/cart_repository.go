package repository

import (
	"errors"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetActiveByUser(userID uint) (*models.Cart, error)
	GetOrCreateActive(userID uint) (*models.Cart, error)
	UpsertItem(cartID, variantID uint, quantity int) error
	RemoveItem(cartID, variantID uint) error
	ClearItems(cartID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetActiveByUser 获取用户当前购物车（含商品规格与分类信息）
func (r *GormCartRepository) GetActiveByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Where("user_id = ? AND status = ?", userID, constants.CartStatusActive).
		Order("id desc").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateActive 获取或创建用户购物车
func (r *GormCartRepository) GetOrCreateActive(userID uint) (*models.Cart, error) {
	cart, err := r.GetActiveByUser(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	created := &models.Cart{UserID: userID, Status: constants.CartStatusActive}
	if err := r.db.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// UpsertItem 写入购物车项，已存在时覆盖数量
func (r *GormCartRepository) UpsertItem(cartID, variantID uint, quantity int) error {
	item := models.CartItem{CartID: cartID, VariantID: variantID, Quantity: quantity}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&item).Error
}

// RemoveItem 删除购物车项
func (r *GormCartRepository) RemoveItem(cartID, variantID uint) error {
	return r.db.Where("cart_id = ? AND variant_id = ?", cartID, variantID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
