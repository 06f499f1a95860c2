package repository

// PromotionListFilter 活动列表筛选
type PromotionListFilter struct {
	ID            uint
	Keyword       string
	Status        string
	PromotionType string
	Page          int
	PageSize      int
}

// CouponListFilter 优惠码列表筛选
type CouponListFilter struct {
	Code        string
	Keyword     string
	PromotionID uint
	Status      string
	Page        int
	PageSize    int
}

// CouponUsageListFilter 使用记录筛选
type CouponUsageListFilter struct {
	CouponID    uint
	UserID      uint
	OrderedOnly bool // 只看下单时产生的记录
	Page        int
	PageSize    int
}
