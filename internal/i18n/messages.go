package i18n

var catalogs = map[string]map[string]string{
	LocaleZH: messagesZH,
	LocaleTW: messagesTW,
	LocaleEN: messagesEN,
}

var messagesZH = map[string]string{
	"success":                       "成功",
	"error.bad_request":             "请求参数错误",
	"error.unauthorized":            "未登录或登录已过期",
	"error.forbidden":               "无权访问",
	"error.not_found":               "资源不存在",
	"error.too_many_requests":       "请求过于频繁，请稍后再试",
	"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
	"error.rate_limit_unavailable":  "限流服务暂不可用",
	"error.coupon_apply_too_many":   "优惠码尝试次数过多，请 %d 秒后再试",
	"error.internal_error":          "服务器内部错误",
	"error.token_invalid":           "登录凭证无效",
	"error.auth_header_missing":     "缺少认证信息",
	"error.auth_header_invalid":     "认证信息格式错误",
	"error.user_invalid":            "用户信息无效",
	"error.pricing_input_invalid":   "请提供购物车或商品",
	"error.cart_not_found":          "购物车不存在",
	"error.cart_empty":              "购物车为空",
	"error.variant_not_found":       "商品规格不存在",
	"error.variant_unavailable":     "商品已下架",
	"error.quantity_invalid":        "购买数量无效",
	"error.delivery_option_invalid": "配送方式无效",
	"error.coupon_code_required":    "请输入优惠码",
	"error.coupon_invalid":          "优惠码参数无效",
	"error.coupon_not_found":        "优惠码不存在",
	"error.coupon_code_exists":      "优惠码已存在",
	"error.coupon_rejected":         "优惠码不可用",
	"error.promotion_invalid":       "活动参数无效",
	"error.promotion_not_found":     "活动不存在",
	"error.cluster_not_found":       "客户分群不存在",
	"error.cluster_member_invalid":  "分群成员参数无效",
	"error.order_create_failed":     "订单创建失败",
	"error.pricing_failed":          "价格计算失败",

	"coupon.applied":                          "优惠码已使用",
	"coupon.reject.coupon_not_found":          "优惠码不存在",
	"coupon.reject.coupon_inactive":           "优惠码已停用",
	"coupon.reject.coupon_expired":            "优惠码已过期",
	"coupon.reject.coupon_not_started":        "优惠码尚未生效",
	"coupon.reject.coupon_cluster_restricted": "该优惠码仅限指定客户使用",
	"coupon.reject.coupon_scope_mismatch":     "购物车中没有适用该优惠码的商品",
	"coupon.reject.coupon_exclusive_conflict": "已享受独享优惠，无法叠加优惠码",

	"promotion.progress.met":         "已满足活动条件",
	"promotion.progress.quantity":    "再购买 %s 件即可享受优惠",
	"promotion.progress.order_count": "再完成 %s 笔订单即可享受优惠",
	"promotion.progress.unit":        "再购买 %s 单位即可享受优惠",
	"promotion.progress.excluded":    "已被独享活动替代",
	"promotion.progress.coupon_only": "需使用优惠码",
}

var messagesTW = map[string]string{
	"success":                       "成功",
	"error.bad_request":             "請求參數錯誤",
	"error.unauthorized":            "未登入或登入已過期",
	"error.forbidden":               "無權訪問",
	"error.not_found":               "資源不存在",
	"error.too_many_requests":       "請求過於頻繁，請稍後再試",
	"error.rate_limited":            "請求過於頻繁，請 %d 秒後再試",
	"error.rate_limit_unavailable":  "限流服務暫不可用",
	"error.coupon_apply_too_many":   "優惠碼嘗試次數過多，請 %d 秒後再試",
	"error.internal_error":          "伺服器內部錯誤",
	"error.token_invalid":           "登入憑證無效",
	"error.auth_header_missing":     "缺少認證資訊",
	"error.auth_header_invalid":     "認證資訊格式錯誤",
	"error.user_invalid":            "使用者資訊無效",
	"error.pricing_input_invalid":   "請提供購物車或商品",
	"error.cart_not_found":          "購物車不存在",
	"error.cart_empty":              "購物車為空",
	"error.variant_not_found":       "商品規格不存在",
	"error.variant_unavailable":     "商品已下架",
	"error.quantity_invalid":        "購買數量無效",
	"error.delivery_option_invalid": "配送方式無效",
	"error.coupon_code_required":    "請輸入優惠碼",
	"error.coupon_invalid":          "優惠碼參數無效",
	"error.coupon_not_found":        "優惠碼不存在",
	"error.coupon_code_exists":      "優惠碼已存在",
	"error.coupon_rejected":         "優惠碼不可用",
	"error.promotion_invalid":       "活動參數無效",
	"error.promotion_not_found":     "活動不存在",
	"error.cluster_not_found":       "客戶分群不存在",
	"error.cluster_member_invalid":  "分群成員參數無效",
	"error.order_create_failed":     "訂單建立失敗",
	"error.pricing_failed":          "價格計算失敗",

	"coupon.applied":                          "優惠碼已使用",
	"coupon.reject.coupon_not_found":          "優惠碼不存在",
	"coupon.reject.coupon_inactive":           "優惠碼已停用",
	"coupon.reject.coupon_expired":            "優惠碼已過期",
	"coupon.reject.coupon_not_started":        "優惠碼尚未生效",
	"coupon.reject.coupon_cluster_restricted": "此優惠碼僅限指定客戶使用",
	"coupon.reject.coupon_scope_mismatch":     "購物車中沒有適用此優惠碼的商品",
	"coupon.reject.coupon_exclusive_conflict": "已享有獨享優惠，無法疊加優惠碼",

	"promotion.progress.met":         "已滿足活動條件",
	"promotion.progress.quantity":    "再購買 %s 件即可享有優惠",
	"promotion.progress.order_count": "再完成 %s 筆訂單即可享有優惠",
	"promotion.progress.unit":        "再購買 %s 單位即可享有優惠",
	"promotion.progress.excluded":    "已被獨享活動取代",
	"promotion.progress.coupon_only": "需使用優惠碼",
}

var messagesEN = map[string]string{
	"success":                       "success",
	"error.bad_request":             "Invalid request parameters",
	"error.unauthorized":            "Not signed in or session expired",
	"error.forbidden":               "Access denied",
	"error.not_found":               "Resource not found",
	"error.too_many_requests":       "Too many requests, please try again later",
	"error.rate_limited":            "Too many requests, retry in %d seconds",
	"error.rate_limit_unavailable":  "Rate limiter unavailable",
	"error.coupon_apply_too_many":   "Too many coupon attempts, retry in %d seconds",
	"error.internal_error":          "Internal server error",
	"error.token_invalid":           "Invalid credentials",
	"error.auth_header_missing":     "Authorization header missing",
	"error.auth_header_invalid":     "Authorization header malformed",
	"error.user_invalid":            "Invalid user",
	"error.pricing_input_invalid":   "Provide a cart or an item",
	"error.cart_not_found":          "Cart not found",
	"error.cart_empty":              "Cart is empty",
	"error.variant_not_found":       "Product variant not found",
	"error.variant_unavailable":     "Product is unavailable",
	"error.quantity_invalid":        "Invalid quantity",
	"error.delivery_option_invalid": "Invalid delivery option",
	"error.coupon_code_required":    "Coupon code is required",
	"error.coupon_invalid":          "Invalid coupon parameters",
	"error.coupon_not_found":        "Coupon not found",
	"error.coupon_code_exists":      "Coupon code already exists",
	"error.coupon_rejected":         "Coupon cannot be used",
	"error.promotion_invalid":       "Invalid promotion parameters",
	"error.promotion_not_found":     "Promotion not found",
	"error.cluster_not_found":       "Customer cluster not found",
	"error.cluster_member_invalid":  "Invalid cluster member",
	"error.order_create_failed":     "Failed to create order",
	"error.pricing_failed":          "Failed to calculate price",

	"coupon.applied":                          "Coupon applied",
	"coupon.reject.coupon_not_found":          "Coupon not found",
	"coupon.reject.coupon_inactive":           "Coupon is inactive",
	"coupon.reject.coupon_expired":            "Coupon has expired",
	"coupon.reject.coupon_not_started":        "Coupon is not active yet",
	"coupon.reject.coupon_cluster_restricted": "This coupon is restricted to selected customers",
	"coupon.reject.coupon_scope_mismatch":     "No item in the cart qualifies for this coupon",
	"coupon.reject.coupon_exclusive_conflict": "An exclusive promotion is applied and cannot be combined with a coupon",

	"promotion.progress.met":         "Promotion conditions met",
	"promotion.progress.quantity":    "Add %s more item(s) to unlock this promotion",
	"promotion.progress.order_count": "Complete %s more order(s) to unlock this promotion",
	"promotion.progress.unit":        "Add %s more unit(s) to unlock this promotion",
	"promotion.progress.excluded":    "Replaced by an exclusive promotion",
	"promotion.progress.coupon_only": "Requires a coupon code",
}
