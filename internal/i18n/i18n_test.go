package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMatchNormalizesLanguageTags(t *testing.T) {
	cases := map[string]string{
		"":                      LocaleZH,
		"en":                    LocaleEN,
		"en-GB,en;q=0.8":        LocaleEN,
		"zh-TW":                 LocaleTW,
		"zh-Hant-HK":            LocaleTW,
		"zh-CN,zh;q=0.9":        LocaleZH,
		"not a language tag!!!": LocaleZH,
	}
	for raw, want := range cases {
		assert.Equal(t, want, Match(raw), "raw=%q", raw)
	}
}

func TestResolveLocalePrefersQueryParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/cart?lang=en-US", nil)
	c.Request.Header.Set("Accept-Language", "zh-TW")

	assert.Equal(t, LocaleEN, ResolveLocale(c))
}

func TestResolveLocaleFallsBackToHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/cart", nil)
	c.Request.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")

	assert.Equal(t, LocaleTW, ResolveLocale(c))
	assert.Equal(t, DefaultLocale, ResolveLocale(nil))
}

func TestTFallsBackToDefaultThenKey(t *testing.T) {
	assert.Equal(t, "Coupon not found", T(LocaleEN, "coupon.reject.coupon_not_found"))
	assert.Equal(t, "优惠码不存在", T("fr-FR", "coupon.reject.coupon_not_found"))
	assert.Equal(t, "missing.key", T(LocaleEN, "missing.key"))
	assert.Equal(t, "再购买 2 件即可享受优惠", Sprintf(LocaleZH, "promotion.progress.quantity", "2"))
}

func TestCatalogsShareKeys(t *testing.T) {
	for key := range messagesZH {
		_, tw := messagesTW[key]
		_, en := messagesEN[key]
		assert.True(t, tw, "zh-TW missing %s", key)
		assert.True(t, en, "en-US missing %s", key)
	}
	assert.Equal(t, len(messagesZH), len(messagesEN))
	assert.True(t, Has("coupon.applied"))
}
