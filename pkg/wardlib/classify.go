package wardlib

import "strings"

// Category is a personal data type a cookie may carry. The vocabulary is
// closed; classification never produces values outside this set.
type Category string

const (
	CategoryEmail       Category = "email"
	CategoryName        Category = "name"
	CategoryLocation    Category = "location"
	CategoryDeviceInfo  Category = "device_info"
	CategoryIPAddress   Category = "ip_address"
	CategoryBrowsing    Category = "browsing_behavior"
	CategoryPreferences Category = "preferences"
	CategorySession     Category = "session_data"
	CategoryMarketing   Category = "marketing_data"
	CategorySocialMedia Category = "social_media_data"
	CategoryShopping    Category = "shopping_data"
	CategoryDemographic Category = "demographic_data"
)

// Categories lists every known category in canonical order. Classification
// results follow this order, which keeps output deterministic for equal input.
var Categories = []Category{
	CategoryEmail,
	CategoryName,
	CategoryLocation,
	CategoryDeviceInfo,
	CategoryIPAddress,
	CategoryBrowsing,
	CategoryPreferences,
	CategorySession,
	CategoryMarketing,
	CategorySocialMedia,
	CategoryShopping,
	CategoryDemographic,
}

// categoryKeywords maps each category to the lower-case substrings that
// signal it. Matching is plain substring containment over "name=value",
// with no word-boundary requirement: "ip" matches inside "ship". That
// looseness is deliberate; over-flagging is preferred to under-flagging.
var categoryKeywords = map[Category][]string{
	CategoryEmail:       {"email", "mail", "@"},
	CategoryName:        {"name", "firstname", "lastname", "username", "fullname"},
	CategoryLocation:    {"location", "geo", "country", "city", "zip", "postal", "latitude", "longitude", "region"},
	CategoryDeviceInfo:  {"device", "browser", "platform", "screen", "resolution", "useragent", "user_agent", "os"},
	CategoryIPAddress:   {"ip", "ipaddr", "ip_address"},
	CategoryBrowsing:    {"track", "analytics", "behavior", "click", "visit", "page", "history"},
	CategoryPreferences: {"pref", "setting", "theme", "lang", "language", "timezone", "currency"},
	CategorySession:     {"session", "sess", "sid", "auth", "token", "login"},
	CategoryMarketing:   {"marketing", "campaign", "utm", "promo", "ad_", "ads", "advert"},
	CategorySocialMedia: {"facebook", "twitter", "instagram", "linkedin", "social", "fb_", "share"},
	CategoryShopping:    {"cart", "basket", "order", "purchase", "product", "checkout", "wishlist"},
	CategoryDemographic: {"age", "gender", "birth", "income", "education", "demographic"},
}

// Classify inspects a cookie's name and value and returns the personal data
// categories it appears to carry. The function is pure and total: any input
// yields a (possibly empty) subset of Categories, with no duplicates, in
// canonical order.
func Classify(name, value string) []Category {
	haystack := strings.ToLower(name + "=" + value)
	var matched []Category
	for _, cat := range Categories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(haystack, kw) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}

// HasCategory reports whether cat is present in cats.
func HasCategory(cats []Category, cat Category) bool {
	for _, c := range cats {
		if c == cat {
			return true
		}
	}
	return false
}
