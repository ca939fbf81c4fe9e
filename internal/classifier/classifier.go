// Package classifier tags emails with a campaign type and a brand
// industry using keyword rules over the subject line and sender.
package classifier

import "strings"

// Campaign types
const (
	TypeSale          = "Sale"
	TypeProductLaunch = "Product Launch"
	TypeAbandonedCart = "Abandoned Cart"
	TypeSeasonal      = "Seasonal"
	TypeNewsletter    = "Newsletter"
)

var typeRules = []struct {
	campaignType string
	keywords     []string
}{
	{TypeSale, []string{"sale", "% off", "discount", "deal", "offer", "last chance", "ends today", "ends soon", "hurry", "clearance", "flat "}},
	{TypeAbandonedCart, []string{"cart", "left behind", "still thinking", "forgot something", "waiting for you"}},
	{TypeProductLaunch, []string{"new arrival", "just launched", "introducing", "new in", "just dropped", "meet the"}},
	{TypeSeasonal, []string{"diwali", "holi", "christmas", "new year", "valentine", "summer", "winter", "monsoon", "festive"}},
}

// CampaignType derives a campaign type from the subject line.
// Newsletter is the fallback when nothing more specific matches.
func CampaignType(subject string) string {
	lower := strings.ToLower(subject)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.campaignType
			}
		}
	}
	return TypeNewsletter
}

// Industries, matching the taxonomy the archive is browsed by.
var industryRules = []struct {
	industry string
	keywords []string
}{
	{"Beauty & Personal Care", []string{"nykaa", "purplle", "mamaearth", "beauty", "skincare", "makeup", "cosmetic", "fragrance"}},
	{"Food & Beverage", []string{"zomato", "swiggy", "bigbasket", "grofers", "food", "restaurant", "grocery", "snack"}},
	{"Apparel & Accessories", []string{"myntra", "ajio", "fashion", "wear", "apparel", "clothing", "footwear", "style"}},
	{"Electronics & Tech", []string{"croma", "electronics", "gadget", "laptop", "mobile", "headphone"}},
	{"Baby & Kids", []string{"firstcry", "baby", "kids", "toys"}},
	{"Finance & Fintech", []string{"paytm", "wallet", "cashback", "upi", "bank"}},
	{"Home & Living", []string{"furniture", "decor", "home", "kitchen", "bedding"}},
	{"Travel & Outdoors", []string{"flight", "hotel", "travel", "trip", "holiday package"}},
	{"Health, Fitness & Wellness", []string{"fitness", "gym", "wellness", "vitamin", "protein"}},
}

// DefaultIndustry is used when no rule matches.
const DefaultIndustry = "General / Department Store"

// Industry derives a brand industry from the brand name, subject and
// preview text.
func Industry(brandName, subject, preview string) string {
	haystack := strings.ToLower(brandName + " " + subject + " " + preview)
	for _, rule := range industryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.industry
			}
		}
	}
	return DefaultIndustry
}

// Subcategories within each industry, keyed off product keywords.
var categoryRules = map[string][]struct {
	category string
	keywords []string
}{
	"Beauty & Personal Care": {
		{"Skincare", []string{"skincare", "serum", "moisturizer", "sunscreen", "face wash"}},
		{"Makeup / Cosmetics", []string{"makeup", "lipstick", "mascara", "cosmetic"}},
		{"Fragrance / Perfume", []string{"fragrance", "perfume"}},
		{"Haircare", []string{"shampoo", "conditioner", "haircare", "hair oil"}},
	},
	"Food & Beverage": {
		{"Snacks & Treats", []string{"snack", "chocolate", "cookies"}},
		{"Beverages (Coffee, Tea, Juices)", []string{"coffee", "tea", "juice"}},
		{"Pantry Staples", []string{"grocery", "staples", "pantry"}},
	},
	"Apparel & Accessories": {
		{"Activewear / Athleisure", []string{"activewear", "athleisure", "sports", "gym wear"}},
		{"Footwear", []string{"shoes", "sneakers", "footwear", "sandals"}},
		{"Ethnic Wear", []string{"kurta", "saree", "ethnic", "festive wear"}},
	},
	"Electronics & Tech": {
		{"Headphones & Audio Gear", []string{"headphone", "earbuds", "speaker", "audio"}},
		{"Smartphones", []string{"smartphone", "mobile"}},
		{"Computers & Laptops", []string{"laptop", "computer"}},
		{"Smartwatches & Wearables", []string{"smartwatch", "wearable", "fitness band"}},
	},
	"Baby & Kids": {
		{"Toys & Games", []string{"toys", "games"}},
		{"Diapers & Hygiene", []string{"diaper"}},
		{"Clothing", []string{"kids wear", "baby clothes"}},
	},
	"Finance & Fintech": {
		{"Payments", []string{"upi", "wallet", "payment"}},
		{"Credit Cards", []string{"credit card"}},
		{"Banking", []string{"bank", "savings"}},
	},
	"Home & Living": {
		{"Kitchen & Dining", []string{"kitchen", "cookware", "dining"}},
		{"Furniture", []string{"furniture", "sofa"}},
		{"Bedding & Bath", []string{"bedding", "bedsheet", "towel"}},
		{"Home Décor", []string{"decor", "lighting"}},
	},
	"Travel & Outdoors": {
		{"Luggage & Travel Accessories", []string{"luggage", "backpack", "suitcase"}},
		{"Camping & Hiking Gear", []string{"camping", "hiking", "trek"}},
	},
	"Health, Fitness & Wellness": {
		{"Supplements", []string{"protein", "supplement"}},
		{"Vitamins & Nutrition", []string{"vitamin", "nutrition"}},
		{"Fitness Equipment", []string{"dumbbell", "treadmill", "fitness equipment"}},
	},
	DefaultIndustry: {
		{"Online Marketplaces", []string{"amazon", "flipkart", "meesho", "marketplace"}},
		{"Flash Sale Retailers", []string{"flash sale", "deal of the day"}},
	},
}

// DefaultCategory is used when no subcategory rule matches.
const DefaultCategory = "Others"

// Category derives the subcategory within an industry from the brand
// name, subject and preview text.
func Category(brandName, industry, subject, preview string) string {
	haystack := strings.ToLower(brandName + " " + subject + " " + preview)
	for _, rule := range categoryRules[industry] {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}
