package services

import (
	"strconv"
	"strings"
)

// Flat shipping fees in VND.
const (
	MetroShippingFee    int64 = 22000
	StandardShippingFee int64 = 35000
)

// Spellings of Ho Chi Minh City seen in submitted addresses. Matching is
// case-insensitive substring, so "TP. Hồ Chí Minh" and "tphcm" both hit.
var metroAliases = []string{
	"hồ chí minh",
	"ho chi minh",
	"hcm",
	"sài gòn",
	"sai gon",
	"saigon",
}

// CalculateShippingFee maps a destination province name to a flat fee:
// metro region 22000, anywhere else 35000, empty input 0.
func CalculateShippingFee(province string) int64 {
	name := strings.ToLower(strings.TrimSpace(province))
	if name == "" {
		return 0
	}
	for _, alias := range metroAliases {
		if strings.Contains(name, alias) {
			return MetroShippingFee
		}
	}
	return StandardShippingFee
}

// FormatShippingFee renders a fee for display; zero is free shipping.
func FormatShippingFee(fee int64) string {
	if fee == 0 {
		return "Miễn phí"
	}
	return FormatVND(fee)
}

// FormatVND renders an amount with dot thousand separators and the đồng
// sign, e.g. 35000 -> "35.000₫".
func FormatVND(amount int64) string {
	str := strconv.FormatInt(amount, 10)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(".")
		}
		result.WriteRune(digit)
	}

	return result.String() + "₫"
}
