package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderCodePrefix = "LT"

// GenerateOrderCode produces a human-readable, second-granularity order
// code, e.g. "LT20260830142501". Two checkouts within the same second
// collide; the unique index on order_code plus the retry loop in
// OrderService.Create resolves that.
func GenerateOrderCode() string {
	return orderCodePrefix + time.Now().Format("20060102150405")
}

// GenerateOrderCodeWithSuffix appends a random three-digit suffix, used on
// retry after a same-second collision.
func GenerateOrderCodeWithSuffix() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", GenerateOrderCode(), n.Int64()), nil
}
