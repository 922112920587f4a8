package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	orderIDPrefix   = "ORD-"
	orderIDSuffix   = 9
	base36Uppercase = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var base36Len = big.NewInt(int64(len(base36Uppercase)))

// newOrderID returns ORD-<unix millis>-<9 random base36 chars>.
func newOrderID(now time.Time) string {
	buf := make([]byte, 0, len(orderIDPrefix)+14+orderIDSuffix)
	buf = append(buf, orderIDPrefix...)
	buf = strconv.AppendInt(buf, now.UnixMilli(), 10)
	buf = append(buf, '-')
	for i := 0; i < orderIDSuffix; i++ {
		n, err := rand.Int(rand.Reader, base36Len)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		buf = append(buf, base36Uppercase[n.Int64()])
	}
	return string(buf)
}
