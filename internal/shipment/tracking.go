package shipment

import (
	"fmt"
	"math/rand/v2"
)

// TrackingCodePrefix は追跡番号の固定プレフィックス。
const TrackingCodePrefix = "CMS"

// NewTrackingCode は "CMS" + 6桁の数字（100000〜999999）の追跡番号を生成する。
// 既存レコードとの衝突チェックは行わない。
// 90万通りの空間から一様に選ぶため、n件のレコードが存在するときの衝突確率はおよそ n/900000。
func NewTrackingCode() string {
	return fmt.Sprintf("%s%06d", TrackingCodePrefix, 100000+rand.IntN(900000))
}
