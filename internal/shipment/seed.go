package shipment

import (
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// DemoRecords は起動時に投入するデモ用レコードを返す。
// ステータスは pending / in_transit / delivered / cancelled を1件ずつ含む。
func DemoRecords() []model.ShipmentRecord {
	return []model.ShipmentRecord{
		{
			ID:           "1",
			TrackingCode: "CMS001234",
			SenderName:   "John Doe",
			ReceiverName: "Alice Smith",
			PickupCity:   "New York",
			DeliveryCity: "Los Angeles",
			CourierType:  "Express",
			Weight:       2.5,
			DeliveryDate: date(2024, time.January, 25),
			Status:       model.ShipmentStatusInTransit,
			CreatedBy:    "1",
			CreatedAt:    time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			TrackingCode: "CMS001235",
			SenderName:   "Bob Johnson",
			ReceiverName: "Carol Brown",
			PickupCity:   "Chicago",
			DeliveryCity: "Miami",
			CourierType:  "Standard",
			Weight:       1.2,
			DeliveryDate: date(2024, time.January, 24),
			Status:       model.ShipmentStatusDelivered,
			CreatedBy:    "2",
			CreatedAt:    time.Date(2024, time.January, 19, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:           "3",
			TrackingCode: "CMS001236",
			SenderName:   "David Wilson",
			ReceiverName: "Eva Davis",
			PickupCity:   "Houston",
			DeliveryCity: "Seattle",
			CourierType:  "Express",
			Weight:       3.8,
			DeliveryDate: date(2024, time.January, 26),
			Status:       model.ShipmentStatusPending,
			CreatedBy:    "1",
			CreatedAt:    time.Date(2024, time.January, 21, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:           "4",
			TrackingCode: "CMS001237",
			SenderName:   "Frank Miller",
			ReceiverName: "Grace Lee",
			PickupCity:   "Phoenix",
			DeliveryCity: "Boston",
			CourierType:  "Standard",
			Weight:       0.8,
			DeliveryDate: date(2024, time.January, 23),
			Status:       model.ShipmentStatusCancelled,
			CreatedBy:    "2",
			CreatedAt:    time.Date(2024, time.January, 18, 16, 45, 0, 0, time.UTC),
		},
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
