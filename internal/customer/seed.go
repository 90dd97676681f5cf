package customer

import (
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// DemoCustomers は起動時に投入するデモ用顧客を返す。
func DemoCustomers() []model.Customer {
	return []model.Customer{
		{
			ID: "1", Name: "John Smith", Email: "john.smith@email.com", Phone: "+1 555 0101",
			TotalOrders: 24, TotalSpent: 2450, Status: model.MemberStatusActive,
			RegisteredDate: day(2023, time.January, 15), LastOrder: dayPtr(2024, time.January, 20),
		},
		{
			ID: "2", Name: "Emma Johnson", Email: "emma.johnson@email.com", Phone: "+1 555 0102",
			TotalOrders: 18, TotalSpent: 1890, Status: model.MemberStatusActive,
			RegisteredDate: day(2023, time.February, 20), LastOrder: dayPtr(2024, time.January, 18),
		},
		{
			ID: "3", Name: "Michael Brown", Email: "michael.brown@email.com", Phone: "+1 555 0103",
			TotalOrders: 31, TotalSpent: 3120, Status: model.MemberStatusActive,
			RegisteredDate: day(2022, time.November, 10), LastOrder: dayPtr(2024, time.January, 22),
		},
		{
			ID: "4", Name: "Sarah Davis", Email: "sarah.davis@email.com", Phone: "+1 555 0104",
			TotalOrders: 7, TotalSpent: 670, Status: model.MemberStatusInactive,
			RegisteredDate: day(2023, time.August, 15), LastOrder: dayPtr(2023, time.December, 5),
		},
		{
			ID: "5", Name: "James Wilson", Email: "james.wilson@email.com", Phone: "+1 555 0105",
			TotalOrders: 42, TotalSpent: 4200, Status: model.MemberStatusActive,
			RegisteredDate: day(2022, time.June, 30), LastOrder: dayPtr(2024, time.January, 21),
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}
