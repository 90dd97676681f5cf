package agent

import (
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// DemoAgents は起動時に投入するデモ用エージェントを返す。
func DemoAgents() []model.Agent {
	return []model.Agent{
		{
			ID: "1", Name: "Sarah Johnson", Email: "sarah.johnson@courierpro.com", Phone: "+1 234 567 8901",
			City: "New York", Status: model.MemberStatusActive, TotalCouriers: 156,
			JoinedDate: day(2023, time.January, 15),
		},
		{
			ID: "2", Name: "Michael Chen", Email: "michael.chen@courierpro.com", Phone: "+1 234 567 8902",
			City: "Los Angeles", Status: model.MemberStatusActive, TotalCouriers: 134,
			JoinedDate: day(2023, time.February, 20),
		},
		{
			ID: "3", Name: "Emily Rodriguez", Email: "emily.rodriguez@courierpro.com", Phone: "+1 234 567 8903",
			City: "Chicago", Status: model.MemberStatusInactive, TotalCouriers: 89,
			JoinedDate: day(2023, time.March, 10),
		},
		{
			ID: "4", Name: "David Kim", Email: "david.kim@courierpro.com", Phone: "+1 234 567 8904",
			City: "Houston", Status: model.MemberStatusActive, TotalCouriers: 201,
			JoinedDate: day(2022, time.November, 5),
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
