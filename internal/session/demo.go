package session

import "github.com/Rizviblue/rapid-courier-pro/internal/model"

// demoIdentities はロールごとの組み込みデモアカウント。
var demoIdentities = map[model.Role]model.Identity{
	model.RoleAdmin: {
		ID:    "1",
		Name:  "John Smith",
		Email: "admin@courierpro.com",
		Role:  model.RoleAdmin,
	},
	model.RoleAgent: {
		ID:    "2",
		Name:  "Sarah Johnson",
		Email: "agent@courierpro.com",
		Role:  model.RoleAgent,
		City:  "New York",
	},
	model.RoleUser: {
		ID:    "3",
		Name:  "Mike Wilson",
		Email: "user@courierpro.com",
		Role:  model.RoleUser,
		Phone: "+1 234 567 8900",
	},
}

// DemoIdentity はロールに対応する組み込みアカウントを返す。
// 列挙外のロールの場合はfalseを返す。
func DemoIdentity(role model.Role) (model.Identity, bool) {
	id, ok := demoIdentities[role]
	return id, ok
}
