package domain

import "github.com/shopspring/decimal"

// Statistics holds the aggregate counters shown on the admin dashboard.
type Statistics struct {
	TotalEvents   int64           `json:"totalEvents"`
	TotalUsers    int64           `json:"totalUsers"`
	TotalExpenses int64           `json:"totalExpenses"`
	TotalMembers  int64           `json:"totalMembers"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	RecentEvents  []*RecentEvent  `json:"recentEvents"`
}
