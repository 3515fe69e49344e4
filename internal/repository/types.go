package repository

import "time"

// CampaignListFilter 查询活动列表的过滤条件
type CampaignListFilter struct {
	Page     int
	PageSize int
	Status   string
	TenantID string
	Search   string
	ActiveAt *time.Time
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      string
	StoreID     string
	TenantID    string
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StoreListFilter 查询门店列表的过滤条件
type StoreListFilter struct {
	Page       int
	PageSize   int
	TenantID   string
	Status     string
	Search     string
	OnlyActive bool
}

// UsageListFilter 查询活动使用流水的过滤条件
type UsageListFilter struct {
	Page       int
	PageSize   int
	CampaignID string
	UserID     string
	StoreID    string
	TenantID   string
	UsedFrom   *time.Time
	UsedTo     *time.Time
}
