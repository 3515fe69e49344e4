package service

import "errors"

// 服务层哨兵错误，处理器通过 errors.Is 映射为响应码
var (
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrCampaignInvalid         = errors.New("campaign invalid")
	ErrCampaignStatusConflict  = errors.New("campaign status conflict")
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderStatusInvalid      = errors.New("order status invalid")
	ErrStoreNotFound           = errors.New("store not found")
	ErrStoreInvalid            = errors.New("store invalid")
	ErrStoreInactive           = errors.New("store inactive")
	ErrMachineNotFound         = errors.New("machine not found")
	ErrMachineSelectionInvalid = errors.New("machine selection invalid")
	ErrQueueUnavailable        = errors.New("queue unavailable")
)
