package constants

// 订单状态常量
const (
	OrderStatusNew               = "NEW"
	OrderStatusCancelled         = "CANCELLED"
	OrderStatusWaitingForPayment = "WAITING_FOR_PAYMENT"
	OrderStatusPaymentFailed     = "PAYMENT_FAILED"
	OrderStatusPaymentSuccess    = "PAYMENT_SUCCESS"
	OrderStatusInProgress        = "IN_PROGRESS"
	OrderStatusFinished          = "FINISHED"
)

// 订单明细状态常量
const (
	OrderDetailStatusNew        = "NEW"
	OrderDetailStatusInProgress = "IN_PROGRESS"
	OrderDetailStatusFinished   = "FINISHED"
	OrderDetailStatusCancelled  = "CANCELLED"
)

// 活动状态常量
const (
	CampaignStatusDraft     = "DRAFT"
	CampaignStatusScheduled = "SCHEDULED"
	CampaignStatusActive    = "ACTIVE"
	CampaignStatusPaused    = "PAUSED"
	CampaignStatusInactive  = "INACTIVE"
	CampaignStatusFinished  = "FINISHED"
)

// 门店状态常量
const (
	StoreStatusActive   = "ACTIVE"
	StoreStatusInactive = "INACTIVE"
)

// 机器类型常量
const (
	MachineTypeWasher = "WASHER"
	MachineTypeDryer  = "DRYER"
)

// 队列常量
const (
	QueueDefault      = "default"
	TaskCampaignSync  = "promotion:campaign_sync"
	TaskOrderEvaluate = "order:evaluate_promotion"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ln"
)

// 币种常量
const (
	SiteCurrencyDefault = "VND"
)

// 评估默认时区（TIME_IN_DAY 条件按订单当地时段判断）
const DefaultEvaluationTimezone = "Asia/Ho_Chi_Minh"
