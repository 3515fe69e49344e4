package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCampaignRepositoryTest(t *testing.T) (*GormCampaignRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:campaign_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromotionCampaign{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCampaignRepository(db), db
}

func createTestCampaign(t *testing.T, repo *GormCampaignRepository, name, status string, tenantID *string, start time.Time, end *time.Time) *models.PromotionCampaign {
	t.Helper()

	campaign := &models.PromotionCampaign{
		Name:      name,
		Status:    status,
		TenantID:  tenantID,
		StartTime: start,
		EndTime:   end,
		Rewards: promotion.RewardList{
			{Type: promotion.RewardPercentageAmount, Value: 10, Unit: promotion.UnitPercentage},
		},
	}
	if err := repo.Create(campaign); err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return campaign
}

func TestCampaignRepositoryFetchEligible(t *testing.T) {
	repo, _ := setupCampaignRepositoryTest(t)
	now := time.Now()
	tenant := "tenant-1"
	otherTenant := "tenant-2"
	past := now.Add(-time.Hour)
	expired := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	active := createTestCampaign(t, repo, "global active", constants.CampaignStatusActive, nil, past, nil)
	scheduled := createTestCampaign(t, repo, "scheduled due", constants.CampaignStatusScheduled, nil, past, &future)
	tenantOwn := createTestCampaign(t, repo, "tenant own", constants.CampaignStatusActive, &tenant, past, nil)
	createTestCampaign(t, repo, "other tenant", constants.CampaignStatusActive, &otherTenant, past, nil)
	createTestCampaign(t, repo, "paused", constants.CampaignStatusPaused, nil, past, nil)
	createTestCampaign(t, repo, "draft", constants.CampaignStatusDraft, nil, past, nil)
	createTestCampaign(t, repo, "not started", constants.CampaignStatusActive, nil, future, nil)
	createTestCampaign(t, repo, "already expired", constants.CampaignStatusActive, nil, past, &expired)

	got, err := repo.FetchEligible(tenant, now)
	if err != nil {
		t.Fatalf("fetch eligible failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 eligible campaigns, got %d", len(got))
	}
	wantIDs := map[string]bool{active.ID: true, scheduled.ID: true, tenantOwn.ID: true}
	for _, campaign := range got {
		if !wantIDs[campaign.ID] {
			t.Fatalf("unexpected eligible campaign: %s (%s)", campaign.Name, campaign.Status)
		}
	}
}

func TestCampaignRepositoryFetchEligibleWithoutTenant(t *testing.T) {
	repo, _ := setupCampaignRepositoryTest(t)
	now := time.Now()
	tenant := "tenant-1"
	past := now.Add(-time.Hour)

	global := createTestCampaign(t, repo, "global", constants.CampaignStatusActive, nil, past, nil)
	createTestCampaign(t, repo, "tenant scoped", constants.CampaignStatusActive, &tenant, past, nil)

	got, err := repo.FetchEligible("", now)
	if err != nil {
		t.Fatalf("fetch eligible failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != global.ID {
		t.Fatalf("tenantless fetch should return global campaigns only, got %d", len(got))
	}
}

func TestCampaignRepositoryFetchEligibleOrder(t *testing.T) {
	repo, db := setupCampaignRepositoryTest(t)
	now := time.Now()
	past := now.Add(-time.Hour)

	first := createTestCampaign(t, repo, "first", constants.CampaignStatusActive, nil, past, nil)
	second := createTestCampaign(t, repo, "second", constants.CampaignStatusActive, nil, past, nil)

	// 反向调整创建时间，验证排序而非插入顺序
	if err := db.Model(&models.PromotionCampaign{}).Where("id = ?", first.ID).
		Update("created_at", now.Add(-time.Minute)).Error; err != nil {
		t.Fatalf("update created_at failed: %v", err)
	}
	if err := db.Model(&models.PromotionCampaign{}).Where("id = ?", second.ID).
		Update("created_at", now.Add(-2*time.Minute)).Error; err != nil {
		t.Fatalf("update created_at failed: %v", err)
	}

	got, err := repo.FetchEligible("", now)
	if err != nil {
		t.Fatalf("fetch eligible failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("expected created_at ascending order, got %+v", got)
	}
}

func TestCampaignRepositorySoftDelete(t *testing.T) {
	repo, db := setupCampaignRepositoryTest(t)
	now := time.Now()

	campaign := createTestCampaign(t, repo, "to delete", constants.CampaignStatusActive, nil, now.Add(-time.Hour), nil)
	if err := repo.SoftDelete(campaign.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	reloaded, err := repo.GetByID(campaign.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if reloaded != nil {
		t.Fatalf("soft deleted campaign should be hidden from reads")
	}

	eligible, err := repo.FetchEligible("", now)
	if err != nil {
		t.Fatalf("fetch eligible failed: %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("soft deleted campaign must not be eligible")
	}

	// 原始行仍在，状态已置为 INACTIVE
	var raw models.PromotionCampaign
	if err := db.Unscoped().Where("id = ?", campaign.ID).First(&raw).Error; err != nil {
		t.Fatalf("load raw row failed: %v", err)
	}
	if raw.Status != constants.CampaignStatusInactive {
		t.Fatalf("expected INACTIVE status on deleted row, got %s", raw.Status)
	}
}

func TestCampaignRepositorySyncQueries(t *testing.T) {
	repo, _ := setupCampaignRepositoryTest(t)
	now := time.Now()
	past := now.Add(-time.Hour)
	expired := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due := createTestCampaign(t, repo, "due", constants.CampaignStatusScheduled, nil, past, nil)
	createTestCampaign(t, repo, "not due", constants.CampaignStatusScheduled, nil, future, nil)
	over := createTestCampaign(t, repo, "over", constants.CampaignStatusActive, nil, past, &expired)
	createTestCampaign(t, repo, "running", constants.CampaignStatusActive, nil, past, &future)
	createTestCampaign(t, repo, "endless", constants.CampaignStatusActive, nil, past, nil)

	gotDue, err := repo.ListScheduledDue(now)
	if err != nil {
		t.Fatalf("list scheduled due failed: %v", err)
	}
	if len(gotDue) != 1 || gotDue[0].ID != due.ID {
		t.Fatalf("unexpected due campaigns: %d", len(gotDue))
	}

	gotExpired, err := repo.ListExpired(now)
	if err != nil {
		t.Fatalf("list expired failed: %v", err)
	}
	if len(gotExpired) != 1 || gotExpired[0].ID != over.ID {
		t.Fatalf("unexpected expired campaigns: %d", len(gotExpired))
	}
}

func TestCampaignRepositoryList(t *testing.T) {
	repo, _ := setupCampaignRepositoryTest(t)
	now := time.Now()
	tenant := "tenant-1"

	createTestCampaign(t, repo, "summer sale", constants.CampaignStatusActive, nil, now.Add(-time.Hour), nil)
	createTestCampaign(t, repo, "winter sale", constants.CampaignStatusDraft, &tenant, now.Add(-time.Hour), nil)

	got, total, err := repo.List(CampaignListFilter{Status: constants.CampaignStatusDraft})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Name != "winter sale" {
		t.Fatalf("status filter mismatch: total=%d len=%d", total, len(got))
	}

	got, total, err = repo.List(CampaignListFilter{Search: "summer"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Name != "summer sale" {
		t.Fatalf("search filter mismatch: total=%d len=%d", total, len(got))
	}
}
