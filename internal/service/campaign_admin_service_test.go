package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCampaignAdminServiceTest(t *testing.T) (*CampaignAdminService, repository.CampaignRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:campaign_admin_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromotionCampaign{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	repo := repository.NewCampaignRepository(db)
	return NewCampaignAdminService(repo), repo
}

func validCampaignInput() *CampaignInput {
	return &CampaignInput{
		Name:      "weekend promo",
		Status:    constants.CampaignStatusActive,
		StartTime: time.Now().Add(-time.Hour),
		Rewards: promotion.RewardList{
			{Type: promotion.RewardPercentageAmount, Value: 10, Unit: promotion.UnitPercentage},
		},
	}
}

func TestCampaignAdminCreate(t *testing.T) {
	svc, repo := setupCampaignAdminServiceTest(t)

	created, err := svc.Create(context.Background(), validCampaignInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.CampaignStatusActive {
		t.Fatalf("unexpected status: %s", reloaded.Status)
	}
	if len(reloaded.Rewards) != 1 || reloaded.Rewards[0].Type != promotion.RewardPercentageAmount {
		t.Fatalf("rewards not persisted: %+v", reloaded.Rewards)
	}
}

func TestCampaignAdminCreateDefaultsToDraft(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	in := validCampaignInput()
	in.Status = ""
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != constants.CampaignStatusDraft {
		t.Fatalf("expected DRAFT default, got %s", created.Status)
	}
}

func TestCampaignAdminCreateValidation(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CampaignInput)
	}{
		{"empty name", func(in *CampaignInput) { in.Name = " " }},
		{"zero start", func(in *CampaignInput) { in.StartTime = time.Time{} }},
		{"end before start", func(in *CampaignInput) {
			end := in.StartTime.Add(-time.Minute)
			in.EndTime = &end
		}},
		{"no rewards", func(in *CampaignInput) { in.Rewards = nil }},
		{"bad reward unit", func(in *CampaignInput) {
			in.Rewards = promotion.RewardList{{Type: promotion.RewardFixedAmount, Value: 100, Unit: promotion.UnitPercentage}}
		}},
		{"bad condition operator", func(in *CampaignInput) {
			in.Conditions = promotion.ConditionList{{Type: promotion.ConditionTenants, Operator: promotion.OperatorGreaterThan, Value: "t"}}
		}},
		{"bad limit unit", func(in *CampaignInput) {
			in.Limits = promotion.LimitList{{Type: promotion.LimitTotalUsage, Value: 10, Unit: promotion.UnitVND}}
		}},
	}
	for _, tc := range cases {
		in := validCampaignInput()
		tc.mutate(in)
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrCampaignInvalid) {
			t.Fatalf("%s: expected ErrCampaignInvalid, got %v", tc.name, err)
		}
	}
}

func TestCampaignAdminCreateRejectsTerminalStatus(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	in := validCampaignInput()
	in.Status = constants.CampaignStatusFinished
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrCampaignStatusConflict) {
		t.Fatalf("expected ErrCampaignStatusConflict, got %v", err)
	}
}

func TestCampaignAdminUpdate(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	in := validCampaignInput()
	in.Name = "renamed promo"
	in.TenantID = "tenant-1"
	updated, err := svc.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "renamed promo" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.TenantID == nil || *updated.TenantID != "tenant-1" {
		t.Fatalf("tenant not updated: %v", updated.TenantID)
	}
}

func TestCampaignAdminUpdateFinishedRejected(t *testing.T) {
	svc, repo := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.UpdateStatus(created.ID, constants.CampaignStatusFinished); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, validCampaignInput()); !errors.Is(err, ErrCampaignStatusConflict) {
		t.Fatalf("expected ErrCampaignStatusConflict, got %v", err)
	}
}

func TestCampaignAdminUpdateNotFound(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)

	if _, err := svc.Update(context.Background(), "missing", validCampaignInput()); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestCampaignAdminPauseResume(t *testing.T) {
	svc, repo := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Pause(ctx, created.ID); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	reloaded, _ := repo.GetByID(created.ID)
	if reloaded.Status != constants.CampaignStatusPaused {
		t.Fatalf("expected PAUSED, got %s", reloaded.Status)
	}

	// 已暂停的活动不能再次暂停
	if err := svc.Pause(ctx, created.ID); !errors.Is(err, ErrCampaignStatusConflict) {
		t.Fatalf("expected ErrCampaignStatusConflict, got %v", err)
	}

	if err := svc.Resume(ctx, created.ID); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	reloaded, _ = repo.GetByID(created.ID)
	if reloaded.Status != constants.CampaignStatusActive {
		t.Fatalf("expected ACTIVE, got %s", reloaded.Status)
	}

	if err := svc.Resume(ctx, created.ID); !errors.Is(err, ErrCampaignStatusConflict) {
		t.Fatalf("resume of a running campaign should conflict, got %v", err)
	}
}

func TestCampaignAdminDelete(t *testing.T) {
	svc, repo := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded != nil {
		t.Fatalf("deleted campaign should be hidden")
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
