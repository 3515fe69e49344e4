package service

import (
	"strings"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/repository"
)

// StoreService 门店与设备服务
type StoreService struct {
	storeRepo   repository.StoreRepository
	machineRepo repository.MachineRepository
}

// NewStoreService 创建门店服务
func NewStoreService(storeRepo repository.StoreRepository, machineRepo repository.MachineRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo, machineRepo: machineRepo}
}

// GetStore 获取门店详情
func (s *StoreService) GetStore(id string) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// ListStores 获取门店列表
func (s *StoreService) ListStores(filter repository.StoreListFilter) ([]models.Store, int64, error) {
	return s.storeRepo.List(filter)
}

// ListMachines 获取门店下的设备列表
func (s *StoreService) ListMachines(storeID string) ([]models.Machine, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return s.machineRepo.ListByStore(storeID)
}

// CreateStore 创建门店
func (s *StoreService) CreateStore(store *models.Store) error {
	if store == nil || strings.TrimSpace(store.Name) == "" {
		return ErrStoreInvalid
	}
	if store.Status == "" {
		store.Status = constants.StoreStatusActive
	}
	if store.Timezone == "" {
		store.Timezone = constants.DefaultEvaluationTimezone
	}
	return s.storeRepo.Create(store)
}

// CreateMachine 创建设备
func (s *StoreService) CreateMachine(machine *models.Machine) error {
	if machine == nil {
		return ErrMachineSelectionInvalid
	}
	if machine.Type != constants.MachineTypeWasher && machine.Type != constants.MachineTypeDryer {
		return ErrMachineSelectionInvalid
	}
	store, err := s.storeRepo.GetByID(machine.StoreID)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrStoreNotFound
	}
	return s.machineRepo.Create(machine)
}
