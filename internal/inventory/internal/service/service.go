// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"

	"github.com/ecodeclub/eshop/internal/inventory/internal/domain"
	"github.com/ecodeclub/eshop/internal/inventory/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

//go:generate mockgen -source=./service.go -package=inventorymocks -destination=../../mocks/inventory.mock.go -typed Service
type Service interface {
	FindByProductID(ctx context.Context, productID int64) (domain.Inventory, error)
	Save(ctx context.Context, inv domain.Inventory) error
	// ReserveAll 整批预占库存,全部成功或全部不生效
	ReserveAll(ctx context.Context, items []domain.ReservationItem) error
	// ReleaseAll 整批释放库存,总是成功
	ReleaseAll(ctx context.Context, items []domain.ReservationItem) error
}

func NewService(repo repository.InventoryRepository) Service {
	return &service{repo: repo, logger: elog.DefaultLogger}
}

type service struct {
	repo   repository.InventoryRepository
	logger *elog.Component
}

func (s *service) FindByProductID(ctx context.Context, productID int64) (domain.Inventory, error) {
	return s.repo.FindByProductID(ctx, productID)
}

func (s *service) Save(ctx context.Context, inv domain.Inventory) error {
	return s.repo.Save(ctx, inv)
}

func (s *service) ReserveAll(ctx context.Context, items []domain.ReservationItem) error {
	return s.repo.Reserve(ctx, items)
}

func (s *service) ReleaseAll(ctx context.Context, items []domain.ReservationItem) error {
	clamped, err := s.repo.Release(ctx, items)
	if err != nil {
		return err
	}
	for _, pid := range clamped {
		s.logger.Warn("释放库存时sold不足,已钳位到0", elog.Int64("product_id", pid))
	}
	return nil
}
