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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/eshop/internal/inventory/internal/domain"
	"github.com/ecodeclub/eshop/internal/inventory/internal/repository/dao"
)

type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID int64) (domain.Inventory, error)
	Save(ctx context.Context, inv domain.Inventory) error
	Reserve(ctx context.Context, items []domain.ReservationItem) error
	Release(ctx context.Context, items []domain.ReservationItem) ([]int64, error)
}

func NewRepository(d dao.InventoryDAO) InventoryRepository {
	return &inventoryRepository{d: d}
}

type inventoryRepository struct {
	d dao.InventoryDAO
}

func (r *inventoryRepository) FindByProductID(ctx context.Context, productID int64) (domain.Inventory, error) {
	inv, err := r.d.FindByProductID(ctx, productID)
	if err != nil {
		return domain.Inventory{}, err
	}
	return domain.Inventory{
		ProductID: inv.ProductID,
		Stock:     inv.Stock,
		Sold:      inv.Sold,
	}, nil
}

func (r *inventoryRepository) Save(ctx context.Context, inv domain.Inventory) error {
	return r.d.Upsert(ctx, dao.Inventory{
		ProductID: inv.ProductID,
		Stock:     inv.Stock,
		Sold:      inv.Sold,
	})
}

func (r *inventoryRepository) Reserve(ctx context.Context, items []domain.ReservationItem) error {
	return r.d.Reserve(ctx, r.toEntities(items))
}

func (r *inventoryRepository) Release(ctx context.Context, items []domain.ReservationItem) ([]int64, error) {
	return r.d.Release(ctx, r.toEntities(items))
}

func (r *inventoryRepository) toEntities(items []domain.ReservationItem) []dao.ReserveItem {
	return slice.Map(items, func(idx int, src domain.ReservationItem) dao.ReserveItem {
		return dao.ReserveItem{
			ProductID: src.ProductID,
			Quantity:  src.Quantity,
		}
	})
}
