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

package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrInventoryNotFound = errors.New("库存记录不存在")

// InsufficientStockError 库存不足,携带商品ID与当时读到的可用数量供调用方渲染提示。
// Available 是失败事务内的一次普通读,并发下只是近似值,不参与任何扣减判断。
type InsufficientStockError struct {
	ProductID int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("库存不足: product_id=%d, 可用=%d", e.ProductID, e.Available)
}

type ReserveItem struct {
	ProductID int64
	Quantity  int64
}

type InventoryDAO interface {
	FindByProductID(ctx context.Context, productID int64) (Inventory, error)
	Upsert(ctx context.Context, inv Inventory) error
	// Reserve 整批预占,任意一项不足则全部回滚
	Reserve(ctx context.Context, items []ReserveItem) error
	// Release 整批释放,返回 sold 被钳位到 0 的商品ID
	Release(ctx context.Context, items []ReserveItem) ([]int64, error)
}

type InventoryGORMDAO struct {
	db *egorm.Component
}

func NewInventoryGORMDAO(db *egorm.Component) InventoryDAO {
	return &InventoryGORMDAO{db: db}
}

func (d *InventoryGORMDAO) FindByProductID(ctx context.Context, productID int64) (Inventory, error) {
	var res Inventory
	err := d.db.WithContext(ctx).Where("product_id = ?", productID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Inventory{}, fmt.Errorf("%w: product_id=%d", ErrInventoryNotFound, productID)
	}
	return res, err
}

func (d *InventoryGORMDAO) Upsert(ctx context.Context, inv Inventory) error {
	now := time.Now().UnixMilli()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Inventory
		res := tx.Where(Inventory{ProductID: inv.ProductID}).
			Attrs(Inventory{Stock: inv.Stock, Sold: inv.Sold, Ctime: now, Utime: now}).
			FirstOrCreate(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Model(&Inventory{}).
				Where("product_id = ?", inv.ProductID).
				Updates(map[string]any{
					"stock": inv.Stock,
					"sold":  inv.Sold,
					"utime": now,
				}).Error
		}
		return nil
	})
}

// Reserve 用条件更新(stock >= quantity 写进 WHERE)代替先读后写,
// 并发下不会超卖:争抢最后一件库存的多个请求只有一个能更新成功。
func (d *InventoryGORMDAO) Reserve(ctx context.Context, items []ReserveItem) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		for _, it := range items {
			res := tx.Model(&Inventory{}).
				Where("product_id = ? AND stock >= ?", it.ProductID, it.Quantity).
				Updates(map[string]any{
					"stock": gorm.Expr("stock - ?", it.Quantity),
					"sold":  gorm.Expr("sold + ?", it.Quantity),
					"utime": now,
				})
			if res.Error != nil {
				return fmt.Errorf("预占库存失败: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				var cur Inventory
				err := tx.Where("product_id = ?", it.ProductID).First(&cur).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product_id=%d", ErrInventoryNotFound, it.ProductID)
				}
				if err != nil {
					return err
				}
				// 返回 error 使整个事务回滚,已扣减的前序条目一并恢复
				return &InsufficientStockError{ProductID: it.ProductID, Available: cur.Stock}
			}
		}
		return nil
	})
}

func (d *InventoryGORMDAO) Release(ctx context.Context, items []ReserveItem) ([]int64, error) {
	var clamped []int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		for _, it := range items {
			res := tx.Model(&Inventory{}).
				Where("product_id = ? AND sold >= ?", it.ProductID, it.Quantity).
				Updates(map[string]any{
					"stock": gorm.Expr("stock + ?", it.Quantity),
					"sold":  gorm.Expr("sold - ?", it.Quantity),
					"utime": now,
				})
			if res.Error != nil {
				return fmt.Errorf("释放库存失败: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				// sold 不够减,钳位到 0,库存照常归还
				er := tx.Model(&Inventory{}).
					Where("product_id = ?", it.ProductID).
					Updates(map[string]any{
						"stock": gorm.Expr("stock + ?", it.Quantity),
						"sold":  0,
						"utime": now,
					}).Error
				if er != nil {
					return fmt.Errorf("释放库存失败: %w", er)
				}
				clamped = append(clamped, it.ProductID)
			}
		}
		return nil
	})
	return clamped, err
}

type Inventory struct {
	Id        int64 `gorm:"primaryKey;autoIncrement;comment:库存自增ID"`
	ProductID int64 `gorm:"column:product_id;not null;uniqueIndex:uniq_inventory_product_id;comment:商品ID"`
	Stock     int64 `gorm:"not null;comment:可用库存,始终>=0"`
	Sold      int64 `gorm:"not null;comment:累计售出"`
	Ctime     int64
	Utime     int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Inventory{})
}
