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

	"github.com/ecodeclub/eshop/internal/product/internal/domain"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("商品不存在")

type ProductDAO interface {
	FindByID(ctx context.Context, id int64) (Product, error)
	FindOnShelfByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (int64, error)
}

type ProductGORMDAO struct {
	db *egorm.Component
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &ProductGORMDAO{db: db}
}

func (d *ProductGORMDAO) FindByID(ctx context.Context, id int64) (Product, error) {
	var res Product
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, id)
	}
	return res, err
}

// FindOnShelfByID 下架的商品与不存在的商品对调用方而言都是"不可购买"
func (d *ProductGORMDAO) FindOnShelfByID(ctx context.Context, id int64) (Product, error) {
	var res Product
	err := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.StatusOnShelf.ToUint8()).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, id)
	}
	return res, err
}

func (d *ProductGORMDAO) Create(ctx context.Context, p Product) (int64, error) {
	now := time.Now()
	p.Utime, p.Ctime = now.UnixMilli(), now.UnixMilli()
	return p.Id, d.db.WithContext(ctx).Create(&p).Error
}

type Product struct {
	Id     int64  `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	ShopID int64  `gorm:"column:shop_id;not null;index:idx_shop_id;comment:所属店铺ID"`
	Name   string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Image  string `gorm:"type:varchar(512);not null;comment:商品缩略图,CDN绝对路径"`
	Price  int64  `gorm:"not null;comment:商品单价;最小货币单位"`
	Weight int64  `gorm:"not null;comment:单件重量,单位克"`
	Status uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:状态 1=下架 2=上架"`
	Ctime  int64
	Utime  int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Product{})
}
