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

	"github.com/ecodeclub/eshop/internal/product/internal/domain"
	"github.com/ecodeclub/eshop/internal/product/internal/repository/dao"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindOnShelfByID(ctx context.Context, id int64) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (int64, error)
}

func NewRepository(d dao.ProductDAO) ProductRepository {
	return &productRepository{d: d}
}

type productRepository struct {
	d dao.ProductDAO
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	p, err := r.d.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return r.toDomain(p), nil
}

func (r *productRepository) FindOnShelfByID(ctx context.Context, id int64) (domain.Product, error) {
	p, err := r.d.FindOnShelfByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return r.toDomain(p), nil
}

func (r *productRepository) Create(ctx context.Context, p domain.Product) (int64, error) {
	return r.d.Create(ctx, dao.Product{
		ShopID: p.ShopID,
		Name:   p.Name,
		Image:  p.Image,
		Price:  p.Price,
		Weight: p.Weight,
		Status: p.Status.ToUint8(),
	})
}

func (r *productRepository) toDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:     p.Id,
		ShopID: p.ShopID,
		Name:   p.Name,
		Image:  p.Image,
		Price:  p.Price,
		Weight: p.Weight,
		Status: domain.Status(p.Status),
	}
}
