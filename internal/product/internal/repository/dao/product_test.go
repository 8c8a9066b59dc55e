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

//go:build e2e

package dao_test

import (
	"context"
	"testing"

	"github.com/ecodeclub/eshop/internal/product/internal/domain"
	"github.com/ecodeclub/eshop/internal/product/internal/repository/dao"
	testioc "github.com/ecodeclub/eshop/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestProductDAO(t *testing.T) {
	suite.Run(t, new(ProductDAOTestSuite))
}

type ProductDAOTestSuite struct {
	suite.Suite
	db  *egorm.Component
	dao dao.ProductDAO
}

func (s *ProductDAOTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	err := dao.InitTables(s.db)
	require.NoError(s.T(), err)
	s.dao = dao.NewProductGORMDAO(s.db)
}

func (s *ProductDAOTestSuite) TearDownTest() {
	err := s.db.Exec("TRUNCATE TABLE `products`").Error
	require.NoError(s.T(), err)
}

func (s *ProductDAOTestSuite) TestFindByID_NotFound() {
	t := s.T()
	_, err := s.dao.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, dao.ErrProductNotFound)
}

func (s *ProductDAOTestSuite) TestFindOnShelfByID() {
	t := s.T()
	id, err := s.dao.Create(context.Background(), dao.Product{
		ShopID: 10,
		Name:   "Áo thun",
		Image:  "tshirt.png",
		Price:  50000,
		Weight: 300,
		Status: domain.StatusOnShelf.ToUint8(),
	})
	require.NoError(t, err)

	p, err := s.dao.FindOnShelfByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Áo thun", p.Name)

	// 下架后对下单校验而言等同于不存在
	err = s.db.Model(&dao.Product{}).Where("id = ?", id).
		Update("status", domain.StatusOffShelf.ToUint8()).Error
	require.NoError(t, err)

	_, err = s.dao.FindOnShelfByID(context.Background(), id)
	assert.ErrorIs(t, err, dao.ErrProductNotFound)

	// 全量查询不关心上下架状态
	p, err = s.dao.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffShelf.ToUint8(), p.Status)
}
