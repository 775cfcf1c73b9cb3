package converter

import "github.com/DRSN-tech/marketplace-sync/internal/domain"

type ShopConverter interface {
	ToRedisModel(entity *domain.Shop) *ShopRedisModel
	ToEntity(model *ShopRedisModel) *domain.Shop
}

type shopConverter struct{}

func NewShopConverter() ShopConverter {
	return shopConverter{}
}

func (shopConverter) ToRedisModel(entity *domain.Shop) *ShopRedisModel {
	if entity == nil {
		return nil
	}

	return &ShopRedisModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Slug:      entity.Slug,
		Token:     entity.Token,
		CreatedAt: entity.CreatedAt,
	}
}

func (shopConverter) ToEntity(model *ShopRedisModel) *domain.Shop {
	if model == nil {
		return nil
	}

	return &domain.Shop{
		ID:        model.ID,
		Name:      model.Name,
		Slug:      model.Slug,
		Token:     model.Token,
		CreatedAt: model.CreatedAt,
	}
}
