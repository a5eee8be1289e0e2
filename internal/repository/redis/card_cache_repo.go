package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/repository/redis/converter"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/clients"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CardCacheRepo кэширует карточки товаров с TTL.
type CardCacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductCardConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCardCacheRepo(client *clients.RedisClient, conv converter.ProductCardConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CardCacheRepo {
	return &CardCacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProductCard возвращает закэшированную карточку или nil при промахе.
// Битые и несоответствующие ключу значения вытесняются и считаются промахом.
func (c *CardCacheRepo) GetProductCard(ctx context.Context, productID string) (*usecase.ProductCard, error) {
	key := c.cardKey(productID)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ProductCardRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Card cache unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		c.evict(key)
		return nil, nil
	}

	if model.ID != productID {
		c.logger.Warnf("Card cache ID mismatch: key_id: %s, model_id: %s", productID, model.ID)
		c.evict(key)
		return nil, nil
	}

	return c.conv.ToUseCase(&model), nil
}

// SetProductCard кэширует карточку с заданным TTL.
func (c *CardCacheRepo) SetProductCard(ctx context.Context, card *usecase.ProductCard) error {
	data, err := json.Marshal(c.conv.ToRedisModel(card))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.cardKey(card.ID), data, c.cfg.CardTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProductCards удаляет карточки из кэша по ID товаров
func (c *CardCacheRepo) DeleteProductCards(ctx context.Context, productIDs []string) error {
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = c.cardKey(id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// evict удаляет ключ в фоне, ошибки только логируются
func (c *CardCacheRepo) evict(key string) {
	if err := c.client.Client.Del(context.Background(), key).Err(); err != nil {
		c.logger.Warnf("Card cache del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// cardKey возвращает Redis-ключ карточки товара
func (c *CardCacheRepo) cardKey(productID string) string {
	return fmt.Sprintf("product:card:%s", productID)
}
