package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/domain"
	"github.com/einspot/storefront/internal/repository/redis/converter"
	"github.com/einspot/storefront/pkg/clients"
	"github.com/einspot/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartSlotRepo — долговременный слот корзины в Redis.
// Значение слота — JSON-массив строк корзины, перезаписываемый целиком.
type CartSlotRepo struct {
	client *clients.RedisClient
	conv   converter.CartLineConverter
	cfg    *cfg.CartCfg
}

func NewCartSlotRepo(client *clients.RedisClient, conv converter.CartLineConverter, cfg *cfg.CartCfg) *CartSlotRepo {
	return &CartSlotRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
	}
}

// Load читает слот корзины. Отсутствующий слот — пустая корзина.
// Непарсящееся или не-массивное значение — e.ErrCartSlotCorrupt.
func (c *CartSlotRepo) Load(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	data, err := c.client.Client.Get(ctx, c.slotKey(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return []domain.CartLine{}, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.CartLineRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrCartSlotCorrupt)
	}

	return c.conv.ToArrEntity(models), nil
}

// Save перезаписывает слот целиком текущей последовательностью строк.
func (c *CartSlotRepo) Save(ctx context.Context, cartID string, lines []domain.CartLine) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(lines))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.slotKey(cartID), data, c.cfg.SlotTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Clear удаляет слот корзины.
func (c *CartSlotRepo) Clear(ctx context.Context, cartID string) error {
	if err := c.client.Client.Del(ctx, c.slotKey(cartID)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// slotKey возвращает Redis-ключ слота корзины
func (c *CartSlotRepo) slotKey(cartID string) string {
	return fmt.Sprintf("cart:slot:%s", cartID)
}
