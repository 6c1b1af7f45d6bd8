package mapbox

import (
	"context"

	"golang.org/x/sync/singleflight"

	"latribu-backend/internal/cache"
)

// ReverseGeocoder источник адресов по координатам
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Geocoder обратное геокодирование с ограниченным кэшем и склейкой одинаковых запросов
type Geocoder struct {
	client ReverseGeocoder
	store  cache.Store[string]
	group  singleflight.Group
}

func NewGeocoder(client ReverseGeocoder, store cache.Store[string]) *Geocoder {
	return &Geocoder{client: client, store: store}
}

// Reverse адрес точки. Одновременные запросы одной округленной точки разделяют один вызов API;
// отмена контекста одним из ждущих не прерывает общий запрос.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	key := GeocodeKey(lat, lng)
	if addr, ok := g.store.Get(key); ok {
		return addr, nil
	}

	ch := g.group.DoChan(key, func() (interface{}, error) {
		addr, err := g.client.ReverseGeocode(context.WithoutCancel(ctx), round4(lat), round4(lng))
		if err != nil {
			return "", err
		}
		g.store.Set(key, addr)
		return addr, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Clear очищает кэш адресов
func (g *Geocoder) Clear() {
	g.store.Clear()
}

// Len количество адресов в кэше
func (g *Geocoder) Len() int {
	return g.store.Len()
}
