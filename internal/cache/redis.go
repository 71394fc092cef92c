package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flyhigh/config"
	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the order-service side: a read-through cache for flight
// detail fetched from the seat manager.
type RedisCache struct {
	client    *redis.Client
	detailTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, detailTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		detailTTL: detailTTL,
	}
}

func (c *RedisCache) GetFlightDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	data, err := c.client.Get(ctx, flightDetailKey(flight)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var detail inventory.FlightDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *RedisCache) SetFlightDetail(ctx context.Context, detail *inventory.FlightDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightDetailKey(detail.Flight), payload, c.detailTTL).Err()
}

func flightDetailKey(flight string) string {
	return fmt.Sprintf("cache:flight:%s", flight)
}

// SeatStore is the seat-manager side: the source of truth for per
// flight/class seat counters plus the stored flight detail.
type SeatStore struct {
	client *redis.Client
}

func NewSeatStore(cfg config.RedisConfig) *SeatStore {
	return &SeatStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// reserveScript decrements the counter only when enough seats remain, so two
// concurrent reservations cannot both take the last seat.
var reserveScript = redis.NewScript(`
local avail = redis.call('GET', KEYS[1])
if not avail then return -1 end
if tonumber(avail) < tonumber(ARGV[1]) then return 0 end
redis.call('DECRBY', KEYS[1], ARGV[1])
return 1
`)

var releaseScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
redis.call('INCRBY', KEYS[1], ARGV[1])
return 1
`)

type ReserveResult int

const (
	ReserveUnknownFlight ReserveResult = iota
	ReserveRefused
	ReserveOK
)

func (s *SeatStore) Reserve(ctx context.Context, flight, classType string, number int) (ReserveResult, error) {
	res, err := reserveScript.Run(ctx, s.client, []string{seatsKey(flight, classType)}, number).Int()
	if err != nil {
		return ReserveRefused, err
	}
	switch res {
	case -1:
		return ReserveUnknownFlight, nil
	case 0:
		return ReserveRefused, nil
	default:
		return ReserveOK, nil
	}
}

func (s *SeatStore) Release(ctx context.Context, flight, classType string, number int) (bool, error) {
	res, err := releaseScript.Run(ctx, s.client, []string{seatsKey(flight, classType)}, number).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *SeatStore) Available(ctx context.Context, flight, classType string) (int, error) {
	n, err := s.client.Get(ctx, seatsKey(flight, classType)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *SeatStore) SetAvailable(ctx context.Context, flight, classType string, number int) error {
	return s.client.Set(ctx, seatsKey(flight, classType), number, 0).Err()
}

func (s *SeatStore) GetDetail(ctx context.Context, flight string) (*inventory.FlightDetail, error) {
	data, err := s.client.Get(ctx, detailKey(flight)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var detail inventory.FlightDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *SeatStore) SetDetail(ctx context.Context, detail *inventory.FlightDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, detailKey(detail.Flight), payload, 0).Err()
}

func seatsKey(flight, classType string) string {
	return fmt.Sprintf("seats:%s:%s", flight, classType)
}

func detailKey(flight string) string {
	return fmt.Sprintf("flight:%s", flight)
}
