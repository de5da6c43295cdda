package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient envuelve el cliente Redis usado como caché de búsquedas
type RedisClient struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewRedisClient создает новый Redis клиент
func NewRedisClient(client redis.UniversalClient) *RedisClient {
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// Set guarda el valor con TTL; lo que no es string se guarda como JSON
func (r *RedisClient) Set(key string, value interface{}, ttl time.Duration) error {
	var data string
	switch v := value.(type) {
	case string:
		data = v
	default:
		jsonData, err := json.Marshal(value)
		if err != nil {
			return err
		}
		data = string(jsonData)
	}

	return r.client.Set(r.ctx, key, data, ttl).Err()
}

// GetJSON получает и парсит JSON значение
func (r *RedisClient) GetJSON(key string, dest interface{}) error {
	data, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// DeletePattern borra todas las claves que coinciden con pattern usando SCAN
func (r *RedisClient) DeletePattern(pattern string) error {
	iter := r.client.Scan(r.ctx, 0, pattern, 200).Iterator()
	var batch []string
	for iter.Next(r.ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			if err := r.client.Del(r.ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(r.ctx, batch...).Err()
	}
	return nil
}

// IsMiss indica que la clave no existe; un error de conexión no es un miss
func (r *RedisClient) IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
