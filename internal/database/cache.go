package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder is a small fluent wrapper over the valkey client for the
// common get/set/delete-one-key patterns used by the repositories and the
// session service.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  string
	ttl    time.Duration
	ctx    context.Context
	err    error
}

func NewCacheBuilder(client CacheClient, key string) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    key,
		ctx:    context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(v any) *CacheBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.value = string(data)
	return b
}

func (b *CacheBuilder) WithValue(value string) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	b.ctx = ctx
	return b
}

func (b *CacheBuilder) Set() error {
	if b.err != nil {
		return b.err
	}
	if b.client == nil {
		return errors.New("cache client is nil")
	}

	builder := b.client.B().Set().Key(b.key).Value(b.value)
	if b.ttl > 0 {
		return b.client.Do(b.ctx, builder.Ex(b.ttl).Build()).Error()
	}
	return b.client.Do(b.ctx, builder.Build()).Error()
}

// Get unmarshals the cached value into dest. The second return reports a
// miss; errors are reserved for transport and decoding failures.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.client == nil {
		return false, errors.New("cache client is nil")
	}

	resp := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	data, err := resp.AsBytes()
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return errors.New("cache client is nil")
	}
	return b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error()
}
