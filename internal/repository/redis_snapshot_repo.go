package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisConfig はRedis接続の設定。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient は設定からRedisクライアントを生成し、疎通確認を行う。
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisSnapshotRepo はRedisの単一キーにスナップショットを保存するリポジトリ。
type RedisSnapshotRepo struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotRepo はRedisSnapshotRepoを生成する。
func NewRedisSnapshotRepo(client *redis.Client) *RedisSnapshotRepo {
	return &RedisSnapshotRepo{
		client: client,
		key:    SessionNamespace,
	}
}

// Save はスナップショットを有効期限なしで上書き保存する。
func (r *RedisSnapshotRepo) Save(ctx context.Context, snapshot model.Session) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Load はスナップショットを取得する。キーが存在しない場合はnilを返す。
func (r *RedisSnapshotRepo) Load(ctx context.Context) (*model.Session, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	return decodeSnapshot(b)
}

// compile-time interface check
var _ SessionSnapshotRepository = (*RedisSnapshotRepo)(nil)
