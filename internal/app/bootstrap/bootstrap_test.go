package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/flight-intent/internal/archive"
	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/internal/conversation"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

func TestBuildRedisClientDisabledReturnsNil(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client when REDIS_ADDR is empty")
	}
	if client := BuildRedisClient(context.Background(), nil, nil, false); client != nil {
		t.Fatalf("expected nil client for nil config")
	}
}

func TestBuildRedisClientVerifiesConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr()}

	client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true)
	if client == nil {
		t.Fatalf("expected client for reachable redis")
	}
	defer client.Close()

	mr.Close()
	if client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true); client != nil {
		t.Fatalf("expected nil client when ping fails")
	}
}

func TestBuildSessionStore(t *testing.T) {
	cfg := &appconfig.Config{SessionTTL: time.Hour}
	if _, ok := BuildSessionStore(nil, cfg, logging.New("error")).(*conversation.MemoryStore); !ok {
		t.Fatalf("expected memory store without redis")
	}

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, nil, false)
	defer client.Close()
	if _, ok := BuildSessionStore(client, cfg, logging.New("error")).(*conversation.RedisStore); !ok {
		t.Fatalf("expected redis store with a client")
	}
}

func TestBuildPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	if pool := BuildPostgresPool(context.Background(), &appconfig.Config{}, logging.New("error")); pool != nil {
		t.Fatalf("expected nil pool for empty URL")
	}
}

func TestBuildArchiver(t *testing.T) {
	logger := logging.New("error")
	if a := BuildArchiver(&appconfig.Config{}, nil, nil, logger); a != nil {
		t.Fatalf("expected nil archiver when nothing is configured")
	}

	cfg := &appconfig.Config{ArchiveBucket: "intents"}
	if a := BuildArchiver(cfg, nil, nil, logger); a != nil {
		t.Fatalf("expected nil archiver without an s3 client")
	}

	a := BuildArchiver(cfg, nil, noopS3{}, logger)
	if _, ok := a.(*archive.ObjectStore); !ok {
		t.Fatalf("expected object store, got %T", a)
	}
}

type noopS3 struct{}

func (noopS3) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}
