package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedClient memoises successful completions keyed by the full request.
// Identical utterances re-sent across turns then skip the provider call.
// Replies without a usable JSON object are returned but never cached.
type CachedClient struct {
	next  Client
	cache *expirable.LRU[string, Response]
}

// NewCachedClient wraps next with an LRU of at most size entries that expire
// after ttl. A non-positive size disables caching and returns next unchanged.
func NewCachedClient(next Client, size int, ttl time.Duration) Client {
	if size <= 0 {
		return next
	}
	return &CachedClient{
		next:  next,
		cache: expirable.NewLRU[string, Response](size, nil, ttl),
	}
}

func (c *CachedClient) Complete(ctx context.Context, req Request) (Response, error) {
	key := requestKey(req)
	if resp, ok := c.cache.Get(key); ok {
		return resp, nil
	}
	resp, err := c.next.Complete(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if cacheable(resp.Text) {
		c.cache.Add(key, resp)
	}
	return resp, nil
}

// Len reports the number of cached completions.
func (c *CachedClient) Len() int {
	return c.cache.Len()
}

func cacheable(text string) bool {
	obj, err := ExtractJSONObject(text)
	return err == nil && json.Valid([]byte(obj))
}

func requestKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%g\x00%g\x00", req.Model, req.MaxTokens, req.Temperature, req.TopP)
	for _, s := range req.System {
		fmt.Fprintf(h, "s:%s\x00", s)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(h, "%s:%s\x00", m.Role, m.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}
