package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/observability"
)

// Response is a memoized 2xx JSON object, kept byte for byte as the handler
// wrote it.
type Response struct {
	Status int
	Body   []byte
}

// KeyFunc derives the cache key for a request. An empty key bypasses the
// cache for that request.
type KeyFunc func(c *gin.Context) string

// DefaultKey keys requests by method and request URI.
func DefaultKey(c *gin.Context) string {
	return c.Request.Method + ":" + c.Request.URL.RequestURI()
}

// StoreStatus reports what happened to a handler's response. Callers may
// ignore it: caching never fails a request.
type StoreStatus int

const (
	StoreSkipped StoreStatus = iota
	Stored
	StoreFailed
)

func (s StoreStatus) String() string {
	switch s {
	case Stored:
		return "stored"
	case StoreFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// ResponseCache memoizes successful JSON responses of a route.
type ResponseCache struct {
	store  *Store[Response]
	key    KeyFunc
	logger *logger.Logger
}

// NewResponseCache creates a response cache bounded by capacity with the
// given route TTL. A nil key uses DefaultKey.
func NewResponseCache(name string, capacity int, ttl TTL, key KeyFunc, log *logger.Logger, opts ...Option) (*ResponseCache, error) {
	lifetime, err := ttl.Duration()
	if err != nil {
		return nil, err
	}
	store, err := NewStore[Response](name, capacity, lifetime, opts...)
	if err != nil {
		return nil, err
	}
	if key == nil {
		key = DefaultKey
	}
	return &ResponseCache{store: store, key: key, logger: log}, nil
}

// Len returns the number of memoized responses.
func (rc *ResponseCache) Len() int {
	return rc.store.Len()
}

// TTL returns how long a response stays fresh.
func (rc *ResponseCache) TTL() time.Duration {
	return rc.store.TTL()
}

// Purge drops every memoized response.
func (rc *ResponseCache) Purge() {
	rc.store.Purge()
}

// Middleware serves fresh entries without invoking the rest of the chain and
// memoizes 2xx responses of the handlers that run.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rc.key(c)
		if key == "" {
			c.Next()
			return
		}

		if entry, ok := rc.store.Get(key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(entry.Value.Status, "application/json; charset=utf-8", annotate(entry.Value.Body, rc.store.Age(entry)))
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Header("X-Cache", "MISS")
		c.Next()

		rc.Store(key, recorder.Status(), recorder.body.Bytes())
	}
}

// Store memoizes body under key when status is 2xx and body is a JSON
// object. Parse failures are logged and reported, never returned.
func (rc *ResponseCache) Store(key string, status int, body []byte) StoreStatus {
	if status < 200 || status > 299 {
		observability.CacheStores.WithLabelValues(rc.store.Name(), StoreSkipped.String()).Inc()
		return StoreSkipped
	}

	body = bytes.TrimSpace(body)
	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		if err == nil {
			err = errNotObject
		}
		rc.logger.Warnf("response cache %s: not caching %s: %v", rc.store.Name(), key, err)
		observability.CacheStores.WithLabelValues(rc.store.Name(), StoreFailed.String()).Inc()
		return StoreFailed
	}

	rc.store.Set(key, Response{Status: status, Body: bytes.Clone(body)})
	rc.logger.Debugf("response cache %s: stored %s", rc.store.Name(), key)
	return Stored
}

// annotate appends the cache markers to a stored object without
// re-encoding it.
func annotate(body []byte, age time.Duration) []byte {
	inner := bytes.TrimSpace(body[:len(body)-1])
	out := make([]byte, 0, len(body)+40)
	out = append(out, inner...)
	if len(inner) > 1 {
		out = append(out, ',')
	}
	out = append(out, `"_cached":true,"_cache_age":`...)
	out = strconv.AppendInt(out, int64(age/time.Second), 10)
	return append(out, '}')
}

var errNotObject = errors.New("response body is not a JSON object")

// bodyRecorder tees everything written to the client into a buffer.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
