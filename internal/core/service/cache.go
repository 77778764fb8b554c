package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/metrics"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

const (
	cacheKeyPrefix = "cobranza"
	allEmpresas    = "all"
)

// cacheKey builds "cobranza:{org}:{empresa}:{resource}:{variant}". Segments
// are query-escaped so caller input cannot inject separators or globs.
func cacheKey(orgID, empresaID, resource, variant string) string {
	return cacheKeyPrefix + ":" + url.QueryEscape(orgID) + ":" + empresaSegment(empresaID) + ":" + resource + ":" + variant
}

// empresaPattern matches every cached read of one organization/empresa pair.
func empresaPattern(orgID, empresaID string) string {
	return cacheKeyPrefix + ":" + url.QueryEscape(orgID) + ":" + empresaSegment(empresaID) + ":*"
}

// organizationPattern matches every cached read of an organization.
func organizationPattern(orgID string) string {
	return cacheKeyPrefix + ":" + url.QueryEscape(orgID) + ":*"
}

func empresaSegment(empresaID string) string {
	if empresaID == "" {
		return allEmpresas
	}
	return url.QueryEscape(empresaID)
}

// getOrSet is the cache-aside read. Cache failures are logged and treated as
// misses. A nil result from load is returned as is and never stored.
func getOrSet[T any](
	ctx context.Context,
	cache ports.Cache,
	log zerolog.Logger,
	resource, key string,
	ttl time.Duration,
	load func(context.Context) (*T, error),
) (*T, error) {
	raw, err := cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		uerr := json.Unmarshal(raw, &v)
		if uerr == nil {
			metrics.CacheRequestsTotal.WithLabelValues(resource, "hit").Inc()
			return &v, nil
		}
		log.Warn().Err(uerr).Str("key", key).Msg("discarding undecodable cache entry")
		metrics.CacheRequestsTotal.WithLabelValues(resource, "error").Inc()
	case errors.Is(err, ports.ErrCacheMiss):
		metrics.CacheRequestsTotal.WithLabelValues(resource, "miss").Inc()
	default:
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		metrics.CacheRequestsTotal.WithLabelValues(resource, "error").Inc()
	}

	v, err := load(ctx)
	if err != nil || v == nil {
		return v, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, nil
	}
	if err := cache.Set(ctx, key, payload, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return v, nil
}

// invalidate removes every pattern, logging failures.
func invalidate(ctx context.Context, cache ports.Cache, log zerolog.Logger, patterns ...string) {
	for _, p := range patterns {
		if err := cache.RemoveByPattern(ctx, p); err != nil {
			log.Warn().Err(err).Str("pattern", p).Msg("cache invalidation failed")
		}
	}
}
