package searchintent

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbPostgres "github.com/kailas-cloud/searchintent/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/searchintent/internal/db/redis"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/filter"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/query"
	"github.com/kailas-cloud/searchintent/internal/domain/intent/result"
	"github.com/kailas-cloud/searchintent/internal/domain/slug"
	entityrepo "github.com/kailas-cloud/searchintent/internal/repository/entity"
	"github.com/kailas-cloud/searchintent/internal/repository/entitycache"
	"github.com/kailas-cloud/searchintent/internal/repository/static"
	classifyuc "github.com/kailas-cloud/searchintent/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/searchintent/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// classifier is the internal interface for substitution in tests.
type classifier interface {
	Classify(ctx context.Context, q query.Query) result.Result
}

// Client is the searchintent SDK entry point. It is safe for concurrent use.
type Client struct {
	classifier classifier
	canon      Canonicalizer
	healthSvc  healthUseCase
	obs        *observer
	closers    []func()
}

// New creates a Client. Exactly one entity source is required:
// WithEntities, WithEntitiesFile or WithPostgres.
// The provided context is used for the initial connection checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	sources := 0
	for _, set := range []bool{cfg.entities != nil, cfg.entitiesFile != "", cfg.postgresDSN != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New(
			"searchintent: exactly one entity source required (use WithEntities, WithEntitiesFile or WithPostgres)",
		)
	}

	mapping, err := slug.DefaultMapping().With(cfg.overrides)
	if err != nil {
		return nil, fmt.Errorf("searchintent: slug overrides: %w", err)
	}
	precedence := classifyuc.DefaultPrecedence()
	if len(cfg.precedence) > 0 {
		if precedence, err = classifyuc.ParsePrecedence(cfg.precedence); err != nil {
			return nil, fmt.Errorf("searchintent: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{canon: Canonicalizer{mapping: mapping}, obs: obs}
	index, indexPinger, err := c.openIndex(ctx, cfg, mapping)
	if err != nil {
		c.Close()
		return nil, err
	}
	healthSvc := healthuc.New(indexPinger)

	if cfg.redisAddr != "" {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("searchintent: create cache store: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("searchintent: cache not ready: %w", err)
		}
		index = entitycache.New(index, store, cfg.cacheTTL, nil, nil)
		healthSvc.WithCache(store)
	}

	svc := classifyuc.New(index, mapping).WithPrecedence(precedence)
	if cfg.lookupTimeout > 0 {
		svc = svc.WithLookupTimeout(cfg.lookupTimeout)
	}
	c.classifier = svc
	c.healthSvc = healthSvc
	return c, nil
}

func (c *Client) openIndex(
	ctx context.Context, cfg *clientConfig, mapping slug.Mapping,
) (classifyuc.EntityIndex, healthuc.Pinger, error) {
	switch {
	case cfg.postgresDSN != "":
		pg, err := dbPostgres.OpenDSN(ctx, cfg.postgresDSN, dbPostgres.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("searchintent: connect postgres: %w", err)
		}
		c.closers = append(c.closers, func() { _ = pg.Close() })
		return entityrepo.New(pg.Conn(), mapping), pg, nil
	case cfg.entitiesFile != "":
		idx, err := static.Load(cfg.entitiesFile, mapping)
		if err != nil {
			return nil, nil, fmt.Errorf("searchintent: %w", err)
		}
		return idx, nil, nil
	default:
		idx, err := static.New(toSeed(cfg.entities), mapping)
		if err != nil {
			return nil, nil, fmt.Errorf("searchintent: %w", err)
		}
		return idx, nil, nil
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Classify resolves text to a destination. Lookup failures degrade to the
// search fallback and are not reported as errors; only invalid input is.
func (c *Client) Classify(ctx context.Context, text string, f Filter) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("classify", start, err) }()

	if f == "" {
		f = FilterAll
	}
	parsed, err := filter.Parse(string(f))
	if err != nil {
		return Result{Type: TypeSearch, URL: "/search"}, fmt.Errorf("classify: %w", err)
	}
	q, err := query.New(text, parsed)
	if err != nil {
		return Result{Type: TypeSearch, URL: "/search"}, fmt.Errorf("classify: %w", err)
	}

	r := c.classifier.Classify(ctx, q)
	res = Result{Type: ResultType(r.Type()), URL: r.URL(), MatchedName: r.MatchedName()}
	c.obs.classified(text, res)
	return res, nil
}

// Canonicalizer returns the slug conversions used by this client,
// including any WithSlugOverrides entries.
func (c *Client) Canonicalizer() Canonicalizer {
	return c.canon
}

func toSeed(e *Entities) static.Seed {
	seed := static.Seed{
		Places:     make([]static.PlaceRow, 0, len(e.Places)),
		Categories: make([]static.CategoryRow, 0, len(e.Categories)),
		Brands:     make([]static.BrandRow, 0, len(e.Brands)),
	}
	for _, p := range e.Places {
		seed.Places = append(seed.Places, static.PlaceRow{
			ID: p.ID, Name: p.Name, Slug: p.Slug, CountrySlug: p.CountrySlug,
		})
	}
	for _, cat := range e.Categories {
		seed.Categories = append(seed.Categories, static.CategoryRow{
			ID: cat.ID, Name: cat.Name, Slug: cat.Slug,
			SingularName: cat.SingularName, PluralName: cat.PluralName,
		})
	}
	for _, b := range e.Brands {
		seed.Brands = append(seed.Brands, static.BrandRow{ID: b.ID, Name: b.Name, Slug: b.Slug})
	}
	return seed
}
