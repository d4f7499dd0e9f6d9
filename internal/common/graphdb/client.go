// Package graphdb is a thin Bolt client used to mirror the visa catalog into Neo4j.
package graphdb

import (
	"context"
	"errors"

	"visa-pathway-workers/internal/common/config"
)

var ErrMissingURI = errors.New("graph URI is required")

type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

type Result struct {
	Records []Record
}

type Record map[string]any

// Int64 reads an integer column, reporting false when absent or of another type.
func (r Record) Int64(key string) (int64, bool) {
	v, ok := r[key].(int64)
	return v, ok
}

func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

func OptionsFromConfig(cfg config.Neo4jConfig) Options {
	return Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	}
}
