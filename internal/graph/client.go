package graph

import (
	"context"
	"errors"
)

// Client is the subset of a Bolt driver the profile store needs. Neo4j and
// Neptune's openCypher endpoint both satisfy it through the same driver.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the records returned by one statement.
type Result struct {
	Records []Record
}

// Record maps returned column names to values.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// Validate reports whether the options are usable for dialing.
func (o Options) Validate() error {
	if o.URI == "" {
		return ErrMissingURI
	}
	return nil
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
