package middleware

import (
	"context"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/pkg/convert"
)

// Gateway adapts the JSON-RPC client to the engine's gateway port, mapping
// each resource operation onto the middleware's <prefix>.<verb> naming.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) (*Gateway, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInternal, "middleware client cannot be nil")
	}
	return &Gateway{client: client}, nil
}

// Find runs <resource>.query with the filters rendered as [field, op, value]
// triples, the middleware's conjunctive query expression.
func (g *Gateway) Find(ctx context.Context, resource string, filters []domain.Filter) ([]domain.Record, error) {
	triples := make([]any, 0, len(filters))
	for _, f := range filters {
		triples = append(triples, []any{f.Field, f.Op, f.Value})
	}
	result, err := g.client.Call(ctx, resource+".query", triples)
	if err != nil {
		return nil, err
	}
	rows, err := convert.ToMapSlice(result)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRemoteAPIError,
			"query result is not a list of records")
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.Record(row))
	}
	return records, nil
}

func (g *Gateway) Create(ctx context.Context, resource string, payload map[string]any) (domain.Record, error) {
	result, err := g.client.Call(ctx, resource+".create", payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(result)
}

func (g *Gateway) Update(ctx context.Context, resource string, id any, patch map[string]any) (domain.Record, error) {
	result, err := g.client.Call(ctx, resource+".update", id, patch)
	if err != nil {
		return nil, err
	}
	return decodeRecord(result)
}

func (g *Gateway) Delete(ctx context.Context, resource string, args []any) error {
	_, err := g.client.Call(ctx, resource+".delete", args...)
	return err
}

func (g *Gateway) Config(ctx context.Context, resource string) (domain.Record, error) {
	result, err := g.client.Call(ctx, resource+".config")
	if err != nil {
		return nil, err
	}
	return decodeRecord(result)
}

func (g *Gateway) UpdateConfig(ctx context.Context, resource string, patch map[string]any) (domain.Record, error) {
	result, err := g.client.Call(ctx, resource+".update", patch)
	if err != nil {
		return nil, err
	}
	return decodeRecord(result)
}

// Call exposes the raw client for the generic query passthrough.
func (g *Gateway) Call(ctx context.Context, method string, args ...any) (any, error) {
	return g.client.Call(ctx, method, args...)
}

// decodeRecord tolerates the create calls that return a bare id instead of
// the full record (user.create returns the new uid).
func decodeRecord(result any) (domain.Record, error) {
	if result == nil {
		return domain.Record{}, nil
	}
	if m, err := convert.ToAnyMap(result); err == nil {
		return domain.Record(m), nil
	}
	if id, err := convert.ToInt64(result); err == nil {
		return domain.Record{"id": id}, nil
	}
	return nil, errors.Newf(errors.CodeRemoteAPIError,
		"unexpected mutation result type %T", result)
}
