package graphdb

import (
	"context"
	"sync"
)

// Query is a recorded cypher statement and its parameters.
type Query struct {
	Cypher string
	Params map[string]any
}

// MemoryClient records statements instead of executing them. Read results are
// served from a FIFO queue.
type MemoryClient struct {
	mu      sync.Mutex
	writes  []Query
	reads   []Query
	queued  []Result
	failOn  func(cypher string) error
	dialErr error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// FailWhen makes every statement for which fn returns an error fail with it.
func (m *MemoryClient) FailWhen(fn func(cypher string) error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = fn
	return m
}

func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialErr = err
	return m
}

func (m *MemoryClient) QueueRead(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(cypher); err != nil {
		return Result{}, err
	}
	m.writes = append(m.writes, Query{Cypher: cypher, Params: copyParams(params)})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(cypher); err != nil {
		return Result{}, err
	}
	m.reads = append(m.reads, Query{Cypher: cypher, Params: copyParams(params)})
	if len(m.queued) == 0 {
		return Result{}, nil
	}
	res := m.queued[0]
	m.queued = m.queued[1:]
	return res, nil
}

func (m *MemoryClient) check(cypher string) error {
	if m.failOn == nil {
		return nil
	}
	return m.failOn(cypher)
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialErr
}

func (m *MemoryClient) Close(context.Context) error { return nil }

func (m *MemoryClient) Writes() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.writes...)
}

func (m *MemoryClient) Reads() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.reads...)
}

func copyParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
