package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa-pathway-workers/internal/common/graphdb"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/graphsync"
	"visa-pathway-workers/internal/visa"
)

func TestRun_ReportsStoredCounts(t *testing.T) {
	kb := visa.NewDefault()
	client := graphdb.NewMemoryClient()
	client.QueueRead(graphdb.Result{Records: []graphdb.Record{{"visas": int64(kb.Len()), "edges": int64(30)}}})

	stats, err := run(context.Background(), client, kb, true, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, graphsync.Stats{Visas: kb.Len(), Edges: 30}, stats)
	assert.Len(t, client.Reads(), 1)
}

func TestRun_DetectsMissingNodes(t *testing.T) {
	kb := visa.NewDefault()
	client := graphdb.NewMemoryClient()
	client.QueueRead(graphdb.Result{Records: []graphdb.Record{{"visas": int64(3), "edges": int64(0)}}})

	_, err := run(context.Background(), client, kb, false, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph holds 3 visas")
}
