package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS workflow_nodes (
    id         TEXT NOT NULL,
    workflow   TEXT NOT NULL,
    type       TEXT NOT NULL,
    position   JSONB NOT NULL DEFAULT '{}',
    data       JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (workflow, id)
);

CREATE TABLE IF NOT EXISTS workflow_edges (
    id         TEXT NOT NULL,
    workflow   TEXT NOT NULL,
    source     TEXT NOT NULL,
    target     TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (workflow, id),
    FOREIGN KEY (workflow, source) REFERENCES workflow_nodes(workflow, id) ON DELETE CASCADE,
    FOREIGN KEY (workflow, target) REFERENCES workflow_nodes(workflow, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_workflow_nodes_workflow ON workflow_nodes(workflow);
CREATE INDEX IF NOT EXISTS idx_workflow_edges_workflow ON workflow_edges(workflow);
`

// CreateSchema creates the workflow_nodes and workflow_edges tables if they
// don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the workflow_edges and workflow_nodes tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS workflow_edges, workflow_nodes CASCADE;`)
	return err
}
