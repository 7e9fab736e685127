package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/botflow"
)

// SaveWorkflow persists a full document (nodes + edges) in one transaction
// with replace semantics: any prior snapshot under the same name is dropped.
// Edges without IDs get auto-generated UUIDs.
func (s *PGStore) SaveWorkflow(ctx context.Context, name string, doc *botflow.Document) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("botflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workflow_edges WHERE workflow = $1`, name); err != nil {
		return fmt.Errorf("botflow: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workflow_nodes WHERE workflow = $1`, name); err != nil {
		return fmt.Errorf("botflow: delete nodes: %w", err)
	}

	for _, n := range doc.Nodes {
		position, err := json.Marshal(n.Position)
		if err != nil {
			return fmt.Errorf("botflow: encode position %s: %w", n.ID, err)
		}
		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("botflow: encode node %s: %w", n.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO workflow_nodes (id, workflow, type, position, data) VALUES ($1, $2, $3, $4, $5)`,
			n.ID, name, string(n.Type), position, data,
		); err != nil {
			return fmt.Errorf("botflow: insert node %s: %w", n.ID, err)
		}
	}

	for _, e := range doc.Edges {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO workflow_edges (id, workflow, source, target) VALUES ($1, $2, $3, $4)`,
			e.ID, name, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("botflow: insert edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("botflow: commit: %w", err)
	}
	return nil
}

// LoadWorkflow retrieves a full document by name, ordered by insertion.
// Returns botflow.ErrWorkflowNotFound if no nodes exist under the name.
func (s *PGStore) LoadWorkflow(ctx context.Context, name string) (*botflow.Document, error) {
	doc := &botflow.Document{}

	rows, err := s.db.Query(ctx,
		`SELECT id, type, position, data FROM workflow_nodes WHERE workflow = $1 ORDER BY created_at`, name)
	if err != nil {
		return nil, fmt.Errorf("botflow: query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n        botflow.Node
			nodeType string
			position []byte
			data     []byte
		)
		if err := rows.Scan(&n.ID, &nodeType, &position, &data); err != nil {
			return nil, fmt.Errorf("botflow: scan node: %w", err)
		}
		n.Type = botflow.NodeType(nodeType)
		if err := json.Unmarshal(position, &n.Position); err != nil {
			return nil, fmt.Errorf("botflow: decode position %s: %w", n.ID, err)
		}
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("botflow: decode node %s: %w", n.ID, err)
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("botflow: rows nodes: %w", err)
	}

	if len(doc.Nodes) == 0 {
		return nil, botflow.ErrWorkflowNotFound
	}

	rows, err = s.db.Query(ctx,
		`SELECT id, source, target FROM workflow_edges WHERE workflow = $1 ORDER BY created_at`, name)
	if err != nil {
		return nil, fmt.Errorf("botflow: query edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e botflow.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("botflow: scan edge: %w", err)
		}
		doc.Edges = append(doc.Edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("botflow: rows edges: %w", err)
	}

	return doc, nil
}

// DeleteWorkflow removes all nodes and edges under a name.
// No error if the name doesn't exist.
func (s *PGStore) DeleteWorkflow(ctx context.Context, name string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("botflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workflow_edges WHERE workflow = $1`, name); err != nil {
		return fmt.Errorf("botflow: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workflow_nodes WHERE workflow = $1`, name); err != nil {
		return fmt.Errorf("botflow: delete nodes: %w", err)
	}

	return tx.Commit(ctx)
}

// ListWorkflows returns the stored workflow names, sorted.
func (s *PGStore) ListWorkflows(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT workflow FROM workflow_nodes ORDER BY workflow`)
	if err != nil {
		return nil, fmt.Errorf("botflow: list workflows: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("botflow: scan workflow: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("botflow: rows workflows: %w", err)
	}

	return names, nil
}
