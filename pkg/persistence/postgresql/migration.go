package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow documents with the graph stored as JSONB
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				user_id VARCHAR(255) NOT NULL,
				is_public BOOLEAN NOT NULL DEFAULT false,
				tags JSONB,
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_user_id ON workflows(user_id);
			CREATE INDEX idx_workflows_updated_at ON workflows(updated_at);

			-- Immutable graph snapshots, numbered per workflow
			CREATE TABLE workflow_versions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				version INTEGER NOT NULL,
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				created_by VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflow_versions_workflow_id ON workflow_versions(workflow_id);

			-- Share grants linking a workflow to a recipient user
			CREATE TABLE workflow_shares (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL,
				shared_by_user_id VARCHAR(255) NOT NULL,
				shared_with_user_id VARCHAR(255) NOT NULL,
				permissions VARCHAR(50) NOT NULL CHECK (permissions IN ('view', 'edit')),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflow_shares_shared_with ON workflow_shares(shared_with_user_id);

			-- User profiles, identifiers come from the authentication provider
			CREATE TABLE users (
				id VARCHAR(255) PRIMARY KEY,
				email VARCHAR(255) NOT NULL,
				display_name VARCHAR(255) NOT NULL DEFAULT '',
				workflow_ids JSONB NOT NULL DEFAULT '[]',
				settings JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);
		`,
	}
}
