package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Graph document storage: one row holding the full graph as JSONB.
			CREATE TABLE graphs (
				id VARCHAR(255) PRIMARY KEY,
				payload JSONB NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
		2: `
			-- Execution results: append-only, latest row wins.
			CREATE TABLE execution_results (
				execution_id VARCHAR(255) PRIMARY KEY,
				results JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_execution_results_created_at ON execution_results(created_at);
		`,
	}
}
