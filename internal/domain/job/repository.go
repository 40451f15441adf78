package job

import "context"

// CorpusReader pages through the active job corpus in a stable order.
type CorpusReader interface {
	ListActiveJobs(ctx context.Context, limit, offset int) ([]Job, error)
	CorpusVersion(ctx context.Context) (CorpusVersion, error)
}
