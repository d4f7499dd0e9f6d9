package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/logger"
)

// Handler is implemented by every job worker in this module.
type Handler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Pool opens one Zeebe job worker per registered task type.
type Pool struct {
	client  zbc.Client
	name    string
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewPool(client zbc.Client, name string, log logger.Logger) *Pool {
	return &Pool{client: client, name: name, logger: log, workers: make(map[string]worker.JobWorker)}
}

// Register starts polling taskType. Disabled workers are skipped and reported false.
func (p *Pool) Register(taskType string, h Handler, wc config.WorkerConfig) bool {
	if !wc.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	w := p.client.NewJobWorker().
		JobType(taskType).
		Handler(h.Handle).
		Name(p.name).
		MaxJobsActive(wc.MaxJobsActive).
		Timeout(time.Duration(wc.Timeout) * time.Millisecond).
		Open()

	p.workers[taskType] = w
	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wc.MaxJobsActive,
		"timeoutMs":     wc.Timeout,
	})
	return true
}

func (p *Pool) TaskTypes() []string {
	out := make([]string, 0, len(p.workers))
	for t := range p.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (p *Pool) Close() {
	for taskType, w := range p.workers {
		w.Close()
		w.AwaitClose()
		p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}
