package worker // import "github.com/storyhouse/storyhouse/worker"

import (
	"github.com/storyhouse/storyhouse/chain"
	"github.com/storyhouse/storyhouse/model"
	"github.com/storyhouse/storyhouse/store"
)

type WorkPool interface {
	Push(job model.Job)
}

// RegistrationPool feeds chapter IP registrations to background workers.
type RegistrationPool struct {
	queue chan model.Job
}

// NewRegistrationPool creates a pool of background registration workers.
func NewRegistrationPool(store *store.Store, client chain.Client, size int) *RegistrationPool {
	pool := &RegistrationPool{
		queue: make(chan model.Job),
	}

	for i := 0; i < size; i++ {
		worker := &RegistrationWorker{id: i, store: store, client: client}
		go worker.Run(pool.queue)
	}

	return pool
}

func (p *RegistrationPool) Push(job model.Job) {
	p.queue <- job
}

func (p *RegistrationPool) GetQueue() chan model.Job {
	return p.queue
}
