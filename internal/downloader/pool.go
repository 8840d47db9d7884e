// internal/downloader/pool.go
package downloader

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// MaxWorkers caps the number of concurrent downloads
const MaxWorkers = 50

// WorkerPool runs downloads on a fixed number of workers
type WorkerPool struct {
	downloader  *Downloader
	concurrency int
}

// NewWorkerPool creates a pool around d. Concurrency is clamped to [1, MaxWorkers].
func NewWorkerPool(d *Downloader, concurrency int) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > MaxWorkers {
		concurrency = MaxWorkers
	}

	return &WorkerPool{
		downloader:  d,
		concurrency: concurrency,
	}
}

// Concurrency returns the number of workers
func (wp *WorkerPool) Concurrency() int {
	return wp.concurrency
}

type indexedJob struct {
	index int
	job   Job
}

// DownloadBatch downloads all jobs and returns one result per job, in job order.
// Jobs not started before ctx is cancelled get a result carrying ctx.Err().
func (wp *WorkerPool) DownloadBatch(ctx context.Context, jobs []Job) []*Result {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan indexedJob)
	var wg sync.WaitGroup

	workers := wp.concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go wp.worker(ctx, w, queue, results, &wg)
	}

dispatch:
	for i, job := range jobs {
		select {
		case queue <- indexedJob{index: i, job: job}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	for i, r := range results {
		if r == nil {
			results[i] = &Result{URL: jobs[i].URL, FilePath: jobs[i].FilePath, Error: ctx.Err()}
		}
	}
	return results
}

// worker writes each result to its own slot, so no locking is needed
func (wp *WorkerPool) worker(ctx context.Context, id int, queue <-chan indexedJob, results []*Result, wg *sync.WaitGroup) {
	defer wg.Done()

	log.Debug().Int("worker_id", id).Msg("Worker started")
	for item := range queue {
		log.Debug().
			Int("worker_id", id).
			Str("url", item.job.URL).
			Msg("Worker processing download")

		results[item.index] = wp.downloader.Download(ctx, item.job)
	}
	log.Debug().Int("worker_id", id).Msg("Worker finished")
}
