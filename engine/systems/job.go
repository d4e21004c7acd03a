package systems

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/spaghettifunk/xnagfx/engine/core"
)

/**
 * @brief A unit of work for the job system.
 */
type JobTask struct {
	/** @brief Runs the job. A non-nil error routes to OnFailure. */
	OnStart func() error
	/** @brief Called after OnStart succeeded. */
	OnComplete func()
	/** @brief Called with the error returned by OnStart. */
	OnFailure func(err error)
	/** @brief Always called last, whatever the outcome. */
	OnCompletionCallback func()
}

var (
	ErrNoWorkers           = fmt.Errorf("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
	ErrJobSystemShutdown   = errors.New("job system is shut down")
)

type JobSystem struct {
	numWorkers   int
	lockOSThread bool
	jobQueue     chan JobTask
	wg           sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	return newJobSystem(numWorkers, channelSize, false)
}

/**
 * @brief Creates a single worker that stays on one OS thread for its whole
 * life. Native contexts bound to that thread can be driven through it.
 */
func NewContextWorker(channelSize int) (*JobSystem, error) {
	return newJobSystem(1, channelSize, true)
}

func newJobSystem(numWorkers, channelSize int, lockOSThread bool) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers:   numWorkers,
		lockOSThread: lockOSThread,
		jobQueue:     make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			if js.lockOSThread {
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()
			}
			for job := range js.jobQueue {
				run(job)
			}
		}()
	}
}

func run(job JobTask) {
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}
	if err := job.OnStart(); err != nil {
		core.LogError("job failed: %s", err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

/**
 * @brief Shuts the job system down. Queued jobs still run; the call returns
 * once every worker has exited. Calling it again is a no-op.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}

// AddWorkNonBlocking queues the job without waiting for room in the queue.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go func() {
		if err := js.Submit(jt); err != nil {
			core.LogWarn("job dropped: %s", err)
		}
	}()
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param info The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return fmt.Errorf("job has no OnStart function")
	}
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return ErrJobSystemShutdown
	}
	js.jobQueue <- jt
	return nil
}

/**
 * @brief Runs fn on a worker and blocks until it has finished.
 * @returns the error returned by fn, or ErrJobSystemShutdown.
 */
func (js *JobSystem) SubmitAndWait(fn func() error) error {
	done := make(chan error, 1)
	err := js.Submit(JobTask{
		OnStart: func() error {
			err := fn()
			done <- err
			return err
		},
	})
	if err != nil {
		return err
	}
	return <-done
}
