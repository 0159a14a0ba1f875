package services

import (
	"context"

	utils "ngoconnect-backend/shared/utils/auth"
)

// HashWorkerPool runs bcrypt work on a fixed number of workers so a burst
// of logins or registrations cannot tie up every request goroutine in
// CPU-bound hashing.
type HashWorkerPool struct {
	tasks chan hashTask
	done  chan struct{}
}

type hashTask struct {
	run func()
}

// NewHashWorkerPool starts a pool with the given number of workers.
func NewHashWorkerPool(workers int) *HashWorkerPool {
	if workers < 1 {
		workers = 1
	}

	pool := &HashWorkerPool{
		tasks: make(chan hashTask),
		done:  make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go pool.worker()
	}

	return pool
}

func (p *HashWorkerPool) worker() {
	for {
		select {
		case task := <-p.tasks:
			task.run()
		case <-p.done:
			return
		}
	}
}

// Close stops the workers. Submitted work already running completes.
func (p *HashWorkerPool) Close() {
	close(p.done)
}

func (p *HashWorkerPool) submit(ctx context.Context, run func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	finished := make(chan struct{})
	wrapped := hashTask{run: func() {
		run()
		close(finished)
	}}

	select {
	case p.tasks <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hash computes a bcrypt hash on a pool worker.
func (p *HashWorkerPool) Hash(ctx context.Context, password string) (string, error) {
	var hash string
	var err error

	if submitErr := p.submit(ctx, func() {
		hash, err = utils.HashPassword(password)
	}); submitErr != nil {
		return "", submitErr
	}

	return hash, err
}

// Compare verifies a password against a bcrypt hash on a pool worker.
func (p *HashWorkerPool) Compare(ctx context.Context, password, hash string) (bool, error) {
	var match bool

	if submitErr := p.submit(ctx, func() {
		match = utils.CheckPasswordHash(password, hash)
	}); submitErr != nil {
		return false, submitErr
	}

	return match, nil
}
