package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/metadata"
)

// JobStatus represents the state of one enrichment batch.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one enrichment batch: a list of repository descriptors
// being turned into metadata records.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	Owner string `json:"owner"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	descriptors []github.Descriptor
	records     []*metadata.Record
	errors      []string
}

// Progress tracks batch progress.
type Progress struct {
	TotalRepos     int      `json:"total_repos"`
	ReposProcessed int      `json:"repos_processed"`
	Errors         []string `json:"errors"`
}

func NewJob(owner string, descriptors []github.Descriptor) *Job {
	now := time.Now()
	return &Job{
		ID:          generateULID(),
		Owner:       owner,
		Status:      StatusQueued,
		Phase:       "queued",
		Progress:    Progress{TotalRepos: len(descriptors)},
		CreatedAt:   now,
		UpdatedAt:   now,
		descriptors: descriptors,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrReposProcessed atomically advances the progress counter.
func (j *Job) IncrReposProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ReposProcessed++
	j.UpdatedAt = time.Now()
}

// Descriptors returns the batch input.
func (j *Job) Descriptors() []github.Descriptor {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.descriptors
}

// SetRecords stores the finished records.
func (j *Job) SetRecords(records []*metadata.Record) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = records
	j.UpdatedAt = time.Now()
}

// Records returns the finished records, nil until the job completes.
func (j *Job) Records() []*metadata.Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Owner    string    `json:"owner"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Owner:  j.Owner,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalRepos:     j.Progress.TotalRepos,
			ReposProcessed: j.Progress.ReposProcessed,
			Errors:         errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
