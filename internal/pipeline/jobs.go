package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a classification job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusClassifying JobStatus = "classifying"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single book classification.
type Job struct {
	mu sync.Mutex

	ID          string `json:"job_id"`
	BookID      string `json:"book_id"`
	ProfileName string `json:"profile"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *Result
	errors   []string
}

// Progress tracks classification progress and outcome counts.
type Progress struct {
	Pages     int      `json:"pages"`
	Runs      int      `json:"runs"`
	Blocks    int      `json:"blocks"`
	Chapters  int      `json:"chapters"`
	Warnings  int      `json:"warnings"`
	FromCache bool     `json:"from_cache"`
	Errors    []string `json:"errors"`
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

// ByBook returns the most recently updated job for a book, if any.
func (s *JobStore) ByBook(bookID string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Job
	for _, job := range s.jobs {
		if job.BookID != bookID {
			continue
		}
		if best == nil || job.UpdatedAt.After(best.UpdatedAt) {
			best = job
		}
	}
	return best
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

// SetExtracted records run extraction counts.
func (j *Job) SetExtracted(pages, runs int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = pages
	j.Progress.Runs = runs
	j.UpdatedAt = time.Now()
}

// SetOutcome retains the classification result and records its counts.
func (j *Job) SetOutcome(res *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.Progress.Blocks = len(res.Root.Blocks())
	j.Progress.Chapters = len(res.Root.Chapters())
	j.Progress.Warnings = len(res.Warnings)
	j.Progress.FromCache = res.FromCache
	j.UpdatedAt = time.Now()
}

// Result returns the classification result, nil until completion.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	BookID      string    `json:"book_id"`
	ProfileName string    `json:"profile"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Progress    Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	if p.Errors == nil {
		p.Errors = []string{}
	}
	return JobSnapshot{
		ID:          j.ID,
		BookID:      j.BookID,
		ProfileName: j.ProfileName,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		Progress:    p,
	}
}

// ContentHashHex computes SHA-256 of content and returns the hex string.
// Used both for book IDs and for job IDs.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
