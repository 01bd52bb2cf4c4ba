package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kangichu/autojob/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists jobs and the email queue. Every method acquires its own
// connection from the pool and commits immediately, so the background
// search worker and the foreground never share a handle.
type Store struct {
	db *pgxpool.Pool
}

func Connect(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Store{db: pool}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// InitSchema creates the two tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id BIGSERIAL PRIMARY KEY,
			company_name TEXT NOT NULL,
			job_title TEXT NOT NULL,
			job_description TEXT DEFAULT '',
			email TEXT DEFAULT '',
			url TEXT DEFAULT '',
			location TEXT DEFAULT '',
			salary TEXT DEFAULT '',
			date_found DATE,
			status TEXT DEFAULT 'Found',
			applied_date DATE,
			notes TEXT DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to create jobs table: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS email_queue (
			id BIGSERIAL PRIMARY KEY,
			job_id BIGINT REFERENCES jobs(id) ON DELETE CASCADE,
			recipient_email TEXT,
			subject TEXT,
			body TEXT,
			status TEXT DEFAULT 'Pending',
			created_date TIMESTAMPTZ,
			sent_date TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("failed to create email_queue table: %w", err)
	}
	return nil
}

// ---------------- JOB OPERATIONS ----------------

// InsertJob saves a discovered posting. Always inserts: duplicate listings
// across repeated searches are separate rows on purpose.
func (s *Store) InsertJob(ctx context.Context, job *models.JobRecord) error {
	if job.Company == "" {
		job.Company = "N/A"
	}
	if job.Title == "" {
		job.Title = "N/A"
	}
	if job.DateFound.IsZero() {
		job.DateFound = time.Now()
	}
	if job.Status == "" {
		job.Status = models.JobFound
	}

	query := `
		INSERT INTO jobs (company_name, job_title, job_description, email, url, location, salary, date_found, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := s.db.QueryRow(ctx, query,
		job.Company, job.Title, job.Description, job.Email, job.URL,
		job.Location, job.Salary, job.DateFound, job.Status, job.Notes).
		Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// ListJobs returns all jobs, newest discovery first.
func (s *Store) ListJobs(ctx context.Context) ([]models.JobRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, company_name, job_title, job_description, email, url, location, salary, date_found, status, applied_date, notes
		FROM jobs ORDER BY date_found DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobRecord
	for rows.Next() {
		var job models.JobRecord
		if err := rows.Scan(&job.ID, &job.Company, &job.Title, &job.Description, &job.Email,
			&job.URL, &job.Location, &job.Salary, &job.DateFound, &job.Status, &job.AppliedDate, &job.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListJobsByStatus returns jobs in the given status, newest first.
func (s *Store) ListJobsByStatus(ctx context.Context, status models.JobStatus) ([]models.JobRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, company_name, job_title, job_description, email, url, location, salary, date_found, status, applied_date, notes
		FROM jobs WHERE status = $1 ORDER BY date_found DESC, id DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobRecord
	for rows.Next() {
		var job models.JobRecord
		if err := rows.Scan(&job.ID, &job.Company, &job.Title, &job.Description, &job.Email,
			&job.URL, &job.Location, &job.Salary, &job.DateFound, &job.Status, &job.AppliedDate, &job.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *Store) GetJob(ctx context.Context, id int64) (*models.JobRecord, error) {
	var job models.JobRecord
	err := s.db.QueryRow(ctx, `
		SELECT id, company_name, job_title, job_description, email, url, location, salary, date_found, status, applied_date, notes
		FROM jobs WHERE id = $1`, id).
		Scan(&job.ID, &job.Company, &job.Title, &job.Description, &job.Email,
			&job.URL, &job.Location, &job.Salary, &job.DateFound, &job.Status, &job.AppliedDate, &job.Notes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// DeleteJob removes a job row; queue entries referencing it go with it.
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// MarkJobApplied moves a job Found -> Applied with the given date.
func (s *Store) MarkJobApplied(ctx context.Context, id int64, appliedAt time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE jobs SET status = $1, applied_date = $2 WHERE id = $3`,
		models.JobApplied, appliedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark job applied: %w", err)
	}
	return nil
}

// ---------------- EMAIL QUEUE OPERATIONS ----------------

// EnqueueEmail adds one Pending outbound application for a job.
func (s *Store) EnqueueEmail(ctx context.Context, task *models.EmailTask) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO email_queue (job_id, recipient_email, subject, body, status, created_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		task.JobID, task.Recipient, task.Subject, task.Body, task.Status, task.CreatedAt).
		Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

// ListTasks returns queue entries joined with their jobs, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]models.EmailTask, error) {
	rows, err := s.db.Query(ctx, `
		SELECT eq.id, eq.job_id, eq.recipient_email, eq.subject, eq.body, eq.status, eq.created_date, eq.sent_date,
		       j.company_name, j.job_title
		FROM email_queue eq
		JOIN jobs j ON eq.job_id = j.id
		ORDER BY eq.created_date DESC, eq.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list email queue: %w", err)
	}
	defer rows.Close()

	var tasks []models.EmailTask
	for rows.Next() {
		var task models.EmailTask
		if err := rows.Scan(&task.ID, &task.JobID, &task.Recipient, &task.Subject, &task.Body,
			&task.Status, &task.CreatedAt, &task.SentAt, &task.Company, &task.JobTitle); err != nil {
			return nil, fmt.Errorf("failed to scan queue row: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.EmailTask, error) {
	var task models.EmailTask
	err := s.db.QueryRow(ctx, `
		SELECT id, job_id, recipient_email, subject, body, status, created_date, sent_date
		FROM email_queue WHERE id = $1`, id).
		Scan(&task.ID, &task.JobID, &task.Recipient, &task.Subject, &task.Body,
			&task.Status, &task.CreatedAt, &task.SentAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("email task not found")
		}
		return nil, fmt.Errorf("failed to get email task: %w", err)
	}
	return &task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM email_queue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email task: %w", err)
	}
	return nil
}

// PendingTaskIDs lists ids of queue entries still waiting to be sent.
func (s *Store) PendingTaskIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id FROM email_queue WHERE status = $1 ORDER BY id`, models.TaskPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) MarkTaskSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE email_queue SET status = $1, sent_date = $2 WHERE id = $3`,
		models.TaskSent, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark task sent: %w", err)
	}
	return nil
}

func (s *Store) MarkTaskFailed(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE email_queue SET status = $1 WHERE id = $2`, models.TaskFailed, id)
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}
