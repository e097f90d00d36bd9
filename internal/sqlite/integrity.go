package sqlite

import (
	"fmt"

	"github.com/taskvault/taskvault/pkg/types"
)

// HealthCheck executes a trivial round-trip query and reports liveness.
// Failures come back as data, never as an error: this is a monitoring
// primitive, not a control-flow assertion.
func (s *Store) HealthCheck() types.HealthStatus {
	db, err := s.Conn()
	if err != nil {
		return types.HealthStatus{Healthy: false, Message: err.Error()}
	}

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
		return types.HealthStatus{Healthy: false, Message: fmt.Sprintf("round-trip query failed: %v", err)}
	}

	stats, err := s.Stats()
	if err != nil {
		return types.HealthStatus{Healthy: true, Message: fmt.Sprintf("healthy, stats unavailable: %v", err)}
	}
	return types.HealthStatus{Healthy: true, Message: "ok", Stats: &stats}
}

// orphanScans drive IntegrityCheck: each query counts rows whose
// referenced parent no longer exists, drift the foreign keys should have
// prevented.
var orphanScans = []struct {
	label string
	query string
}{
	{"tasks with missing list", "SELECT COUNT(*) FROM tasks t WHERE NOT EXISTS (SELECT 1 FROM lists l WHERE l.list_id = t.list_id)"},
	{"tasks with missing user", "SELECT COUNT(*) FROM tasks t WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.user_id = t.user_id)"},
	{"tasks with missing parent task", "SELECT COUNT(*) FROM tasks t WHERE t.parent_task_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM tasks p WHERE p.task_id = t.parent_task_id)"},
	{"lists with missing user", "SELECT COUNT(*) FROM lists l WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.user_id = l.user_id)"},
	{"labels with missing user", "SELECT COUNT(*) FROM labels l WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.user_id = l.user_id)"},
	{"subtasks with missing task", "SELECT COUNT(*) FROM subtasks s WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.task_id = s.task_id)"},
	{"reminders with missing task", "SELECT COUNT(*) FROM reminders r WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.task_id = r.task_id)"},
	{"attachments with missing task", "SELECT COUNT(*) FROM attachments a WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.task_id = a.task_id)"},
	{"task_labels with missing task or label", "SELECT COUNT(*) FROM task_labels tl WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.task_id = tl.task_id) OR NOT EXISTS (SELECT 1 FROM labels l WHERE l.label_id = tl.label_id)"},
	{"tasks with invalid status", "SELECT COUNT(*) FROM tasks WHERE status NOT IN ('todo', 'in_progress', 'done', 'archived')"},
	{"tasks with invalid priority", "SELECT COUNT(*) FROM tasks WHERE priority NOT IN ('High', 'Medium', 'Low', 'None')"},
}

// IntegrityCheck scans for data drift the constraints did not (or could
// not) prevent. A non-empty issue list is diagnostic output for operators;
// it never halts the process.
func (s *Store) IntegrityCheck() (types.IntegrityReport, error) {
	db, err := s.Conn()
	if err != nil {
		return types.IntegrityReport{}, err
	}

	report := types.IntegrityReport{IsValid: true, Issues: []string{}}
	for _, scan := range orphanScans {
		var count int
		if err := db.QueryRow(scan.query).Scan(&count); err != nil {
			return types.IntegrityReport{}, fmt.Errorf("integrity scan %q: %w", scan.label, err)
		}
		if count > 0 {
			report.IsValid = false
			report.Issues = append(report.Issues, fmt.Sprintf("%d %s", count, scan.label))
		}
	}
	return report, nil
}

// Stats returns per-entity row counts in one query.
func (s *Store) Stats() (types.DatabaseStats, error) {
	db, err := s.Conn()
	if err != nil {
		return types.DatabaseStats{}, err
	}

	var stats types.DatabaseStats
	err = db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM lists),
		(SELECT COUNT(*) FROM labels),
		(SELECT COUNT(*) FROM tasks),
		(SELECT COUNT(*) FROM subtasks),
		(SELECT COUNT(*) FROM reminders),
		(SELECT COUNT(*) FROM attachments),
		(SELECT COUNT(*) FROM task_history)`).Scan(
		&stats.Users, &stats.Lists, &stats.Labels, &stats.Tasks,
		&stats.Subtasks, &stats.Reminders, &stats.Attachments, &stats.HistoryEntries,
	)
	if err != nil {
		return types.DatabaseStats{}, fmt.Errorf("collecting stats: %w", err)
	}
	return stats, nil
}
