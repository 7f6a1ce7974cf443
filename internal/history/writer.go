package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Writer appends task history rows inside the mutation's transaction.
type Writer struct {
	Now func() time.Time
}

type Changes map[string]any

func (w Writer) Append(ctx context.Context, tx *sql.Tx, taskID int64, action, taskTitle string, changes Changes) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	var payload any
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("marshal history changes: %w", err)
		}
		payload = string(data)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO task_history(task_id,action,task_title,changes,created_at) VALUES (?,?,?,?,?)`,
		taskID, action, taskTitle, payload, ts)
	return err
}
