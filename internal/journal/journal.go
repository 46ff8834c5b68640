// Package journal records verification-session events in an embedded
// sqlite database. It exists for observability: the resubmission flag and
// every state change land here, never captured media.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const defaultDBName = "cropproof.db"

// Event is one journal row.
type Event struct {
	ID        int64   `json:"id"`
	TS        string  `json:"ts"`
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	CropID    string  `json:"crop_id,omitempty"`
	Payload   Payload `json:"payload,omitempty"`
}

// Payload is free-form event detail.
type Payload map[string]any

// Writer appends and reads session events.
type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

// Append records one event.
func (w Writer) Append(ctx context.Context, evtType, sessionID, cropID string, payload Payload) error {
	if w.DB == nil {
		return nil
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx,
		`INSERT INTO session_events(ts,type,session_id,crop_id,payload_json) VALUES (?,?,?,?,?)`,
		now().UTC().Format(time.RFC3339), evtType, sessionID, nullable(cropID), string(data))
	return err
}

// Tail returns the latest n events, newest first. Empty filters match all.
func (w Writer) Tail(ctx context.Context, n int, evtType, cropID string) ([]Event, error) {
	if w.DB == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 20
	}
	rows, err := w.DB.QueryContext(ctx,
		`SELECT id,ts,type,session_id,COALESCE(crop_id,''),payload_json
		 FROM session_events
		 WHERE (?='' OR type=?) AND (?='' OR crop_id=?)
		 ORDER BY id DESC LIMIT ?`,
		evtType, evtType, cropID, cropID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		var payload string
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.SessionID, &e.CropID, &payload); err != nil {
			return nil, err
		}
		if payload != "" {
			_ = json.Unmarshal([]byte(payload), &e.Payload)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
