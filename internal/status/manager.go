// internal/status/manager.go
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Slade66/number-generator/internal/report"
	"github.com/Slade66/number-generator/pkg/run"
)

// Run states.
const (
	Queued     = "queued"
	Processing = "processing"
	Completed  = "completed"
	Failed     = "failed"
)

var ErrNotFound = errors.New("run not found")

// Info is the status of one run as stored in Redis.
type Info struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Seed       string         `json:"seed,omitempty"`
	DelayMs    string         `json:"delay_ms,omitempty"`
	Observers  int            `json:"observers,omitempty"`
	SubmitTime string         `json:"submit_time"`
	FinishTime string         `json:"finish_time,omitempty"`
	Rounds     int            `json:"rounds,omitempty"`
	ReportKey  string         `json:"report_key,omitempty"`
	Error      string         `json:"error,omitempty"`
	Report     *report.Report `json:"report,omitempty"`
}

// Manager keeps run states in Redis hashes.
type Manager struct {
	rdb *redis.Client
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{rdb: rdb}
}

func runKey(runID string) string {
	return fmt.Sprintf("run:status:%s", runID)
}

// InitRunStatus records a freshly accepted run as queued.
func (m *Manager) InitRunStatus(ctx context.Context, req *run.Request) error {
	fields := map[string]any{
		"id":          req.ID.String(),
		"status":      Queued,
		"delay_ms":    strconv.Itoa(req.DelayMs),
		"observers":   strconv.Itoa(len(req.Observers)),
		"submit_time": now(),
	}
	if req.Seed != nil {
		fields["seed"] = strconv.FormatInt(int64(*req.Seed), 10)
	}
	return m.rdb.HSet(ctx, runKey(req.ID.String()), fields).Err()
}

// UpdateRunStatus sets the status field and the finish time for final states.
func (m *Manager) UpdateRunStatus(ctx context.Context, runID, newStatus string) error {
	fields := map[string]any{"status": newStatus}
	if newStatus == Completed || newStatus == Failed {
		fields["finish_time"] = now()
	}
	return m.rdb.HSet(ctx, runKey(runID), fields).Err()
}

// UpdateRunError marks the run failed with errMsg.
func (m *Manager) UpdateRunError(ctx context.Context, runID, errMsg string) error {
	return m.rdb.HSet(ctx, runKey(runID), map[string]any{
		"status":      Failed,
		"error":       errMsg,
		"finish_time": now(),
	}).Err()
}

// SaveReport stores the report of a completed run. reportKey is the OBS
// object key, empty when the report was not uploaded.
func (m *Manager) SaveReport(ctx context.Context, runID string, rep *report.Report, reportKey string) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fields := map[string]any{
		"seed":   strconv.FormatInt(int64(rep.Seed), 10),
		"rounds": strconv.Itoa(rep.Rounds),
		"report": string(data),
	}
	if reportKey != "" {
		fields["report_key"] = reportKey
	}
	return m.rdb.HSet(ctx, runKey(runID), fields).Err()
}

// GetRun returns the status of a single run.
func (m *Manager) GetRun(ctx context.Context, runID string) (*Info, error) {
	data, err := m.rdb.HGetAll(ctx, runKey(runID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", runID, ErrNotFound)
	}
	return fromHash(data)
}

// GetAllRuns returns the status of every known run, without the reports.
func (m *Manager) GetAllRuns(ctx context.Context) ([]Info, error) {
	runs := make([]Info, 0)
	iter := m.rdb.Scan(ctx, 0, runKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		data, err := m.rdb.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", iter.Val(), err)
		}
		info, err := fromHash(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", iter.Val(), err)
		}
		info.Report = nil
		runs = append(runs, *info)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// fromHash converts the hash fields of a run back into an Info.
func fromHash(data map[string]string) (*Info, error) {
	info := &Info{
		ID:         data["id"],
		Status:     data["status"],
		Seed:       data["seed"],
		DelayMs:    data["delay_ms"],
		SubmitTime: data["submit_time"],
		FinishTime: data["finish_time"],
		ReportKey:  data["report_key"],
		Error:      data["error"],
	}
	var err error
	if v := data["observers"]; v != "" {
		if info.Observers, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("observers: %w", err)
		}
	}
	if v := data["rounds"]; v != "" {
		if info.Rounds, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("rounds: %w", err)
		}
	}
	if v := data["report"]; v != "" {
		info.Report = &report.Report{}
		if err := json.Unmarshal([]byte(v), info.Report); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
	}
	return info, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
