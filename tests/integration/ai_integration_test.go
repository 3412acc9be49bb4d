package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type chatReply struct {
	UserMessage string            `json:"userMessage"`
	HasAction   bool              `json:"hasAction"`
	Actions     []json.RawMessage `json:"actions"`
}

// Requires a running planmate-api with PLANMATE_AI_MONTHLY_QUOTA > 0 and a
// reachable Postgres; the API must share the database.
func TestChatQuotaGuard(t *testing.T) {
	t.Logf("[TEST LOG] starting TestChatQuotaGuard")
	baseURL := apiBaseURL(t)

	dsn := firstNonEmpty(
		os.Getenv("PLANMATE_TEST_DSN"),
		os.Getenv("PLANMATE_DB_DSN"),
	)
	if dsn == "" {
		t.Skip("PLANMATE_TEST_DSN not set")
	}
	client := &http.Client{Timeout: 90 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	db := mustConnectDB(t, ctx, dsn)
	t.Cleanup(func() { db.Close() })

	planID := time.Now().UnixNano() % 1_000_000_000
	key := strconv.FormatInt(planID, 10)
	currentMonth := time.Now().Format("2006-01")

	if _, err := db.Exec(ctx, `
		INSERT INTO ai_usage (quota_key, tokens_remaining, last_reset_month)
		VALUES ($1, 1, $2)
		ON CONFLICT (quota_key) DO UPDATE SET
			tokens_remaining = EXCLUDED.tokens_remaining,
			last_reset_month = EXCLUDED.last_reset_month
	`, key, currentMonth); err != nil {
		t.Fatalf("seed ai_usage: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		_, _ = db.Exec(cleanupCtx, "DELETE FROM ai_usage WHERE quota_key = $1", key)
		_, _ = db.Exec(cleanupCtx, "DELETE FROM chat_history WHERE plan_id = $1", planID)
	})

	waitForAPIReady(t, client, baseURL)

	status1, body1 := post(t, client, baseURL+"/api/chatbot/generate", map[string]any{
		"planId":      planID,
		"message":     "부산 여행에서 꼭 가볼 곳 하나만 알려줘",
		"planContext": map[string]any{"TravelName": "부산"},
	})
	if status1 != http.StatusOK {
		t.Fatalf("first call: expected %d, got %d, body=%s", http.StatusOK, status1, string(body1))
	}
	var first chatReply
	if err := json.Unmarshal(body1, &first); err != nil {
		t.Fatalf("first call: unmarshal response: %v, raw=%s", err, string(body1))
	}
	if strings.TrimSpace(first.UserMessage) == "" || first.HasAction != (len(first.Actions) > 0) {
		t.Fatalf("first call: inconsistent reply %s", string(body1))
	}
	t.Logf("[TEST LOG] model reply: %s", first.UserMessage)

	status2, body2 := post(t, client, baseURL+"/api/chatbot/generate", map[string]any{
		"planId":  planID,
		"message": "한 번 더",
	})
	if status2 != http.StatusTooManyRequests {
		t.Fatalf("second call: expected %d, got %d, body=%s", http.StatusTooManyRequests, status2, string(body2))
	}
	var second chatReply
	if err := json.Unmarshal(body2, &second); err != nil {
		t.Fatalf("second call: unmarshal response: %v, raw=%s", err, string(body2))
	}
	if second.UserMessage == "" || second.HasAction {
		t.Fatalf("second call: unexpected reply %s", string(body2))
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT tokens_remaining FROM ai_usage WHERE quota_key = $1", key).Scan(&remaining); err != nil {
		t.Fatalf("query remaining token: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected tokens_remaining=0 after 2 calls, got %d", remaining)
	}

	var turns int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM chat_history WHERE plan_id = $1", planID).Scan(&turns); err != nil {
		t.Fatalf("count history: %v", err)
	}
	if turns != 1 {
		t.Fatalf("expected 1 stored turn, got %d", turns)
	}
}

func TestReconcileEndpoint(t *testing.T) {
	baseURL := apiBaseURL(t)
	client := &http.Client{Timeout: 10 * time.Second}
	waitForAPIReady(t, client, baseURL)

	status, body := post(t, client, baseURL+"/api/itinerary/reconcile", map[string]any{
		"timeTables":  []map[string]any{{"timeTableId": 144, "date": "2025-11-22"}},
		"placeBlocks": []map[string]any{{"placeName": "경복궁", "timeTableId": -1, "date": []int{2025, 11, 22}}},
	})
	if status != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%s", http.StatusOK, status, string(body))
	}
	var resp struct {
		PlaceBlocks []struct {
			TimeTableID int64 `json:"timeTableId"`
		} `json:"placeBlocks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v, raw=%s", err, string(body))
	}
	if len(resp.PlaceBlocks) != 1 || resp.PlaceBlocks[0].TimeTableID != 144 {
		t.Fatalf("unexpected blocks: %s", string(body))
	}
}

func apiBaseURL(t *testing.T) string {
	t.Helper()
	loadDotEnv(t)
	base := strings.TrimRight(strings.TrimSpace(os.Getenv("PLANMATE_API_BASE_URL")), "/")
	if base == "" {
		t.Skip("PLANMATE_API_BASE_URL not set")
	}
	return base
}

func post(t *testing.T, client *http.Client, url string, body any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("PLANMATE_INTERNAL_TOKEN"); token != "" {
		req.Header.Set("X-Internal-Token", token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, raw
}

func mustConnectDB(t *testing.T, parent context.Context, dsn string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("%s -> new pool: %v", redactedDSN(dsn), err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Fatalf("%s -> ping: %v", redactedDSN(dsn), err)
	}
	return db
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func redactedDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at <= scheme+3 {
		return dsn
	}
	return dsn[:scheme+3] + "***:***" + dsn[at:]
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("api not ready: GET %s/health did not return 200 in time", baseURL)
}

// loadDotEnv walks up from the working directory to the nearest .env.
// Variables already set are kept.
func loadDotEnv(t *testing.T) {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			if err := godotenv.Load(candidate); err != nil {
				t.Logf("load %s: %v", candidate, err)
			}
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
