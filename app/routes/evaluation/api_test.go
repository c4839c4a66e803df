package evaluation

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// queryStub is one canned query answer, matched by SQL substring. No rows
// with a nil err surfaces as sql.ErrNoRows on QueryRow, same as a live
// database.
type queryStub struct {
	match string
	cols  []string
	rows  [][]driver.Value
	err   error
}

type stubDriver struct{ conn *stubConn }

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

type stubConn struct{ stubs []queryStub }

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{conn: c, query: query}, nil
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not stubbed") }

type stubStmt struct {
	conn  *stubConn
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }
func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, fmt.Errorf("unexpected exec: %s", s.query)
}

func (s *stubStmt) Query([]driver.Value) (driver.Rows, error) {
	for _, stub := range s.conn.stubs {
		if strings.Contains(s.query, stub.match) {
			if stub.err != nil {
				return nil, stub.err
			}
			return &stubRows{cols: stub.cols, rows: stub.rows}, nil
		}
	}
	return nil, fmt.Errorf("unexpected query: %s", s.query)
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

var stubSeq int64

func newStubDB(t *testing.T, stubs ...queryStub) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("evaluation-stub-%d", atomic.AddInt64(&stubSeq, 1))
	sql.Register(name, &stubDriver{conn: &stubConn{stubs: stubs}})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func activePeriodStub() queryStub {
	now := time.Now()
	return queryStub{
		match: "FROM periods WHERE status = 'active'",
		cols:  []string{"id", "name", "pass_score", "max_score", "status", "created_at", "updated_at"},
		rows: [][]driver.Value{
			{"p1", "2026년 상반기", 70.0, 110.0, "active", now, now},
		},
	}
}

func existsStub(table string, exists bool) queryStub {
	return queryStub{
		match: "FROM " + table,
		cols:  []string{"exists"},
		rows:  [][]driver.Value{{exists}},
	}
}

func newTestApp(db *sql.DB) *fiber.App {
	r := &rubric.Rubric{
		Sections: []*rubric.Section{{
			ID: "a", Label: "a", MaxScore: 10,
			Items: []*rubric.Item{{ID: "a1", SectionID: "a", MaxScore: 10}},
		}},
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("evaluator", &models.Evaluator{
			ID:   "e1",
			Name: "평가자",
			Team: "컨설팅2팀",
			Role: models.RoleMember,
		})
		return c.Next()
	})
	app.Get("/api/evaluation/candidates", func(c *fiber.Ctx) error { return GetMyCandidates(c, db) })
	app.Put("/api/evaluation/sessions/:candidateID/scores", func(c *fiber.Ctx) error { return WriteScoreAPI(c, db, r) })
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := make(map[string]any)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestHandlersWithoutActivePeriod(t *testing.T) {
	db := newStubDB(t, queryStub{
		match: "FROM periods WHERE status = 'active'",
		cols:  []string{"id", "name", "pass_score", "max_score", "status", "created_at", "updated_at"},
	})
	app := newTestApp(db)

	t.Run("candidate list", func(t *testing.T) {
		status, payload := doJSON(t, app, "GET", "/api/evaluation/candidates", "")
		assert.Equal(t, 404, status)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "No active period", payload["error"])
	})

	t.Run("score write", func(t *testing.T) {
		status, payload := doJSON(t, app, "PUT", "/api/evaluation/sessions/cand/scores",
			`{"item_id":"a1","value":5}`)
		assert.Equal(t, 404, status)
		assert.Equal(t, false, payload["success"])
	})
}

func TestHandlersOnPeriodLookupFailure(t *testing.T) {
	db := newStubDB(t, queryStub{
		match: "FROM periods WHERE status = 'active'",
		err:   errors.New("connection refused"),
	})
	app := newTestApp(db)

	status, payload := doJSON(t, app, "GET", "/api/evaluation/candidates", "")
	assert.Equal(t, 500, status)
	assert.Equal(t, false, payload["success"])
}

func TestWriteScoreRejectsUnassignedEvaluator(t *testing.T) {
	db := newStubDB(t,
		activePeriodStub(),
		existsStub("period_evaluators", false),
	)
	app := newTestApp(db)

	status, payload := doJSON(t, app, "PUT", "/api/evaluation/sessions/cand/scores",
		`{"item_id":"a1","value":5}`)
	assert.Equal(t, 403, status)
	assert.Equal(t, false, payload["success"])
}

func TestWriteScoreRejectsCandidateOutsidePeriod(t *testing.T) {
	db := newStubDB(t,
		activePeriodStub(),
		existsStub("period_evaluators", true),
		existsStub("period_candidates", false),
	)
	app := newTestApp(db)

	status, payload := doJSON(t, app, "PUT", "/api/evaluation/sessions/stranger/scores",
		`{"item_id":"a1","value":5}`)
	assert.Equal(t, 404, status)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Candidate is not part of the active period", payload["error"])
}
