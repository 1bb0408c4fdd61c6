package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/history"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/pdi"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
)

//nolint:gochecknoglobals // Test fixture
var fixedNow = time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)

const sheet = "Nome do consultor;Data do Contato;A venda foi efetivada?;" +
	"O consultor inicia a ligação com uma introdução clara?;" +
	"Ele finalizou a ligação de forma positiva?\n" +
	"Ana;05/03/2024;Sim;Sim;Não\n" +
	"Bruno;10/01/2024;Sim;Sim;Sim\n"

type stubGenerator struct {
	text string
}

func (s *stubGenerator) Complete(_ context.Context, _ string) (text string, err error) {
	text = s.text
	return text, err
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func testRubric() (r rubric.Rubric) {
	r = rubric.Rubric{Sections: []rubric.Section{
		{ID: "A", Title: "Abordagem", Weight: 60, Questions: []rubric.Question{
			{ID: "q1", Text: "O consultor inicia a ligação com uma introdução clara?"},
		}},
		{ID: "B", Title: "Fechamento", Weight: 40, Questions: []rubric.Question{
			{ID: "q2", Text: "Ele finalizou a ligação de forma positiva?"},
		}},
	}}
	return r
}

func newTestServer(t *testing.T, gen *stubGenerator) (server *Server, store *history.Store) {
	t.Helper()
	server, store = newTestServerAt(t, gen, filepath.Join(t.TempDir(), "history.json"))
	return server, store
}

func newTestServerAt(t *testing.T, gen *stubGenerator, historyPath string) (server *Server, store *history.Store) {
	t.Helper()

	now := func() time.Time { return fixedNow }
	n := 0
	imp := importer.New(testRubric(), ingest.DefaultHeaderTable(), importer.Options{
		IDs: pdi.NewSequence(),
		NewID: func() string {
			n++
			return fmt.Sprintf("ev-%d", n)
		},
		Now: now,
	})

	store = history.NewStore(history.Snapshot{}, historyPath, now)

	opts := Options{
		Importer: imp,
		Store:    store,
		Table:    ingest.DefaultHeaderTable(),
		Rubric:   testRubric(),
		IDs:      pdi.NewSequence(),
		Now:      now,
	}
	if gen != nil {
		opts.Feedback = gen
	}

	server = New(opts)
	return server, store
}

func do(t *testing.T, server *Server, req *http.Request) (status int, env envelope, body []byte) {
	t.Helper()

	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	status = resp.StatusCode

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err = json.Unmarshal(body, &env); err != nil {
			t.Fatalf("Failed to decode response %q: %v", body, err)
		}
	}
	return status, env, body
}

func jsonRequest(method, target string, payload interface{}) (req *http.Request) {
	data, _ := json.Marshal(payload)
	req = httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, nil)

	status, _, body := do(t, server, httptest.NewRequest(http.MethodGet, "/health", nil))
	if status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}
	if string(body) != "ok" {
		t.Errorf("Expected 'ok', got %q", body)
	}
}

func TestImportRawBody(t *testing.T) {
	server, store := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(sheet))
	req.Header.Set("Content-Type", "text/csv")

	status, env, _ := do(t, server, req)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", status, env.Error)
	}

	var result importer.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if len(result.Evaluations) != 2 {
		t.Errorf("Expected 2 evaluations, got %d", len(result.Evaluations))
	}
	// Ana scores 60 in March: low score and the blocked closing section.
	if result.Active != 2 {
		t.Errorf("Expected 2 active items, got %d", result.Active)
	}

	snap := store.Snapshot()
	if len(snap.Evaluations) != 2 {
		t.Errorf("Expected store to hold 2 evaluations, got %d", len(snap.Evaluations))
	}
	if len(snap.ActionItems) != len(result.ActionItems) {
		t.Errorf("Expected %d stored items, got %d", len(result.ActionItems), len(snap.ActionItems))
	}
}

func TestImportMultipart(t *testing.T) {
	server, _ := newTestServer(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "avaliacoes.csv")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	_, _ = part.Write([]byte(sheet))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, env, _ := do(t, server, req)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", status, env.Error)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{name: "empty body", body: nil, wantStatus: http.StatusBadRequest},
		{name: "binary file", body: []byte{'P', 'K', 0x03, 0x04, 0x00}, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/imports", bytes.NewReader(tt.body))
			status, env, _ := do(t, server, req)
			if status != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, status)
			}
			if env.Success {
				t.Error("Expected success=false")
			}
		})
	}
}

func TestSubmitEvaluation(t *testing.T) {
	server, store := newTestServer(t, nil)

	payload := map[string]interface{}{
		"consultant_name": "Ana",
		"date":            "15/03/2024",
		"sale_effective":  true,
		"answers":         map[string]string{"q1": "Sim", "q2": "Sim"},
	}

	status, env, _ := do(t, server, jsonRequest(http.MethodPost, "/api/evaluations", payload))
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", status, env.Error)
	}

	var data struct {
		Evaluation  evaluation.Evaluation   `json:"evaluation"`
		ActionItems []evaluation.ActionItem `json:"action_items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	if data.Evaluation.FinalScore != 100 {
		t.Errorf("Expected 100, got %v", data.Evaluation.FinalScore)
	}
	if len(data.ActionItems) != 0 {
		t.Errorf("Expected no action items, got %d", len(data.ActionItems))
	}
	if len(store.Evaluations("Ana")) != 1 {
		t.Error("Expected evaluation to be stored")
	}
}

func TestSubmitEvaluationInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{name: "missing consultant", payload: map[string]interface{}{"date": "15/03/2024", "answers": map[string]string{"q1": "Sim"}}},
		{name: "critical failure without reason", payload: map[string]interface{}{
			"consultant_name": "Ana", "date": "15/03/2024", "has_critical_failure": true,
			"answers": map[string]string{"q1": "Sim"},
		}},
		{name: "bad answer", payload: map[string]interface{}{"consultant_name": "Ana", "date": "15/03/2024", "answers": map[string]string{"q1": "Talvez"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, nil)

			status, _, _ := do(t, server, jsonRequest(http.MethodPost, "/api/evaluations", tt.payload))
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
		})
	}
}

func seed(t *testing.T, server *Server) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(sheet))
	if status, env, _ := do(t, server, req); status != http.StatusCreated {
		t.Fatalf("Seeding failed: %d (%s)", status, env.Error)
	}
}

func TestListAndGetEvaluations(t *testing.T) {
	server, _ := newTestServer(t, nil)
	seed(t, server)

	status, env, _ := do(t, server, httptest.NewRequest(http.MethodGet, "/api/evaluations?consultant=Ana", nil))
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var evs []evaluation.Evaluation
	if err := json.Unmarshal(env.Data, &evs); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(evs) != 1 || evs[0].ConsultantName != "Ana" {
		t.Fatalf("Expected only Ana's evaluation, got %+v", evs)
	}

	status, _, _ = do(t, server, httptest.NewRequest(http.MethodGet, "/api/evaluations/"+evs[0].ID, nil))
	if status != http.StatusOK {
		t.Errorf("Expected 200, got %d", status)
	}

	status, env, _ = do(t, server, httptest.NewRequest(http.MethodGet, "/api/evaluations/missing", nil))
	if status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
	if env.Success {
		t.Error("Expected success=false")
	}
}

func TestAcknowledgeAndWorkflow(t *testing.T) {
	server, _ := newTestServer(t, nil)
	seed(t, server)

	status, env, _ := do(t, server, httptest.NewRequest(http.MethodPatch, "/api/evaluations/ev-1/acknowledge", nil))
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", status, env.Error)
	}
	var ev evaluation.Evaluation
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if ev.FeedbackStatus != evaluation.FeedbackAcknowledged || ev.AcknowledgedAt == nil {
		t.Errorf("Expected acknowledged evaluation, got %s / %v", ev.FeedbackStatus, ev.AcknowledgedAt)
	}

	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{name: "known status", status: string(evaluation.WorkflowStatuses[1]), wantStatus: http.StatusOK},
		{name: "unknown status", status: "Arquivado", wantStatus: http.StatusBadRequest},
		{name: "empty status", status: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := do(t, server, jsonRequest(http.MethodPatch, "/api/evaluations/ev-1/status", statusRequest{Status: tt.status}))
			if got != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func TestActionItems(t *testing.T) {
	server, _ := newTestServer(t, nil)
	seed(t, server)

	status, env, _ := do(t, server, httptest.NewRequest(http.MethodGet, "/api/action-items?consultant=Ana", nil))
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var items []evaluation.ActionItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items for Ana, got %d", len(items))
	}

	target := "/api/action-items/" + items[0].ID + "/status"
	status, env, _ = do(t, server, jsonRequest(http.MethodPatch, target, statusRequest{Status: string(evaluation.ActionDone)}))
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", status, env.Error)
	}

	status, _, _ = do(t, server, jsonRequest(http.MethodPatch, "/api/action-items/nope/status", statusRequest{Status: string(evaluation.ActionDone)}))
	if status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}

func TestCreateActionItem(t *testing.T) {
	tests := []struct {
		name       string
		payload    actionItemRequest
		wantStatus int
	}{
		{
			name: "valid",
			payload: actionItemRequest{
				ConsultantName: "Ana", Title: "Treinar objeções", ActionPlan: "Role-play semanal",
				Deadline: "30/03/2024", Priority: "Média", Responsible: "Supervisor",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "bad deadline",
			payload: actionItemRequest{
				ConsultantName: "Ana", Title: "x", ActionPlan: "y",
				Deadline: "amanhã", Priority: "Alta", Responsible: "Consultor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			payload:    actionItemRequest{ConsultantName: "Ana"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown priority",
			payload: actionItemRequest{
				ConsultantName: "Ana", Title: "x", ActionPlan: "y",
				Deadline: "2024-03-30", Priority: "Urgente", Responsible: "Consultor",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, store := newTestServer(t, nil)

			status, env, _ := do(t, server, jsonRequest(http.MethodPost, "/api/action-items", tt.payload))
			if status != tt.wantStatus {
				t.Fatalf("Expected %d, got %d (%s)", tt.wantStatus, status, env.Error)
			}
			if status != http.StatusCreated {
				return
			}

			items := store.ActionItems("Ana")
			if len(items) != 1 {
				t.Fatalf("Expected 1 stored item, got %d", len(items))
			}
			if items[0].Status != evaluation.ActionPending {
				t.Errorf("Expected Pending, got %s", items[0].Status)
			}
			if !strings.HasPrefix(items[0].ID, "manual-") {
				t.Errorf("Expected manual- id, got %q", items[0].ID)
			}
		})
	}
}

func TestGenerateFeedback(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		server, _ := newTestServer(t, nil)
		seed(t, server)

		status, _, _ := do(t, server, httptest.NewRequest(http.MethodPost, "/api/evaluations/ev-1/feedback", nil))
		if status != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", status)
		}
	})

	t.Run("stored on evaluation", func(t *testing.T) {
		server, store := newTestServer(t, &stubGenerator{text: "Continue assim."})
		seed(t, server)

		status, env, _ := do(t, server, httptest.NewRequest(http.MethodPost, "/api/evaluations/ev-1/feedback", nil))
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", status, env.Error)
		}

		ev, err := store.Evaluation("ev-1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ev.AIFeedback != "Continue assim." {
			t.Errorf("Expected stored feedback, got %q", ev.AIFeedback)
		}
	})

	t.Run("unknown evaluation", func(t *testing.T) {
		server, _ := newTestServer(t, &stubGenerator{text: "x"})

		status, _, _ := do(t, server, httptest.NewRequest(http.MethodPost, "/api/evaluations/nope/feedback", nil))
		if status != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", status)
		}
	})
}

func TestConsultants(t *testing.T) {
	server, _ := newTestServer(t, nil)
	seed(t, server)

	status, env, _ := do(t, server, httptest.NewRequest(http.MethodGet, "/api/consultants", nil))
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var summaries []history.ConsultantSummary
	if err := json.Unmarshal(env.Data, &summaries); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(summaries) != 2 {
		t.Errorf("Expected 2 consultants, got %d", len(summaries))
	}
}

func TestExport(t *testing.T) {
	server, _ := newTestServer(t, nil)
	seed(t, server)

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/api/export", nil), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	text := strings.TrimPrefix(string(body), "\ufeff")
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Errorf("Expected header plus 2 rows, got %d lines", len(lines))
	}
}

func TestConcurrentSubmissionsAccumulateHistory(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.json")
	server, store := newTestServerAt(t, nil, historyPath)

	const submissions = 12
	payload := map[string]interface{}{
		"consultant_name": "Ana",
		"date":            "15/03/2024",
		"sale_effective":  true,
		"answers":         map[string]string{"q1": "Sim", "q2": "Não"},
	}

	var wg sync.WaitGroup
	statuses := make(chan int, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := server.App().Test(jsonRequest(http.MethodPost, "/api/evaluations", payload), -1)
			if err != nil {
				t.Errorf("Request failed: %v", err)
				return
			}
			_ = resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		if status != http.StatusCreated {
			t.Errorf("Expected 201, got %d", status)
		}
	}

	// Every submission after the second sees q2 missed in its last three evaluations.
	repeatPrefix := pdi.Rules[pdi.TriggerRepeatedFailure].IDPrefix + "-"
	repeats := 0
	for _, item := range store.ActionItems("Ana") {
		if strings.HasPrefix(item.ID, repeatPrefix) {
			repeats++
		}
	}
	if repeats != submissions-2 {
		t.Errorf("Expected %d repeated-failure items, got %d", submissions-2, repeats)
	}

	snap, err := history.Load(historyPath)
	if err != nil {
		t.Fatalf("Saved history is unreadable: %v", err)
	}
	if len(snap.Evaluations) != submissions {
		t.Errorf("Expected %d evaluations on disk, got %d", submissions, len(snap.Evaluations))
	}
}
