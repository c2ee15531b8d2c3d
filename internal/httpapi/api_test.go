package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"talentflow-engine/internal/areas"
	"talentflow-engine/internal/config"
	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/leadflow"
	"talentflow-engine/internal/testsupport"
	"talentflow-engine/internal/workflow"
)

const adminToken = "test-admin-token"

func newTestServer(t *testing.T) (*httptest.Server, *testsupport.Recorder) {
	t.Helper()
	db := testsupport.NewStore(t)
	resolver, err := areas.Load("")
	if err != nil {
		t.Fatal(err)
	}
	rec := testsupport.NewRecorder()
	hub := events.NewHub()
	validate := hireerr.NewValidator()

	leads := &leadflow.Manager{DB: db, Notify: rec, Hub: hub, Validate: validate, BaseURL: "http://test"}
	flow := &workflow.Engine{DB: db, Areas: resolver, Notify: rec, Hub: hub, Validate: validate, BaseURL: "http://test"}

	var cfgVal atomic.Value
	cfgVal.Store(config.Config{})

	mux := NewMux(Deps{
		DB:          db,
		Hub:         hub,
		Leads:       leads,
		Flow:        flow,
		Areas:       resolver,
		CfgVal:      &cfgVal,
		UserCfgPath: "/tmp/config.yml",
		AdminToken:  adminToken,
		RatePerMin:  6000,
		RateBurst:   100,
		MaxUploadMB: 10,
	})
	srv := httptest.NewServer(Chain(mux, RequestID, Recover, Cors))
	t.Cleanup(srv.Close)
	return srv, rec
}

func doJSON(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func unmarshal(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
}

func TestAdminSurfaceRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/leads", "/positions", "/applicants", "/companies", "/config"} {
		status, _ := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, status)
		}
		status, _ = doJSON(t, http.MethodGet, srv.URL+path, "wrong", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("GET %s with bad token = %d, want 401", path, status)
		}
	}

	// The public surface stays open.
	if status, _ := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil); status != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", status)
	}
	if status, _ := doJSON(t, http.MethodGet, srv.URL+"/areas", "", nil); status != http.StatusOK {
		t.Errorf("GET /areas = %d, want 200", status)
	}
}

func TestFullPipelineOverHTTP(t *testing.T) {
	srv, rec := newTestServer(t)

	// 1. Public lead submission.
	leadBody := map[string]any{
		"contact_name":  "Dana Ops",
		"contact_email": "dana@acme.test",
		"company_name":  "Acme",
		"intent":        "hiring",
		"role_title":    "Platform Engineer",
		"seniority":     "senior",
		"work_mode":     "remote",
		"urgency":       "1-month",
	}
	status, raw := doJSON(t, http.MethodPost, srv.URL+"/public/leads", "", leadBody)
	if status != http.StatusCreated {
		t.Fatalf("submit lead = %d: %s", status, raw)
	}
	var lead struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	unmarshal(t, raw, &lead)
	if lead.Status != "pending" {
		t.Fatalf("lead status = %q", lead.Status)
	}

	// Duplicate open lead is a conflict.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/public/leads", "", leadBody)
	if status != http.StatusConflict {
		t.Fatalf("duplicate lead = %d: %s", status, raw)
	}

	// Malformed lead is a 400 with field detail.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/public/leads", "", map[string]any{
		"contact_name": "x", "contact_email": "bad", "company_name": "y", "intent": "hiring",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid lead = %d: %s", status, raw)
	}
	var apiErr APIError
	unmarshal(t, raw, &apiErr)
	if apiErr.Error.Code != "validation" || len(apiErr.Error.Fields) == 0 {
		t.Fatalf("validation payload = %s", raw)
	}

	// 2. Review and convert.
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/leads/%d/approve", srv.URL, lead.ID), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("approve = %d: %s", status, raw)
	}
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/leads/%d/approve", srv.URL, lead.ID), adminToken, nil)
	if status != http.StatusConflict {
		t.Fatalf("re-approve = %d, want 409", status)
	}

	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/leads/%d/convert", srv.URL, lead.ID), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("convert = %d: %s", status, raw)
	}
	var company struct {
		ID int64 `json:"id"`
	}
	unmarshal(t, raw, &company)

	// 3. HR opens a position.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/positions", adminToken, map[string]any{
		"company_id":    company.ID,
		"position_name": "Platform Engineer",
		"area":          "engineering-tech",
		"seniority":     "senior",
		"leader_name":   "Lee CTO",
		"leader_email":  "lee@acme.test",
		"salary_range":  "90-120k",
		"contract_type": "full-time",
		"timeline":      "1-month",
		"position_type": "new",
	})
	if status != http.StatusCreated {
		t.Fatalf("create position = %d: %s", status, raw)
	}
	var pos struct {
		ID    int64  `json:"id"`
		Code  string `json:"position_code"`
		Stage string `json:"workflow_stage"`
	}
	unmarshal(t, raw, &pos)
	if pos.Stage != "hr_completed" {
		t.Fatalf("stage = %q", pos.Stage)
	}

	// 4. Notify the leader, then fetch and answer the specification form.
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/positions/%d/notify-leader", srv.URL, pos.ID), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("notify leader = %d: %s", status, raw)
	}
	if rec.CountSent("leader_request") != 1 {
		t.Fatalf("leader requests = %d, want 1", rec.CountSent("leader_request"))
	}

	status, raw = doJSON(t, http.MethodGet, fmt.Sprintf("%s/leader/positions/%d", srv.URL, pos.ID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("leader form = %d: %s", status, raw)
	}
	var form struct {
		Questions struct {
			Questions []struct {
				ID string `json:"id"`
			} `json:"questions"`
		} `json:"questions"`
	}
	unmarshal(t, raw, &form)
	if len(form.Questions.Questions) == 0 {
		t.Fatalf("leader form has no questions: %s", raw)
	}

	answers := map[string]string{}
	for _, q := range form.Questions.Questions {
		answers[q.ID] = "answered"
	}
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/leader/positions/%d", srv.URL, pos.ID), "", map[string]any{
		"work_arrangement":   "remote",
		"core_hours":         "10-16",
		"team_size":          "5",
		"autonomy_level":     "high",
		"success_kpi":        "uptime",
		"area_specific_data": answers,
	})
	if status != http.StatusOK {
		t.Fatalf("leader submit = %d: %s", status, raw)
	}

	// 5. Job description: generate, approve, publish.
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/positions/%d/jd", srv.URL, pos.ID), adminToken, map[string]any{})
	if status != http.StatusOK {
		t.Fatalf("upsert jd = %d: %s", status, raw)
	}
	var jd struct {
		ID int64 `json:"id"`
	}
	unmarshal(t, raw, &jd)

	// Publishing before approval is refused and changes nothing.
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/jd/%d/publish", srv.URL, jd.ID), adminToken, nil)
	if status != http.StatusConflict {
		t.Fatalf("early publish = %d, want 409: %s", status, raw)
	}

	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/jd/%d/approve", srv.URL, jd.ID), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("approve jd = %d: %s", status, raw)
	}
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/jd/%d/publish", srv.URL, jd.ID), adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("publish jd = %d: %s", status, raw)
	}

	// 6. Public view is now live.
	status, raw = doJSON(t, http.MethodGet, srv.URL+"/public/positions/"+pos.Code, "", nil)
	if status != http.StatusOK {
		t.Fatalf("public view = %d: %s", status, raw)
	}
	var view struct {
		Content string `json:"content"`
	}
	unmarshal(t, raw, &view)
	if view.Content == "" {
		t.Fatal("public view has no content")
	}

	// 7. Apply with a resume upload.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("full_name", "Ana Dev")
	_ = mw.WriteField("email", "ana@dev.test")
	fw, err := mw.CreateFormFile("resume", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4 fake"))
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/public/positions/"+pos.Code+"/apply", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	rawApply, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("apply = %d: %s", resp.StatusCode, rawApply)
	}
	var applicant struct {
		ID        int64  `json:"id"`
		ResumeURL string `json:"resume_url"`
	}
	unmarshal(t, rawApply, &applicant)
	if applicant.ResumeURL == "" {
		t.Fatal("applicant has no resume url")
	}

	// 8. The stored résumé is retrievable by the review surface.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+applicant.ResumeURL, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	blob, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(blob) != "%PDF-1.4 fake" {
		t.Fatalf("file fetch = %d body=%q", resp.StatusCode, blob)
	}

	// 9. Qualify the applicant.
	status, raw = doJSON(t, http.MethodPost, fmt.Sprintf("%s/applicants/%d/qualify", srv.URL, applicant.ID), adminToken, map[string]any{
		"score": 87, "notes": "strong platform background",
	})
	if status != http.StatusOK {
		t.Fatalf("qualify = %d: %s", status, raw)
	}
	var qualified struct {
		Qualification string `json:"qualification_status"`
		Score         int    `json:"score"`
	}
	unmarshal(t, raw, &qualified)
	if qualified.Qualification != "qualified" || qualified.Score != 87 {
		t.Fatalf("qualified = %+v", qualified)
	}

	// 10. Unknown area on the resolver surface maps to 400.
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/areas/finance", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown area = %d, want 400", status)
	}
}
