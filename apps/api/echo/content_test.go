package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kalamu/core/content"
	"github.com/trezcool/kalamu/testutil"
)

func doJSON(t *testing.T, app http.Handler, method, path string, body []byte, out interface{}) int {
	t.Helper()
	req, rec := newRequest(method, path, body)
	app.ServeHTTP(rec, req)
	if out != nil && rec.Code < http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestContentAPI_Create(t *testing.T) {
	env := setup(t)
	active := true

	var got content.Content
	code := doJSON(t, env.app, http.MethodPost, "/v1/contents", marchallObj(t, content.NewContent{
		Kind:     "Notice",
		Title:    "  School closed ",
		Body:     "Closed on <strong>Friday</strong>",
		IsActive: &active,
	}), &got)

	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, content.KindNotice, got.Kind)
	assert.Equal(t, "School closed", got.Title)
	assert.Equal(t, "<p>Closed on <b>Friday</b></p>", got.Body)
	assert.Equal(t, "Closed on Friday", got.Summary)
	assert.True(t, got.IsActive)
	assert.NotNil(t, got.PublishedAt)

	// active notices are announced
	sent := env.mailSvc.SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "New notice: School closed", sent[0].Subject)
	}
}

func TestContentAPI_CreateInvalid(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name      string
		data      content.NewContent
		wantField string
	}{
		{name: "missing title", data: content.NewContent{Kind: "notice", Body: "x"}, wantField: "title"},
		{name: "unknown kind", data: content.NewContent{Kind: "memo", Title: "t", Body: "x"}, wantField: "kind"},
		{name: "empty body", data: content.NewContent{Kind: "notice", Title: "t", Body: "<p><br></p>"}, wantField: "body"},
		{name: "bad link", data: content.NewContent{Kind: "author", Title: "t", Link: "javascript:alert(1)"}, wantField: "link"},
		{name: "event without date", data: content.NewContent{Kind: "event", Title: "t", Body: "x"}, wantField: "event_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/contents", marchallObj(t, tt.data))
			env.app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errs map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errs))
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestContentAPI_Query(t *testing.T) {
	env := setup(t)
	now := time.Now()
	notice := testutil.CreateContent(t, env.contentRepo, content.KindNotice, "Sports day", "<p>Bring water</p>", true, now.Add(-2*time.Hour))
	report := testutil.CreateContent(t, env.contentRepo, content.KindAnnualReport, "Report 2024", "<p>Numbers</p>", false, now.Add(-time.Hour))
	event := testutil.CreateContent(t, env.contentRepo, content.KindEvent, "Sports finals", "<p>Finals</p>", true, now)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "all", query: "", wantIDs: []string{notice.ID, report.ID, event.ID}},
		{name: "by kind", query: "?kind=annual_report", wantIDs: []string{report.ID}},
		{name: "search", query: "?search=sports", wantIDs: []string{notice.ID, event.ID}},
		{name: "active", query: "?is_active=true", wantIDs: []string{notice.ID, event.ID}},
		{name: "inactive", query: "?is_active=false", wantIDs: []string{report.ID}},
		{name: "newest first", query: "?ordering=-created_at", wantIDs: []string{event.ID, report.ID, notice.ID}},
		{name: "by title", query: "?ordering=title", wantIDs: []string{report.ID, notice.ID, event.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []content.Content
			code := doJSON(t, env.app, http.MethodGet, "/v1/contents"+tt.query, nil, &got)
			require.Equal(t, http.StatusOK, code)

			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	runHTTPTests(t, env.app, []httpTest{
		{
			name:     "bad kind",
			path:     "/v1/contents?kind=memo",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"kind":"unknown content kind"}`),
		},
		{
			name:     "bad ordering",
			path:     "/v1/contents?ordering=-password",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"ordering":"invalid ordering field"}`),
		},
		{
			name:     "bad is_active",
			path:     "/v1/contents?is_active=maybe",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"is_active":"must be a boolean"}`),
		},
	})
}

func TestContentAPI_Retrieve(t *testing.T) {
	env := setup(t)
	c := testutil.CreateContent(t, env.contentRepo, content.KindPrivacyPolicy, "Privacy", "<p>We care</p>", true)

	var got content.Content
	code := doJSON(t, env.app, http.MethodGet, "/v1/contents/"+c.ID, nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Body, got.Body)

	runHTTPTests(t, env.app, []httpTest{
		{name: "unknown id", path: "/v1/contents/" + uuid.New().String(), wantCode: http.StatusNotFound, wantData: []byte(`{"error":"not found"}`)},
		{name: "malformed id", path: "/v1/contents/42", wantCode: http.StatusNotFound, wantData: []byte(`{"error":"not found"}`)},
	})
}

func TestContentAPI_Update(t *testing.T) {
	env := setup(t)
	c := testutil.CreateContent(t, env.contentRepo, content.KindAreaHistory, "History", "<p>Old</p>", true)

	body := "New <em>chapter</em>"
	var got content.Content
	code := doJSON(t, env.app, http.MethodPut, "/v1/contents/"+c.ID, marchallObj(t, content.UpdateContent{Body: &body}), &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "History", got.Title)
	assert.Equal(t, "<p>New <i>chapter</i></p>", got.Body)

	empty := "<p></p>"
	req, rec := newRequest(http.MethodPut, "/v1/contents/"+c.ID, marchallObj(t, content.UpdateContent{Body: &empty}))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"body":"this field is required"}`)}, rec)

	req, rec = newRequest(http.MethodPut, "/v1/contents/"+uuid.New().String(), marchallObj(t, content.UpdateContent{Title: "x"}))
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentAPI_ToggleStatus(t *testing.T) {
	env := setup(t)
	c := testutil.CreateContent(t, env.contentRepo, content.KindNotice, "Exams", "<p>Next week</p>", false)

	var got content.Content
	code := doJSON(t, env.app, http.MethodPatch, "/v1/contents/"+c.ID+"/status", nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, got.IsActive)
	assert.NotNil(t, got.PublishedAt)
	assert.Len(t, env.mailSvc.SentMessages(), 1)

	code = doJSON(t, env.app, http.MethodPatch, "/v1/contents/"+c.ID+"/status", nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, got.IsActive)
	assert.Len(t, env.mailSvc.SentMessages(), 1)
}

func TestContentAPI_Render(t *testing.T) {
	env := setup(t)
	c := testutil.CreateContent(t, env.contentRepo, content.KindCommitteeMember, "Jo", "Chair since 2019 & treasurer", true)

	var got content.Display
	code := doJSON(t, env.app, http.MethodGet, "/v1/contents/"+c.ID+"/render", nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "<p>Chair since 2019 &amp; treasurer</p>", got.HTML)
	assert.Equal(t, "Chair since 2019 & treasurer", got.Text)
	assert.Equal(t, "Chair since 2019 & treasurer", got.Excerpt)
}
