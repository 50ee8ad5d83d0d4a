package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"funding/internal/core"
	"funding/internal/dataset"
	applog "funding/internal/log"
	"funding/internal/services"
)

func sampleTable() *core.Table {
	raw := []core.RawRecord{
		{Date: "2015-01-05", Startup: "Ola Cabs", Investors: "Sequoia Capital, Accel Partners", Vertical: "Transport", City: "Bangalore", Round: "Series A", Amount: "5"},
		{Date: "2015-01-20", Startup: "Ola Cabs", Investors: "SoftBank Group", Vertical: "Transport", City: "Bangalore", Round: "Series B", Amount: "7"},
		{Date: "2016-02-02", Startup: "Flipkart", Investors: "Tiger Global, Accel Partners", Vertical: "E-Commerce", City: "Bangalore", Round: "Series C", Amount: "3"},
		{Date: "2016-03-10", Startup: "Uber", Investors: "Benchmark", Vertical: "Transport", City: "New Delhi", Round: "Seed", Amount: "undisclosed"},
	}
	return dataset.Build(raw, nil, "file:sample.csv", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
}

func newTestServer(t *testing.T, store *dataset.Store) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		Addr:   ":0",
		Logger: applog.New(applog.Config{Output: io.Discard}),
	}, services.NewDashboardService(store), store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { srv.limiter.Stop() })
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestIndexOverall(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	rr := get(t, srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Overall Analysis", "Funding Heatmap", "/charts/mom?trend=total", "15 Cr", "Top Investors"} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}

	rr = get(t, srv, "/?mode=overall&trend=count&year=2016")
	if !strings.Contains(rr.Body.String(), "/charts/mom?trend=count") {
		t.Errorf("trend selection not reflected")
	}
	if !strings.Contains(rr.Body.String(), `<option value="2016" selected>`) {
		t.Errorf("year selection not reflected")
	}
}

func TestPickerDoesNotAggregate(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	for _, target := range []string{"/?mode=startup", "/startup"} {
		rr := get(t, srv, target)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", target, rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "Find StartUp Details") || !strings.Contains(body, `value="ola"`) {
			t.Errorf("%s: picker missing", target)
		}
		if strings.Contains(body, "Funding Rounds") || strings.Contains(body, "No data found") {
			t.Errorf("%s: picker alone must not compute a profile", target)
		}
	}
}

func TestStartupProfilePage(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	rr := get(t, srv, "/startup?name=ola")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"<h2>Ola</h2>", "Funding Rounds", "12 Cr", "Bangalore", `<option value="ola" selected>`} {
		if !strings.Contains(body, want) {
			t.Errorf("profile missing %q", want)
		}
	}

	for _, target := range []string{"/startup?name=nobody", "/startup?name="} {
		rr = get(t, srv, target)
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "No data found") {
			t.Errorf("%s: expected no-data page, got %d", target, rr.Code)
		}
		if strings.Contains(rr.Body.String(), "Funding Rounds") {
			t.Errorf("%s: no further aggregation expected", target)
		}
	}
}

func TestInvestorProfilePage(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	rr := get(t, srv, "/investor?name=accel+partners")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Accel Partners", "Most Recent Investments", "/charts/investor-biggest?name=accel", "Similar Investors"} {
		if !strings.Contains(body, want) {
			t.Errorf("investor page missing %q", want)
		}
	}
}

func TestChartsServeSVG(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	for _, target := range []string{"/charts/mom", "/charts/mom?trend=count", "/charts/sectors-count", "/charts/cities", "/charts/investor-yoy?name=accel"} {
		rr := get(t, srv, target)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", target, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("%s content type %q", target, ct)
		}
		if !strings.Contains(rr.Body.String(), "<svg") {
			t.Errorf("%s: body is not svg", target)
		}
	}

	if rr := get(t, srv, "/charts/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown chart status=%d", rr.Code)
	}
	if rr := get(t, srv, "/charts/investor-sectors?name=nobody"); rr.Code != http.StatusNotFound {
		t.Errorf("missing investor status=%d", rr.Code)
	}
}

func TestAPI(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	rr := get(t, srv, "/api/overall")
	if rr.Code != http.StatusOK {
		t.Fatalf("overall status=%d", rr.Code)
	}
	var ov struct {
		Rows           int    `json:"rows"`
		Source         string `json:"source"`
		FundedStartups int    `json:"funded_startups"`
		Year           int    `json:"year"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overall: %v", err)
	}
	if ov.Rows != 4 || ov.Source != "file:sample.csv" || ov.FundedStartups != 3 || ov.Year != 2015 {
		t.Errorf("unexpected overview %+v", ov)
	}

	rr = get(t, srv, "/api/startups?name=nobody")
	if rr.Code != http.StatusNotFound || strings.TrimSpace(rr.Body.String()) != `{"error":"no data"}` {
		t.Errorf("miss: %d %s", rr.Code, rr.Body.String())
	}

	rr = get(t, srv, "/api/startups?name=uber")
	var st struct {
		Name   string `json:"name"`
		Recent []struct {
			Amount *string `json:"amount"`
		} `json:"recent"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode startup: %v", err)
	}
	if st.Name != "uber" || len(st.Recent) != 1 || st.Recent[0].Amount != nil {
		t.Errorf("unexpected startup %+v", st)
	}

	rr = get(t, srv, "/api/investors?name=accel")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"matches":2`) {
		t.Errorf("investor: %d %s", rr.Code, rr.Body.String())
	}

	rr = get(t, srv, "/api/entities?mode=investor")
	var ents entitiesDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &ents); err != nil {
		t.Fatalf("decode entities: %v", err)
	}
	if ents.Mode != services.ModeInvestor || len(ents.Names) != 5 {
		t.Errorf("unexpected entities %+v", ents)
	}
	if rr := get(t, srv, "/api/entities"); !strings.Contains(rr.Body.String(), `"names":[]`) {
		t.Errorf("overall entities should be empty: %s", rr.Body.String())
	}
}

func TestHealthAndReadiness(t *testing.T) {
	empty := dataset.NewStore(nil, nil)
	srv := newTestServer(t, empty)

	if rr := get(t, srv, "/healthz"); rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}
	if rr := get(t, srv, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz before load status=%d", rr.Code)
	}
	rr := get(t, srv, "/")
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "not been loaded") {
		t.Fatalf("index before load: %d", rr.Code)
	}
	if rr := get(t, srv, "/api/overall"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("api before load status=%d", rr.Code)
	}

	loaded := newTestServer(t, dataset.NewStaticStore(sampleTable()))
	if rr := get(t, loaded, "/readyz"); rr.Code != http.StatusOK {
		t.Fatalf("readyz after load status=%d", rr.Code)
	}
}

func TestMiddlewareChain(t *testing.T) {
	srv := newTestServer(t, dataset.NewStaticStore(sampleTable()))

	rr := get(t, srv, "/healthz")
	for _, h := range []string{"X-Request-ID", "Content-Security-Policy", "X-Content-Type-Options"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}

	rr = get(t, srv, "/static/style.css")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Cache-Control"), "public") {
		t.Errorf("static: %d %q", rr.Code, rr.Header().Get("Cache-Control"))
	}

	if rr := get(t, srv, "/nowhere"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown path status=%d", rr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	store := dataset.NewStaticStore(sampleTable())
	srv, err := NewServer(Config{
		RateLimitPerMinute: 2,
		Logger:             applog.New(applog.Config{Output: io.Discard}),
	}, services.NewDashboardService(store), store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer srv.limiter.Stop()

	var last int
	for i := 0; i < 3; i++ {
		last = get(t, srv, "/healthz").Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", last)
	}
}
