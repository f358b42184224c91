package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

func TestListQueryValues(t *testing.T) {
	q := ListQuery{Q: "laptop", Site: "shop-a", Page: 2, PerPage: 25, OrderBy: "last_price", Reversed: true}
	v := q.Values()

	if v.Get("q") != "laptop" || v.Get("site") != "shop-a" {
		t.Errorf("unexpected filters: %v", v)
	}
	if v.Get("page") != "2" || v.Get("per_page") != "25" {
		t.Errorf("unexpected paging: %v", v)
	}
	if v.Get("order_by") != "last_price" || v.Get("reversed") != "true" {
		t.Errorf("unexpected sort: %v", v)
	}
}

func TestListQueryValuesOmitsDefaults(t *testing.T) {
	v := ListQuery{}.Values()
	if len(v) != 0 {
		t.Errorf("expected empty values, got %v", v)
	}

	// reversed only travels with an explicit sort column
	v = ListQuery{Reversed: true}.Values()
	if v.Get("reversed") != "" {
		t.Errorf("expected reversed omitted without order_by, got %v", v)
	}
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "ssd" {
			t.Errorf("expected q=ssd, got %q", r.URL.Query().Get("q"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"total":    1,
			"page":     1,
			"per_page": 10,
			"items": []map[string]any{
				{"id": 7, "site_name": "shop-a", "title": "SSD 1TB", "last_price": 24999},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.ListProducts(ListQuery{Q: "ssd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	item := page.Items[0]
	if item.ID != 7 || item.Title != "SSD 1TB" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.LastPrice == nil || *item.LastPrice != 24999 {
		t.Errorf("unexpected price: %+v", item.LastPrice)
	}
	if item.Rating != nil {
		t.Errorf("expected nil rating, got %v", *item.Rating)
	}
}

func TestGetProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	p, err := client.GetProduct(99)
	if err != nil {
		t.Fatalf("expected nil error for missing product, got %v", err)
	}
	if p != nil {
		t.Errorf("expected nil product, got %+v", p)
	}
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListProducts(ListQuery{})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsNotFound(err) {
		t.Error("500 must not classify as not found")
	}
}

func TestAckFalseSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "scrape already running"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.TriggerScrape("laptop")
	if err == nil {
		t.Fatal("expected error from ok:false")
	}
	if err.Error() != "scrape already running" {
		t.Errorf("expected server message, got %q", err.Error())
	}
}

func TestNoBodyMutationsSucceed(t *testing.T) {
	// Most mutation endpoints answer 200 with a bare null body. That is a
	// success, not a rejection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/add_watch_products" && r.URL.RawQuery != "" {
			t.Errorf("unexpected query on add_watch_products: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.AddWatch([]int{4, 5}); err != nil {
		t.Errorf("AddWatch: unexpected error: %v", err)
	}
	if err := client.DeleteWatch([]int{4}); err != nil {
		t.Errorf("DeleteWatch: unexpected error: %v", err)
	}
	if err := client.SetNotifyPrice(4, 9900); err != nil {
		t.Errorf("SetNotifyPrice: unexpected error: %v", err)
	}
	if err := client.SaveSite(0, models.SiteConfig{Name: "shop"}); err != nil {
		t.Errorf("SaveSite: unexpected error: %v", err)
	}
	if err := client.DeleteSite(0); err != nil {
		t.Errorf("DeleteSite: unexpected error: %v", err)
	}
	if err := client.DeleteSchedule(); err != nil {
		t.Errorf("DeleteSchedule: unexpected error: %v", err)
	}
}

func TestDeleteProductsSendsIDsAndReturnsCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/bulk_delete" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Numbers []int `json:"numbers"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if len(payload.Numbers) != 2 || payload.Numbers[0] != 3 || payload.Numbers[1] != 9 {
			t.Errorf("unexpected ids: %v", payload.Numbers)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "deleted": 2})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	deleted, err := client.DeleteProducts([]int{3, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
}

func TestScrapeStatusRunningSpellings(t *testing.T) {
	status := "in_progress"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": status, "len_products": 0})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	st, err := client.ScrapeStatus()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.IsRunning() {
		t.Errorf("expected %q to count as running", status)
	}

	status = "done"
	st, _ = client.ScrapeStatus()
	if st.IsRunning() {
		t.Error("done must not count as running")
	}
}

func TestSettingsSentinelRoundTrip(t *testing.T) {
	var saved map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_config":
			// the backend stringifies the stored values and reports the
			// count threshold as min_ratings
			json.NewEncoder(w).Encode(map[string]string{
				"min_price": "-1", "max_price": "500", "min_rating": "4.0", "min_ratings": "-1.0",
			})
		case "/change_config":
			saved = map[string]string{}
			for k := range r.URL.Query() {
				saved[k] = r.URL.Query().Get(k)
			}
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	settings, err := client.GetSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// -1 sentinels decode as unset
	if settings.MinPrice != "" || settings.MinRatings != "" {
		t.Errorf("expected sentinels mapped to empty, got %+v", settings)
	}
	if settings.MaxPrice != "500" || settings.MinRating != "4" {
		t.Errorf("unexpected values: %+v", settings)
	}

	settings.MinPrice = ""
	settings.MaxPrice = "750.5"
	if err := client.SaveSettings(settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved["min_price"] != "-1" {
		t.Errorf("expected empty encoded as -1, got %v", saved["min_price"])
	}
	if saved["max_price"] != "750.5" {
		t.Errorf("expected 750.5, got %v", saved["max_price"])
	}
	if saved["min_rating_number"] != "-1" {
		t.Errorf("expected -1 sentinel, got %v", saved["min_rating_number"])
	}
}

func TestSaveScheduleClearsExistingSlot(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if r.URL.Path == "/add_schedule" {
			if r.URL.Query().Get("query") != "gpu" || r.URL.Query().Get("time") != "08:00" {
				t.Errorf("unexpected schedule params: %v", r.URL.Query())
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SaveSchedule(models.ScheduleData{Query: "gpu", Time: "08:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "/delete_schedule" || calls[1] != "/add_schedule" {
		t.Errorf("expected delete then add, got %v", calls)
	}
}

func TestSiteRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_site_number":
			json.NewEncoder(w).Encode(map[string]int{"nr_sites": 2})
		case "/get_site_settings":
			// the backend answers flat; the selectors are not nested
			idx := r.URL.Query().Get("index")
			json.NewEncoder(w).Encode(map[string]any{
				"name":    "shop-" + idx,
				"url":     "https://shop-" + idx + ".example",
				"product": "div.product",
				"price":   "span.price",
			})
		case "/set_site_settings":
			q := r.URL.Query()
			if q.Get("index") != "2" {
				t.Errorf("expected append index 2, got %q", q.Get("index"))
			}
			// every field travels as a query parameter, not a body
			if q.Get("name") != "new-shop" || q.Get("product") != "li.item" {
				t.Errorf("unexpected site params: %v", q)
			}
			if q.Get("url_searchTemplate") != "https://new.example/s?q={query}" {
				t.Errorf("unexpected search template: %q", q.Get("url_searchTemplate"))
			}
			body, _ := io.ReadAll(r.Body)
			if len(body) != 0 {
				t.Errorf("expected empty body, got %q", body)
			}
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	sites, err := client.LoadAllSites()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sites) != 2 || sites[0].Name != "shop-0" || sites[1].Name != "shop-1" {
		t.Errorf("unexpected sites: %+v", sites)
	}
	if sites[0].Selectors.Product != "div.product" || sites[0].Selectors.Price != "span.price" {
		t.Errorf("flat selectors lost in decode: %+v", sites[0].Selectors)
	}

	// appending writes one past the last index
	cfg := models.SiteConfig{
		Name:              "new-shop",
		URLSearchTemplate: "https://new.example/s?q={query}",
		Selectors:         models.SiteSelectors{Product: "li.item"},
	}
	if err := client.SaveSite(2, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsTracked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the backend names the parameter id, not product_id
		if r.URL.Query().Get("id") != "12" {
			t.Errorf("expected id=12, got %q", r.URL.Query().Get("id"))
		}
		json.NewEncoder(w).Encode(map[string]any{"tracked": true, "max_price": 9900})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	st, err := client.IsTracked(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Tracked || st.MaxPrice != 9900 {
		t.Errorf("unexpected track state: %+v", st)
	}
}

func TestHistoryComesBackInServerOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/5/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "product_id": 5, "price_minor": 10000, "captured_at": "2026-08-01T00:00:00Z"},
			{"id": 2, "product_id": 5, "price_minor": 9000, "captured_at": "2026-08-02T00:00:00Z"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	history, err := client.GetHistory(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the client does not reorder; oldest capture stays first
	if len(history) != 2 || history[0].ID != 1 || history[1].ID != 2 {
		t.Errorf("unexpected history: %+v", history)
	}
}
