package ops_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/voluntr/voluntr/internal/adapters/http/ops"
)

type fakeStats struct{}

func (fakeStats) GetStats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"started": true, "applications": 2}
}

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	ops.NewServer(fakeStats{}).Register(context.Background(), mux)
	return mux
}

func TestHealth(t *testing.T) {
	Convey("Given the ops routes", t, func() {
		mux := newTestMux()

		Convey("When /healthz is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it reports ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When /metrics is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the scrape includes service collectors", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "voluntr_matching_")
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given the ops routes", t, func() {
		mux := newTestMux()

		Convey("When /stats is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then the provider's view is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.ToLower(rec.Header().Get("Content-Type")), ShouldContainSubstring, "application/json")

				var body map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["started"], ShouldBeTrue)
				So(body["applications"], ShouldEqual, 2)
			})
		})

		Convey("When /stats is posted to", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
