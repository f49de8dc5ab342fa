package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	app "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		panic(err)
	}
}

func TestHandlerEndToEnd(t *testing.T) {
	convey.Convey("Given the server handler over a file backed service", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "servers.json")
		svc := app.New(app.WithDataFile(path), app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newHandler(ctx, svc, logger.Nop()))
		defer ts.Close()

		post := func(body string) *http.Response {
			resp, err := http.Post(ts.URL+"/servers", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			return resp
		}

		convey.Convey("When three servers are posted", func() {
			for _, body := range []string{
				`{"name":"first","role":"analista","compensation":5000,"absenteeism_rate":1,"performance_score":90}`,
				`{"name":"second","role":"tecnico","compensation":5000,"absenteeism_rate":2,"performance_score":80}`,
				`{"name":"third","role":"auxiliar","compensation":5000,"absenteeism_rate":3,"performance_score":70}`,
			} {
				resp := post(body)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)
			}

			convey.Convey("Then the nearest to the first is the second", func() {
				resp, err := http.Get(ts.URL + "/servers/First/similar?k=1")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var got struct {
					Target    string `json:"target"`
					Neighbors []struct {
						Name string `json:"name"`
					} `json:"neighbors"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&got), convey.ShouldBeNil)
				convey.So(got.Target, convey.ShouldEqual, "FIRST")
				convey.So(got.Neighbors, convey.ShouldHaveLength, 1)
				convey.So(got.Neighbors[0].Name, convey.ShouldEqual, "SECOND")
			})

			convey.Convey("And the roster file holds all three", func() {
				data, err := os.ReadFile(path)
				convey.So(err, convey.ShouldBeNil)
				var doc map[string]json.RawMessage
				convey.So(json.Unmarshal(data, &doc), convey.ShouldBeNil)
				convey.So(doc, convey.ShouldContainKey, "FIRST")
				convey.So(doc, convey.ShouldContainKey, "THIRD")
			})

			convey.Convey("And the docs are served next to the API", func() {
				resp, err := http.Get(ts.URL + "/openapi.yaml")
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				resp, err = http.Get(ts.URL + "/")
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("Content-Type"), convey.ShouldContainSubstring, "text/html")
			})
		})

		convey.Convey("When a name with a slash is posted", func() {
			resp := post(`{"name":"ana/maria","compensation":10}`)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

			convey.Convey("Then it can be fetched through its escaped path", func() {
				resp, err := http.Get(ts.URL + "/servers/ana%2Fmaria")
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var got struct {
					Name string `json:"name"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&got), convey.ShouldBeNil)
				convey.So(got.Name, convey.ShouldEqual, "ANA/MARIA")
			})
		})

		convey.Convey("When an invalid server is posted", func() {
			resp := post(`{"name":"x","absenteeism_rate":150}`)
			_ = resp.Body.Close()

			convey.Convey("Then it is rejected and nothing is written", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
				_, err := os.Stat(path)
				convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRun_InvalidConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROSTER_MAX_NEIGHBORS", "0")

	convey.Convey("Given an invalid configuration", t, func() {
		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestRun_CorruptRoster(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte("[1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROSTER_DATA_FILE", path)

	convey.Convey("Given a corrupt roster file", t, func() {
		convey.Convey("Then run fails to start the service", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "start service")
		})
	})
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROSTER_ADDR", "127.0.0.1:0")
	t.Setenv("ROSTER_DATA_FILE", filepath.Join(t.TempDir(), "servers.json"))

	convey.Convey("Given a valid configuration", t, func() {
		convey.Convey("Then run serves until the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			convey.So(run(ctx), convey.ShouldBeNil)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given cancelled contexts", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then the updaters return", func() {
			svc := app.New(app.WithDataFile(""), app.WithLogger(logger.Nop()))
			convey.So(func() { startSystemMetricsUpdater(ctx, time.Millisecond) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("And a manual refresh does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
