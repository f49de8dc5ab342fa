package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current value of a single gauge or counter.
func value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		panic(err)
	}
	if out.Gauge != nil {
		return out.GetGauge().GetValue()
	}
	return out.GetCounter().GetValue()
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the roster defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.namespace, ShouldEqual, "roster")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			labels := map[string]string{"env": "test"}
			manager := NewManager(
				WithNamespace("staff"),
				WithSubsystem("unit"),
				WithMetricPrefix("x"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(labels),
				WithPrometheusRegistry(registry),
			)
			labels["env"] = "mutated"

			Convey("Then the options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.customLabels["env"], ShouldEqual, "test")
			})

			Convey("And collector names carry namespace, subsystem and prefix", func() {
				manager.recordsTotal.Set(4)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "staff_unit_x_records" {
						found = true
						So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 4.0)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When ignoring zero-valued options", func() {
			manager := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithRefreshInterval(0),
				WithHistogramBuckets(nil),
			)

			Convey("Then defaults stay in place", func() {
				So(manager.namespace, ShouldEqual, "roster")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording inserts", func() {
			before := value(globalManager.inserts.WithLabelValues("overwrite"))
			RecordInsert(true)
			RecordInsert(false)

			Convey("Then overwrites are counted separately", func() {
				So(value(globalManager.inserts.WithLabelValues("overwrite")), ShouldEqual, before+1)
			})
		})

		Convey("When updating the record gauge", func() {
			UpdateRecordsTotal(12)
			So(value(globalManager.recordsTotal), ShouldEqual, 12.0)
		})

		Convey("When recording store and query activity", func() {
			So(func() {
				RecordStoreLoad("ok")
				RecordStoreLoad("absent")
				RecordStoreSaveLatency(1.5)
				RecordReport("alphabetical")
				RecordReport("service_time")
				RecordSimilarSearch(0.2, 3)
			}, ShouldNotPanic)
			So(value(globalManager.reports.WithLabelValues("alphabetical")), ShouldBeGreaterThanOrEqualTo, 1.0)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("servers", "POST", "201")
				RecordHTTPRequestDuration("servers", "POST", "201", 3.0)
				RecordErrorByComponent("repository", "persist")
				RecordErrorByEndpoint("similar", "GET", "not_found")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(7)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the registry exposes roster metrics", func() {
			UpdateRecordsTotal(1)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "roster_registry_records")
		})
	})
}
