package model_test

import (
	"errors"
	"math"
	"testing"
	"time"

	model "github.com/okian/roster/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validFields() model.Fields {
	return model.Fields{
		Name:             "Ana",
		Role:             "Analyst",
		Compensation:     5000,
		City:             "Recife",
		Education:        "Masters",
		Specialty:        "Data",
		AbsenteeismRate:  2.5,
		PerformanceScore: 90,
	}
}

func TestNewRecord(t *testing.T) {
	convey.Convey("Given valid fields in mixed case", t, func() {
		start := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC)
		f := validFields()
		f.City = "  recife "

		convey.Convey("When building a record", func() {
			rec, err := model.NewRecord(f, start)

			convey.Convey("Then every string field is upper-cased", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Name, convey.ShouldEqual, "ANA")
				convey.So(rec.Role, convey.ShouldEqual, "ANALYST")
				convey.So(rec.City, convey.ShouldEqual, "RECIFE")
				convey.So(rec.Education, convey.ShouldEqual, "MASTERS")
				convey.So(rec.Specialty, convey.ShouldEqual, "DATA")
			})

			convey.Convey("And numbers are kept as given", func() {
				convey.So(rec.Compensation, convey.ShouldEqual, 5000.0)
				convey.So(rec.AbsenteeismRate, convey.ShouldEqual, 2.5)
				convey.So(rec.PerformanceScore, convey.ShouldEqual, 90.0)
			})

			convey.Convey("And the start is truncated to microseconds", func() {
				convey.So(rec.Start.Nanosecond(), convey.ShouldEqual, 123456000)
			})
		})
	})

	convey.Convey("Given invalid fields", t, func() {
		now := time.Now()
		cases := map[string]func(*model.Fields){
			"empty name":           func(f *model.Fields) { f.Name = "" },
			"blank name":           func(f *model.Fields) { f.Name = "   " },
			"negative pay":         func(f *model.Fields) { f.Compensation = -1 },
			"NaN pay":              func(f *model.Fields) { f.Compensation = math.NaN() },
			"absenteeism over 100": func(f *model.Fields) { f.AbsenteeismRate = 100.5 },
			"negative absenteeism": func(f *model.Fields) { f.AbsenteeismRate = -0.1 },
			"performance over 100": func(f *model.Fields) { f.PerformanceScore = 101 },
			"infinite performance": func(f *model.Fields) { f.PerformanceScore = math.Inf(1) },
		}

		for name, mutate := range cases {
			f := validFields()
			mutate(&f)
			_, err := model.NewRecord(f, now)

			convey.Convey("Then "+name+" is a validation error", func() {
				convey.So(errors.Is(err, model.ErrValidation), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given boundary values", t, func() {
		f := validFields()
		f.AbsenteeismRate = 100
		f.PerformanceScore = 0
		f.Compensation = 0

		_, err := model.NewRecord(f, time.Now())

		convey.Convey("Then they are accepted", func() {
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

func TestRecord_ElapsedDays(t *testing.T) {
	convey.Convey("Given a record started at a fixed instant", t, func() {
		start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		rec := model.Record{Name: "X", Start: start}

		convey.Convey("Then less than a day is zero", func() {
			convey.So(rec.ElapsedDays(start.Add(23*time.Hour)), convey.ShouldEqual, 0)
		})

		convey.Convey("Then exactly one day is one", func() {
			convey.So(rec.ElapsedDays(start.Add(24*time.Hour)), convey.ShouldEqual, 1)
		})

		convey.Convey("Then partial days are floored", func() {
			convey.So(rec.ElapsedDays(start.Add(10*24*time.Hour+5*time.Hour)), convey.ShouldEqual, 10)
		})

		convey.Convey("Then a future start is negative", func() {
			convey.So(rec.ElapsedDays(start.Add(-time.Hour)), convey.ShouldEqual, -1)
		})
	})
}

func TestNormalizeName(t *testing.T) {
	convey.Convey("Given names in different cases", t, func() {
		convey.So(model.NormalizeName("ana"), convey.ShouldEqual, "ANA")
		convey.So(model.NormalizeName(" Ana "), convey.ShouldEqual, "ANA")
		convey.So(model.NormalizeName("ANA"), convey.ShouldEqual, "ANA")
	})
}
