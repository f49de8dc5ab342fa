package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/okian/roster/internal/adapters/repository"
	service "github.com/okian/roster/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by a roster file", t, func() {
		path := filepath.Join(t.TempDir(), "servers.json")
		ctx := context.Background()

		svc := service.New(service.WithDataFile(path))
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Add(ctx, person("Ana", 2.5, 90, 5000))
		So(err, ShouldBeNil)
		_, err = svc.Add(ctx, person("bruno", 4, 75, 4200))
		So(err, ShouldBeNil)
		svc.Stop()

		Convey("When a new service starts on the same file", func() {
			again := service.New(service.WithDataFile(path))
			So(again.Start(ctx), ShouldBeNil)
			defer again.Stop()

			Convey("Then the roster survives the restart", func() {
				So(again.GetStats()["totalServers"], ShouldEqual, 2)

				ana, err := again.Get(ctx, "ana")
				So(err, ShouldBeNil)
				So(ana.AbsenteeismRate, ShouldEqual, 2.5)
				So(ana.Compensation, ShouldEqual, 5000)

				rows, err := again.Compensation(ctx)
				So(err, ShouldBeNil)
				So(rows[0].Name, ShouldEqual, "ANA")
				So(rows[1].Name, ShouldEqual, "BRUNO")
			})

			Convey("And similarity runs over the loaded records", func() {
				resp, err := again.Similar(ctx, "bruno", 0)
				So(err, ShouldBeNil)
				So(resp.Neighbors, ShouldHaveLength, 1)
				So(resp.Neighbors[0].Name, ShouldEqual, "ANA")
			})
		})

		Convey("When the file is corrupted before a restart", func() {
			So(os.WriteFile(path, []byte(`{"ANA": {"name": `), 0o600), ShouldBeNil)
			broken := service.New(service.WithDataFile(path))

			Convey("Then start fails with a decode error", func() {
				err := broken.Start(ctx)
				So(errors.Is(err, repository.ErrDecode), ShouldBeTrue)
				So(broken.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a data file that does not exist yet", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "servers.json")
		svc := service.New(service.WithDataFile(path))

		Convey("Then the service starts empty and creates it on first insert", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()
			So(svc.GetStats()["totalServers"], ShouldEqual, 0)

			_, err := svc.Add(context.Background(), person("carla", 1, 1, 1))
			So(err, ShouldBeNil)
			_, err = os.Stat(path)
			So(err, ShouldBeNil)
		})
	})
}
