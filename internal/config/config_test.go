package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-pbp-lineups/internal/config"
	"github.com/pable/go-pbp-lineups/internal/lineup"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.OverflowPolicy, convey.ShouldEqual, "reject")
			convey.So(cfg.SubMarkers, convey.ShouldNotBeEmpty)
			convey.So(filepath.Base(cfg.DBPath), convey.ShouldEqual, "lineups.db")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Overflow(), convey.ShouldEqual, lineup.OverflowReject)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearEnv(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.OverflowPolicy, convey.ShouldEqual, "reject")
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := filepath.Join(t.TempDir(), "pbp.yaml")
			doc := "db_path: /tmp/x.db\nworkers: 3\noverflow_policy: truncate\nsub_markers: [Wechsel, Sub]\n"
			convey.So(os.WriteFile(path, []byte(doc), 0o644), convey.ShouldBeNil)

			cfg, err := config.Load(path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/x.db")
				convey.So(cfg.Workers, convey.ShouldEqual, 3)
				convey.So(cfg.Overflow(), convey.ShouldEqual, lineup.OverflowTruncate)
				convey.So(cfg.SubMarkers, convey.ShouldResemble, []string{"Wechsel", "Sub"})
			})

			convey.Convey("And environment variables override the file", func() {
				t.Setenv("PBP_WORKERS", "7")
				t.Setenv("PBP_SUB_MARKERS", "Cambio, Sub")

				cfg, err := config.Load(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 7)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/x.db")
				convey.So(cfg.SubMarkers, convey.ShouldResemble, []string{"Cambio", "Sub"})
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When values are out of range", func() {
			t.Setenv("PBP_WORKERS", "0")
			_, err := config.Load("")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the overflow policy is unknown", func() {
			t.Setenv("PBP_OVERFLOW_POLICY", "guess")
			_, err := config.Load("")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log level is unknown", func() {
			t.Setenv("PBP_LOG_LEVEL", "chatty")
			_, err := config.Load("")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PBP_CONFIG", "PBP_DB_PATH", "PBP_LOG_LEVEL", "PBP_WORKERS",
		"PBP_OVERFLOW_POLICY", "PBP_SUB_MARKERS", "PBP_METRICS_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
