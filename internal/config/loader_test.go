package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-tennis-grader/internal/config"
)

var configEnvVars = []string{
	"GRADER_CONFIG", "GRADER_DB_PATH", "GRADER_ADDR", "GRADER_LOG_LEVEL",
	"GRADER_LOG_FORMAT", "GRADER_CORS_ORIGINS", "GRADER_DEFAULT_MY_NAME",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grader.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.DefaultMyName, convey.ShouldEqual, "Me")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"*"})
				convey.So(cfg.DBPath, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("GRADER_ADDR", ":9999")
			_ = os.Setenv("GRADER_DB_PATH", "/tmp/grader-test.db")
			_ = os.Setenv("GRADER_CORS_ORIGINS", "http://a.test,http://b.test")
			_ = os.Setenv("GRADER_DEFAULT_MY_NAME", "Ana")

			cfg, err := config.Load("")

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/grader-test.db")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
				convey.So(cfg.DefaultMyName, convey.ShouldEqual, "Ana")
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := writeConfigFile(t, `
addr: ":7070"
log_level: debug
cors_origins:
  - http://localhost:3000
default_oppo_name: Bea
`)

			convey.Convey("Then the file values are used", func() {
				cfg, err := config.Load(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://localhost:3000"})
				convey.So(cfg.DefaultOppoName, convey.ShouldEqual, "Bea")
			})

			convey.Convey("Then GRADER_CONFIG points at it too", func() {
				_ = os.Setenv("GRADER_CONFIG", path)
				cfg, err := config.Load("")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})

			convey.Convey("Then env still wins over the file", func() {
				_ = os.Setenv("GRADER_ADDR", ":6060")
				cfg, err := config.Load(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			_ = os.Setenv("GRADER_LOG_FORMAT", "xml")
			_, err := config.Load("")

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
