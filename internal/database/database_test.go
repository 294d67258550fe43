package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"skatebook/internal/config"
	"skatebook/internal/database"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a fresh database file", t, func() {
		cfg := config.Default()
		cfg.DBPath = filepath.Join(t.TempDir(), "skatebook.db")
		ctx := context.Background()

		db, err := database.New(cfg, zerolog.Nop())
		So(err, ShouldBeNil)
		defer db.Close()

		Convey("Every table is created", func() {
			for _, table := range []string{"skater", "element", "program", "competition", "executed_program", "profile", "friend", "voter"} {
				var name string
				err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
				So(err, ShouldBeNil)
				So(name, ShouldEqual, table)
			}
		})

		Convey("Foreign keys are enforced on pooled connections", func() {
			conn, err := db.Conn(ctx)
			So(err, ShouldBeNil)
			defer conn.Close()

			var on int
			So(conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on), ShouldBeNil)
			So(on, ShouldEqual, 1)
		})

		Convey("Opening it again leaves the schema in place", func() {
			_, err := db.ExecContext(ctx, "INSERT INTO element (id, code, name, element_type, base_value) VALUES ('e1', '3A', 'Triple Axel', 'JUMP', 8.0)")
			So(err, ShouldBeNil)
			So(db.Close(), ShouldBeNil)

			again, err := database.New(cfg, zerolog.Nop())
			So(err, ShouldBeNil)
			defer again.Close()

			var count int
			So(again.QueryRowContext(ctx, "SELECT COUNT(*) FROM element").Scan(&count), ShouldBeNil)
			So(count, ShouldEqual, 1)
		})
	})
}
