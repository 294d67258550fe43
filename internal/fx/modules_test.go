package fx_test

import (
	"net/http"
	"testing"

	fxmodules "skatebook/internal/fx"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/fx"
)

func TestModule(t *testing.T) {
	Convey("Every constructor the server needs is provided", t, func() {
		err := fx.ValidateApp(
			fxmodules.Module,
			fx.Invoke(func(http.Handler) {}),
		)
		So(err, ShouldBeNil)
	})
}
