package sweep

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The opencensus view worker is started by an init in a dependency of the
	// Gemini SDK and lives for the whole process.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}
