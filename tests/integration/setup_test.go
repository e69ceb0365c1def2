package integration

import (
	"os"
	"testing"

	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/Shadowjumper3000/markboard/tests/testutil"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// setupTest creates a test database and returns it with its fixtures
func setupTest(t *testing.T) (*testutil.TestDB, *testutil.Fixtures) {
	t.Helper()
	tdb := testutil.SetupTestDB(t)
	return tdb, testutil.NewFixtures(tdb.DB)
}

func newActivityService(tdb *testutil.TestDB) *services.ActivityService {
	return services.NewActivityService(tdb.DB)
}
