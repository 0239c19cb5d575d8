package bootstrap

import (
	"testing"

	"healthmon-backend/internal/testutil"
)

func TestCloseReleasesPartiallyBuiltApp(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := &App{DB: db}

	app.Close()

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatal("expected the database pool to be closed")
	}
}

func TestCloseOnEmptyApp(t *testing.T) {
	(&App{}).Close()
}
