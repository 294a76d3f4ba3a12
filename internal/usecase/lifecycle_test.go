package usecase

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/database"
)

func newSQLiteRepo(t *testing.T) *database.PreliminaryLeadRepository {
	t.Helper()
	db, err := sql.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	dialect, err := database.DialectFor(database.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, dialect))
	return database.NewPreliminaryLeadRepository(db, time.Second)
}

func TestLifecycleCaptureThenRelease(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	capture := NewCaptureLeadUseCase(repo, nil, nil)
	release := NewReleaseLeadUseCase(repo, nil, nil)
	list := NewListPreliminariesUseCase(repo)

	out, err := capture.Execute(ctx, CaptureLeadInput{Phone: "+1 (555) 123-4567", Name: "Ana", Landing: "https://x/lp1"})
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, out.Status)
	assert.Equal(t, "15551234567", out.Phone)

	leads, err := list.Execute(ctx, 200)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana", leads[0].Name)

	rel, err := release.Execute(ctx, ReleaseLeadInput{Phone: "15551234567", LandingOriginal: "https://x/lp1"})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, rel.Status)
	assert.Equal(t, int64(1), rel.Deleted)

	rel, err = release.Execute(ctx, ReleaseLeadInput{Phone: "15551234567", LandingOriginal: "https://x/lp1"})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, rel.Status)
	assert.Zero(t, rel.Deleted)

	leads, err = list.Execute(ctx, 200)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestLifecycleCaptureConvergesOnLatestValues(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	capture := NewCaptureLeadUseCase(repo, nil, nil)

	_, err := capture.Execute(ctx, CaptureLeadInput{Phone: "11999999999", Name: "Jo", Email: "jo@x.com", Landing: "https://x/lp1"})
	require.NoError(t, err)
	_, err = capture.Execute(ctx, CaptureLeadInput{Phone: "(11) 99999-9999", Name: "João", Email: "joao@x.com", Landing: "https://x/lp1"})
	require.NoError(t, err)

	leads, err := NewListPreliminariesUseCase(repo).Execute(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "João", leads[0].Name)
	assert.Equal(t, "joao@x.com", leads[0].Email)
}

func TestLifecycleIncompletePhoneStoresNothing(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	out, err := NewCaptureLeadUseCase(repo, nil, nil).Execute(ctx, CaptureLeadInput{Phone: "555-12", Landing: "https://x/lp1"})
	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, out.Status)

	leads, err := NewListPreliminariesUseCase(repo).Execute(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestLifecycleSweepKeepsRecentRows(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	capture := NewCaptureLeadUseCase(repo, nil, nil)

	capture.Now = func() time.Time { return fixedNow.AddDate(0, 0, -14) }
	_, err := capture.Execute(ctx, CaptureLeadInput{Phone: "1111111111", Landing: "https://x/old"})
	require.NoError(t, err)

	capture.Now = func() time.Time { return fixedNow.AddDate(0, 0, -1) }
	_, err = capture.Execute(ctx, CaptureLeadInput{Phone: "2222222222", Landing: "https://x/new"})
	require.NoError(t, err)

	sweep := NewSweepExpiredUseCase(repo, nil, nil, 13*24*time.Hour)
	sweep.Now = fixedClock
	out, err := sweep.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Deleted)

	leads, err := NewListPreliminariesUseCase(repo).Execute(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "2222222222", leads[0].Phone)
}

func TestLifecycleRelativeLandingsStayDistinct(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	capture := NewCaptureLeadUseCase(repo, nil, nil)
	release := NewReleaseLeadUseCase(repo, nil, nil)
	list := NewListPreliminariesUseCase(repo)

	_, err := capture.Execute(ctx, CaptureLeadInput{Phone: "15551234567", Name: "A", Landing: "/lp1", RequestURL: "https://x/ref"})
	require.NoError(t, err)
	_, err = capture.Execute(ctx, CaptureLeadInput{Phone: "15551234567", Name: "B", Landing: "/lp2", RequestURL: "https://x/ref"})
	require.NoError(t, err)
	_, err = capture.Execute(ctx, CaptureLeadInput{Phone: "15551234567", Name: "C", Landing: "https://x/thanks"})
	require.NoError(t, err)

	leads, err := list.Execute(ctx, 200)
	require.NoError(t, err)
	require.Len(t, leads, 3)

	// landing_original relativo vence a landing absoluta da página de obrigado.
	rel, err := release.Execute(ctx, ReleaseLeadInput{Phone: "15551234567", Landing: "https://x/thanks", LandingOriginal: "/lp1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rel.Deleted)

	leads, err = list.Execute(ctx, 200)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	landings := []string{leads[0].LandingURL, leads[1].LandingURL}
	assert.ElementsMatch(t, []string{"/lp2", "https://x/thanks"}, landings)
}
