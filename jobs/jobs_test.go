package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	before := time.Date(2024, 5, 1, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 1, 2, 0, 0, 0, loc), nextRun(before, 2))

	atHour := time.Date(2024, 5, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 2, 2, 0, 0, 0, loc), nextRun(atHour, 2))

	after := time.Date(2024, 5, 31, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 6, 1, 2, 0, 0, 0, loc), nextRun(after, 2))
}

func TestBackupUploadsAndCleanup(t *testing.T) {
	src := t.TempDir()
	backups := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "banners"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "banners", "a.png"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "root.txt"), []byte("root"), 0o644))

	now := time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)
	dest, err := BackupUploads(src, backups, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backups, "2024-05-01_02-00-00"), dest)

	data, err := os.ReadFile(filepath.Join(dest, "banners", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	old := filepath.Join(backups, "2024-01-01_02-00-00")
	require.NoError(t, os.MkdirAll(old, 0o755))
	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, stale, stale))

	removed := CleanupOldBackups(backups, 7*24*time.Hour, time.Now(), logger.Discard())
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, old)
	assert.DirExists(t, dest)

	_, err = BackupUploads(filepath.Join(src, "missing"), backups, now)
	assert.Error(t, err)
	assert.Equal(t, 0, CleanupOldBackups(filepath.Join(backups, "nope"), time.Hour, now, logger.Discard()))
}

func TestExpireSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	overdue := models.CheckoutSession{ID: uuid.NewString(), UserID: user.ID, Status: models.CheckoutActive, ExpiresAt: now.Add(-time.Minute)}
	live := models.CheckoutSession{ID: uuid.NewString(), UserID: user.ID, Status: models.CheckoutActive, ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, db.Create(&overdue).Error)
	require.NoError(t, db.Create(&live).Error)

	r := NewRunner(db, logger.Discard(), Settings{})
	r.now = func() time.Time { return now }
	require.NoError(t, r.ExpireSessions(context.Background()))

	var expired, stillActive models.CheckoutSession
	require.NoError(t, db.First(&expired, "id = ?", overdue.ID).Error)
	assert.Equal(t, models.CheckoutExpired, expired.Status)
	require.NoError(t, db.First(&stillActive, "id = ?", live.ID).Error)
	assert.Equal(t, models.CheckoutActive, stillActive.Status)
}

func TestCleanupGuests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	product := testutil.CreateProduct(t, db, "Oxford shirt", 450000, 10)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	expired := models.GuestUser{ID: uuid.NewString(), ExpiresAt: now.Add(-time.Hour)}
	active := models.GuestUser{ID: uuid.NewString(), ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&active).Error)

	for _, g := range []models.GuestUser{expired, active} {
		guestID := g.ID
		cart := models.Cart{GuestID: &guestID}
		require.NoError(t, db.Create(&cart).Error)
		require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: product.ID, Quantity: 1, UnitPrice: product.Price}).Error)
	}

	r := NewRunner(db, logger.Discard(), Settings{})
	r.now = func() time.Time { return now }
	require.NoError(t, r.CleanupGuests(context.Background()))

	var guests, carts, items int64
	db.Model(&models.GuestUser{}).Count(&guests)
	db.Model(&models.Cart{}).Count(&carts)
	db.Model(&models.CartItem{}).Count(&items)
	assert.EqualValues(t, 1, guests)
	assert.EqualValues(t, 1, carts)
	assert.EqualValues(t, 1, items)

	var left models.Cart
	require.NoError(t, db.First(&left).Error)
	assert.Equal(t, active.ID, *left.GuestID)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := NewRunner(db, logger.Discard(), Settings{
		UploadDir:    t.TempDir(),
		BackupDir:    t.TempDir(),
		SessionSweep: 10 * time.Millisecond,
		GuestSweep:   10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}
