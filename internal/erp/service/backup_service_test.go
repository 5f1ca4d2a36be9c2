package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"github.com/Unload-CM/dmc-erp/internal/erp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memObjects keeps archives in memory.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}}
}

func (m *memObjects) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return name, nil
}

func (m *memObjects) Get(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, storage.ErrUnavailable
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjects) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

var backupNow = time.Date(2025, 10, 19, 2, 0, 0, 0, time.UTC)

func newBackupService(t *testing.T, ts *testServices, objects storage.ObjectStore) *BackupService {
	t.Helper()
	cfg := testConfig()
	n := &notifier{cache: ts.cache, publisher: ts.pub, logger: zap.NewNop()}
	svc := NewBackupService(ts.repos, objects, cfg.Backup, n, zap.NewNop())
	svc.now = func() time.Time { return backupNow }
	return svc
}

func TestBackupCreateAndDownload(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	objects := newMemObjects()
	svc := newBackupService(t, ts, objects)

	testutil.SeedInventoryItem(t, ts.db, "강판", "원자재", 12)
	require.NoError(t, ts.db.Migrator().DropTable(entity.CollectionInvoices))

	b, err := svc.Create(ctx, "u1", entity.BackupTypeManual, "월말")
	require.NoError(t, err)
	assert.Equal(t, "manual_backup_2025-10-19_02-00-00", b.BackupName)
	assert.Equal(t, "backups/manual_backup_2025-10-19_02-00-00.json", b.FilePath)
	assert.Contains(t, b.TablesIncluded, entity.CollectionInventory)
	assert.NotContains(t, b.TablesIncluded, entity.CollectionInvoices)
	assert.Positive(t, b.FileSize)

	_, r, err := svc.Download(ctx, b.ID)
	require.NoError(t, err)
	defer r.Close()

	var doc backupDocument
	require.NoError(t, json.NewDecoder(r).Decode(&doc))
	assert.Equal(t, b.BackupName, doc.BackupName)
	require.Len(t, doc.Tables[entity.CollectionInventory], 1)
	assert.Equal(t, "강판", doc.Tables[entity.CollectionInventory][0]["name"])

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.Empty(t, objects.objects)
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBackupWithoutObjectStorage(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	b, err := ts.Backup.Create(ctx, "u1", entity.BackupTypeManual, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.FilePath, storage.LocalPrefix))

	_, _, err = ts.Backup.Download(ctx, b.ID)
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	list, total, err := ts.Backup.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestBackupSettingsSchedule(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	svc := newBackupService(t, ts, newMemObjects())

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.AutoBackupEnabled)
	assert.Equal(t, entity.BackupDaily, settings.BackupFrequency)

	saved, err := svc.SaveSettings(ctx, &BackupSettingsRequest{AutoBackupEnabled: ptr(true), BackupFrequency: entity.BackupWeekly})
	require.NoError(t, err)
	require.NotNil(t, saved.NextScheduledBackup)
	assert.True(t, saved.NextScheduledBackup.Equal(backupNow.AddDate(0, 0, 7)))

	saved, err = svc.SaveSettings(ctx, &BackupSettingsRequest{AutoBackupEnabled: ptr(false), BackupFrequency: entity.BackupWeekly})
	require.NoError(t, err)
	assert.Nil(t, saved.NextScheduledBackup)
}

func TestBackupRunDue(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	svc := newBackupService(t, ts, newMemObjects())

	// disabled
	ran, err := svc.RunDue(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	_, err = svc.SaveSettings(ctx, &BackupSettingsRequest{AutoBackupEnabled: ptr(true), BackupFrequency: entity.BackupDaily})
	require.NoError(t, err)

	// not yet due
	ran, err = svc.RunDue(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	later := backupNow.Add(25 * time.Hour)
	svc.now = func() time.Time { return later }
	ran, err = svc.RunDue(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings.LastBackupAt)
	assert.True(t, settings.LastBackupAt.Equal(later))
	assert.True(t, settings.NextScheduledBackup.Equal(later.AddDate(0, 0, 1)))

	backups, _, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, entity.BackupTypeAuto, backups[0].BackupType)

	// already advanced
	ran, err = svc.RunDue(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}
