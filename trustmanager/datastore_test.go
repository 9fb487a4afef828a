package trustmanager

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatastoreCreateAndReader(t *testing.T) {
	ds, err := NewDatastore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ds.Create("1.root.json", []byte("root-v1")))
	b, err := ds.Reader("1.root.json")
	require.NoError(t, err)
	require.Equal(t, "root-v1", string(b))
}

func TestDatastoreCreateOverwritesAtomically(t *testing.T) {
	ds, err := NewDatastore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ds.Create("timestamp.json", []byte("v1")))
	require.NoError(t, ds.Create("timestamp.json", []byte("v2")))
	b, err := ds.Reader("timestamp.json")
	require.NoError(t, err)
	require.Equal(t, "v2", string(b))
}

func TestDatastoreReaderMissingFile(t *testing.T) {
	ds, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	_, err = ds.Reader("nope.json")
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestDatastoreRemove(t *testing.T) {
	ds, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ds.Create("snapshot.json", []byte("x")))
	require.NoError(t, ds.Remove("snapshot.json"))
	_, err = ds.Reader("snapshot.json")
	require.Error(t, err)
}

func TestDatastoreRemoveMissingIsNotError(t *testing.T) {
	ds, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ds.Remove("never-existed.json"))
}

func TestDatastoreReaderWrapsIOFailure(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDatastore(dir)
	require.NoError(t, err)
	require.NoError(t, ds.Create("timestamp.json", []byte("x")))

	// A directory where a file is expected fails with something other
	// than os.IsNotExist, exercising the DatastoreUnreadable path.
	require.NoError(t, os.Mkdir(dir+"/adir", 0o755))
	_, err = ds.Reader("adir")
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))

	var unreadable *DatastoreUnreadable
	require.ErrorAs(t, err, &unreadable)
}

func TestDatastoreNoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDatastore(dir)
	require.NoError(t, err)
	require.NoError(t, ds.Create("targets.json", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "targets.json", entries[0].Name())
}
