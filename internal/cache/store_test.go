package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func strptr(s string) *string { return &s }

func TestReplaceAndReadContacts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	contacts := []gateway.Contact{
		{PhoneNumber: "+15550001", FriendlyName: strptr("Alice")},
		{PhoneNumber: "+15550002"},
	}
	require.NoError(t, store.ReplaceContacts(ctx, contacts))

	got, err := store.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byPhone := map[string]*string{}
	for _, c := range got {
		byPhone[c.PhoneNumber] = c.FriendlyName
	}
	require.Contains(t, byPhone, "+15550001")
	assert.Equal(t, "Alice", *byPhone["+15550001"])
	assert.Nil(t, byPhone["+15550002"])
}

func TestReplaceContactsDropsStaleEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceContacts(ctx, []gateway.Contact{{PhoneNumber: "+15550001"}}))
	require.NoError(t, store.ReplaceContacts(ctx, []gateway.Contact{{PhoneNumber: "+15550009"}}))

	got, err := store.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "+15550009", got[0].PhoneNumber)
}

func TestSetFriendlyNameUpsertsAndClears(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Not cached yet: the edit inserts the contact.
	require.NoError(t, store.SetFriendlyName(ctx, "+15550003", strptr("Bob")))
	got, err := store.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].FriendlyName)
	assert.Equal(t, "Bob", *got[0].FriendlyName)

	require.NoError(t, store.SetFriendlyName(ctx, "+15550003", nil))
	got, err = store.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].FriendlyName)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SetFriendlyName(context.Background(), "+15550004", strptr("Carol")))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}
