package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("unexpected scan arity")
	}
	ptr, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("unexpected scan target")
	}
	*ptr = r.raw
	return nil
}

type fakeDB struct {
	row      fakeRow
	execErr  error
	execSQL  string
	execArgs []any
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return f.row
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func TestLoadReturnsStoredAttributes(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{raw: []byte(`{"nome":"Ana","userId":"u-1"}`)}}
	store := NewStore(nil, db)

	attrs := store.Load(context.Background(), "5511999999999")
	assert.Equal(t, map[string]string{"nome": "Ana", "userId": "u-1"}, attrs)
}

func TestLoadAbsentSessionIsEmptyNotError(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	store := NewStore(nil, db)

	attrs := store.Load(context.Background(), "5511999999999")
	require.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

func TestLoadBackingStoreErrorIsEmptyNotPanic(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{err: errors.New("connection refused")}}
	store := NewStore(nil, db)

	attrs := store.Load(context.Background(), "5511999999999")
	require.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

func TestLoadMalformedAttributesIsEmpty(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: fakeRow{raw: []byte(`not json`)}}
	store := NewStore(nil, db)

	assert.Empty(t, store.Load(context.Background(), "u"))
}

func TestSaveUpsertsSerializedAttributes(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store := NewStore(nil, db)

	store.Save(context.Background(), "5511999999999", map[string]string{"nome": "Ana"})

	require.Len(t, db.execArgs, 2)
	assert.Equal(t, "5511999999999", db.execArgs[0])
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(db.execArgs[1].([]byte), &decoded))
	assert.Equal(t, map[string]string{"nome": "Ana"}, decoded)
	assert.Contains(t, db.execSQL, "ON CONFLICT")
}

func TestSaveSwallowsBackingStoreError(t *testing.T) {
	t.Parallel()

	db := &fakeDB{execErr: errors.New("write timeout")}
	store := NewStore(nil, db)

	// Must not panic or surface the error.
	store.Save(context.Background(), "u", map[string]string{"k": "v"})
}

func TestSaveNilAttributesWritesEmptyObject(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store := NewStore(nil, db)

	store.Save(context.Background(), "u", nil)
	require.Len(t, db.execArgs, 2)
	assert.JSONEq(t, `{}`, string(db.execArgs[1].([]byte)))
}
