package persistence

import (
	"testing"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
)

func TestMessageStore_CreateAndRetrieveRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	id, status := store.CreateRecord("hello", "lalle")
	assert.Equal(t, CREATED, status, "test failed: could not create message")
	assert.NotEmpty(t, id)

	record, status := store.RetrieveRecord(id)
	assert.Equal(t, OK, status, "test failed: could not retrieve message")
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "hello", record.Message)
	assert.NotZero(t, record.Created)
	assert.Equal(t, record.Created, record.Updated, "test failed: created and updated must match on a fresh record")

	inUserIndex, err := redis.Bool(doCommand(t, pool, "SISMEMBER", "user:lalle:messages", id), nil)
	assert.NoError(t, err)
	assert.True(t, inUserIndex, "test failed: new message must be in the per-user index")

	inGlobalIndex, err := redis.Bool(doCommand(t, pool, "SISMEMBER", "messages:all", id), nil)
	assert.NoError(t, err)
	assert.True(t, inGlobalIndex, "test failed: new message must be in the global index")
}

func TestMessageStore_RetrieveMissingRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	_, status := store.RetrieveRecord("nothing-here")
	assert.Equal(t, NOT_FOUND, status)
}

func TestMessageStore_RetrieveIncompleteRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	fields := map[string]string{
		"id": "m1",
		"message": "hi",
		"created": "100",
		"updated": "100",
	}

	for missing := range fields {
		key := "message:" + missing
		args := []interface{}{key}
		for field, value := range fields {
			if field == missing {
				continue
			}
			args = append(args, field, value)
		}
		doCommand(t, pool, "HSET", args...)

		_, status := store.RetrieveRecord(missing)
		assert.Equalf(t, CORRUPT, status, "test failed: a hash missing %s must be reported corrupt, not absent", missing)
	}
}

func TestMessageStore_RetrieveUnparseableRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	doCommand(t, pool, "HSET", "message:bad",
		"id", "bad",
		"message", "hi",
		"created", "not-a-number",
		"updated", "100")

	_, status := store.RetrieveRecord("bad")
	assert.Equal(t, CORRUPT, status, "test failed: an unparseable timestamp must be reported corrupt")
}

func TestMessageStore_RetrieveRecordsByUser(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	first, _ := store.CreateRecord("hello", "lalle")
	second, _ := store.CreateRecord("goodbye", "lalle")
	store.CreateRecord("hi there", "kalle")

	//a dangling index entry must not surface in results
	doCommand(t, pool, "SADD", "user:lalle:messages", "ghost")

	records, status := store.RetrieveRecordsBy("lalle")
	assert.Equal(t, OK, status)

	var ids []string
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	assert.ElementsMatch(t, []string{first, second}, ids)
}

func TestMessageStore_RetrieveAllRecords(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	store.CreateRecord("hello", "lalle")
	store.CreateRecord("goodbye", "lalle")
	store.CreateRecord("hi there", "kalle")

	records, status := store.RetrieveRecords()
	assert.Equal(t, OK, status)

	var bodies []string
	for _, record := range records {
		bodies = append(bodies, record.Message)
	}
	assert.ElementsMatch(t, []string{"hello", "goodbye", "hi there"}, bodies)
}

func TestMessageStore_UpdateRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	id, _ := store.CreateRecord("hello", "lalle")
	original, status := store.RetrieveRecord(id)
	assert.Equal(t, OK, status)

	assert.Equal(t, UPDATED, store.UpdateRecord(id, "goodbye"))

	updated, status := store.RetrieveRecord(id)
	assert.Equal(t, OK, status)
	assert.Equal(t, "goodbye", updated.Message)
	assert.Equal(t, original.ID, updated.ID, "test failed: update must not change the id")
	assert.Equal(t, original.Created, updated.Created, "test failed: update must not change created")
	assert.GreaterOrEqual(t, updated.Updated, original.Updated, "test failed: update must refresh the updated timestamp")
}

func TestMessageStore_UpdateMissingRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	assert.Equal(t, NOT_FOUND, store.UpdateRecord("nothing-here", "goodbye"))
}

func TestMessageStore_UpdateCorruptRecordWritesNothing(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	doCommand(t, pool, "HSET", "message:m2", "id", "m2", "message", "hi")

	assert.Equal(t, NOT_FOUND, store.UpdateRecord("m2", "goodbye"))

	body, err := redis.String(doCommand(t, pool, "HGET", "message:m2", "message"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "hi", body, "test failed: a rejected update must not write")
}

func TestMessageStore_DeleteRecord(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	id, _ := store.CreateRecord("hello", "lalle")

	assert.Equal(t, DELETED, store.DeleteRecord(id, "lalle"))

	_, status := store.RetrieveRecord(id)
	assert.Equal(t, NOT_FOUND, status)
	assert.False(t, store.RecordExists(id, "lalle"))

	inGlobalIndex, err := redis.Bool(doCommand(t, pool, "SISMEMBER", "messages:all", id), nil)
	assert.NoError(t, err)
	assert.False(t, inGlobalIndex)

	//deleting what is already gone finds nothing to remove
	assert.Equal(t, NOT_FOUND, store.DeleteRecord(id, "lalle"))
}

func TestMessageStore_DeleteLingeringIndexEntriesCountsAsSuccess(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	//hash already gone, id only lingers in the global index
	doCommand(t, pool, "SADD", "messages:all", "stale")
	assert.Equal(t, DELETED, store.DeleteRecord("stale", "lalle"))

	//hash already gone, id only lingers in a per-user index
	doCommand(t, pool, "SADD", "user:kalle:messages", "stale2")
	assert.Equal(t, DELETED, store.DeleteRecord("stale2", "kalle"))
}

func TestMessageStore_RecordExists(t *testing.T) {
	pool, _ := newTestPool(t)
	store := NewMessageStore(pool)

	id, _ := store.CreateRecord("hello", "lalle")

	assert.True(t, store.RecordExists(id, "lalle"))
	assert.False(t, store.RecordExists(id, "kalle"))

	//membership is checked against the index only, not the primary hash
	doCommand(t, pool, "DEL", "message:"+id)
	assert.True(t, store.RecordExists(id, "lalle"))
}
