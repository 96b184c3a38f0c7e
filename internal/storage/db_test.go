package storage

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		err := db.Put([]byte("key1"), []byte("value1"))
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetNonexistent", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() missing key error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))

		ok, err := db.Has([]byte("exists"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if !ok {
			t.Error("Has() = false for existing key")
		}

		ok, err = db.Has([]byte("missing"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if ok {
			t.Error("Has() = true for missing key")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))

		val, err := db.Get([]byte("ow"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() after overwrite = %q, want %q", val, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("del"), []byte("value"))

		err := db.Delete([]byte("del"))
		if err != nil {
			t.Fatalf("Delete() error: %v", err)
		}

		ok, _ := db.Has([]byte("del"))
		if ok {
			t.Error("key should be gone after Delete()")
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		err := db.Put([]byte("empty"), []byte{})
		if err != nil {
			t.Fatalf("Put() empty value error: %v", err)
		}

		val, err := db.Get([]byte("empty"))
		if err != nil {
			t.Fatalf("Get() empty value error: %v", err)
		}
		if len(val) != 0 {
			t.Errorf("expected empty value, got %d bytes", len(val))
		}
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		db.Put([]byte("scan/c"), []byte("3"))
		db.Put([]byte("scan/a"), []byte("1"))
		db.Put([]byte("scan/b"), []byte("2"))
		db.Put([]byte("other/x"), []byte("4"))

		var keys []string
		err := db.ForEach([]byte("scan/"), func(key, value []byte) error {
			keys = append(keys, string(key))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		want := []string{"scan/a", "scan/b", "scan/c"}
		if len(keys) != len(want) {
			t.Fatalf("ForEach() keys = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("ForEach() key[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
	})

	t.Run("BatchCommit", func(t *testing.T) {
		batcher, ok := db.(Batcher)
		if !ok {
			t.Skip("DB does not support batches")
		}

		batch := batcher.NewBatch()
		for i := 0; i < 3; i++ {
			key := fmt.Sprintf("batch/%d", i)
			if err := batch.Put([]byte(key), []byte{byte(i)}); err != nil {
				t.Fatalf("batch Put() error: %v", err)
			}
		}

		// Nothing visible before commit.
		if ok, _ := db.Has([]byte("batch/0")); ok {
			t.Error("batch write visible before Commit()")
		}

		if err := batch.Commit(); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		for i := 0; i < 3; i++ {
			key := fmt.Sprintf("batch/%d", i)
			if ok, _ := db.Has([]byte(key)); !ok {
				t.Errorf("key %q missing after Commit()", key)
			}
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB_Persistence(t *testing.T) {
	dir := t.TempDir()

	// Write data.
	db1, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	db1.Put([]byte("persist"), []byte("data"))
	db1.Close()

	// Reopen and read.
	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()

	val, err := db2.Get([]byte("persist"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if !bytes.Equal(val, []byte("data")) {
		t.Errorf("persisted value = %q, want %q", val, "data")
	}
}

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	a.Put([]byte("key"), []byte("from-a"))
	b.Put([]byte("key"), []byte("from-b"))

	got, err := a.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(got, []byte("from-a")) {
		t.Errorf("a value = %q, want %q", got, "from-a")
	}

	var keys []string
	err = a.ForEach(nil, func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "key" {
		t.Errorf("a keys = %v, want [key]", keys)
	}
}

func TestPrefixDB_BatchDelegation(t *testing.T) {
	inner := NewMemory()
	p := NewPrefixDB(inner, []byte("ns/"))

	batch := p.NewBatch()
	batch.Put([]byte("k"), []byte("v"))
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	got, err := inner.Get([]byte("ns/k"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("inner value = %q, want %q", got, "v")
	}
}
