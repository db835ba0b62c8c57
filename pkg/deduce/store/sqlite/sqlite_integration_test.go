package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/store"
)

func openTestStore(t *testing.T) (store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "deduce.db")
	st, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, dbPath
}

func TestSQLiteLists(t *testing.T) {
	ctx := context.Background()
	st, _ := openTestStore(t)

	added, err := st.AddListItems(ctx, "placenames", []string{"Utrecht", "Ommen", "Utrecht"})
	if err != nil {
		t.Fatalf("AddListItems: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	added, err = st.AddListItems(ctx, "placenames", []string{"Utrecht", "Emmen"})
	if err != nil {
		t.Fatalf("AddListItems: %v", err)
	}
	if added != 1 {
		t.Errorf("second add = %d, want 1", added)
	}

	items, err := st.ListItems(ctx, "placenames")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if want := []string{"Emmen", "Ommen", "Utrecht"}; !reflect.DeepEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}

	removed, err := st.RemoveListItems(ctx, "placenames", []string{"Emmen", "Zwolle"})
	if err != nil {
		t.Fatalf("RemoveListItems: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if err := st.ReplaceList(ctx, "surnames", []string{"Jansen"}); err != nil {
		t.Fatalf("ReplaceList: %v", err)
	}
	if err := st.ReplaceList(ctx, "surnames", []string{"Bakker", "de Vries"}); err != nil {
		t.Fatalf("ReplaceList: %v", err)
	}
	lists, err := st.Lists(ctx)
	if err != nil {
		t.Fatalf("Lists: %v", err)
	}
	want := []store.ListInfo{{Name: "placenames", Items: 2}, {Name: "surnames", Items: 2}}
	if !reflect.DeepEqual(lists, want) {
		t.Errorf("Lists() = %v, want %v", lists, want)
	}

	if _, err := st.ListItems(ctx, "streets"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("ListItems(streets) = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRuns(t *testing.T) {
	ctx := context.Background()
	st, _ := openTestStore(t)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []store.Run{
		{DocID: "01HQ0000000000000000000001", CreatedAt: at, TagCounts: map[string]int{"locatie": 1}, Skipped: []string{}},
		{DocID: "01HQ0000000000000000000002", CreatedAt: at.Add(time.Minute),
			TagCounts: map[string]int{"patient": 2, "datum": 1}, Skipped: []string{"phone"}},
	}
	for _, r := range runs {
		if err := st.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got, err := st.GetRun(ctx, runs[1].DocID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.CreatedAt.Equal(runs[1].CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, runs[1].CreatedAt)
	}
	if !reflect.DeepEqual(got.TagCounts, runs[1].TagCounts) {
		t.Errorf("TagCounts = %v, want %v", got.TagCounts, runs[1].TagCounts)
	}
	if !reflect.DeepEqual(got.Skipped, runs[1].Skipped) {
		t.Errorf("Skipped = %v, want %v", got.Skipped, runs[1].Skipped)
	}

	// Recording again replaces the tag counts.
	runs[0].TagCounts = map[string]int{"url": 1}
	if err := st.RecordRun(ctx, runs[0]); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	got, err = st.GetRun(ctx, runs[0].DocID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !reflect.DeepEqual(got.TagCounts, map[string]int{"url": 1}) {
		t.Errorf("TagCounts after re-record = %v", got.TagCounts)
	}

	recent, err := st.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 || recent[0].DocID != runs[1].DocID {
		t.Errorf("RecentRuns = %v, want newest first", recent)
	}

	if _, err := st.GetRun(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRun(missing) = %v, want ErrNotFound", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	st, dbPath := openTestStore(t)
	if _, err := st.AddListItems(ctx, "hospitals", []string{"Antonius Ziekenhuis"}); err != nil {
		t.Fatalf("AddListItems: %v", err)
	}
	st.Close()

	reopened, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	items, err := reopened.ListItems(ctx, "hospitals")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0] != "Antonius Ziekenhuis" {
		t.Errorf("items = %v", items)
	}
}

func TestOpenSQLiteUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "deduce.db")
	if _, err := OpenSQLite(context.Background(), path); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("OpenSQLite() = %v, want ErrStoreUnavailable", err)
	}
}

func TestSQLitePruneRuns(t *testing.T) {
	ctx := context.Background()
	st, _ := openTestStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"01HM0000000000000000000001", "01HM0000000000000000000002", "01HM0000000000000000000003"} {
		run := store.Run{DocID: id, CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour), TagCounts: map[string]int{"datum": 1}}
		if err := st.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	pruned, err := st.PruneRuns(ctx, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("PruneRuns: %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}
	runs, err := st.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].DocID != "01HM0000000000000000000003" {
		t.Errorf("remaining runs = %v", runs)
	}
}
