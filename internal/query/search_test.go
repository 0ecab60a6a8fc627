package query

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"techjobs-engine/internal/domain"
	"techjobs-engine/internal/store"
)

func fixtureDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := store.Migrate(d.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	posted := time.Now().UTC().Add(-3 * time.Hour)
	corpus := []struct {
		ext, title, desc string
	}{
		{"1", "Senior Backend Engineer", "Python and Django services on AWS."},
		{"2", "Frontend Engineer", "React and TypeScript."},
		{"3", "Data Scientist", "Pandas, PyTorch, and Python notebooks."},
	}
	for _, c := range corpus {
		j := domain.Job{
			Source:          "remotive",
			ExternalID:      c.ext,
			Title:           c.title,
			Company:         "Acme",
			WorkType:        domain.WorkRemote,
			SalaryCurrency:  "USD",
			ExperienceLevel: domain.ExpMid,
			Category:        "Software Engineering",
			Description:     c.desc,
			PostedAt:        &posted,
			ScrapedAt:       time.Now().UTC(),
			IsActive:        true,
		}
		if _, err := store.InsertJobIfNew(d.Pool, j); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := store.RebuildSearchText(d.Pool); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	return d.Pool
}

func TestResolveSearch_StrictHit(t *testing.T) {
	db := fixtureDB(t)
	expr, err := ResolveSearch(db, "backend engineer")
	if err != nil {
		t.Fatal(err)
	}
	if expr != `"backend" "engineer"` {
		t.Fatalf("expr = %q, want strict AND", expr)
	}
}

func TestResolveSearch_WidensToDomainAnd(t *testing.T) {
	db := fixtureDB(t)
	// "ninja" appears nowhere, so strict AND fails; the domain words
	// [backend, python, ninja] still fail together; OR rescues it
	expr, err := ResolveSearch(db, "backend engineer python ninja")
	if err != nil {
		t.Fatal(err)
	}
	if expr != `"backend" OR "python" OR "ninja"` {
		t.Fatalf("expr = %q, want domain OR", expr)
	}
	n, _ := store.CountActiveMatching(db, expr)
	if n != 2 {
		t.Fatalf("widened query matched %d, want 2", n)
	}
}

func TestResolveSearch_DomainAndBeforeOr(t *testing.T) {
	db := fixtureDB(t)
	// strict AND fails (no "ninja"-free combination: "python django rust"
	// never co-occur), but domain AND over [python, django] hits job 1
	expr, err := ResolveSearch(db, "senior python django")
	if err != nil {
		t.Fatal(err)
	}
	// "senior python django" all appear in job 1, so strict wins here;
	// drop to a query where a generic word blocks the strict match
	if expr != `"senior" "python" "django"` {
		t.Fatalf("expr = %q", expr)
	}

	expr, err = ResolveSearch(db, "staff python django")
	if err != nil {
		t.Fatal(err)
	}
	if expr != `"python" "django"` {
		t.Fatalf("expr = %q, want generic 'staff' dropped at phase 2", expr)
	}
}

func TestResolveSearch_AllGenericStaysStrict(t *testing.T) {
	db := fixtureDB(t)
	// every word is generic, so even with zero matches the strict
	// expression is kept and the search honestly returns nothing
	expr, err := ResolveSearch(db, "junior developer")
	if err != nil {
		t.Fatal(err)
	}
	if expr != `"junior" "developer"` {
		t.Fatalf("expr = %q, want strict AND kept", expr)
	}
	n, _ := store.CountActiveMatching(db, expr)
	if n != 0 {
		t.Fatalf("matched %d, want 0", n)
	}
}

func TestResolveSearch_Empty(t *testing.T) {
	db := fixtureDB(t)
	expr, err := ResolveSearch(db, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if expr != "" {
		t.Fatalf("expr = %q, want empty", expr)
	}
}

func TestRun_PaginationMath(t *testing.T) {
	db := fixtureDB(t)

	res, err := Run(db, Params{PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || res.TotalPages != 2 || len(res.Jobs) != 2 {
		t.Fatalf("res = total %d pages %d len %d", res.Total, res.TotalPages, len(res.Jobs))
	}

	res, err = Run(db, Params{Q: "cobol", PerPage: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 || res.TotalPages != 0 {
		t.Fatalf("empty search: total %d pages %d", res.Total, res.TotalPages)
	}
	if res.Jobs == nil {
		t.Fatal("jobs must be an empty slice, not nil")
	}
}

func TestRun_SearchWithFilters(t *testing.T) {
	db := fixtureDB(t)

	res, err := Run(db, Params{Q: "python", WorkType: domain.WorkRemote})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2 python jobs", res.Total)
	}

	res, err = Run(db, Params{Q: "python", Category: "UI/UX Design"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 {
		t.Fatalf("total = %d, want 0 for non-matching category", res.Total)
	}
}
