package system

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/daydicated/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := newTestContext(t, tempDB(t), true)
	addUser(t, ctx, "u1", "ana@example.com")
	key := models.EntryKey("u1", "2026-03-01")
	writeEntry(t, ctx, key, models.Entry{ID: key, OwnerID: "u1", Date: "2026-03-01", Rating: 3})

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create(context.Background()); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on a healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Database reachable: OK", "✓ Schema version: OK", "✓ Backups present: OK", "✓ Entry integrity: OK", "All checks passed."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_MissingBackupsIsWarning(t *testing.T) {
	ctx, out := newTestContext(t, tempDB(t), true)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("missing backups should not fail doctor: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning:\n%s", out.String())
	}
}

func TestDoctorCmd_BadEntries(t *testing.T) {
	ctx, out := newTestContext(t, tempDB(t), true)
	addUser(t, ctx, "u1", "ana@example.com")
	writeEntry(t, ctx, "u1_2026-04-01", models.Entry{ID: "u1_2026-04-01", OwnerID: "u1", Date: "2026-04-01", Rating: 9})

	err := (&DoctorCmd{}).Run(ctx)
	if err == nil {
		t.Fatal("expected doctor to fail on an out-of-range rating")
	}
	if !strings.Contains(out.String(), "❌ Entry integrity: FAIL") || !strings.Contains(out.String(), "rating 9") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDoctorCmd_UnreachableDatabase(t *testing.T) {
	ctx, out := newTestContext(t, tempDB(t), false)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail without a database")
	}
	for _, want := range []string{"❌ Database reachable: FAIL", "⊘ Schema version: SKIPPED", "⊘ Entry integrity: SKIPPED"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestEntryProblems(t *testing.T) {
	known := map[string]bool{"u1": true}

	tests := []struct {
		name  string
		entry models.Entry
		want  []string
	}{
		{
			name:  "valid",
			entry: models.Entry{ID: "u1_2026-05-05", OwnerID: "u1", Date: "2026-05-05", Rating: 4},
		},
		{
			name:  "rating too low",
			entry: models.Entry{ID: "u1_2026-05-05", OwnerID: "u1", Date: "2026-05-05", Rating: 0},
			want:  []string{"rating 0"},
		},
		{
			name:  "wrong year",
			entry: models.Entry{ID: "u1_2025-05-05", OwnerID: "u1", Date: "2025-05-05", Rating: 2},
			want:  []string{"outside 2026"},
		},
		{
			name:  "mismatched key",
			entry: models.Entry{ID: "u1_2026-05-06", OwnerID: "u1", Date: "2026-05-05", Rating: 2},
			want:  []string{"should be keyed u1_2026-05-05"},
		},
		{
			name:  "unknown owner",
			entry: models.Entry{ID: "u9_2026-05-05", OwnerID: "u9", Date: "2026-05-05", Rating: 2},
			want:  []string{"unknown user u9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryProblems(tt.entry, known)
			if len(got) != len(tt.want) {
				t.Fatalf("entryProblems = %v, want %d problems", got, len(tt.want))
			}
			for i, w := range tt.want {
				if !strings.Contains(got[i], w) {
					t.Errorf("problem %d = %q, want it to mention %q", i, got[i], w)
				}
			}
		})
	}
}
