package cascade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var none primitive.ObjectID

func newEngine(t *testing.T) (*cascade.Engine, *docstore.MemStore, *testutil.Fixtures) {
	t.Helper()
	ds := testutil.SetupTestDB(t)
	return cascade.New(ds, zap.NewNop(), nil), ds, testutil.NewFixtures(t, ds)
}

// total counts every document in every collection.
func total(f *testutil.Fixtures) int64 {
	var n int64
	for _, c := range []string{
		models.CollInstitutes, models.CollBranches, models.CollLevels, models.CollBatches,
		models.CollCategories, models.CollActivities, models.CollVideos, models.CollUsers,
	} {
		n += f.Count(c, nil)
	}
	return n
}

func TestDelete_LevelClosure(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const N, A, V, M = 3, 4, 2, 2
	level := f.CreateLevel("Grade 1")
	for i := 0; i < N; i++ {
		cat := f.CreateCategory("cat", level.ID)
		for j := 0; j < A; j++ {
			f.CreateActivity("act", cat.ID)
		}
		for j := 0; j < V; j++ {
			f.CreateVideo("https://videos.example.com/v", cat.ID)
		}
	}
	inst := f.CreateInstitute("SUNRISE")
	var batches []models.Batch
	for i := 0; i < M; i++ {
		batches = append(batches, f.CreateBatch("b", level.ID, none, inst.ID))
	}
	// Students of the level's batches stay.
	parent := f.CreateParent("P", "9876543210")
	student := f.CreateStudent("S", parent.ID, batches[0].ID, none, inst.ID)

	// Unrelated level with its own tree.
	other := f.CreateLevel("Grade 2")
	otherCat := f.CreateCategory("other", other.ID)
	f.CreateActivity("other", otherCat.ID)
	f.CreateVideo("https://videos.example.com/o", otherCat.ID)
	otherBatch := f.CreateBatch("ob", other.ID, none, inst.ID)

	before := total(f)
	rep, err := eng.Delete(ctx, cascade.Level, level.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := map[string]int64{
		models.CollLevels:     1,
		models.CollCategories: N,
		models.CollActivities: N * A,
		models.CollVideos:     N * V,
		models.CollBatches:    M,
	}
	for coll, n := range want {
		if rep.Deleted[coll] != n {
			t.Errorf("Deleted[%s] = %d, want %d", coll, rep.Deleted[coll], n)
		}
	}
	if len(rep.Deleted) != len(want) {
		t.Errorf("report touched unexpected collections: %v", rep.Deleted)
	}
	if after := total(f); before-after != 1+N+N*A+N*V+M {
		t.Errorf("removed %d documents, want %d", before-after, 1+N+N*A+N*V+M)
	}
	if rep.Total() != 1+N+N*A+N*V+M {
		t.Errorf("Total() = %d", rep.Total())
	}

	if f.Exists(models.CollLevels, level.ID) {
		t.Error("level still present")
	}
	for _, keep := range []struct {
		coll string
		key  any
	}{
		{models.CollLevels, other.ID},
		{models.CollCategories, otherCat.ID},
		{models.CollBatches, otherBatch.ID},
		{models.CollUsers, student.ID},
		{models.CollInstitutes, inst.ID},
	} {
		if !f.Exists(keep.coll, keep.key) {
			t.Errorf("%s %v was removed", keep.coll, keep.key)
		}
	}
}

func TestDelete_InstituteClosure(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := f.CreateInstitute("ACME")
	level := f.CreateLevel("L")
	branch := f.CreateBranch("North", inst.ID)
	viaBranch := f.CreateBatch("b1", level.ID, branch.ID, none)
	viaInstitute := f.CreateBatch("b2", level.ID, none, inst.ID)
	parent := f.CreateParent("P", "9876543210")
	s1 := f.CreateStudent("S1", parent.ID, viaBranch.ID, none, none)
	s2 := f.CreateStudent("S2", parent.ID, viaInstitute.ID, none, none)
	s3 := f.CreateStudent("S3", parent.ID, none, branch.ID, none)
	s4 := f.CreateStudent("S4", parent.ID, none, none, inst.ID)
	// Reachable by two paths; deleted once.
	s5 := f.CreateStudent("S5", parent.ID, viaBranch.ID, branch.ID, inst.ID)

	otherInst := f.CreateInstitute("OTHER")
	otherBranch := f.CreateBranch("South", otherInst.ID)
	outsider := f.CreateStudent("X", parent.ID, none, otherBranch.ID, otherInst.ID)

	rep, err := eng.Delete(ctx, cascade.Institute, inst.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rep.Deleted[models.CollUsers] != 5 {
		t.Errorf("Deleted[users] = %d, want 5", rep.Deleted[models.CollUsers])
	}
	if rep.Deleted[models.CollBatches] != 2 || rep.Deleted[models.CollBranches] != 1 {
		t.Errorf("report = %v", rep.Deleted)
	}
	for _, u := range []models.User{s1, s2, s3, s4, s5} {
		if f.Exists(models.CollUsers, u.ID) {
			t.Errorf("student %s survived", u.Name)
		}
	}
	for _, keep := range []struct {
		coll string
		key  any
	}{
		{models.CollUsers, outsider.ID},
		{models.CollUsers, parent.ID},
		{models.CollBranches, otherBranch.ID},
		{models.CollInstitutes, otherInst.ID},
		{models.CollLevels, level.ID},
	} {
		if !f.Exists(keep.coll, keep.key) {
			t.Errorf("%s %v was removed", keep.coll, keep.key)
		}
	}
}

func TestDelete_BranchMatchesStoredForeignKeys(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := f.CreateInstitute("ACME")
	branch := f.CreateBranch("North", inst.ID)
	sibling := f.CreateBranch("South", inst.ID)
	mine := f.CreateBatch("mine", none, branch.ID, inst.ID)
	theirs := f.CreateBatch("theirs", none, sibling.ID, inst.ID)
	inBatch := f.CreateStudent("A", "", mine.ID, sibling.ID, inst.ID)
	onBranch := f.CreateStudent("B", "", theirs.ID, branch.ID, inst.ID)
	untouched := f.CreateStudent("C", "", theirs.ID, sibling.ID, inst.ID)

	rep, err := eng.Delete(ctx, cascade.Branch, branch.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rep.Deleted[models.CollBatches] != 1 || rep.Deleted[models.CollUsers] != 2 {
		t.Errorf("report = %v", rep.Deleted)
	}
	if f.Exists(models.CollUsers, inBatch.ID) || f.Exists(models.CollUsers, onBranch.ID) {
		t.Error("branch students survived")
	}
	if !f.Exists(models.CollUsers, untouched.ID) || !f.Exists(models.CollBatches, theirs.ID) {
		t.Error("sibling branch data was removed")
	}
	if !f.Exists(models.CollInstitutes, inst.ID) {
		t.Error("institute was removed")
	}
}

func TestDelete_BatchAndParent(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	batch := f.CreateBatch("b", none, none, none)
	p1 := f.CreateParent("P1", "9000000001")
	p2 := f.CreateParent("P2", "9000000002")
	a := f.CreateStudent("A", p1.ID, batch.ID, none, none)
	b := f.CreateStudent("B", p1.ID, none, none, none)
	c := f.CreateStudent("C", p2.ID, none, none, none)

	rep, err := eng.Delete(ctx, cascade.Parent, p1.ID)
	if err != nil {
		t.Fatalf("Delete(parent) failed: %v", err)
	}
	if rep.Deleted[models.CollUsers] != 3 {
		t.Errorf("Deleted[users] = %d, want 3 (parent and two students)", rep.Deleted[models.CollUsers])
	}
	if f.Exists(models.CollUsers, a.ID) || f.Exists(models.CollUsers, b.ID) {
		t.Error("parent's students survived")
	}
	if !f.Exists(models.CollUsers, c.ID) {
		t.Error("other parent's student removed")
	}

	if _, err := eng.Delete(ctx, cascade.Parent, c.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Delete(parent) on a student: got %v, want NotFound", err)
	}

	rep, err = eng.Delete(ctx, cascade.Batch, batch.ID)
	if err != nil {
		t.Fatalf("Delete(batch) failed: %v", err)
	}
	if rep.Deleted[models.CollBatches] != 1 || rep.Deleted[models.CollUsers] != 0 {
		t.Errorf("report = %v", rep.Deleted)
	}
}

func TestDelete_NoOpCascade(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	level := f.CreateLevel("L")
	cat := f.CreateCategory("empty", level.ID)

	rep, err := eng.Delete(ctx, cascade.Category, cat.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rep.Total() != 1 || rep.Deleted[models.CollCategories] != 1 {
		t.Errorf("report = %v, want only the category", rep.Deleted)
	}
	if f.Exists(models.CollCategories, cat.ID) {
		t.Error("category still present")
	}
}

func TestDelete_NotFoundMutatesNothing(t *testing.T) {
	roots := []struct {
		kind cascade.RootKind
		key  any
	}{
		{cascade.Institute, primitive.NewObjectID()},
		{cascade.Level, primitive.NewObjectID()},
		{cascade.Branch, primitive.NewObjectID()},
		{cascade.Batch, primitive.NewObjectID()},
		{cascade.Category, primitive.NewObjectID()},
		{cascade.Parent, "PAR_0000000000000000000"},
	}
	for _, r := range roots {
		t.Run(string(r.kind), func(t *testing.T) {
			eng, ds, f := newEngine(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			// Orphans that would match the missing key must stay.
			level := f.CreateLevel("L")
			f.CreateCategory("c", level.ID)
			start := ds.Mutations()

			_, err := eng.Delete(ctx, r.kind, r.key)
			if !apperr.Is(err, apperr.KindNotFound) {
				t.Fatalf("got %v, want NotFound", err)
			}
			if ds.Mutations() != start {
				t.Errorf("store mutated %d times", ds.Mutations()-start)
			}
		})
	}
}

func TestDelete_IdempotentReDelete(t *testing.T) {
	eng, _, f := newEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	level := f.CreateLevel("L")
	if _, err := eng.Delete(ctx, cascade.Level, level.ID); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if _, err := eng.Delete(ctx, cascade.Level, level.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second Delete: got %v, want NotFound", err)
	}
}

func TestDelete_AtomicOnMidCascadeFailure(t *testing.T) {
	injected := errors.New("injected write failure")

	tests := []struct {
		name   string
		kind   cascade.RootKind
		failOn docstore.Op
		coll   string
	}{
		{"institute fails on users", cascade.Institute, docstore.OpDeleteMany, models.CollUsers},
		{"institute fails on root", cascade.Institute, docstore.OpDelete, models.CollInstitutes},
		{"level fails on videos", cascade.Level, docstore.OpDeleteMany, models.CollVideos},
		{"level fails on batches", cascade.Level, docstore.OpDeleteMany, models.CollBatches},
		{"branch fails on batches", cascade.Branch, docstore.OpDeleteMany, models.CollBatches},
		{"batch fails on root", cascade.Batch, docstore.OpDelete, models.CollBatches},
		{"category fails on activities", cascade.Category, docstore.OpDeleteMany, models.CollActivities},
		{"parent fails on lookup", cascade.Parent, docstore.OpFind, models.CollUsers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, ds, f := newEngine(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			inst := f.CreateInstitute("ACME")
			level := f.CreateLevel("L")
			branch := f.CreateBranch("North", inst.ID)
			batch := f.CreateBatch("b", level.ID, branch.ID, inst.ID)
			cat := f.CreateCategory("c", level.ID)
			f.CreateActivity("a", cat.ID)
			f.CreateVideo("https://videos.example.com/v", cat.ID)
			parent := f.CreateParent("P", "9876543210")
			f.CreateStudent("S", parent.ID, batch.ID, branch.ID, inst.ID)

			keys := map[cascade.RootKind]any{
				cascade.Institute: inst.ID,
				cascade.Level:     level.ID,
				cascade.Branch:    branch.ID,
				cascade.Batch:     batch.ID,
				cascade.Category:  cat.ID,
				cascade.Parent:    parent.ID,
			}
			before := total(f)

			ds.SetFault(docstore.FailOn(tt.failOn, tt.coll, injected))
			_, err := eng.Delete(ctx, tt.kind, keys[tt.kind])
			ds.SetFault(nil)

			if !apperr.Is(err, apperr.KindTransactionFailure) {
				t.Fatalf("got %v, want TransactionFailure", err)
			}
			if !errors.Is(err, injected) {
				t.Errorf("cause not wrapped: %v", err)
			}
			if after := total(f); after != before {
				t.Errorf("partial cascade visible: %d documents before, %d after", before, after)
			}
			if !f.Exists(tt.kind.Collection(), keys[tt.kind]) {
				t.Error("root removed despite abort")
			}
		})
	}
}

func TestDelete_UnknownKind(t *testing.T) {
	eng, _, _ := newEngine(t)
	_, err := eng.Delete(context.Background(), cascade.RootKind("video"), primitive.NewObjectID())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("got %v, want Validation", err)
	}
	if cascade.RootKind("video").Valid() || !cascade.Level.Valid() {
		t.Error("Valid() disagrees with the rule set")
	}
}

func TestDelete_Metrics(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	reg := prometheus.NewRegistry()
	m := cascade.NewMetrics(reg)
	eng := cascade.New(ds, zap.NewNop(), m)
	f := testutil.NewFixtures(t, ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	level := f.CreateLevel("L")
	f.CreateCategory("c", level.ID)
	if _, err := eng.Delete(ctx, cascade.Level, level.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, _ = eng.Delete(ctx, cascade.Level, level.ID)

	count, err := promtest.GatherAndCount(reg, "edutrack_cascade_runs_total")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("runs_total series = %d, want 2 (committed, not_found)", count)
	}
	if got := promtest.ToFloat64(m.Deleted(models.CollCategories)); got != 1 {
		t.Errorf("deleted categories = %v, want 1", got)
	}
}
