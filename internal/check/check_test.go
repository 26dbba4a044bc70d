// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prereq-engine/internal/compact"
	"github.com/pdiddy/prereq-engine/internal/resolve"
	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

const scenarioText = "Prerequisite: Grade of C or better in MATH 142 and MATH 151; concurrent enrollment in CHEM 117/CSCE 677."

func leaf(dept, num string) tree.Node {
	return tree.Course(types.Lexeme{Department: dept, Number: num})
}

func mustGroup(t *testing.T, op types.Operator, children ...tree.Node) tree.Node {
	t.Helper()
	g, err := tree.NewGroup(op, children...)
	require.NoError(t, err)
	return g
}

func TestCheckBucketTree(t *testing.T) {
	tr, err := tree.FromText("ECEN 403", scenarioText)
	require.NoError(t, err)

	tests := []struct {
		name     string
		student  types.Student
		want     types.Status
		eligible bool
	}{
		{
			name:     "completed and enrolled",
			student:  types.Student{Taken: []string{"MATH142 B", "MATH151 C"}, Enrolled: []string{"CSCE677 ^"}},
			want:     types.Satisfied,
			eligible: true,
		},
		{
			name:    "D below the clause grade of C",
			student: types.Student{Taken: []string{"MATH142 B", "MATH151 D"}, Enrolled: []string{"CSCE677 ^"}},
			want:    types.Unsatisfied,
		},
		{
			name:     "concurrent course already taken",
			student:  types.Student{Taken: []string{"MATH142 A", "MATH151 A", "CHEM117 C"}},
			want:     types.Satisfied,
			eligible: true,
		},
		{
			name:    "failing grade below the clause grade",
			student: types.Student{Taken: []string{"MATH142 F", "MATH151 A", "CHEM117 C"}},
			want:    types.Unsatisfied,
		},
		{
			name:    "missing concurrent course",
			student: types.Student{Taken: []string{"MATH142 A", "MATH151 A"}},
			want:    types.Unsatisfied,
		},
		{
			name:    "prerequisite in progress",
			student: types.Student{Taken: []string{"MATH142 A", "CHEM117 B"}, Enrolled: []string{"MATH151"}},
			want:    types.Pending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(FromTree(tr), tt.student, resolve.DefaultPolicy())
			assert.Equal(t, "ECEN 403", res.Course)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.eligible, res.Eligible())
		})
	}
}

func TestBucketStatus(t *testing.T) {
	tr, err := tree.FromText("ECEN 403", scenarioText)
	require.NoError(t, err)

	res := Check(FromTree(tr), types.Student{Taken: []string{"MATH142 A", "MATH151 A"}}, resolve.DefaultPolicy())
	assert.Equal(t, types.Satisfied, res.Bucket(types.BucketPrerequisite))
	assert.Equal(t, types.Unsatisfied, res.Bucket(types.BucketConcurrent))
	assert.Equal(t, types.Satisfied, res.Bucket(types.BucketCrossListing))
	assert.Equal(t, types.Satisfied, res.Bucket(types.BucketClassification))
}

func TestVacuousRequirement(t *testing.T) {
	tr, err := tree.Parse("ECEN 403", "Approval of instructor.")
	require.NoError(t, err)
	res := Check(FromTree(tr), types.Student{}, resolve.DefaultPolicy())
	assert.True(t, res.Eligible())
	assert.Empty(t, res.Requirements)

	res = Check(FromCompact("ECEN 403", compact.Expression{}), types.Student{}, resolve.DefaultPolicy())
	assert.True(t, res.Eligible())
}

func TestGroupReorderingKeepsStatus(t *testing.T) {
	r := resolve.New(resolve.DefaultPolicy(), []string{"MATH142 A", "MATH151 C"}, []string{"PHYS206"})
	children := []tree.Node{leaf("MATH", "142"), leaf("PHYS", "206"), leaf("MATH", "151"), leaf("STAT", "211")}
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}

	for _, op := range []types.Operator{types.OpAnd, types.OpOr, types.OpNot} {
		var first types.Status
		for i, p := range perms {
			ordered := make([]tree.Node, len(p))
			for j, k := range p {
				ordered[j] = children[k]
			}
			tr := &tree.Tree{Course: "X 100", Requirements: []tree.Node{mustGroup(t, op, ordered...)}}
			got := Tree(tr, types.Student{}, r).Status
			if i == 0 {
				first = got
				continue
			}
			assert.Equal(t, first, got, "%s permutation %v", op, p)
		}
	}
}

func TestNotIsComplement(t *testing.T) {
	r := resolve.New(resolve.DefaultPolicy(), []string{"STAT211 B"}, nil)
	tests := []struct {
		name     string
		children []tree.Node
	}{
		{"one child satisfied", []tree.Node{leaf("STAT", "211"), leaf("STAT", "301")}},
		{"no child satisfied", []tree.Node{leaf("STAT", "302"), leaf("STAT", "301")}},
		{"single satisfied child", []tree.Node{leaf("STAT", "211")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			or := &tree.Tree{Requirements: []tree.Node{mustGroup(t, types.OpOr, tt.children...)}}
			not := &tree.Tree{Requirements: []tree.Node{mustGroup(t, types.OpNot, tt.children...)}}
			someSatisfied := Tree(or, types.Student{}, r).Eligible()
			assert.Equal(t, !someSatisfied, Tree(not, types.Student{}, r).Eligible())
		})
	}
}

func TestEffectiveGrade(t *testing.T) {
	tagged := mustGroup(t, types.OpAnd, leaf("MATH", "142"))
	tagged.GradeRequired = true
	tagged.MinGrade = types.GradeB

	own := tree.Course(types.Lexeme{Department: "MATH", Number: "151", MinGrade: types.GradeA})
	inner := mustGroup(t, types.OpOr, own, leaf("MATH", "171"))
	outer := mustGroup(t, types.OpAnd, inner)
	outer.GradeRequired = true
	outer.MinGrade = types.GradeC

	tr := &tree.Tree{Requirements: []tree.Node{tagged, outer, leaf("PHYS", "206")}}
	r := resolve.New(resolve.DefaultPolicy(), []string{"MATH142 B", "MATH151 B", "MATH171 C", "PHYS206 D"}, nil)
	res := Tree(tr, types.Student{}, r)

	require.Len(t, res.Requirements, 3)
	assert.Equal(t, types.GradeB, res.Requirements[0].Children[0].MinGrade)
	assert.Equal(t, types.Satisfied, res.Requirements[0].Status)

	alts := res.Requirements[1].Children[0].Children
	assert.Equal(t, types.GradeA, alts[0].MinGrade)
	assert.Equal(t, types.Unsatisfied, alts[0].Status)
	assert.Equal(t, types.GradeC, alts[1].MinGrade)
	assert.Equal(t, types.Satisfied, alts[1].Status)

	assert.Equal(t, types.GradeD, res.Requirements[2].MinGrade)
	assert.True(t, res.Eligible())
}

func TestTextDefaultGradePolicy(t *testing.T) {
	tr := &tree.Tree{Requirements: []tree.Node{leaf("PHYS", "206")}}
	student := types.Student{Taken: []string{"PHYS206 D"}}

	p := resolve.DefaultPolicy()
	assert.True(t, Check(FromTree(tr), student, p).Eligible())

	p.TextDefaultGrade = types.GradeC
	assert.False(t, Check(FromTree(tr), student, p).Eligible())
}

func TestClassificationAndExam(t *testing.T) {
	tr, err := tree.Parse("ECEN 403", "Junior or senior classification; MATH 150 or placement exam.")
	require.NoError(t, err)

	tests := []struct {
		name    string
		student types.Student
		want    bool
	}{
		{"senior who passed the exam", types.Student{Classification: "senior", ExamPassed: true}, true},
		{"junior with MATH 150", types.Student{Classification: types.Junior, Taken: []string{"MATH150 C"}}, true},
		{"sophomore", types.Student{Classification: types.Sophomore, ExamPassed: true}, false},
		{"senior without exam or course", types.Student{Classification: types.Senior}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(FromTree(tr), tt.student, resolve.DefaultPolicy()).Eligible())
		})
	}
}

func TestLiteralLeavesNeverResolve(t *testing.T) {
	tr, err := tree.FromBuckets("MATH 308", types.Buckets{
		types.BucketPrerequisite: {{Op: types.OpOr, Items: []string{"Approval"}}},
	})
	require.NoError(t, err)
	res := Check(FromTree(tr), types.Student{Taken: []string{"MATH308 A"}}, resolve.DefaultPolicy())
	assert.Equal(t, types.Unsatisfied, res.Status)
}

func TestAnnotationLeavesTreeUnchanged(t *testing.T) {
	tr, err := tree.Parse("ECEN 403", scenarioText)
	require.NoError(t, err)
	before, err := tree.Parse("ECEN 403", scenarioText)
	require.NoError(t, err)

	res := Check(FromTree(tr), types.Student{Taken: []string{"MATH142 C"}, Enrolled: []string{"CHEM117"}}, resolve.DefaultPolicy())
	assert.Equal(t, before, tr)
	require.Len(t, res.Requirements, 2)
	assert.Nil(t, res.Requirements[0].Node.Children)
	assert.Equal(t, types.Satisfied, res.Requirements[1].Status)
	assert.True(t, res.Requirements[1].Concurrent)
}

func TestPendingGroup(t *testing.T) {
	tr, err := tree.Parse("ECEN 403", "ECEN 314 and ECEN 325 or ECEN 350")
	require.NoError(t, err)
	r := resolve.New(resolve.DefaultPolicy(), []string{"ECEN314 C"}, []string{"ECEN325 C ^"})
	res := Tree(tr, types.Student{}, r)

	require.Len(t, res.Requirements, 1)
	or := res.Requirements[0]
	assert.Equal(t, types.Pending, or.Status)
	assert.Equal(t, types.Pending, or.Children[0].Status)
	assert.Equal(t, types.Pending, or.Children[0].Children[1].Status)
	assert.Equal(t, types.Unsatisfied, or.Children[1].Status)
	assert.False(t, res.Eligible())
}

func TestCheckCompact(t *testing.T) {
	expr, err := compact.Decode([]byte(`["ECEN303C","CSCE120C","ECEN449C"]`))
	require.NoError(t, err)

	res := Check(FromCompact("ECEN 403", expr), types.Student{Taken: []string{"ECEN303 C", "CSCE120 C"}}, resolve.DefaultPolicy())
	assert.False(t, res.Eligible())
	require.NotNil(t, res.Compact)
	assert.Len(t, res.Compact.Children, 3)
	assert.Equal(t, types.Satisfied, res.Bucket(types.BucketPrerequisite))

	res = Check(FromCompact("ECEN 403", expr), types.Student{
		Taken:    []string{"ECEN303 C", "CSCE120 C"},
		Enrolled: []string{"ECEN449 C ^"},
	}, resolve.DefaultPolicy())
	assert.Equal(t, types.Pending, res.Status)
	assert.False(t, res.Eligible())
}

func TestCheckCompactVerdictIsEvaluate(t *testing.T) {
	exprs := []string{
		`["COMM205C","ECEN314C","ECEN325C","CSCE350C","ECEN303C","ECEN322C","ECEN370C"]`,
		`["ECEN314C","ECEN325C","ECEN449C^"]`,
		`["ECEN303C",".","STAT211C","CHEM107C^"]`,
		`[["ECEN303C",".","STAT211C"],["ECEN449C",".","CSCE462C"], false]`,
		`[".", "ECEN314C"]`,
		`[]`,
	}
	student := types.Student{
		Taken:    []string{"COMM205 C", "ECEN314 C", "ECEN325 B", "STAT211 D"},
		Enrolled: []string{"ECEN449 C ^", "CHEM107 ^"},
	}
	for _, mode := range []types.ConcurrencyMode{types.ConcurrencyMembership, types.ConcurrencyExact} {
		p := resolve.DefaultPolicy()
		p.Concurrency = mode
		r := resolve.New(p, student.Taken, student.Enrolled)
		for _, s := range exprs {
			expr, err := compact.Decode([]byte(s))
			require.NoError(t, err)
			res := Check(FromCompact("ECEN 403", expr), student, p)
			assert.Equal(t, compact.Evaluate(expr, r), res.Eligible(), "%s %s", mode, s)
		}
	}
}

func TestRequirementVariant(t *testing.T) {
	tr := &tree.Tree{Course: "ECEN 403"}
	assert.True(t, FromTree(tr).IsTree())
	assert.Equal(t, "ECEN 403", FromTree(tr).Course())
	assert.False(t, FromCompact("ECEN 403", nil).IsTree())
}
