// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"
	"strings"

	"github.com/pdiddy/prereq-engine/internal/bucket"
	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/tokenize"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// FromBuckets turns every committed bucket group into a sibling requirement
// of course, in bucket order. Groups from the Concurrent bucket may be met by
// current enrollment, and a group's minimum grade applies to its courses.
func FromBuckets(course string, buckets types.Buckets) (*Tree, error) {
	t := &Tree{Course: lexeme.Canonical(course)}
	for _, cat := range types.BucketOrder {
		for _, g := range buckets[cat] {
			children := make([]Node, 0, len(g.Items))
			for _, item := range g.Items {
				children = append(children, itemLeaf(cat, item))
			}
			n, err := NewGroup(g.Op, children...)
			if err != nil {
				return nil, fmt.Errorf("building %s group: %w", cat, err)
			}
			n.Bucket = cat
			n.Concurrent = cat == types.BucketConcurrent
			if g.MinGrade != types.GradeNone {
				n.GradeRequired = true
				n.MinGrade = g.MinGrade
			}
			t.Requirements = append(t.Requirements, n)
		}
	}
	return t, nil
}

// FromText classifies text into buckets and builds the bucket-mode tree.
func FromText(course, text string) (*Tree, error) {
	return FromBuckets(course, bucket.Parse(text))
}

// itemLeaf types a bucket item by its text. Items that are neither a
// course, the exam marker nor a standing become a leaf of the bucket's
// own kind holding the literal item.
func itemLeaf(cat types.BucketCategory, item string) Node {
	if l, ok := lexeme.ParseCourse(item); ok {
		return Course(l)
	}
	if strings.EqualFold(item, tokenize.ExamText) {
		return Exam()
	}
	if c, err := types.ParseClassification(item); err == nil {
		return Classification(c)
	}
	if cat == types.BucketClassification {
		return Node{Kind: KindClassification, Value: item}
	}
	return Node{Kind: KindCourse, Value: item}
}
