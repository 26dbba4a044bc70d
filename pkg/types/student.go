// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TranscriptRecord is a course the student has completed.
type TranscriptRecord struct {
	Department string `json:"department" yaml:"department"`
	Number     string `json:"number" yaml:"number"`

	// Grade is the earned grade; GradeNone when the entry carries none.
	Grade Grade `json:"grade,omitempty" yaml:"grade,omitempty"`
}

// EnrollmentRecord is a course the student is currently taking.
type EnrollmentRecord struct {
	Department string `json:"department" yaml:"department"`
	Number     string `json:"number" yaml:"number"`

	// Grade is the grade qualifier written on the entry, if any.
	Grade Grade `json:"grade,omitempty" yaml:"grade,omitempty"`

	// Concurrent records whether the entry carried the "^" marker.
	Concurrent bool `json:"concurrent" yaml:"concurrent"`
}

// Student is the on-disk student record: raw transcript and enrollment
// entries in the "DEPTNUM GRADE" and "DEPTNUM [GRADE] ^" forms, plus the
// attributes classification and exam leaves resolve against.
type Student struct {
	// Taken lists completed courses, e.g. "ECEN314 C".
	Taken []string `json:"taken" yaml:"taken"`

	// Enrolled lists in-progress courses, e.g. "ECEN449 C ^".
	Enrolled []string `json:"enrolled" yaml:"enrolled"`

	// Classification is the student's standing: Freshman through Senior.
	Classification Classification `json:"classification,omitempty" yaml:"classification,omitempty"`

	// ExamPassed records whether the student has passed the placement exam.
	ExamPassed bool `json:"exam_passed,omitempty" yaml:"exam_passed,omitempty"`
}
