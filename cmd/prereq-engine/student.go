// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prereq-engine/internal/student"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Maintain the student record",
	Long: `Student reads and updates the student record file: the completed
courses ("ECEN314 C"), the in-progress courses ("ECEN449 C ^"), the
classification, and the placement exam flag.`,
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add completed or in-progress courses",
	RunE:  runStudentAdd,
}

func runStudentAdd(cmd *cobra.Command, args []string) error {
	taken, _ := cmd.Flags().GetStringSlice("taken")
	enrolled, _ := cmd.Flags().GetStringSlice("enrolled")
	standing, _ := cmd.Flags().GetString("classification")
	if len(taken)+len(enrolled) == 0 && standing == "" && !cmd.Flags().Changed("exam-passed") {
		return fmt.Errorf("nothing to add: use --taken, --enrolled, --classification or --exam-passed")
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	s, err := student.Load(cfg.StudentPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		fmt.Fprintf(os.Stderr, "creating %s\n", cfg.StudentPath)
		s = types.Student{}
	}

	addedTaken, err := student.AddTaken(&s, taken...)
	if err != nil {
		return err
	}
	addedEnrolled, err := student.AddEnrolled(&s, enrolled...)
	if err != nil {
		return err
	}
	if standing != "" {
		c, err := types.ParseClassification(standing)
		if err != nil {
			return err
		}
		s.Classification = c
	}
	if cmd.Flags().Changed("exam-passed") {
		s.ExamPassed, _ = cmd.Flags().GetBool("exam-passed")
	}

	if err := student.Save(cfg.StudentPath, s); err != nil {
		return err
	}
	if len(addedTaken) > 0 {
		fmt.Printf("Added taken: %s\n", strings.Join(addedTaken, ", "))
	}
	if len(addedEnrolled) > 0 {
		fmt.Printf("Added enrolled: %s\n", strings.Join(addedEnrolled, ", "))
	}
	return nil
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the student record",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		s, err := student.Load(cfg.StudentPath)
		if err != nil {
			return err
		}
		if format != "text" && format != "" {
			return writeStructured(os.Stdout, format, s)
		}

		if s.Classification != "" {
			fmt.Printf("Classification: %s\n", s.Classification)
		}
		fmt.Printf("Placement exam passed: %t\n", s.ExamPassed)
		fmt.Println("\nCourses Taken:")
		for _, c := range s.Taken {
			fmt.Printf("  - %s\n", c)
		}
		fmt.Println("\nCurrently Enrolled:")
		for _, c := range s.Enrolled {
			fmt.Printf("  - %s\n", c)
		}
		return nil
	},
}

func init() {
	studentAddCmd.Flags().StringSlice("taken", nil, "completed courses, e.g. \"ECEN314 C\"")
	studentAddCmd.Flags().StringSlice("enrolled", nil, "in-progress courses, e.g. \"ECEN449 C ^\"")
	studentAddCmd.Flags().String("classification", "", "Freshman, Sophomore, Junior or Senior")
	studentAddCmd.Flags().Bool("exam-passed", false, "record the placement exam result")

	studentListCmd.Flags().String("format", "text", "output format: text, json or yaml")

	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentListCmd)

	rootCmd.AddCommand(studentCmd)
}
