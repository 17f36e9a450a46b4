// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"

	"studyoverflow/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCourse is a permanent catalogue course.
type BuiltInCourse struct {
	Code        string
	Name        string
	Description string
}

// BuiltInUniversity is a permanent catalogue university with its courses.
type BuiltInUniversity struct {
	Name        string
	ShortName   string
	Description string
	Courses     []BuiltInCourse
}

// BuiltInCatalog is the launch catalogue.
var BuiltInCatalog = []BuiltInUniversity{
	{
		Name:        "Massachusetts Institute of Technology",
		ShortName:   "MIT",
		Description: "A world-renowned research university in Cambridge, Massachusetts.",
		Courses: []BuiltInCourse{
			{Code: "6.006", Name: "Introduction to Algorithms", Description: "Design and analysis of algorithms."},
			{Code: "6.042", Name: "Mathematics for Computer Science", Description: "Discrete mathematics for CS."},
			{Code: "6.046", Name: "Design and Analysis of Algorithms", Description: "Advanced algorithms course."},
			{Code: "18.01", Name: "Single Variable Calculus", Description: "Calculus with one variable."},
			{Code: "18.02", Name: "Multivariable Calculus", Description: "Calculus with multiple variables."},
		},
	},
	{
		Name:        "Stanford University",
		ShortName:   "Stanford",
		Description: "A private research university in Stanford, California.",
		Courses: []BuiltInCourse{
			{Code: "CS106A", Name: "Programming Methodology", Description: "Introduction to programming."},
			{Code: "CS106B", Name: "Programming Abstractions", Description: "Data structures and algorithms."},
			{Code: "CS107", Name: "Computer Organization and Systems", Description: "Systems programming."},
			{Code: "CS161", Name: "Design and Analysis of Algorithms", Description: "Algorithm design techniques."},
			{Code: "MATH51", Name: "Linear Algebra and Differential Calculus", Description: "Multivariable calculus and linear algebra."},
		},
	},
	{
		Name:        "University of California, Berkeley",
		ShortName:   "UC Berkeley",
		Description: "A public land-grant research university in Berkeley, California.",
		Courses: []BuiltInCourse{
			{Code: "CS61A", Name: "Structure and Interpretation of Computer Programs", Description: "Introduction to programming and CS."},
			{Code: "CS61B", Name: "Data Structures", Description: "Data structures and algorithms in Java."},
			{Code: "CS61C", Name: "Great Ideas in Computer Architecture", Description: "Computer architecture and systems."},
			{Code: "CS170", Name: "Efficient Algorithms and Intractable Problems", Description: "Algorithm analysis and complexity."},
			{Code: "MATH54", Name: "Linear Algebra and Differential Equations", Description: "Core mathematics for engineering."},
		},
	},
	{
		Name:        "Carnegie Mellon University",
		ShortName:   "CMU",
		Description: "A private research university in Pittsburgh, Pennsylvania.",
		Courses: []BuiltInCourse{
			{Code: "15-122", Name: "Principles of Imperative Computation", Description: "Foundations of programming."},
			{Code: "15-150", Name: "Principles of Functional Programming", Description: "Functional programming in SML."},
			{Code: "15-213", Name: "Introduction to Computer Systems", Description: "Systems programming fundamentals."},
			{Code: "15-251", Name: "Great Ideas in Theoretical Computer Science", Description: "Theoretical CS fundamentals."},
			{Code: "21-127", Name: "Concepts of Mathematics", Description: "Discrete math and proofs."},
		},
	},
}

// Catalog upserts the built-in universities and courses. It is safe to run repeatedly.
func Catalog(db *gorm.DB) error {
	for _, item := range BuiltInCatalog {
		err := db.Transaction(func(tx *gorm.DB) error {
			university := models.University{
				Name:        item.Name,
				ShortName:   item.ShortName,
				Description: item.Description,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"short_name", "description", "updated_at"}),
			}).Create(&university).Error; err != nil {
				return err
			}

			// Conflicting upserts do not always report the existing key.
			if err := tx.Where("name = ?", item.Name).First(&university).Error; err != nil {
				return err
			}

			for _, c := range item.Courses {
				course := models.Course{
					UniversityID: university.ID,
					Code:         c.Code,
					Name:         c.Name,
					Description:  c.Description,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "university_id"}, {Name: "code"}},
					DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
				}).Create(&course).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed university %q: %w", item.ShortName, err)
		}
	}
	return nil
}
