package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

func CreateGrade(db *sql.DB, grade *models.Grade) error {
	query := `INSERT INTO grades (school_id, name) VALUES ($1, $2) RETURNING id, created_at`
	err := db.QueryRow(query, grade.SchoolID, grade.Name).Scan(&grade.ID, &grade.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("grade already exists")
		}
		return err
	}
	return nil
}

func GetGradesBySchool(db *sql.DB, schoolID string) ([]*models.Grade, error) {
	query := `SELECT id, school_id, name, created_at FROM grades WHERE school_id = $1 ORDER BY name`
	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		grade := &models.Grade{}
		if err := rows.Scan(&grade.ID, &grade.SchoolID, &grade.Name, &grade.CreatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (school_id, grade_id, first_name, last_name, student_no)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`
	return db.QueryRow(query,
		student.SchoolID, student.GradeID, student.FirstName, student.LastName, student.StudentNo,
	).Scan(&student.ID, &student.CreatedAt)
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	student := &models.Student{}
	query := `SELECT id, school_id, grade_id, first_name, last_name, student_no, created_at
	          FROM students WHERE id = $1`
	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.SchoolID, &student.GradeID,
		&student.FirstName, &student.LastName, &student.StudentNo, &student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func GetStudentsBySchool(db *sql.DB, schoolID string) ([]*models.Student, error) {
	query := `SELECT id, school_id, grade_id, first_name, last_name, student_no, created_at
	          FROM students WHERE school_id = $1 ORDER BY last_name, first_name`
	rows, err := db.Query(query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(
			&student.ID, &student.SchoolID, &student.GradeID,
			&student.FirstName, &student.LastName, &student.StudentNo, &student.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func CountStudents(db *sql.DB, schoolID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM students WHERE school_id = $1`, schoolID).Scan(&count)
	return count, err
}
