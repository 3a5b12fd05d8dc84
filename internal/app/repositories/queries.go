package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/courseportal/internal/app/models"
)

// Table names
const (
	TableStudents      = "students"
	TableCourses       = "courses"
	TableRegistrations = "registrations"
)

// Queries builds the SQL shared by every backend. Only the placeholder
// format differs between dialects.
type Queries struct {
	sb squirrel.StatementBuilderType
}

// NewQueries creates a Queries using the given placeholder format
func NewQueries(format squirrel.PlaceholderFormat) Queries {
	return Queries{sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// InsertStudent builds the student insert
func (q Queries) InsertStudent(student *models.Student) (string, []interface{}, error) {
	return q.sb.Insert(TableStudents).
		Columns("rollno", "name", "password").
		Values(string(student.Rollno), student.Name, student.Password).
		ToSql()
}

// SelectStudent builds a lookup by roll number
func (q Queries) SelectStudent(rollno models.Rollno) (string, []interface{}, error) {
	return q.sb.Select("rollno", "name", "password").
		From(TableStudents).
		Where(squirrel.Eq{"rollno": string(rollno)}).
		Limit(1).
		ToSql()
}

// SelectStudentByCredentials builds a lookup matching both roll number and password
func (q Queries) SelectStudentByCredentials(rollno models.Rollno, password string) (string, []interface{}, error) {
	return q.sb.Select("rollno", "name", "password").
		From(TableStudents).
		Where(squirrel.Eq{"rollno": string(rollno), "password": password}).
		Limit(1).
		ToSql()
}

// Count builds a row count for table
func (q Queries) Count(table string) (string, []interface{}, error) {
	return q.sb.Select("COUNT(*)").From(table).ToSql()
}

// InsertCourse builds the course insert
func (q Queries) InsertCourse(course *models.Course) (string, []interface{}, error) {
	return q.sb.Insert(TableCourses).
		Columns("course_id", "course_name").
		Values(string(course.ID), course.Name).
		ToSql()
}

// SelectCourse builds a lookup by course ID
func (q Queries) SelectCourse(id models.CourseID) (string, []interface{}, error) {
	return q.sb.Select("course_id", "course_name").
		From(TableCourses).
		Where(squirrel.Eq{"course_id": string(id)}).
		Limit(1).
		ToSql()
}

// SelectCourses builds the catalog listing
func (q Queries) SelectCourses() (string, []interface{}, error) {
	return q.sb.Select("course_id", "course_name").
		From(TableCourses).
		OrderBy("course_id ASC").
		ToSql()
}

// DeleteCourseRegistrations builds the removal of every registration of a course
func (q Queries) DeleteCourseRegistrations(id models.CourseID) (string, []interface{}, error) {
	return q.sb.Delete(TableRegistrations).
		Where(squirrel.Eq{"course_id": string(id)}).
		ToSql()
}

// DeleteCourse builds the course removal
func (q Queries) DeleteCourse(id models.CourseID) (string, []interface{}, error) {
	return q.sb.Delete(TableCourses).
		Where(squirrel.Eq{"course_id": string(id)}).
		ToSql()
}

// InsertRegistration builds a single registration insert
func (q Queries) InsertRegistration(reg models.Registration) (string, []interface{}, error) {
	return q.sb.Insert(TableRegistrations).
		Columns("rollno", "course_id").
		Values(string(reg.Rollno), string(reg.CourseID)).
		ToSql()
}

// InsertRegistrationsIgnoringExisting builds one multi-row insert that
// skips pairs already registered. ids must not be empty.
func (q Queries) InsertRegistrationsIgnoringExisting(rollno models.Rollno, ids []models.CourseID) (string, []interface{}, error) {
	insert := q.sb.Insert(TableRegistrations).Columns("rollno", "course_id")
	for _, id := range ids {
		insert = insert.Values(string(rollno), string(id))
	}
	return insert.Suffix("ON CONFLICT (rollno, course_id) DO NOTHING").ToSql()
}

// SelectRegisteredCourseIDs builds the listing of a student's course IDs
func (q Queries) SelectRegisteredCourseIDs(rollno models.Rollno) (string, []interface{}, error) {
	return q.sb.Select("course_id").
		From(TableRegistrations).
		Where(squirrel.Eq{"rollno": string(rollno)}).
		OrderBy("course_id ASC").
		ToSql()
}

// SelectCoursesForStudent builds the listing of a student's courses ordered by name
func (q Queries) SelectCoursesForStudent(rollno models.Rollno) (string, []interface{}, error) {
	return q.sb.Select("c.course_id", "c.course_name").
		From(TableRegistrations + " r").
		Join(TableCourses + " c ON r.course_id = c.course_id").
		Where(squirrel.Eq{"r.rollno": string(rollno)}).
		OrderBy("c.course_name ASC", "c.course_id ASC").
		ToSql()
}

// SelectStudentSummaryRows builds the LEFT JOIN feeding SummaryBuilder
func (q Queries) SelectStudentSummaryRows() (string, []interface{}, error) {
	return q.sb.Select("s.rollno", "s.name", "r.course_id", "c.course_name").
		From(TableStudents + " s").
		LeftJoin(TableRegistrations + " r ON s.rollno = r.rollno").
		LeftJoin(TableCourses + " c ON r.course_id = c.course_id").
		OrderBy("s.name ASC", "s.rollno ASC", "c.course_name ASC").
		ToSql()
}
